package worker

import "context"

// resolveOperations runs consensus on the configured interval.
func (w *Worker) resolveOperations() {
	w.evHandler("worker: resolveOperations: G started")
	defer w.evHandler("worker: resolveOperations: G completed")

	for {
		select {
		case <-w.ticker.C:
			if !w.isShutdown() {
				w.runResolveOperation()
			}
		case <-w.shut:
			w.evHandler("worker: resolveOperations: received shut signal")
			return
		}
	}
}

// runResolveOperation asks the known peers for their chains and adopts the
// longest valid one.
func (w *Worker) runResolveOperation() {
	w.evHandler("worker: runResolveOperation: started")
	defer w.evHandler("worker: runResolveOperation: completed")

	ctx, cancel := w.shutdownContext(context.Background())
	defer cancel()

	if w.state.ResolveConflicts(ctx) {
		w.evHandler("worker: runResolveOperation: chain replaced")
	}
}

package worker

import (
	"context"
	"errors"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
)

// miningRequest asks the mining goroutine to mine the next block.
type miningRequest struct {
	ctx    context.Context
	result chan miningResult
}

// miningResult is the outcome of a mining request.
type miningResult struct {
	block database.Block
	err   error
}

// =============================================================================

// miningOperations handles mining. Requests are processed one at a time.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		select {
		case req := <-w.mining:
			if !w.isShutdown() {
				w.runMiningOperation(req)
				continue
			}
			req.result <- miningResult{err: ErrShutdown}
		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			return
		}
	}
}

// runMiningOperation performs the proof of work for the next block and
// appends it to the chain. The work is cancelled if the requester goes
// away or the worker is shut down.
func (w *Worker) runMiningOperation(req miningRequest) {
	w.evHandler("worker: runMiningOperation: MINING: started")
	defer w.evHandler("worker: runMiningOperation: MINING: completed")

	ctx, cancel := w.shutdownContext(req.ctx)
	defer cancel()

	t := time.Now()
	block, err := w.state.MineNewBlock(ctx)
	duration := time.Since(t)

	w.evHandler("worker: runMiningOperation: MINING: mining duration[%v]", duration)

	if err != nil {
		switch {
		case errors.Is(err, state.ErrChainChanged):
			w.evHandler("worker: runMiningOperation: MINING: WARNING: chain changed during mining")
		case ctx.Err() != nil:
			w.evHandler("worker: runMiningOperation: MINING: CANCEL: complete")
			if w.isShutdown() {
				err = ErrShutdown
			}
		default:
			w.evHandler("worker: runMiningOperation: MINING: ERROR: %s", err)
		}
	}

	req.result <- miningResult{block: block, err: err}
}

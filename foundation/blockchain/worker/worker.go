// Package worker implements mining and consensus operations for the
// blockchain.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
)

// ErrShutdown is returned when mining is requested from a worker that is
// shutting down.
var ErrShutdown = errors.New("worker is shutting down")

// =============================================================================

// Worker manages the POW workflows for the blockchain.
type Worker struct {
	state     *state.State
	wg        sync.WaitGroup
	ticker    *time.Ticker
	shut      chan struct{}
	shutOnce  sync.Once
	mining    chan miningRequest
	evHandler state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes. When resolveInterval is greater
// than zero, consensus is run against the known peers on that interval.
func Run(st *state.State, resolveInterval time.Duration, evHandler state.EventHandler) *Worker {
	if evHandler == nil {
		evHandler = func(v string, args ...any) {}
	}

	w := Worker{
		state:     st,
		shut:      make(chan struct{}),
		mining:    make(chan miningRequest),
		evHandler: evHandler,
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Load the set of operations we need to run.
	operations := []func(){
		w.miningOperations,
	}

	if resolveInterval > 0 {
		w.ticker = time.NewTicker(resolveInterval)
		operations = append(operations, w.resolveOperations)
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}

	return &w
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutines performing work. Any mining operation
// in progress is cancelled.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	if w.ticker != nil {
		w.evHandler("worker: shutdown: stop ticker")
		w.ticker.Stop()
	}

	w.evHandler("worker: shutdown: terminate goroutines")
	w.shutOnce.Do(func() { close(w.shut) })
	w.wg.Wait()
}

// Mine hands a mining request to the mining goroutine and waits for the
// mined block. The request is abandoned if the context is done first.
func (w *Worker) Mine(ctx context.Context) (database.Block, error) {
	req := miningRequest{
		ctx:    ctx,
		result: make(chan miningResult, 1),
	}

	select {
	case w.mining <- req:
		w.evHandler("worker: Mine: mining signaled")
	case <-ctx.Done():
		return database.Block{}, ctx.Err()
	case <-w.shut:
		return database.Block{}, ErrShutdown
	}

	select {
	case res := <-req.result:
		return res.block, res.err
	case <-ctx.Done():
		return database.Block{}, ctx.Err()
	}
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}

// shutdownContext returns a context that is cancelled when the parent is
// done or the worker is shut down.
func (w *Worker) shutdownContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		select {
		case <-w.shut:
			w.evHandler("worker: CANCEL: shutdown requested")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

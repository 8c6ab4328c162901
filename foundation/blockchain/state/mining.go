package state

import (
	"context"
	"errors"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Set of errors returned by mining.
var (
	ErrChainChanged = errors.New("chain changed while mining, block discarded")
	ErrNoWorker     = errors.New("no worker registered to perform mining")
)

// =============================================================================

// Mine asks the registered worker to mine the next block. The proof of work
// runs on the worker's goroutine.
func (s *State) Mine(ctx context.Context) (database.Block, error) {
	if s.Worker == nil {
		return database.Block{}, ErrNoWorker
	}

	return s.Worker.Mine(ctx)
}

// MineNewBlock performs the proof of work against the latest block and then
// appends a new block holding the mempool and the mining reward. The search
// runs without holding the lock. If the chain changed during the search the
// block is discarded and ErrChainChanged is returned.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	s.evHandler("state: MineNewBlock: MINING: started")
	defer s.evHandler("state: MineNewBlock: MINING: completed")

	prevBlock := s.RetrieveLatestBlock()

	s.evHandler("state: MineNewBlock: MINING: perform POW: blk[%d]: proof[%d]", prevBlock.Index, prevBlock.Proof)

	proof, err := database.FindProof(ctx, prevBlock.Proof, s.evHandler)
	if err != nil {
		return database.Block{}, err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return database.Block{}, ctx.Err()
	}

	prevHash := prevBlock.Hash()

	s.mu.Lock()
	defer s.mu.Unlock()

	// The proof only solves the puzzle for the block it was mined against.
	if latest := s.chain[len(s.chain)-1]; latest.Hash() != prevHash {
		s.evHandler("state: MineNewBlock: MINING: WARNING: chain changed: mined on blk[%d], latest blk[%d]", prevBlock.Index, latest.Index)
		return database.Block{}, ErrChainChanged
	}

	s.evHandler("state: MineNewBlock: MINING: reward node[%s]", s.nodeID)

	s.mempool.Add(database.NewRewardTx(s.nodeID))

	return s.appendBlock(proof, prevHash), nil
}

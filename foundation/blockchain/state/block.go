package state

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// AppendBlock drains the mempool into a new block and adds it to the chain.
// When prevHash is empty the hash of the latest block is used.
func (s *State) AppendBlock(proof uint64, prevHash string) database.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.appendBlock(proof, prevHash)
}

// =============================================================================

// appendBlock performs the append. The caller must hold the lock so the
// drain and the append happen as one step.
func (s *State) appendBlock(proof uint64, prevHash string) database.Block {
	if prevHash == "" {
		prevHash = s.chain[len(s.chain)-1].Hash()
	}

	block := database.NewBlock(len(s.chain), time.Now(), s.mempool.Drain(), proof, prevHash)
	s.chain = append(s.chain, block)

	s.evHandler("state: appendBlock: blk[%d]: hash[%s]: numTrans[%d]", block.Index, block.Hash(), len(block.Trans))
	s.blockEvent(block)

	return block
}

// blockEvent provides a specific event about a new block in the chain for
// application specific support.
func (s *State) blockEvent(block database.Block) {
	blockJSON, err := json.Marshal(block)
	if err != nil {
		blockJSON = []byte(fmt.Sprintf("%q", err.Error()))
	}

	s.evHandler(`viewer: block: {"hash":%q,"block":%s}`, block.Hash(), string(blockJSON))
}

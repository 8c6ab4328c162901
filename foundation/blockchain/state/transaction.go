package state

import "github.com/ardanlabs/ledger/foundation/blockchain/database"

// SubmitTransaction adds the transaction to the mempool and returns the index
// of the block that will hold it.
func (s *State) SubmitTransaction(tx database.Tx) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.mempool.Add(tx)
	index := s.chain[len(s.chain)-1].Index + 1

	s.evHandler("state: SubmitTransaction: tx[%s]: block[%d]: mempool[%d]", tx, index, n)

	return index
}

package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// RetrieveNodeID returns the identifier that receives mining rewards.
func (s *State) RetrieveNodeID() string {
	return s.nodeID
}

// RetrieveLatestBlock returns a copy of the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chain[len(s.chain)-1].Clone()
}

// RetrieveChain returns a copy of the chain. Changes made to the returned
// blocks are not seen by the ledger.
func (s *State) RetrieveChain() []database.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneChain(s.chain)
}

// RetrieveChainLength returns the number of blocks in the chain.
func (s *State) RetrieveChainLength() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.chain)
}

// RetrieveMempool returns a copy of the mempool.
func (s *State) RetrieveMempool() []database.Tx {
	return s.mempool.Copy()
}

// RetrieveKnownPeers retrieves a copy of the known peer list.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}

// RetrieveKnownHosts retrieves the sorted list of registered hosts.
func (s *State) RetrieveKnownHosts() []string {
	return s.knownPeers.Hosts()
}

// =============================================================================

// cloneChain copies every block so the result shares no storage with chain.
func cloneChain(chain []database.Block) []database.Block {
	cp := make([]database.Block, len(chain))
	for i, block := range chain {
		cp[i] = block.Clone()
	}

	return cp
}

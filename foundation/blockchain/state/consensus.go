package state

import (
	"context"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// CORE NOTE: Consensus follows the longest valid chain rule. Every known peer
// is asked for its chain and the longest one that is longer than ours and
// passes validation replaces our chain. When more than one peer reports a
// longer chain of the same length, the peer visited first wins and the visit
// order of the peer set is not defined.

// ResolveConflicts queries the known peers and replaces the chain with the
// longest valid chain found. It reports if the chain was replaced. Peers that
// can't be reached or return a malformed response are skipped.
func (s *State) ResolveConflicts(ctx context.Context) bool {
	s.evHandler("state: ResolveConflicts: started")
	defer s.evHandler("state: ResolveConflicts: completed")

	maxLength := s.RetrieveChainLength()

	var candidate []database.Block
	var from peer.Peer

	for _, pr := range s.RetrieveKnownPeers() {
		resp, err := s.NetRequestPeerChain(ctx, pr)
		if err != nil {
			s.evHandler("state: ResolveConflicts: peer[%s]: WARNING: skipped: %s", pr, err)
			continue
		}

		if resp.Length <= maxLength {
			s.evHandler("state: ResolveConflicts: peer[%s]: length[%d] not longer than[%d]", pr, resp.Length, maxLength)
			continue
		}

		if err := database.ValidateChain(resp.Chain); err != nil {
			s.evHandler("state: ResolveConflicts: peer[%s]: WARNING: invalid chain: %s", pr, err)
			continue
		}

		s.evHandler("state: ResolveConflicts: peer[%s]: candidate chain length[%d]", pr, resp.Length)

		maxLength = resp.Length
		candidate = resp.Chain
		from = pr
	}

	if candidate == nil {
		return false
	}

	return s.replaceChain(from, candidate)
}

// =============================================================================

// replaceChain swaps in the candidate chain if it is still longer than the
// local chain. The local chain may have grown while peers were queried.
func (s *State) replaceChain(from peer.Peer, candidate []database.Block) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(candidate) <= len(s.chain) {
		s.evHandler("state: replaceChain: peer[%s]: candidate length[%d] no longer longer than[%d]", from, len(candidate), len(s.chain))
		return false
	}

	chain := cloneChain(candidate)
	s.chain = chain

	s.evHandler("state: replaceChain: peer[%s]: chain replaced: length[%d]", from, len(chain))
	s.blockEvent(chain[len(chain)-1])

	return true
}

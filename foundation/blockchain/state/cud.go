package state

import (
	"fmt"
	"strings"

	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// RegisterPeers parses each address down to its network location and adds
// it to the known peers. If any address is malformed nothing is added. The
// full set of known hosts is returned.
func (s *State) RegisterPeers(addresses []string) ([]string, error) {
	peers := make([]peer.Peer, 0, len(addresses))

	var bad []string
	for _, address := range addresses {
		pr, err := peer.Parse(address)
		if err != nil {
			bad = append(bad, fmt.Sprintf("%q", address))
			continue
		}
		peers = append(peers, pr)
	}

	if len(bad) > 0 {
		return nil, fmt.Errorf("%w: %s", peer.ErrInvalidAddress, strings.Join(bad, ", "))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, pr := range peers {
		if s.knownPeers.Add(pr) {
			s.evHandler("state: RegisterPeers: adding peer-node %s", pr)
		}
	}

	return s.knownPeers.Hosts(), nil
}

// AddKnownPeer provides the ability to add a new peer. It reports false
// if the peer was already known.
func (s *State) AddKnownPeer(pr peer.Peer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := s.knownPeers.Add(pr)
	if added {
		s.evHandler("state: AddKnownPeer: adding peer-node %s", pr)
	}

	return added
}

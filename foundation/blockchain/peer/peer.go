// Package peer maintains the peer related information such as the set
// of know peers.
package peer

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"sync"
)

// ErrInvalidAddress is returned when a peer address can't be reduced to
// a network location.
var ErrInvalidAddress = errors.New("invalid peer address")

// =============================================================================

// Peer represents information about a Node in the network.
type Peer struct {
	Host string `json:"host"`
}

// New contructs a new info value.
func New(host string) Peer {
	return Peer{
		Host: host,
	}
}

// Parse takes an address like http://localhost:5001/path and keeps only
// the network location, localhost:5001. The address must carry a scheme
// and a host.
func Parse(address string) (Peer, error) {
	u, err := url.Parse(address)
	if err != nil {
		return Peer{}, fmt.Errorf("%w: %q: %s", ErrInvalidAddress, address, err)
	}

	if u.Scheme == "" || u.Host == "" {
		return Peer{}, fmt.Errorf("%w: %q: expecting scheme://host[:port]", ErrInvalidAddress, address)
	}

	return New(u.Host), nil
}

// Match validates if the specified host matches this node.
func (p Peer) Match(host string) bool {
	return p.Host == host
}

// String implements the fmt.Stringer interface.
func (p Peer) String() string {
	return p.Host
}

// =============================================================================

// PeerSet represents the data representation to maintain a set of known peers.
type PeerSet struct {
	mu  sync.RWMutex
	set map[Peer]struct{}
}

// NewPeerSet constructs a new info set to manage node peer information.
func NewPeerSet() *PeerSet {
	return &PeerSet{
		set: make(map[Peer]struct{}),
	}
}

// Add adds a new node to the set. It returns false if the peer was
// already known.
func (ps *PeerSet) Add(peer Peer) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	_, exists := ps.set[peer]
	if !exists {
		ps.set[peer] = struct{}{}
		return true
	}

	return false
}

// Copy returns a list of the known peers excluding the specified host.
// The order of the list is not defined.
func (ps *PeerSet) Copy(host string) []Peer {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	var peers []Peer
	for peer := range ps.set {
		if !peer.Match(host) {
			peers = append(peers, peer)
		}
	}

	return peers
}

// Hosts returns the sorted list of known hosts for display.
func (ps *PeerSet) Hosts() []string {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	hosts := make([]string, 0, len(ps.set))
	for peer := range ps.set {
		hosts = append(hosts, peer.Host)
	}
	sort.Strings(hosts)

	return hosts
}

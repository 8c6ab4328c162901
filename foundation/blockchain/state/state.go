// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// defaultPeerTimeout is used when no peer timeout is configured.
const defaultPeerTimeout = 5 * time.Second

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining and consensus.
type Worker interface {
	Shutdown()
	Mine(ctx context.Context) (database.Block, error)
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	NodeID      string
	Host        string
	PeerTimeout time.Duration
	EvHandler   EventHandler
}

// State manages the blockchain. The chain, the mempool drain and chain
// replacement are all guarded by one mutex.
type State struct {
	nodeID      string
	host        string
	peerTimeout time.Duration
	evHandler   EventHandler
	client      *http.Client

	mu    sync.Mutex
	chain []database.Block

	knownPeers *peer.PeerSet
	mempool    *mempool.Mempool

	Worker Worker
}

// New constructs a new blockchain holding only the genesis block.
func New(cfg Config) (*State, error) {
	if cfg.NodeID == "" {
		return nil, errors.New("node id is required")
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	peerTimeout := cfg.PeerTimeout
	if peerTimeout <= 0 {
		peerTimeout = defaultPeerTimeout
	}

	// Create the State to provide support for managing the blockchain.
	state := State{
		nodeID:      cfg.NodeID,
		host:        cfg.Host,
		peerTimeout: peerTimeout,
		evHandler:   ev,
		client:      &http.Client{Timeout: peerTimeout},
		chain:       []database.Block{database.Genesis(time.Now())},

		knownPeers: peer.NewPeerSet(),
		mempool:    mempool.New(),
	}

	ev("state: New: genesis block created: hash[%s]", state.chain[0].Hash())

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

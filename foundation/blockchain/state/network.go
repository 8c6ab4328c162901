package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

const baseURL = "http://%s/v1"

// maxResponseBytes caps how much of a peer response is read.
const maxResponseBytes = 64 << 20

// Set of errors returned when talking to peers.
var (
	ErrPeerUnreachable = errors.New("peer unreachable")
	ErrPeerMalformed   = errors.New("peer response malformed")
)

// =============================================================================

// ChainResponse is the payload exchanged when a chain is requested.
type ChainResponse struct {
	Chain  []database.Block `json:"chain"`
	Length int              `json:"length"`
}

// NewChainResponse constructs the response for the specified chain.
func NewChainResponse(chain []database.Block) ChainResponse {
	return ChainResponse{
		Chain:  chain,
		Length: len(chain),
	}
}

// Validate checks the response is structurally sound before the length
// or the chain is trusted.
func (cr ChainResponse) Validate() error {
	if cr.Length < 1 {
		return fmt.Errorf("%w: length[%d] must be positive", ErrPeerMalformed, cr.Length)
	}

	if cr.Length != len(cr.Chain) {
		return fmt.Errorf("%w: length[%d] doesn't match chain[%d]", ErrPeerMalformed, cr.Length, len(cr.Chain))
	}

	return nil
}

// =============================================================================

// NetRequestPeerChain asks the peer for its chain. The request is bounded by
// the configured peer timeout.
func (s *State) NetRequestPeerChain(ctx context.Context, pr peer.Peer) (ChainResponse, error) {
	s.evHandler("state: NetRequestPeerChain: started: %s", pr)
	defer s.evHandler("state: NetRequestPeerChain: completed: %s", pr)

	ctx, cancel := context.WithTimeout(ctx, s.peerTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/chain", fmt.Sprintf(baseURL, pr.Host))

	var resp ChainResponse
	if err := send(ctx, s.client, http.MethodGet, url, nil, &resp); err != nil {
		return ChainResponse{}, err
	}

	if err := resp.Validate(); err != nil {
		return ChainResponse{}, err
	}

	s.evHandler("state: NetRequestPeerChain: peer-node[%s]: length[%d]", pr, resp.Length)

	return resp, nil
}

// =============================================================================

// send is a helper function to send an HTTP request to a node.
func send(ctx context.Context, client *http.Client, method string, url string, dataSend any, dataRecv any) error {
	var body io.Reader
	if dataSend != nil {
		data, err := json.Marshal(dataSend)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrPeerUnreachable, err)
	}
	if dataSend != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrPeerUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: status[%d]: %s", ErrPeerUnreachable, resp.StatusCode, bytes.TrimSpace(msg))
	}

	if dataRecv != nil {
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(dataRecv); err != nil {
			return fmt.Errorf("%w: %s", ErrPeerMalformed, err)
		}
	}

	return nil
}

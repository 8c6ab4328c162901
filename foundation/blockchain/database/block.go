package database

import (
	"encoding/json"
	"fmt"
	"time"
)

// Genesis block values. The previous hash of the genesis block is a sentinel
// and not the digest of any block.
const (
	GenesisProof    = 100
	GenesisPrevHash = "1"
)

// =============================================================================

// Block represents a group of transactions batched together and linked to
// the block before it.
type Block struct {
	Index     uint64  `json:"index"`         // Position in the chain starting at 1.
	TimeStamp float64 `json:"timestamp"`     // Seconds since epoch when the block was appended.
	Trans     []Tx    `json:"transactions"`  // Transactions drained from the pending pool.
	Proof     uint64  `json:"proof"`         // Solution to the proof of work puzzle.
	PrevHash  string  `json:"previous_hash"` // Canonical hash of the previous block.
}

// NewBlock constructs the block that follows a chain of the specified length.
func NewBlock(length int, now time.Time, trans []Tx, proof uint64, prevHash string) Block {

	// The transactions are copied so the block never shares storage
	// with the pending pool.
	cp := make([]Tx, len(trans))
	copy(cp, trans)

	return Block{
		Index:     uint64(length) + 1,
		TimeStamp: toTimeStamp(now),
		Trans:     cp,
		Proof:     proof,
		PrevHash:  prevHash,
	}
}

// Genesis constructs the first block of every chain.
func Genesis(now time.Time) Block {
	return NewBlock(0, now, nil, GenesisProof, GenesisPrevHash)
}

// Clone returns a copy of the block that shares no storage with the
// original.
func (b Block) Clone() Block {
	if b.Trans != nil {
		trans := make([]Tx, len(b.Trans))
		copy(trans, b.Trans)
		b.Trans = trans
	}

	return b
}

// Hash returns the canonical hash for the Block.
func (b Block) Hash() string {
	return Hash(b)
}

// ValidateNext checks the block can follow the specified previous block. The
// previous hash must match the parent's canonical hash and the proof must
// solve the puzzle relative to the parent's proof.
func (b Block) ValidateNext(prev Block) error {
	if hash := prev.Hash(); b.PrevHash != hash {
		return fmt.Errorf("block %d: previous hash doesn't match parent, got %s, exp %s", b.Index, b.PrevHash, hash)
	}

	if !ValidProof(prev.Proof, b.Proof) {
		return fmt.Errorf("block %d: proof %d does not solve the puzzle for parent proof %d", b.Index, b.Proof, prev.Proof)
	}

	return nil
}

// canonical returns the block as a map so the JSON encoder writes the keys
// in sorted order at every level.
func (b Block) canonical() map[string]any {
	trans := make([]map[string]any, len(b.Trans))
	for i, tx := range b.Trans {
		trans[i] = tx.canonical()
	}

	return map[string]any{
		"index":         b.Index,
		"previous_hash": b.PrevHash,
		"proof":         b.Proof,
		"timestamp":     b.TimeStamp,
		"transactions":  trans,
	}
}

// =============================================================================

// CanonicalJSON returns the serialized form of the block used for hashing.
// Keys are written in sorted order so two blocks holding the same values
// always produce the same bytes.
func CanonicalJSON(block Block) ([]byte, error) {
	return json.Marshal(block.canonical())
}

// Hash returns the hex encoded SHA-256 digest of the block's canonical form.
func Hash(block Block) string {
	data, err := CanonicalJSON(block)
	if err != nil {
		return ZeroHash
	}

	return sha256Hex(data)
}

// toTimeStamp converts the time into fractional seconds since epoch.
func toTimeStamp(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

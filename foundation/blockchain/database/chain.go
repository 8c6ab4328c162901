package database

import "errors"

// ErrEmptyChain is returned when a chain with no blocks is validated.
var ErrEmptyChain = errors.New("chain has no blocks")

// =============================================================================

// ValidateChain walks the chain from the second block checking every block
// links to its parent by hash and solves the puzzle relative to the parent's
// proof. The first violation is returned. The genesis block is never checked.
func ValidateChain(chain []Block) error {
	if len(chain) == 0 {
		return ErrEmptyChain
	}

	prev := chain[0]
	for _, block := range chain[1:] {
		if err := block.ValidateNext(prev); err != nil {
			return err
		}
		prev = block
	}

	return nil
}

// IsValidChain reports if the chain passes validation.
func IsValidChain(chain []Block) bool {
	return ValidateChain(chain) == nil
}

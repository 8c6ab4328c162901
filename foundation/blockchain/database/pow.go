package database

import (
	"context"
	"strconv"
)

// Difficulty is the number of leading zero hex characters a proof's hash
// must have to solve the puzzle.
const Difficulty = 4

// checkInterval is how many attempts are made between checks of the context
// for cancellation.
const checkInterval = 10_000

// =============================================================================

// FindProof performs the work of mining. Starting at zero it searches for the
// first proof that solves the puzzle relative to the last proof. The search
// can be cancelled through the context.
func FindProof(ctx context.Context, lastProof uint64, ev func(v string, args ...any)) (uint64, error) {
	ev = safeEv(ev)

	ev("database: FindProof: MINING: started: lastProof[%d]", lastProof)
	defer ev("database: FindProof: MINING: completed: lastProof[%d]", lastProof)

	for proof := uint64(0); ; proof++ {
		if proof%checkInterval == 0 {
			if ctx.Err() != nil {
				ev("database: FindProof: MINING: CANCELLED: attempts[%d]", proof)
				return 0, ctx.Err()
			}

			if proof > 0 && proof%1_000_000 == 0 {
				ev("database: FindProof: MINING: attempts[%d]", proof)
			}
		}

		if ValidProof(lastProof, proof) {
			ev("database: FindProof: MINING: SOLVED: proof[%d]: attempts[%d]", proof, proof+1)
			return proof, nil
		}
	}
}

// ValidProof checks if the proof solves the puzzle relative to the last proof.
// The decimal forms of the two values are joined with no separator and hashed.
// The hash must start with Difficulty zeros.
func ValidProof(lastProof uint64, proof uint64) bool {
	guess := strconv.AppendUint(nil, lastProof, 10)
	guess = strconv.AppendUint(guess, proof, 10)

	return isHashSolved(Difficulty, sha256Hex(guess))
}

// isHashSolved checks the hash to make sure it complies with
// the POW rules. We need to match a difficulty number of 0's.
func isHashSolved(difficulty int, hash string) bool {
	const match = "00000000000000000"

	if len(hash) != 64 {
		return false
	}

	return hash[:difficulty] == match[:difficulty]
}

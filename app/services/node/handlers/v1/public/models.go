package public

import (
	"github.com/ardanlabs/ledger/business/sys/validate"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// newTx is the payload for submitting a transaction. Fields are pointers so
// a present zero value can be told apart from a missing field.
type newTx struct {
	Sender    *string  `json:"sender" validate:"required"`
	Recipient *string  `json:"recipient" validate:"required"`
	Amount    *float64 `json:"amount" validate:"required"`
}

// Validate checks the data in the model is considered clean.
func (ntx newTx) Validate() error {
	return validate.Check(ntx)
}

func (ntx newTx) toDBTx() database.Tx {
	return database.NewTx(*ntx.Sender, *ntx.Recipient, *ntx.Amount)
}

type txSubmitted struct {
	Message string `json:"message"`
	Index   uint64 `json:"index"`
}

// =============================================================================

type blockForged struct {
	Message      string        `json:"message"`
	Index        uint64        `json:"index"`
	Transactions []database.Tx `json:"transactions"`
	Proof        uint64        `json:"proof"`
	PrevHash     string        `json:"previous_hash"`
}

func toBlockForged(block database.Block) blockForged {
	return blockForged{
		Message:      "New Block Forged",
		Index:        block.Index,
		Transactions: block.Trans,
		Proof:        block.Proof,
		PrevHash:     block.PrevHash,
	}
}

// =============================================================================

// registerNodes is the payload for registering peer nodes. The list must be
// present but may be empty.
type registerNodes struct {
	Nodes []string `json:"nodes" validate:"required"`
}

// Validate checks the data in the model is considered clean.
func (rn registerNodes) Validate() error {
	return validate.Check(rn)
}

type nodesRegistered struct {
	Message    string   `json:"message"`
	TotalNodes []string `json:"total_nodes"`
}

// =============================================================================

type chainReplaced struct {
	Message  string           `json:"message"`
	NewChain []database.Block `json:"new_chain"`
}

type chainKept struct {
	Message string           `json:"message"`
	Chain   []database.Block `json:"chain"`
}

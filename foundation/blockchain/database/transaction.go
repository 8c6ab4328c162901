package database

import "fmt"

// RewardSender is the sender used on the transaction that rewards a node for
// mining a block. It signifies new value entering the ledger.
const RewardSender = "0"

// MiningReward is the amount awarded to the node that mines a block.
const MiningReward = 1

// =============================================================================

// Tx is the transactional information between two parties.
type Tx struct {
	Sender    string  `json:"sender"`
	Recipient string  `json:"recipient"`
	Amount    float64 `json:"amount"`
}

// NewTx constructs a new transaction.
func NewTx(sender string, recipient string, amount float64) Tx {
	return Tx{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
	}
}

// NewRewardTx constructs the transaction that pays the mining reward to the
// specified node.
func NewRewardTx(nodeID string) Tx {
	return NewTx(RewardSender, nodeID, MiningReward)
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%v", tx.Sender, tx.Recipient, tx.Amount)
}

// canonical returns the transaction as a map so the JSON encoder writes the
// keys in sorted order.
func (tx Tx) canonical() map[string]any {
	return map[string]any{
		"amount":    tx.Amount,
		"recipient": tx.Recipient,
		"sender":    tx.Sender,
	}
}

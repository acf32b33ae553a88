package models

import (
	"time"

	"github.com/google/uuid"
)

// TransferRecord is one row of the operator-facing journal of outbound
// transfers. It is written after the relay reports an outcome and is never
// read back into wallet or faucet state.
type TransferRecord struct {
	ID        uuid.UUID `json:"id"`
	UserID    int64     `json:"user_id"`
	Kind      string    `json:"kind"` // TransferKind*
	ToAddress string    `json:"to_address"`
	Amount    string    `json:"amount"` // decimal, as submitted
	TxHash    *string   `json:"tx_hash,omitempty"`
	Status    string    `json:"status"` // TransferStatus*
	ErrorKind *string   `json:"error_kind,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	TransferKindUserSend = "user_send"
	TransferKindFaucet   = "faucet"

	TransferStatusSubmitted = "submitted" // accepted by the node, not settled
	TransferStatusFailed    = "failed"
)

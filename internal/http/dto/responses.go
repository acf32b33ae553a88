package dto

type AuthResponse struct {
	Token string `json:"token"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type AccountResponse struct {
	Address    string `json:"address"`
	IsNew      bool   `json:"is_new"`
	PrivateKey string `json:"private_key,omitempty"` // disclosed once, at creation
}

type BalanceResponse struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
	Symbol  string `json:"symbol"`
}

type SendTransferResponse struct {
	TxHash      string `json:"tx_hash"`
	ExplorerURL string `json:"explorer_url"`
}

type FaucetClaimResponse struct {
	Status            string `json:"status"` // claimed / denied / failed / unconfigured
	TxHash            string `json:"tx_hash,omitempty"`
	ExplorerURL       string `json:"explorer_url,omitempty"`
	RetryAfterSeconds int64  `json:"retry_after_seconds,omitempty"`
	FallbackURL       string `json:"fallback_url,omitempty"`
}

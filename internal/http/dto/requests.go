package dto

type AuthTelegramRequest struct {
	InitData string `json:"init_data"`
}

type SendTransferRequest struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
}

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/arc-wallet/backend/internal/config"
	"github.com/arc-wallet/backend/internal/http/dto"
	"github.com/arc-wallet/backend/internal/middleware"
	"github.com/arc-wallet/backend/internal/relay"
	"github.com/arc-wallet/backend/internal/services"
)

type WalletHandler struct {
	walletService *services.WalletService
	cfg           *config.Config
	log           *zap.Logger
}

func NewWalletHandler(walletService *services.WalletService, cfg *config.Config, log *zap.Logger) *WalletHandler {
	return &WalletHandler{walletService: walletService, cfg: cfg, log: log}
}

// GetOrCreate resolves the caller's custodial account. The private key is
// present in the response only on the call that created the account.
// POST /wallet
func (h *WalletHandler) GetOrCreate(c *fiber.Ctx) error {
	userID := middleware.GetTelegramUserID(c)

	info := h.walletService.GetOrCreateAccount(userID)
	return c.JSON(dto.AccountResponse{
		Address:    info.Address,
		IsNew:      info.IsNew,
		PrivateKey: info.PrivateKey,
	})
}

// GetBalance reads the caller's on-chain balance.
// GET /wallet/balance
func (h *WalletHandler) GetBalance(c *fiber.Ctx) error {
	userID := middleware.GetTelegramUserID(c)

	address, balance, err := h.walletService.GetBalance(c.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrNoAccount) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "no account, create a wallet first"})
		}
		h.log.Error("balance query failed", zap.Int64("user_id", userID), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Error: "chain node unavailable"})
	}

	return c.JSON(dto.BalanceResponse{
		Address: address,
		Balance: balance,
		Symbol:  h.cfg.TokenSymbol,
	})
}

// SendTransfer relays a transfer signed with the caller's key.
// POST /wallet/send
func (h *WalletHandler) SendTransfer(c *fiber.Ctx) error {
	userID := middleware.GetTelegramUserID(c)

	var req dto.SendTransferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	hash, err := h.walletService.SendTransfer(c.Context(), userID, req.To, req.Amount)
	if err != nil {
		if errors.Is(err, services.ErrNoAccount) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "no account, create a wallet first"})
		}
		kind := relay.Classify(err)
		if kind.IsInputError() {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		h.log.Error("transfer failed", zap.Int64("user_id", userID), zap.String("kind", string(kind)), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Error: "transfer failed, try again later"})
	}

	return c.JSON(dto.SendTransferResponse{
		TxHash:      hash,
		ExplorerURL: h.walletService.ExplorerTxURL(hash),
	})
}

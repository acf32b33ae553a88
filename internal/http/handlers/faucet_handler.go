package handlers

import (
	"math"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/arc-wallet/backend/internal/config"
	"github.com/arc-wallet/backend/internal/faucet"
	"github.com/arc-wallet/backend/internal/http/dto"
	"github.com/arc-wallet/backend/internal/middleware"
	"github.com/arc-wallet/backend/internal/services"
)

type FaucetHandler struct {
	walletService *services.WalletService
	cfg           *config.Config
	log           *zap.Logger
}

func NewFaucetHandler(walletService *services.WalletService, cfg *config.Config, log *zap.Logger) *FaucetHandler {
	return &FaucetHandler{walletService: walletService, cfg: cfg, log: log}
}

// Claim runs the rate-limited faucet disbursement for the caller.
// POST /faucet/claim
func (h *FaucetHandler) Claim(c *fiber.Ctx) error {
	userID := middleware.GetTelegramUserID(c)

	res := h.walletService.ClaimFaucet(c.Context(), userID)

	switch res.Status {
	case faucet.StatusClaimed:
		return c.JSON(dto.FaucetClaimResponse{
			Status:      string(res.Status),
			TxHash:      res.TxHash,
			ExplorerURL: h.walletService.ExplorerTxURL(res.TxHash),
		})
	case faucet.StatusDenied:
		return c.Status(fiber.StatusTooManyRequests).JSON(dto.FaucetClaimResponse{
			Status:            string(res.Status),
			RetryAfterSeconds: int64(math.Ceil(res.Remaining.Seconds())),
		})
	case faucet.StatusUnconfigured:
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.FaucetClaimResponse{
			Status:      string(res.Status),
			FallbackURL: h.cfg.ExternalFaucetURL,
		})
	default: // StatusFailed
		return c.Status(fiber.StatusBadGateway).JSON(dto.FaucetClaimResponse{
			Status:      string(res.Status),
			FallbackURL: h.cfg.ExternalFaucetURL,
		})
	}
}

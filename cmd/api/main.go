package main

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/arc-wallet/backend/internal/chain"
	"github.com/arc-wallet/backend/internal/config"
	"github.com/arc-wallet/backend/internal/db"
	"github.com/arc-wallet/backend/internal/events"
	"github.com/arc-wallet/backend/internal/faucet"
	apphttp "github.com/arc-wallet/backend/internal/http"
	"github.com/arc-wallet/backend/internal/http/handlers"
	"github.com/arc-wallet/backend/internal/relay"
	"github.com/arc-wallet/backend/internal/repositories"
	"github.com/arc-wallet/backend/internal/services"
	"github.com/arc-wallet/backend/internal/wallet"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Chain
	client, err := chain.Dial(ctx, cfg.RPCURL, log)
	if err != nil {
		log.Fatal("failed to connect to chain rpc", zap.Error(err))
	}
	defer client.Close()

	chainID, err := resolveChainID(ctx, cfg, client)
	if err != nil {
		log.Fatal("failed to resolve chain id", zap.Error(err))
	}
	log.Info("chain ready", zap.String("chain_id", chainID.String()))

	adminKey, err := parseAdminKey(cfg.AdminPrivateKey)
	if err != nil {
		log.Fatal("invalid ADMIN_PRIVATE_KEY", zap.Error(err))
	}

	// Core
	registry := wallet.NewRegistry(log)
	limiter := faucet.NewLimiter(cfg.FaucetCooldown)
	txRelay := relay.New(client, chainID, log)
	faucetSvc := faucet.NewService(registry, limiter, txRelay, adminKey, cfg.FaucetAmount, log)

	// Operational plumbing
	transferRepo := repositories.NewTransferRepo(pool)
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	walletService := services.NewWalletService(registry, client, txRelay, faucetSvc, transferRepo, publisher, cfg, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(cfg, log)
	walletHandler := handlers.NewWalletHandler(walletService, cfg, log)
	faucetHandler := handlers.NewFaucetHandler(walletService, cfg, log)
	wsHub := handlers.NewWSHub(cfg, subscriber, log)
	wsHub.Start(ctx)

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, authHandler, walletHandler, faucetHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

func resolveChainID(ctx context.Context, cfg *config.Config, client chain.Client) (*big.Int, error) {
	if cfg.ChainID != 0 {
		return big.NewInt(cfg.ChainID), nil
	}
	return client.ChainID(ctx)
}

func parseAdminKey(hexKey string) (*ecdsa.PrivateKey, error) {
	if hexKey == "" {
		return nil, nil // faucet runs unconfigured
	}
	return crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
}

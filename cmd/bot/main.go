package main

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/arc-wallet/backend/internal/bot"
	"github.com/arc-wallet/backend/internal/chain"
	"github.com/arc-wallet/backend/internal/config"
	"github.com/arc-wallet/backend/internal/db"
	"github.com/arc-wallet/backend/internal/events"
	"github.com/arc-wallet/backend/internal/faucet"
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

	if cfg.BotToken == "" {
		log.Fatal("BOT_TOKEN is required for the bot front-end")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	client, err := chain.Dial(ctx, cfg.RPCURL, log)
	if err != nil {
		log.Fatal("failed to connect to chain rpc", zap.Error(err))
	}
	defer client.Close()

	chainID := big.NewInt(cfg.ChainID)
	if cfg.ChainID == 0 {
		chainID, err = client.ChainID(ctx)
		if err != nil {
			log.Fatal("failed to resolve chain id", zap.Error(err))
		}
	}

	var adminKey *ecdsa.PrivateKey
	if cfg.AdminPrivateKey != "" {
		adminKey, err = crypto.HexToECDSA(strings.TrimPrefix(cfg.AdminPrivateKey, "0x"))
		if err != nil {
			log.Fatal("invalid ADMIN_PRIVATE_KEY", zap.Error(err))
		}
	}

	registry := wallet.NewRegistry(log)
	limiter := faucet.NewLimiter(cfg.FaucetCooldown)
	txRelay := relay.New(client, chainID, log)
	faucetSvc := faucet.NewService(registry, limiter, txRelay, adminKey, cfg.FaucetAmount, log)

	transferRepo := repositories.NewTransferRepo(pool)
	publisher := events.NewRedisPublisher(rdb, log)

	walletService := services.NewWalletService(registry, client, txRelay, faucetSvc, transferRepo, publisher, cfg, log)

	b, err := bot.New(cfg, walletService, log)
	if err != nil {
		log.Fatal("failed to start bot", zap.Error(err))
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
	}()

	if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("bot error", zap.Error(err))
	}
}

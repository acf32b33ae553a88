package bot

import (
	"context"
	"errors"
	"fmt"
	"math"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/arc-wallet/backend/internal/config"
	"github.com/arc-wallet/backend/internal/faucet"
	"github.com/arc-wallet/backend/internal/services"
)

// Bot is the conversational front-end. It binds to the core only through the
// wallet service: get-or-create account, balance, send, claim.
type Bot struct {
	api           *tgbotapi.BotAPI
	walletService *services.WalletService
	cfg           *config.Config
	log           *zap.Logger
}

func New(cfg *config.Config, walletService *services.WalletService, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("telegram api: %w", err)
	}
	return &Bot{api: api, walletService: walletService, cfg: cfg, log: log}, nil
}

// Run registers the command menu and processes updates until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	commands := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Create or view your wallet"},
		tgbotapi.BotCommand{Command: "balance", Description: "Check your " + b.cfg.TokenSymbol + " balance"},
		tgbotapi.BotCommand{Command: "send", Description: "Send tokens"},
		tgbotapi.BotCommand{Command: "receive", Description: "Show your address QR code"},
		tgbotapi.BotCommand{Command: "faucet", Description: "Get free testnet tokens"},
		tgbotapi.BotCommand{Command: "roadmap", Description: "See upcoming features"},
	)
	if _, err := b.api.Request(commands); err != nil {
		b.log.Warn("failed to register bot commands", zap.Error(err))
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	b.log.Info("bot is online", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			// One slow chain call must not stall other users' commands.
			go b.handleCommand(ctx, update.Message)
		}
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.handleStart(chatID, userID)
	case "balance":
		b.handleBalance(ctx, chatID, userID)
	case "send":
		b.handleSend(ctx, chatID, userID, msg.CommandArguments())
	case "receive":
		b.handleReceive(chatID, userID)
	case "faucet":
		b.handleFaucet(ctx, chatID, userID)
	case "roadmap":
		b.handleRoadmap(chatID)
	}
}

func (b *Bot) handleStart(chatID int64, userID int64) {
	info := b.walletService.GetOrCreateAccount(userID)
	if info.IsNew {
		// The only place the private key is ever disclosed.
		b.reply(chatID, fmt.Sprintf(
			"*Arc Testnet Wallet*\n\nAddress: `%s`\nPrivate Key: `%s`\n\nKeep the key safe, it is shown only once.",
			info.Address, info.PrivateKey,
		))
		return
	}
	b.reply(chatID, fmt.Sprintf("Address: `%s`", info.Address))
}

func (b *Bot) handleBalance(ctx context.Context, chatID int64, userID int64) {
	_, balance, err := b.walletService.GetBalance(ctx, userID)
	if err != nil {
		if errors.Is(err, services.ErrNoAccount) {
			b.reply(chatID, "Use /start first")
			return
		}
		b.log.Error("balance command failed", zap.Int64("user_id", userID), zap.Error(err))
		b.reply(chatID, "Could not reach the network, try again later.")
		return
	}
	b.reply(chatID, fmt.Sprintf("Balance: %s %s", balance, b.cfg.TokenSymbol))
}

func (b *Bot) handleSend(ctx context.Context, chatID int64, userID int64, args string) {
	to, amount, ok := splitSendArgs(args)
	if !ok {
		b.reply(chatID, "Usage: /send <address> <amount>")
		return
	}

	b.reply(chatID, "Sending transaction...")
	hash, err := b.walletService.SendTransfer(ctx, userID, to, amount)
	if err != nil {
		b.replySendError(chatID, err)
		return
	}

	b.reply(chatID, fmt.Sprintf(
		"Sent!\nHash: `%s`\n[View on Explorer](%s)",
		hash, b.walletService.ExplorerTxURL(hash),
	))
}

func (b *Bot) handleReceive(chatID int64, userID int64) {
	info := b.walletService.GetOrCreateAccount(userID)

	png, err := qrcode.Encode(info.Address, qrcode.Medium, 256)
	if err != nil {
		b.log.Error("qr encode failed", zap.Error(err))
		b.reply(chatID, fmt.Sprintf("Your Address:\n`%s`", info.Address))
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "address.png", Bytes: png})
	photo.Caption = fmt.Sprintf("Your Address:\n`%s`", info.Address)
	photo.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(photo); err != nil {
		b.log.Warn("failed to send qr photo", zap.Error(err))
	}
}

func (b *Bot) handleFaucet(ctx context.Context, chatID int64, userID int64) {
	res := b.walletService.ClaimFaucet(ctx, userID)

	switch res.Status {
	case faucet.StatusUnconfigured:
		b.replyWithLink(chatID,
			fmt.Sprintf("Claim Arc Testnet %s here:", b.cfg.TokenSymbol),
			"Open Official Faucet", b.cfg.ExternalFaucetURL)
	case faucet.StatusDenied:
		minutes := int64(math.Ceil(res.Remaining.Minutes()))
		b.reply(chatID, fmt.Sprintf("⏳ Cooldown active. Wait %d minutes.", minutes))
	case faucet.StatusClaimed:
		b.reply(chatID, fmt.Sprintf(
			"✅ *Claim Successful!*\n\nSent: %s %s\nHash: `%s`\n[View on Explorer](%s)",
			b.cfg.FaucetAmount, b.cfg.TokenSymbol, res.TxHash, b.walletService.ExplorerTxURL(res.TxHash),
		))
	default: // StatusFailed
		b.replyWithLink(chatID,
			"⚠️ Faucet error or empty treasury. Using link instead:",
			"Open Official Faucet", b.cfg.ExternalFaucetURL)
	}
}

func (b *Bot) handleRoadmap(chatID int64) {
	b.reply(chatID,
		"*🚀 Project Roadmap*\n\n"+
			"✅ *Phase 1 (Live):* Wallet generation, Sending/Receiving "+b.cfg.TokenSymbol+", Faucet.\n\n"+
			"🔄 *Phase 2 (In Progress):*\n"+
			"• *Trading:* Swap USDC/EURC directly in chat.\n"+
			"• *Bridge:* Move assets from Ethereum via Circle CCTP.\n\n"+
			"Stay tuned for updates!")
}

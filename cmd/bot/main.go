// Command bot runs the Telegram conversation surface: the /start menu and
// the add/delete/show wallet flows, backed by the same wallet store the
// relay reads.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/solxray/wallet-relay/internal/bot"
	"github.com/solxray/wallet-relay/internal/config"
	"github.com/solxray/wallet-relay/internal/domain"
	"github.com/solxray/wallet-relay/internal/helius"
	"github.com/solxray/wallet-relay/internal/repo"
	"github.com/solxray/wallet-relay/internal/services"
	"github.com/solxray/wallet-relay/internal/sysutil"
)

// walletRepoShim adapts the repository free functions to the
// services.WalletRepo interface expected by the WalletService.
type walletRepoShim struct{}

func (walletRepoShim) CreateSubscription(ctx context.Context, db *gorm.DB, userID, address string) (*domain.WalletSubscription, error) {
	return repo.CreateSubscription(ctx, db, userID, address)
}

func (walletRepoShim) ListUserSubscriptions(ctx context.Context, db *gorm.DB, userID string) ([]domain.WalletSubscription, error) {
	return repo.ListUserSubscriptions(ctx, db, userID)
}

func (walletRepoShim) CountUserSubscriptions(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	return repo.CountUserSubscriptions(ctx, db, userID)
}

func (walletRepoShim) GetSubscription(ctx context.Context, db *gorm.DB, userID, address string) (*domain.WalletSubscription, error) {
	return repo.GetSubscription(ctx, db, userID, address)
}

func (walletRepoShim) CountAddressSubscribers(ctx context.Context, db *gorm.DB, address string) (int64, error) {
	return repo.CountAddressSubscribers(ctx, db, address)
}

func (walletRepoShim) DeleteSubscription(ctx context.Context, db *gorm.DB, userID, address string) error {
	return repo.DeleteSubscription(ctx, db, userID, address)
}

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad()
	setupLogging(cfg)

	if cfg.BotToken == "" {
		log.Fatal().Msg("BOT_TOKEN is required")
	}
	if cfg.Helius.APIKey == "" {
		log.Fatal().Msg("HELIUS_API_KEY is required")
	}
	if cfg.Helius.WebhookID == "" {
		log.Fatal().Msg("HELIUS_WEBHOOK_ID is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	hc := helius.New(cfg.Helius)
	guard := services.NewGuardService(hc, cfg.Guard.MaxTxPerDay, cfg.Guard.MinSampleSize)
	registry := services.NewRegistryService(hc, cfg.Helius.WebhookID)
	walletSvc := services.NewWalletService(db, walletRepoShim{}, guard, registry)
	walletSvc.MaxWallets = cfg.Guard.MaxWalletsPerUser

	svc, err := bot.New(cfg.BotToken, bot.NewFlow(walletSvc))
	if err != nil {
		log.Fatal().Err(err).Msg("telegram bot init failed")
	}

	svc.Start(ctx)

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("bot stopped")
}

func setupLogging(cfg config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

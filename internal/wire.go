//go:build wireinject
// +build wireinject

package internal

import (
	"net/http"
	"time"

	"github.com/google/wire"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/laoyang/quanta/internal/config"
	"github.com/laoyang/quanta/internal/events"
	"github.com/laoyang/quanta/internal/handler"
	"github.com/laoyang/quanta/internal/service"
	"github.com/laoyang/quanta/internal/telegram"
)

const telegramHTTPTimeout = 10 * time.Second

var (
	handlerSet = wire.NewSet(
		handler.NewTradingHandler,
		handler.NewWalletHandler,
		handler.NewPortfolioHandler,
		handler.NewTransactionHandler,
		handler.NewMarketHandler,
		handler.NewFeeHandler,
	)

	serviceSet = wire.NewSet(
		provideBus,
		service.NewPricingService,
		service.NewExchangeRateService,
		service.NewFeeService,
		service.NewWalletService,
		service.NewTradingService,
		service.NewPortfolioService,
		service.NewTransactionService,
		wire.Bind(new(service.PricingGateway), new(*service.PricingService)),
		wire.Bind(new(service.RateGateway), new(*service.ExchangeRateService)),
		wire.Bind(new(service.FeeGateway), new(*service.FeeService)),
		wire.Bind(new(service.WalletGateway), new(*service.WalletService)),
	)
)

// InitializeApp 初始化应用
func InitializeApp(logger *zap.Logger, db *gorm.DB, conf *config.Config) (*AppComponents, error) {
	wire.Build(
		handlerSet,
		serviceSet,
		provideTelegram,
		provideNotifier,
		wire.Struct(new(AppComponents), "*"),
	)
	return nil, nil
}

// provideBus provides the in-process event bus with dead letter storage
func provideBus(logger *zap.Logger, db *gorm.DB, conf *config.Config) *events.Bus {
	sink := service.NewDeadLetterRecorder(db, logger)
	return events.NewBus(logger, conf.Events.BufferSize, conf.Events.MaxRetries, sink)
}

// provideTelegram provides telegram instance
func provideTelegram(logger *zap.Logger, conf *config.Config) *telegram.Telegram {
	if !conf.Telegram.Enabled {
		return nil
	}

	httpClient := &http.Client{Timeout: telegramHTTPTimeout}

	tg, err := telegram.NewTelegram(logger, telegram.Settings{
		Token:  conf.Telegram.Token,
		Client: httpClient,
	})
	if err != nil {
		logger.Error("failed to init telegram", zap.Error(err))
		return nil
	}

	return tg
}

// provideNotifier provides the telegram event notifier
func provideNotifier(tg *telegram.Telegram, conf *config.Config, logger *zap.Logger) *telegram.Notifier {
	if tg == nil {
		return nil
	}
	return telegram.NewNotifier(tg, conf.Telegram.ChatID, logger)
}

package internal

import (
	"fmt"
	"net/http"

	"github.com/go-orz/orz"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/laoyang/quanta/internal/config"
	"github.com/laoyang/quanta/internal/events"
	"github.com/laoyang/quanta/internal/handler"
	"github.com/laoyang/quanta/internal/models"
	"github.com/laoyang/quanta/internal/service"
	"github.com/laoyang/quanta/internal/telegram"
	"github.com/laoyang/quanta/pkg/nostd"
)

func Run(configPath string) error {
	app := NewQuantaApp()

	framework, err := orz.NewFramework(
		orz.WithConfig(configPath),
		orz.WithLoggerFromConfig(),
		orz.WithDatabase(),
		orz.WithHTTP(),
		orz.WithApplication(app),
	)
	if err != nil {
		return err
	}

	return framework.Run()
}

func NewQuantaApp() orz.Application {
	return &QuantaApp{}
}

var _ orz.Application = (*QuantaApp)(nil)

type AppComponents struct {
	TradingHandler     *handler.TradingHandler
	WalletHandler      *handler.WalletHandler
	PortfolioHandler   *handler.PortfolioHandler
	TransactionHandler *handler.TransactionHandler
	MarketHandler      *handler.MarketHandler
	FeeHandler         *handler.FeeHandler

	// Settlement pipeline services
	Bus                 *events.Bus
	PricingService      *service.PricingService
	ExchangeRateService *service.ExchangeRateService
	FeeService          *service.FeeService
	WalletService       *service.WalletService
	TradingService      *service.TradingService
	PortfolioService    *service.PortfolioService
	TransactionService  *service.TransactionService

	Notifier *telegram.Notifier
}

type QuantaApp struct {
	components *AppComponents
	conf       *config.Config
}

// GetComponents 获取应用组件
func (r *QuantaApp) GetComponents() *AppComponents {
	return r.components
}

func (r *QuantaApp) Configure(app *orz.App) error {
	logger := app.Logger()
	e := app.GetEcho()
	db := app.GetDatabase()

	var conf config.Config
	err := app.GetConfig().App.Unmarshal(&conf)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %v", err)
	}

	components, err := InitializeApp(logger, db, &conf)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %v", err)
	}
	r.components = components
	r.conf = &conf

	if err := db.AutoMigrate(
		models.Trade{}, models.Holding{}, models.WalletBalance{},
		models.Transaction{}, models.FeeRule{},
		models.ProcessedEvent{}, models.DeadLetterEvent{},
	); err != nil {
		logger.Fatal("database auto migrate failed", zap.Error(err))
	}

	if err := r.Init(logger); err != nil {
		logger.Fatal("app init failed", zap.Error(err))
	}

	e.HidePort = true
	e.HideBanner = true

	e.Use(middleware.Gzip())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		Skipper:      middleware.DefaultSkipper,
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			sugar := logger.Sugar()
			sugar.Error(fmt.Sprintf("[PANIC RECOVER] %v %s\n", err, stack))
			return err
		},
	}))
	e.Use(WithErrorHandler(logger))
	customValidator := nostd.CustomValidator{Validator: validator.New()}
	if err := customValidator.TransInit(); err != nil {
		logger.Sugar().Fatal("failed to init custom validator", zap.Error(err))
	}
	e.Validator = &customValidator

	api := e.Group("/api")
	{
		r.components.TradingHandler.RegisterRoutes(api)
		r.components.WalletHandler.RegisterRoutes(api)
		r.components.PortfolioHandler.RegisterRoutes(api)
		r.components.TransactionHandler.RegisterRoutes(api)
		r.components.MarketHandler.RegisterRoutes(api)
		r.components.FeeHandler.RegisterRoutes(api)
	}

	return nil
}

func (r *QuantaApp) Init(logger *zap.Logger) error {
	logger.Info("=================================================")
	logger.Info("Quanta Settlement Pipeline Starting...")
	logger.Info("=================================================")

	components := r.GetComponents()
	if components == nil {
		return fmt.Errorf("components not initialized")
	}

	if err := components.PricingService.StartDriftWorker(); err != nil {
		return err
	}
	if err := components.ExchangeRateService.StartDriftWorker(); err != nil {
		return err
	}

	// 投影器消费：失败重投，重试耗尽进死信
	components.Bus.Subscribe(events.TopicTrading, service.ConsumerPortfolio, components.PortfolioService.HandleTradeEvent)
	components.Bus.Subscribe(events.TopicWallet, service.ConsumerTransactions, components.TransactionService.HandleWalletEvent)
	components.Bus.Subscribe(events.TopicTrading, service.ConsumerTransactions, components.TransactionService.HandleTradingEvent)

	if components.Notifier != nil {
		components.Bus.SubscribeBestEffort(events.TopicTrading, "telegram", components.Notifier.HandleEvent)
		components.Bus.SubscribeBestEffort(events.TopicWallet, "telegram", components.Notifier.HandleEvent)
	}

	logger.Info("settlement pipeline initialized")
	return nil
}

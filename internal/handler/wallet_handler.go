package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/laoyang/quanta/internal/models"
	"github.com/laoyang/quanta/internal/service"
	"github.com/laoyang/quanta/internal/xe"
)

// WalletHandler 钱包HTTP处理器
type WalletHandler struct {
	walletService *service.WalletService
	logger        *zap.Logger
}

// NewWalletHandler 创建钱包处理器
func NewWalletHandler(walletService *service.WalletService, logger *zap.Logger) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		logger:        logger,
	}
}

// FundsRequest 存取款请求
type FundsRequest struct {
	Currency string          `json:"currency" validate:"required"`
	Amount   decimal.Decimal `json:"amount" validate:"required"`
}

// ExchangeRequest 货币兑换请求
type ExchangeRequest struct {
	FromCurrency string          `json:"fromCurrency" validate:"required"`
	ToCurrency   string          `json:"toCurrency" validate:"required"`
	Amount       decimal.Decimal `json:"amount" validate:"required"`
}

// Deposit 存款
// POST /api/wallets/:userId/deposit
func (h *WalletHandler) Deposit(c echo.Context) error {
	userID := c.Param("userId")
	var req FundsRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	currency, err := models.ParseCurrency(req.Currency)
	if err != nil {
		return xe.ErrUnknownCurrency
	}

	balance, err := h.walletService.Deposit(c.Request().Context(), userID, currency, req.Amount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, balance)
}

// Withdraw 取款
// POST /api/wallets/:userId/withdraw
func (h *WalletHandler) Withdraw(c echo.Context) error {
	userID := c.Param("userId")
	var req FundsRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	currency, err := models.ParseCurrency(req.Currency)
	if err != nil {
		return xe.ErrUnknownCurrency
	}

	balance, err := h.walletService.Withdraw(c.Request().Context(), userID, currency, req.Amount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, balance)
}

// Exchange 货币兑换
// POST /api/wallets/:userId/exchange
func (h *WalletHandler) Exchange(c echo.Context) error {
	userID := c.Param("userId")
	var req ExchangeRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	from, err := models.ParseCurrency(req.FromCurrency)
	if err != nil {
		return xe.ErrUnknownCurrency
	}
	to, err := models.ParseCurrency(req.ToCurrency)
	if err != nil {
		return xe.ErrUnknownCurrency
	}

	result, err := h.walletService.Exchange(c.Request().Context(), userID, from, to, req.Amount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// GetBalances 查询用户全部余额
// GET /api/wallets/:userId/balances
func (h *WalletHandler) GetBalances(c echo.Context) error {
	userID := c.Param("userId")

	balances, err := h.walletService.GetBalances(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":    len(balances),
		"balances": balances,
	})
}

// GetBalance 查询用户单一货币余额，无记录视为零
// GET /api/wallets/:userId/balances/:currency
func (h *WalletHandler) GetBalance(c echo.Context) error {
	userID := c.Param("userId")
	currency, err := models.ParseCurrency(c.Param("currency"))
	if err != nil {
		return xe.ErrUnknownCurrency
	}

	balance, err := h.walletService.GetBalance(c.Request().Context(), userID, currency)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"user_id":  userID,
		"currency": currency,
		"balance":  balance,
	})
}

// RegisterRoutes 注册路由
func (h *WalletHandler) RegisterRoutes(g *echo.Group) {
	wallets := g.Group("/wallets")
	wallets.POST("/:userId/deposit", h.Deposit)
	wallets.POST("/:userId/withdraw", h.Withdraw)
	wallets.POST("/:userId/exchange", h.Exchange)
	wallets.GET("/:userId/balances", h.GetBalances)
	wallets.GET("/:userId/balances/:currency", h.GetBalance)
}

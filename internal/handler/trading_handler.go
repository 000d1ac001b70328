package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/laoyang/quanta/internal/models"
	"github.com/laoyang/quanta/internal/service"
	"github.com/laoyang/quanta/internal/xe"
)

// TradingHandler 交易HTTP处理器
type TradingHandler struct {
	tradingService *service.TradingService
	logger         *zap.Logger
}

// NewTradingHandler 创建交易处理器
func NewTradingHandler(tradingService *service.TradingService, logger *zap.Logger) *TradingHandler {
	return &TradingHandler{
		tradingService: tradingService,
		logger:         logger,
	}
}

// TradeRequest 下单请求
// BY_AMOUNT 必须携带 amount，BY_QUANTITY 必须携带 quantity，二者互斥
type TradeRequest struct {
	UserID    string          `json:"userId" validate:"required"`
	Symbol    string          `json:"symbol" validate:"required"`
	OrderType string          `json:"orderType" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Quantity  decimal.Decimal `json:"quantity"`
	Currency  string          `json:"currency" validate:"required"`
}

func (req *TradeRequest) toOrder() (service.TradeOrder, error) {
	currency, err := models.ParseCurrency(req.Currency)
	if err != nil {
		return service.TradeOrder{}, xe.ErrUnknownCurrency
	}

	orderType := models.OrderType(req.OrderType)
	var value decimal.Decimal
	switch orderType {
	case models.OrderByAmount:
		if !req.Quantity.IsZero() {
			return service.TradeOrder{}, xe.ErrInvalidParams
		}
		value = req.Amount
	case models.OrderByQuantity:
		if !req.Amount.IsZero() {
			return service.TradeOrder{}, xe.ErrInvalidParams
		}
		value = req.Quantity
	default:
		return service.TradeOrder{}, xe.ErrInvalidParams
	}

	return service.TradeOrder{
		UserID:    req.UserID,
		Symbol:    req.Symbol,
		OrderType: orderType,
		Value:     value,
		Currency:  currency,
	}, nil
}

// Buy 买入
// POST /api/trades/buy
func (h *TradingHandler) Buy(c echo.Context) error {
	var req TradeRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	order, err := req.toOrder()
	if err != nil {
		return err
	}

	trade, err := h.tradingService.ExecuteBuy(c.Request().Context(), order)
	if err != nil {
		// 资金不足时交易已落库为FAILED，返回记录本身
		if trade != nil {
			return c.JSON(http.StatusUnprocessableEntity, trade)
		}
		return err
	}
	return c.JSON(http.StatusCreated, trade)
}

// Sell 卖出
// POST /api/trades/sell
func (h *TradingHandler) Sell(c echo.Context) error {
	var req TradeRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	order, err := req.toOrder()
	if err != nil {
		return err
	}

	trade, err := h.tradingService.ExecuteSell(c.Request().Context(), order)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, trade)
}

// GetTrades 查询用户交易历史
// GET /api/trades/:userId?limit=50
func (h *TradingHandler) GetTrades(c echo.Context) error {
	userID := c.Param("userId")
	limit := cast.ToInt(c.QueryParam("limit"))

	trades, err := h.tradingService.GetTrades(c.Request().Context(), userID, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":  len(trades),
		"trades": trades,
	})
}

// RegisterRoutes 注册路由
func (h *TradingHandler) RegisterRoutes(g *echo.Group) {
	trades := g.Group("/trades")
	trades.POST("/buy", h.Buy)
	trades.POST("/sell", h.Sell)
	trades.GET("/:userId", h.GetTrades)
}

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

// FeeHandler 手续费HTTP处理器
type FeeHandler struct {
	feeService *service.FeeService
	logger     *zap.Logger
}

// NewFeeHandler 创建手续费处理器
func NewFeeHandler(feeService *service.FeeService, logger *zap.Logger) *FeeHandler {
	return &FeeHandler{
		feeService: feeService,
		logger:     logger,
	}
}

// FeeRuleRequest 创建手续费规则请求
// ruleType=TRADING 时 symbol 必填，ruleType=EXCHANGE 时 fromCurrency/toCurrency 必填
type FeeRuleRequest struct {
	RuleType      string          `json:"ruleType" validate:"required"`
	Symbol        string          `json:"symbol"`
	FromCurrency  string          `json:"fromCurrency"`
	ToCurrency    string          `json:"toCurrency"`
	FixedFee      decimal.Decimal `json:"fixedFee"`
	PercentageFee decimal.Decimal `json:"percentageFee"`
}

// QuoteTradingFee 试算交易手续费
// GET /api/fees/trading/:symbol?amount=1000
func (h *FeeHandler) QuoteTradingFee(c echo.Context) error {
	symbol := c.Param("symbol")
	amount, err := decimal.NewFromString(c.QueryParam("amount"))
	if err != nil || symbol == "" {
		return xe.ErrInvalidParams
	}

	fee, err := h.feeService.TradingFee(c.Request().Context(), symbol, amount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"symbol": symbol,
		"amount": amount,
		"fee":    fee,
	})
}

// QuoteExchangeFee 试算兑换手续费
// GET /api/fees/exchange/:from/:to?amount=1000
func (h *FeeHandler) QuoteExchangeFee(c echo.Context) error {
	from, err := models.ParseCurrency(c.Param("from"))
	if err != nil {
		return xe.ErrUnknownCurrency
	}
	to, err := models.ParseCurrency(c.Param("to"))
	if err != nil {
		return xe.ErrUnknownCurrency
	}
	amount, err := decimal.NewFromString(c.QueryParam("amount"))
	if err != nil {
		return xe.ErrInvalidParams
	}

	fee, err := h.feeService.ExchangeFee(c.Request().Context(), from, to, amount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"from":   from,
		"to":     to,
		"amount": amount,
		"fee":    fee,
	})
}

// CreateRule 创建手续费规则
// POST /api/fees/rules
func (h *FeeHandler) CreateRule(c echo.Context) error {
	var req FeeRuleRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	switch req.RuleType {
	case models.FeeRuleTrading:
		rule, err := h.feeService.CreateTradingRule(ctx, req.Symbol, req.FixedFee, req.PercentageFee)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, rule)
	case models.FeeRuleExchange:
		from, err := models.ParseCurrency(req.FromCurrency)
		if err != nil {
			return xe.ErrUnknownCurrency
		}
		to, err := models.ParseCurrency(req.ToCurrency)
		if err != nil {
			return xe.ErrUnknownCurrency
		}
		rule, err := h.feeService.CreateExchangeRule(ctx, from, to, req.FixedFee, req.PercentageFee)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, rule)
	default:
		return xe.ErrInvalidParams
	}
}

// ListRules 查询全部手续费规则
// GET /api/fees/rules
func (h *FeeHandler) ListRules(c echo.Context) error {
	rules, err := h.feeService.ListRules(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"count": len(rules),
		"rules": rules,
	})
}

// RegisterRoutes 注册路由
func (h *FeeHandler) RegisterRoutes(g *echo.Group) {
	fees := g.Group("/fees")
	fees.GET("/trading/:symbol", h.QuoteTradingFee)
	fees.GET("/exchange/:from/:to", h.QuoteExchangeFee)
	fees.GET("/rules", h.ListRules)
	fees.POST("/rules", h.CreateRule)
}

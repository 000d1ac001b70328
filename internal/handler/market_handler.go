package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/laoyang/quanta/internal/models"
	"github.com/laoyang/quanta/internal/service"
	"github.com/laoyang/quanta/internal/xe"
)

// MarketHandler 行情与汇率HTTP处理器
type MarketHandler struct {
	pricingService *service.PricingService
	rateService    *service.ExchangeRateService
	logger         *zap.Logger
}

// NewMarketHandler 创建行情处理器
func NewMarketHandler(pricingService *service.PricingService, rateService *service.ExchangeRateService, logger *zap.Logger) *MarketHandler {
	return &MarketHandler{
		pricingService: pricingService,
		rateService:    rateService,
		logger:         logger,
	}
}

// ListSecurities 查询全部证券行情
// GET /api/pricing/securities
func (h *MarketHandler) ListSecurities(c echo.Context) error {
	securities := h.pricingService.ListSecurities(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":      len(securities),
		"securities": securities,
	})
}

// GetSecurityPrice 查询证券现价
// GET /api/pricing/securities/:symbol/price
func (h *MarketHandler) GetSecurityPrice(c echo.Context) error {
	security, err := h.pricingService.GetSecurity(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"symbol":       security.Symbol,
		"price":        security.CurrentPrice,
		"last_updated": security.LastUpdated,
	})
}

// ListRates 查询全部汇率
// GET /api/exchange/rates
func (h *MarketHandler) ListRates(c echo.Context) error {
	rates := h.rateService.ListRates(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]interface{}{
		"count": len(rates),
		"rates": rates,
	})
}

// GetRate 查询单个货币对汇率
// GET /api/exchange/rates/:from/:to
func (h *MarketHandler) GetRate(c echo.Context) error {
	from, err := models.ParseCurrency(c.Param("from"))
	if err != nil {
		return xe.ErrUnknownCurrency
	}
	to, err := models.ParseCurrency(c.Param("to"))
	if err != nil {
		return xe.ErrUnknownCurrency
	}

	rate, err := h.rateService.GetRateDetail(c.Request().Context(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rate)
}

// RegisterRoutes 注册路由
func (h *MarketHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/pricing/securities", h.ListSecurities)
	g.GET("/pricing/securities/:symbol/price", h.GetSecurityPrice)
	g.GET("/exchange/rates", h.ListRates)
	g.GET("/exchange/rates/:from/:to", h.GetRate)
}

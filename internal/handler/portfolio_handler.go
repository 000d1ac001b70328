package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/laoyang/quanta/internal/service"
)

// PortfolioHandler 持仓HTTP处理器
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
	logger           *zap.Logger
}

// NewPortfolioHandler 创建持仓处理器
func NewPortfolioHandler(portfolioService *service.PortfolioService, logger *zap.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
		logger:           logger,
	}
}

// GetPortfolio 查询用户持仓
// GET /api/portfolios/:userId
func (h *PortfolioHandler) GetPortfolio(c echo.Context) error {
	userID := c.Param("userId")

	holdings, err := h.portfolioService.GetPortfolio(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":    len(holdings),
		"holdings": holdings,
	})
}

// RegisterRoutes 注册路由
func (h *PortfolioHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/portfolios/:userId", h.GetPortfolio)
}

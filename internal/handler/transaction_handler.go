package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/laoyang/quanta/internal/models"
	"github.com/laoyang/quanta/internal/service"
)

// TransactionHandler 流水HTTP处理器
type TransactionHandler struct {
	transactionService *service.TransactionService
	logger             *zap.Logger
}

// NewTransactionHandler 创建流水处理器
func NewTransactionHandler(transactionService *service.TransactionService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		logger:             logger,
	}
}

// GetTransactions 查询用户流水
// GET /api/transactions/:userId?type=DEPOSIT&limit=50
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := c.Param("userId")
	txnType := models.TransactionType(c.QueryParam("type"))
	limit := cast.ToInt(c.QueryParam("limit"))

	txns, err := h.transactionService.GetTransactions(c.Request().Context(), userID, txnType, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":        len(txns),
		"transactions": txns,
	})
}

// RegisterRoutes 注册路由
func (h *TransactionHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/transactions/:userId", h.GetTransactions)
}

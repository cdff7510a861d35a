package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/storelane/inventory/internal/core/domain"
	"github.com/storelane/inventory/internal/core/service"
	"github.com/storelane/inventory/internal/port"
)

// apiError is the canonical error envelope. Code carries a machine-readable
// discriminator so checkout can tell "out of stock" from generic failures.
type apiError struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

type StockHandler struct {
	adjustments  *service.AdjustmentService
	reservations *service.ReservationService
	ledger       port.Ledger
	catalog      port.Catalog
	logger       zerolog.Logger
}

func NewStockHandler(adjustments *service.AdjustmentService, reservations *service.ReservationService, ledger port.Ledger, catalog port.Catalog, logger zerolog.Logger) *StockHandler {
	return &StockHandler{
		adjustments:  adjustments,
		reservations: reservations,
		ledger:       ledger,
		catalog:      catalog,
		logger:       logger,
	}
}

// NewRouter wires all routes onto a configured Gin engine.
func NewRouter(env string, h *StockHandler) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/stock", h.ListStock)
		v1.POST("/stock/:product_id", h.ProvisionStock)
		v1.GET("/stock/:product_id", h.GetStock)
		v1.POST("/stock/:product_id/adjustments", h.Adjust)
		v1.GET("/stock/:product_id/adjustments", h.History)
		v1.GET("/stock/:product_id/reorder", h.ReorderReport)

		v1.POST("/reservations", h.Reserve)
		v1.DELETE("/reservations/:id", h.Release)
	}

	return r
}

func (h *StockHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type provisionRequest struct {
	LowStockThreshold *int `json:"low_stock_threshold"`
}

func (h *StockHandler) ProvisionStock(c *gin.Context) {
	productID := c.Param("product_id")

	var req provisionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, apiError{Detail: "invalid request body"})
			return
		}
	}

	exists, err := h.catalog.ProductExists(c.Request.Context(), productID)
	if err != nil {
		h.logger.Error().Err(err).Str("product_id", productID).Msg("catalog lookup failed")
		c.JSON(http.StatusBadGateway, apiError{Detail: "catalog unavailable"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, apiError{Detail: "unknown product", Code: "unknown_product"})
		return
	}

	threshold := domain.DefaultLowStockThreshold
	if req.LowStockThreshold != nil {
		if *req.LowStockThreshold < 0 {
			c.JSON(http.StatusBadRequest, apiError{Detail: "low_stock_threshold must be >= 0"})
			return
		}
		threshold = *req.LowStockThreshold
	}

	if err := h.ledger.Provision(c.Request.Context(), productID, threshold); err != nil {
		if errors.Is(err, domain.ErrAlreadyProvisioned) {
			c.JSON(http.StatusConflict, apiError{Detail: "stock record already exists", Code: "already_provisioned"})
			return
		}
		h.logger.Error().Err(err).Str("product_id", productID).Msg("provision failed")
		c.JSON(http.StatusInternalServerError, apiError{Detail: "internal error"})
		return
	}

	item, err := h.ledger.Get(c.Request.Context(), productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apiError{Detail: "internal error"})
		return
	}
	c.JSON(http.StatusCreated, stockResponse(item))
}

type stockItemResponse struct {
	domain.StockItem
	Status domain.StockStatus `json:"status"`
}

func stockResponse(item *domain.StockItem) stockItemResponse {
	return stockItemResponse{
		StockItem: *item,
		Status:    service.StatusFor(item.Quantity, item.LowStockThreshold),
	}
}

func (h *StockHandler) ListStock(c *gin.Context) {
	var filter domain.StockStatus
	if raw := c.Query("status"); raw != "" {
		parsed, ok := domain.ParseStockStatus(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, apiError{Detail: "status must be in_stock, low_stock or out_of_stock"})
			return
		}
		filter = parsed
	}

	items, err := h.ledger.List(c.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("list stock failed")
		c.JSON(http.StatusInternalServerError, apiError{Detail: "internal error"})
		return
	}

	out := make([]stockItemResponse, 0, len(items))
	for i := range items {
		resp := stockResponse(&items[i])
		if filter != "" && resp.Status != filter {
			continue
		}
		out = append(out, resp)
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

func (h *StockHandler) GetStock(c *gin.Context) {
	item, err := h.ledger.Get(c.Request.Context(), c.Param("product_id"))
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, apiError{Detail: "no stock record for product", Code: "not_found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, apiError{Detail: "internal error"})
		return
	}
	c.JSON(http.StatusOK, stockResponse(item))
}

type adjustRequest struct {
	Quantity int    `json:"quantity" binding:"required"`
	Kind     string `json:"kind" binding:"required"`
	Reason   string `json:"reason"`
	Actor    string `json:"actor" binding:"required"`
}

// Adjust is the manual-adjustment entry point used by the admin UI.
// A non-empty reason is mandatory on this path — enforced here at the
// boundary, not inside the ledger.
func (h *StockHandler) Adjust(c *gin.Context) {
	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apiError{Detail: "invalid request body: " + err.Error()})
		return
	}

	kind, ok := domain.ParseAdjustmentKind(req.Kind)
	if !ok {
		c.JSON(http.StatusBadRequest, apiError{Detail: "kind must be add, subtract or set"})
		return
	}
	if req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, apiError{Detail: "quantity must be positive"})
		return
	}
	if req.Reason == "" {
		c.JSON(http.StatusBadRequest, apiError{Detail: "reason is required for manual adjustments"})
		return
	}

	event, err := h.adjustments.Adjust(c.Request.Context(), c.Param("product_id"),
		req.Quantity, kind, req.Reason, req.Actor)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, apiError{Detail: "no stock record for product", Code: "not_found"})
		case errors.Is(err, domain.ErrInvalidAdjustment):
			c.JSON(http.StatusUnprocessableEntity, apiError{Detail: "this would make stock negative", Code: "invalid_adjustment"})
		case errors.Is(err, domain.ErrContention):
			c.JSON(http.StatusConflict, apiError{Detail: "please retry, the item is under heavy load", Code: "contention"})
		default:
			h.logger.Error().Err(err).Str("product_id", c.Param("product_id")).Msg("adjustment failed")
			c.JSON(http.StatusInternalServerError, apiError{Detail: "internal error"})
		}
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (h *StockHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	events, nextCursor, err := h.ledger.History(c.Request.Context(),
		c.Param("product_id"), c.Query("cursor"), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("history query failed")
		c.JSON(http.StatusInternalServerError, apiError{Detail: "internal error"})
		return
	}

	if events == nil {
		events = []domain.AdjustmentEvent{}
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "next_cursor": nextCursor})
}

type reorderResponse struct {
	ProductID      string                 `json:"product_id"`
	Product        *port.ProductInfo      `json:"product,omitempty"`
	Quantity       int                    `json:"quantity"`
	ReorderLevel   int                    `json:"reorder_level"`
	DaysRemaining  *int                   `json:"days_remaining"` // null when sales rate is zero
	Recommendation service.Recommendation `json:"recommendation"`
}

func (h *StockHandler) ReorderReport(c *gin.Context) {
	productID := c.Param("product_id")

	avg, err := strconv.ParseFloat(c.Query("avg_daily_sales"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apiError{Detail: "avg_daily_sales is required and must be a number"})
		return
	}
	leadTime, err := strconv.Atoi(c.DefaultQuery("lead_time_days", strconv.Itoa(service.DefaultLeadTimeDays)))
	if err != nil || leadTime < 0 {
		c.JSON(http.StatusBadRequest, apiError{Detail: "lead_time_days must be a non-negative integer"})
		return
	}
	safety, err := strconv.Atoi(c.DefaultQuery("safety_days", strconv.Itoa(service.DefaultSafetyDays)))
	if err != nil || safety < 0 {
		c.JSON(http.StatusBadRequest, apiError{Detail: "safety_days must be a non-negative integer"})
		return
	}

	item, err := h.ledger.Get(c.Request.Context(), productID)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, apiError{Detail: "no stock record for product", Code: "not_found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, apiError{Detail: "internal error"})
		return
	}

	report := service.Recommend(item.Quantity, avg, leadTime, safety)

	resp := reorderResponse{
		ProductID:      productID,
		Quantity:       item.Quantity,
		ReorderLevel:   report.ReorderLevel,
		Recommendation: report.Recommendation,
	}
	if report.DaysRemaining != service.UnboundedDaysRemaining {
		days := report.DaysRemaining
		resp.DaysRemaining = &days
	}

	// Display metadata only; the report is correct without it.
	if info, err := h.catalog.Product(c.Request.Context(), productID); err == nil {
		resp.Product = info
	}

	c.JSON(http.StatusOK, resp)
}

type reserveRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

func (h *StockHandler) Reserve(c *gin.Context) {
	var req reserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apiError{Detail: "invalid request body: " + err.Error()})
		return
	}
	if req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, apiError{Detail: "quantity must be positive"})
		return
	}

	reservation, err := h.reservations.Reserve(c.Request.Context(), req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientStock):
			// Distinct from generic failures so checkout can surface
			// "no longer available" instead of a 500.
			c.JSON(http.StatusConflict, apiError{Detail: "this item is no longer available in the requested quantity", Code: "insufficient_stock"})
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, apiError{Detail: "no stock record for product", Code: "not_found"})
		case errors.Is(err, domain.ErrContention):
			c.JSON(http.StatusConflict, apiError{Detail: "please retry, the item is under heavy load", Code: "contention"})
		default:
			h.logger.Error().Err(err).Str("product_id", req.ProductID).Msg("reservation failed")
			c.JSON(http.StatusInternalServerError, apiError{Detail: "internal error"})
		}
		return
	}

	c.JSON(http.StatusCreated, reservation)
}

func (h *StockHandler) Release(c *gin.Context) {
	event, err := h.reservations.Release(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, apiError{Detail: "reservation not found", Code: "reservation_not_found"})
		case errors.Is(err, domain.ErrAlreadyReleased):
			c.JSON(http.StatusConflict, apiError{Detail: "reservation already released", Code: "already_released"})
		case errors.Is(err, domain.ErrContention):
			c.JSON(http.StatusConflict, apiError{Detail: "please retry, the item is under heavy load", Code: "contention"})
		default:
			h.logger.Error().Err(err).Str("reservation_id", c.Param("id")).Msg("release failed")
			c.JSON(http.StatusInternalServerError, apiError{Detail: "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, event)
}

package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/telvista/crm-backoffice/internal/api/metrics"
	"github.com/telvista/crm-backoffice/internal/core/domain"
	"github.com/telvista/crm-backoffice/internal/core/ports"
)

type SalesHandler struct {
	sales     ports.SalesService
	customers ports.CustomerService
	stats     ports.StatsService
}

func NewSalesHandler(sales ports.SalesService, customers ports.CustomerService, stats ports.StatsService) *SalesHandler {
	return &SalesHandler{sales: sales, customers: customers, stats: stats}
}

// Create records a sale. Passing an Idempotency-Key header makes retries
// safe: a replayed key returns the originally created sale.
//
// @Summary      Record a sale
// @Tags         sales
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string             false  "Retry deduplication key"
// @Param        body             body      createSaleRequest  true   "Sale fields"
// @Success      201              {object}  saleResponse
// @Failure      400              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /sales [post]
func (h *SalesHandler) Create(c echo.Context) error {
	var req createSaleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	sale, err := h.sales.Create(c.Request().Context(), ports.CreateSaleInput{
		CustomerID:     req.CustomerID,
		PackageID:      req.PackageID,
		Amount:         req.Amount,
		SaleDate:       req.SaleDate,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	metrics.SalesCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toSaleResponse(sale))
}

// List returns all sales joined with customer and package names, newest
// sale date first.
//
// @Summary      List all sales
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  saleResponse
// @Router       /sales [get]
func (h *SalesHandler) List(c echo.Context) error {
	sales, err := h.sales.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSaleResponses(sales))
}

// ListForCustomer returns one customer's sales. Admins may query any
// customer; a client only the customer linked to their own credential.
//
// @Summary      List a customer's sales
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Param        id   path     string  true  "Customer id"
// @Success      200  {array}  saleResponse
// @Failure      403  {object}  errorResponse
// @Router       /sales/customer/{id} [get]
func (h *SalesHandler) ListForCustomer(c echo.Context) error {
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	customerID := c.Param("id")
	if role != domain.RoleAdmin {
		customer, err := h.customers.Get(c.Request().Context(), customerID)
		if err != nil {
			return err
		}
		if customer.CredentialID == "" || customer.CredentialID != userID {
			return domain.ErrForbidden
		}
	}

	sales, err := h.sales.ListForCustomer(c.Request().Context(), customerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSaleResponses(sales))
}

// Stats returns the dashboard aggregates. The statistics service degrades
// to cached or zeroed data on store failure, so this endpoint never errors
// for infrastructure reasons.
//
// @Summary      Sales dashboard statistics
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  statsResponse
// @Router       /sales/stats [get]
func (h *SalesHandler) Stats(c echo.Context) error {
	start := time.Now()
	stats := h.stats.Dashboard(c.Request().Context())
	metrics.StatsRequestDuration.Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusOK, toStatsResponse(stats))
}

func toSaleResponses(sales []domain.Sale) []saleResponse {
	resp := make([]saleResponse, 0, len(sales))
	for i := range sales {
		resp = append(resp, *toSaleResponse(&sales[i]))
	}
	return resp
}

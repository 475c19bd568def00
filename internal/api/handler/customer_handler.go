package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/telvista/crm-backoffice/internal/api/metrics"
	"github.com/telvista/crm-backoffice/internal/core/domain"
	"github.com/telvista/crm-backoffice/internal/core/ports"
)

type CustomerHandler struct {
	customers ports.CustomerService
}

func NewCustomerHandler(customers ports.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// Create adds a customer record. Credential provisioning runs as a side
// effect; its outcome is logged and counted, never inlined in the response.
// The generated temporary password stays inside the provisioning service
// boundary — admins hand credentials off via the reset-password endpoint.
//
// @Summary      Create a customer
// @Tags         customers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      customerRequest  true  "Customer fields"
// @Success      201   {object}  customerResponse
// @Failure      400   {object}  errorResponse
// @Router       /customers [post]
func (h *CustomerHandler) Create(c echo.Context) error {
	var req customerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	customer, result, err := h.customers.Create(c.Request().Context(), ports.CustomerInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Notes:   req.Notes,
	})
	if err != nil {
		return err
	}

	switch {
	case result.Err != nil:
		metrics.ProvisioningTotal.WithLabelValues("failed").Inc()
	case result.CredentialCreated:
		metrics.ProvisioningTotal.WithLabelValues("created").Inc()
	default:
		metrics.ProvisioningTotal.WithLabelValues("skipped").Inc()
	}

	return c.JSON(http.StatusCreated, toCustomerResponse(customer))
}

// Get returns a single customer.
//
// @Summary      Get a customer
// @Tags         customers
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Customer id"
// @Success      200  {object}  customerResponse
// @Failure      404  {object}  errorResponse
// @Router       /customers/{id} [get]
func (h *CustomerHandler) Get(c echo.Context) error {
	customer, err := h.customers.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCustomerResponse(customer))
}

// List returns all customers, newest first.
//
// @Summary      List customers
// @Tags         customers
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  customerResponse
// @Router       /customers [get]
func (h *CustomerHandler) List(c echo.Context) error {
	customers, err := h.customers.List(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]customerResponse, 0, len(customers))
	for i := range customers {
		resp = append(resp, *toCustomerResponse(&customers[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// Update replaces the writable fields of a customer.
//
// @Summary      Update a customer
// @Tags         customers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      string           true  "Customer id"
// @Param        body  body      customerRequest  true  "Customer fields"
// @Success      200   {object}  customerResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /customers/{id} [put]
func (h *CustomerHandler) Update(c echo.Context) error {
	var req customerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	customer, err := h.customers.Update(c.Request().Context(), c.Param("id"), ports.CustomerInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Notes:   req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCustomerResponse(customer))
}

// Delete removes a customer record. The linked credential, when one exists,
// stays; account removal is a separate, user-facing operation.
//
// @Summary      Delete a customer
// @Tags         customers
// @Security     BearerAuth
// @Param        id  path  string  true  "Customer id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) Delete(c echo.Context) error {
	if err := h.customers.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func toCustomerResponse(customer *domain.Customer) *customerResponse {
	return &customerResponse{
		ID:           customer.ID,
		Name:         customer.Name,
		Email:        customer.Email,
		Phone:        customer.Phone,
		Address:      customer.Address,
		Notes:        customer.Notes,
		CredentialID: customer.CredentialID,
		CreatedAt:    customer.CreatedAt,
		UpdatedAt:    customer.UpdatedAt,
	}
}

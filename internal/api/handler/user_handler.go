package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/telvista/crm-backoffice/internal/api/metrics"
	"github.com/telvista/crm-backoffice/internal/core/domain"
	"github.com/telvista/crm-backoffice/internal/core/ports"
)

// UserHandler exposes administrative credential operations: password resets
// and account deletion.
type UserHandler struct {
	provisioning ports.ProvisioningService
	accounts     ports.AccountService
}

func NewUserHandler(provisioning ports.ProvisioningService, accounts ports.AccountService) *UserHandler {
	return &UserHandler{provisioning: provisioning, accounts: accounts}
}

type resetPasswordResponse struct {
	// NewPassword is returned exactly once and never persisted in plaintext.
	NewPassword string `json:"new_password"`
}

// ResetPassword generates a fresh password for a credential.
//
// @Summary      Reset a user's password
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Credential id"
// @Success      200  {object}  resetPasswordResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id}/reset-password [post]
func (h *UserHandler) ResetPassword(c echo.Context) error {
	newPassword, err := h.provisioning.AdminResetPassword(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	metrics.PasswordResetsTotal.Inc()
	return c.JSON(http.StatusOK, resetPasswordResponse{NewPassword: newPassword})
}

// Delete removes a credential. Admins can delete any account; a client can
// delete only their own. Customer records and sales are never cascaded.
//
// @Summary      Delete a user account
// @Tags         users
// @Security     BearerAuth
// @Param        id  path  string  true  "Credential id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	targetID := c.Param("id")
	if role != domain.RoleAdmin && userID != targetID {
		return domain.ErrForbidden
	}

	if err := h.accounts.DeleteAccount(c.Request().Context(), targetID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

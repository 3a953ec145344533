package handler

import (
	"net/http"

	"socialhub/api/middleware"
	"socialhub/api/response"
	"socialhub/internal/dto"
	"socialhub/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AdminHandler serves routes mounted behind RequireAuth and RequireAdmin.
type AdminHandler struct {
	Service  *service.AuthService
	Validate *validator.Validate
}

func NewAdminHandler(svc *service.AuthService, validate *validator.Validate) *AdminHandler {
	return &AdminHandler{Service: svc, Validate: validate}
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	limit, offset := parseLimitOffset(c)
	users, err := h.Service.ListUsers(c.Request().Context(), limit, offset)
	if err != nil {
		return writeServiceError(c, err)
	}
	return response.Success(c, http.StatusOK, "users", dto.UserResponsesFromEntities(users))
}

func (h *AdminHandler) VerifyUser(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid user id", nil)
	}
	var req dto.VerifyUserRequest
	if ok, err := bind(c, h.Validate, &req); !ok {
		return err
	}
	user, err := h.Service.SetVerified(c.Request().Context(), userID, *req.Verified)
	if err != nil {
		return writeServiceError(c, err)
	}
	return response.Success(c, http.StatusOK, "verification updated", dto.UserResponseFromEntity(user))
}

func (h *AdminHandler) RevokeSessions(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Error(c, http.StatusBadRequest, "invalid user id", nil)
	}
	actor, _ := middleware.IdentityFromContext(c)
	if err := h.Service.RevokeUserSessions(c.Request().Context(), actor, userID); err != nil {
		return writeServiceError(c, err)
	}
	return response.Success(c, http.StatusOK, "sessions revoked", nil)
}

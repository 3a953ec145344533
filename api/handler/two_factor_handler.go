package handler

import (
	"net/http"

	"socialhub/api/response"
	"socialhub/internal/dto"
	"socialhub/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type TwoFactorHandler struct {
	Service  *service.TwoFactorService
	Validate *validator.Validate
}

func NewTwoFactorHandler(svc *service.TwoFactorService, validate *validator.Validate) *TwoFactorHandler {
	return &TwoFactorHandler{Service: svc, Validate: validate}
}

func (h *TwoFactorHandler) Enroll(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	provisioning, err := h.Service.BeginEnrollment(c.Request().Context(), identity.ID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return response.Success(c, http.StatusOK, "scan the code and confirm it", dto.TwoFactorEnrollResponse{
		Secret: provisioning.Secret,
		URL:    provisioning.URL,
		QRCode: provisioning.QRCode,
	})
}

func (h *TwoFactorHandler) Confirm(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.TwoFactorCodeRequest
	if ok, err := bind(c, h.Validate, &req); !ok {
		return err
	}
	if err := h.Service.ConfirmEnrollment(c.Request().Context(), identity.ID, req.Code); err != nil {
		return writeServiceError(c, err)
	}
	return response.Success(c, http.StatusOK, "two-factor authentication enabled", nil)
}

func (h *TwoFactorHandler) Disable(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.TwoFactorCodeRequest
	if ok, err := bind(c, h.Validate, &req); !ok {
		return err
	}
	if err := h.Service.Disable(c.Request().Context(), identity.ID, req.Code); err != nil {
		return writeServiceError(c, err)
	}
	return response.Success(c, http.StatusOK, "two-factor authentication disabled", nil)
}

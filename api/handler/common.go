package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"socialhub/api/middleware"
	"socialhub/api/response"
	"socialhub/internal/service"
	"socialhub/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const maxPageSize = 100

var errInvalidBody = errors.New("invalid request body")

// decodeJSON rejects unknown fields. An empty body decodes to the zero value
// so that required-field checks can report every missing field at once.
func decodeJSON(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return errInvalidBody
	}
	return nil
}

// bind decodes and validates the request payload, writing the 400 response
// itself. ok is false when the caller should return immediately.
func bind(c echo.Context, validate *validator.Validate, target any) (bool, error) {
	if err := decodeJSON(c, target); err != nil {
		return false, response.Error(c, http.StatusBadRequest, err.Error(), nil)
	}
	if err := validation.Struct(validate, target); err != nil {
		return false, writeServiceError(c, err)
	}
	return true, nil
}

func writeServiceError(c echo.Context, err error) error {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return response.Error(c, http.StatusBadRequest, "validation failed", fieldErrs)
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrInvalidTwoFactorCode),
		errors.Is(err, service.ErrTwoFactorRequired):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrHandleTaken),
		errors.Is(err, service.ErrTwoFactorAlreadyEnabled),
		errors.Is(err, service.ErrTwoFactorNotEnabled):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		// Left to the process-wide error handler, which logs it.
		return err
	}
	return response.Error(c, status, err.Error(), nil)
}

func currentIdentity(c echo.Context) (*middleware.Identity, error) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, service.ErrUnauthenticated.Error())
	}
	return identity, nil
}

func parseLimitOffset(c echo.Context) (int, int) {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func stringPtr(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

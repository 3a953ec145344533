package handler

import (
	"net/http"

	"socialhub/api/response"
	"socialhub/internal/dto"
	"socialhub/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	Service  *service.AuthService
	Validate *validator.Validate
}

func NewAuthHandler(svc *service.AuthService, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{Service: svc, Validate: validate}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if ok, err := bind(c, h.Validate, &req); !ok {
		return err
	}
	user, err := h.Service.Register(c.Request().Context(), service.RegisterInput{
		Handle:   req.Handle,
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return response.Success(c, http.StatusCreated, "user registered", dto.PublicProfileFromEntity(user, false))
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if ok, err := bind(c, h.Validate, &req); !ok {
		return err
	}
	result, err := h.Service.Login(c.Request().Context(), service.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		Code:      req.Code,
		IPAddress: stringPtr(c.RealIP()),
		UserAgent: stringPtr(c.Request().UserAgent()),
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return response.Success(c, http.StatusOK, "logged in", dto.LoginResponse{
		Token:     result.Token.Assertion,
		ExpiresIn: result.Token.ExpiresIn,
		User:      dto.UserResponseFromEntity(result.User),
	})
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	token, err := h.Service.Refresh(c.Request().Context(), identity)
	if err != nil {
		return writeServiceError(c, err)
	}
	return response.Success(c, http.StatusOK, "token refreshed", dto.TokenResponse{
		Token:     token.Assertion,
		ExpiresIn: token.ExpiresIn,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	if err := h.Service.Logout(c.Request().Context(), identity, stringPtr(c.RealIP())); err != nil {
		return writeServiceError(c, err)
	}
	return response.Success(c, http.StatusOK, "logged out", nil)
}

func (h *AuthHandler) LogoutAll(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	if err := h.Service.LogoutAll(c.Request().Context(), identity, stringPtr(c.RealIP())); err != nil {
		return writeServiceError(c, err)
	}
	return response.Success(c, http.StatusOK, "logged out of all sessions", nil)
}

func (h *AuthHandler) Me(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	profile, err := h.Service.GetProfile(c.Request().Context(), identity.ID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return response.Success(c, http.StatusOK, "current user", dto.MeResponse{
		UserResponse: dto.UserResponseFromEntity(profile.User),
		Roles:        profile.Roles,
	})
}

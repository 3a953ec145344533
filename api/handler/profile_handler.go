package handler

import (
	"net/http"

	"socialhub/api/middleware"
	"socialhub/api/response"
	"socialhub/internal/dto"
	"socialhub/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type ProfileHandler struct {
	Service  *service.AuthService
	Validate *validator.Validate
}

func NewProfileHandler(svc *service.AuthService, validate *validator.Validate) *ProfileHandler {
	return &ProfileHandler{Service: svc, Validate: validate}
}

func (h *ProfileHandler) UpdateMe(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if ok, err := bind(c, h.Validate, &req); !ok {
		return err
	}
	user, err := h.Service.UpdateProfile(c.Request().Context(), identity.ID, service.UpdateProfileInput{
		Handle:         req.Handle,
		Username:       req.Username,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return response.Success(c, http.StatusOK, "profile updated", dto.UserResponseFromEntity(user))
}

// Show is served behind OptionalAuth; is_self is only set for a caller
// authenticated as the profile owner.
func (h *ProfileHandler) Show(c echo.Context) error {
	user, err := h.Service.GetPublicProfile(c.Request().Context(), c.Param("handle"))
	if err != nil {
		return writeServiceError(c, err)
	}
	isSelf := false
	if identity, ok := middleware.IdentityFromContext(c); ok {
		isSelf = identity.ID == user.ID
	}
	return response.Success(c, http.StatusOK, "user profile", dto.PublicProfileFromEntity(user, isSelf))
}

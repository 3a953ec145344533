package dto

import (
	"time"

	"socialhub/internal/entity"
)

type RegisterRequest struct {
	Handle   string `json:"handle" validate:"required"`
	Email    string `json:"email" validate:"required,lenientemail"`
	Password string `json:"password" validate:"required"`
	Username string `json:"username" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,lenientemail"`
	Password string `json:"password" validate:"required"`
	Code     string `json:"code" validate:"omitempty"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expires_in"`
	User      UserResponse `json:"user"`
}

type UpdateProfileRequest struct {
	Handle         *string `json:"handle" validate:"omitempty,name"`
	Username       *string `json:"username" validate:"omitempty,name"`
	Bio            *string `json:"bio" validate:"omitempty,max=500"`
	ProfilePicture *string `json:"profile_picture" validate:"omitempty,max=2048"`
}

type TwoFactorCodeRequest struct {
	Code string `json:"code" validate:"required"`
}

type TwoFactorEnrollResponse struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
	QRCode string `json:"qr_code"`
}

type VerifyUserRequest struct {
	Verified *bool `json:"verified" validate:"required"`
}

// UserResponse is the account owner's (or an admin's) view of a user.
type UserResponse struct {
	ID               string    `json:"id"`
	Handle           string    `json:"handle"`
	Email            string    `json:"email"`
	Username         string    `json:"username"`
	ProfilePicture   string    `json:"profile_picture"`
	Bio              string    `json:"bio"`
	Admin            bool      `json:"admin"`
	Verified         bool      `json:"verified"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type MeResponse struct {
	UserResponse
	Roles []string `json:"roles"`
}

type PublicProfileResponse struct {
	ID             string    `json:"id"`
	Handle         string    `json:"handle"`
	Username       string    `json:"username"`
	ProfilePicture string    `json:"profile_picture"`
	Bio            string    `json:"bio"`
	Verified       bool      `json:"verified"`
	CreatedAt      time.Time `json:"created_at"`
	IsSelf         bool      `json:"is_self"`
}

func UserResponseFromEntity(user *entity.User) UserResponse {
	return UserResponse{
		ID:               user.ID.String(),
		Handle:           user.Handle,
		Email:            user.Email,
		Username:         user.Username,
		ProfilePicture:   user.ProfilePicture,
		Bio:              user.Bio,
		Admin:            user.Admin,
		Verified:         user.Verified,
		TwoFactorEnabled: user.TwoFactor.Enabled,
		CreatedAt:        user.CreatedAt,
		UpdatedAt:        user.UpdatedAt,
	}
}

func UserResponsesFromEntities(users []entity.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, UserResponseFromEntity(&users[i]))
	}
	return responses
}

func PublicProfileFromEntity(user *entity.User, isSelf bool) PublicProfileResponse {
	return PublicProfileResponse{
		ID:             user.ID.String(),
		Handle:         user.Handle,
		Username:       user.Username,
		ProfilePicture: user.ProfilePicture,
		Bio:            user.Bio,
		Verified:       user.Verified,
		CreatedAt:      user.CreatedAt,
		IsSelf:         isSelf,
	}
}

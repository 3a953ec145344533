package service

import "socialhub/internal/entity"

type RegisterInput struct {
	Handle   string
	Email    string
	Password string
	Username string
}

type LoginInput struct {
	Email     string
	Password  string
	Code      string
	IPAddress *string
	UserAgent *string
}

type LoginResult struct {
	Token *IssuedToken
	User  *entity.User
}

// UpdateProfileInput carries only the fields the caller wants to change.
type UpdateProfileInput struct {
	Handle         *string
	Username       *string
	Bio            *string
	ProfilePicture *string
}

type Profile struct {
	User  *entity.User
	Roles []string
}

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Handle   string `json:"handle" validate:"required"`
	Email    string `json:"email" validate:"required,lenientemail"`
	Password string `json:"password" validate:"required"`
	Username string `json:"username" validate:"required"`
}

type profile struct {
	Handle   *string `json:"handle" validate:"omitempty,name"`
	Username *string `json:"username" validate:"omitempty,name"`
}

func TestStruct_CollectsAllMissingFields(t *testing.T) {
	err := Struct(New(), signup{Email: "not-an-email"})
	require.Error(t, err)

	var fields Errors
	require.ErrorAs(t, err, &fields)
	assert.Equal(t, Errors{
		"handle":   "handle is required",
		"email":    "email must be a valid email address",
		"password": "password is required",
		"username": "username is required",
	}, fields)
}

func TestStruct_Valid(t *testing.T) {
	err := Struct(New(), signup{Handle: "ab", Email: "a@b.co", Password: "x", Username: "A"})
	assert.NoError(t, err)
}

func TestStruct_NameBounds(t *testing.T) {
	short := "ab"
	long := "abcdefghijklmnopqrstuvwxyz0123456"
	ok := "alice"

	tests := []struct {
		name    string
		payload profile
		want    Errors
	}{
		{name: "nothing set", payload: profile{}},
		{name: "valid handle", payload: profile{Handle: &ok, Username: &ok}},
		{
			name:    "too short",
			payload: profile{Handle: &short},
			want:    Errors{"handle": "handle must be between 3 and 32 characters"},
		},
		{
			name:    "too long",
			payload: profile{Username: &long},
			want:    Errors{"username": "username must be between 3 and 32 characters"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(New(), tt.payload)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			var fields Errors
			require.ErrorAs(t, err, &fields)
			assert.Equal(t, tt.want, fields)
		})
	}
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("x@y.com"))
	assert.True(t, ValidEmail("first.last+tag@sub.example.org"))
	assert.False(t, ValidEmail("x@y"))
	assert.False(t, ValidEmail("x y@z.com"))
	assert.False(t, ValidEmail("@y.com"))
}

func TestErrors_Error(t *testing.T) {
	err := Errors{"email": "email is required", "handle": "handle is required"}
	assert.Equal(t, "validation failed: email: email is required; handle: handle is required", err.Error())
}

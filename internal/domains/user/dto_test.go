package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterRequestValidate(t *testing.T) {
	valid := RegisterRequest{
		Email:    "user@example.com",
		Password: "Password1",
		FullName: "Test User",
		Phone:    "+84912345678",
	}

	tests := []struct {
		name      string
		mutate    func(r *RegisterRequest)
		wantError bool
	}{
		{"valid request", func(r *RegisterRequest) {}, false},
		{"empty phone allowed", func(r *RegisterRequest) { r.Phone = "" }, false},
		{"missing email", func(r *RegisterRequest) { r.Email = "" }, true},
		{"malformed email", func(r *RegisterRequest) { r.Email = "not-an-email" }, true},
		{"password too short", func(r *RegisterRequest) { r.Password = "Pass1" }, true},
		{"password missing uppercase", func(r *RegisterRequest) { r.Password = "password1" }, true},
		{"password missing lowercase", func(r *RegisterRequest) { r.Password = "PASSWORD1" }, true},
		{"password missing digit", func(r *RegisterRequest) { r.Password = "PasswordX" }, true},
		{"full name too short", func(r *RegisterRequest) { r.FullName = "A" }, true},
		{"phone not E.164", func(r *RegisterRequest) { r.Phone = "0912 345 678" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateRoleRequestValidate(t *testing.T) {
	tests := []struct {
		name      string
		role      string
		wantError bool
	}{
		{"admin", "admin", false},
		{"hotelOwner", "hotelOwner", false},
		{"customer", "customer", false},
		{"unknown role", "superuser", true},
		{"empty role", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := UpdateRoleRequest{Role: tt.role}.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateProfileRequestValidate(t *testing.T) {
	name := "New Name"
	short := "X"
	phone := "+84912345678"
	badPhone := "12345"
	empty := ""

	tests := []struct {
		name      string
		req       UpdateProfileRequest
		wantError bool
	}{
		{"nothing to update", UpdateProfileRequest{}, false},
		{"valid name", UpdateProfileRequest{FullName: &name}, false},
		{"name too short", UpdateProfileRequest{FullName: &short}, true},
		{"valid phone", UpdateProfileRequest{Phone: &phone}, false},
		{"phone cleared", UpdateProfileRequest{Phone: &empty}, false},
		{"bad phone", UpdateProfileRequest{Phone: &badPhone}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateStatusRequestValidate(t *testing.T) {
	active := true
	inactive := false

	assert.Error(t, UpdateStatusRequest{}.Validate())
	assert.NoError(t, UpdateStatusRequest{IsActive: &active}.Validate())
	assert.NoError(t, UpdateStatusRequest{IsActive: &inactive}.Validate())
}

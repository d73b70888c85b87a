package models

import "strings"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	errs := FieldErrors{}
	if strings.TrimSpace(r.Email) == "" {
		errs["email"] = "email is required"
	} else if !ValidEmail(r.Email) {
		errs["email"] = "email is not valid"
	}
	if r.Password == "" {
		errs["password"] = "password is required"
	}
	return errs.OrNil()
}

type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	EmployeeID   int64  `json:"employeeId"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
}

// Validate checks the fields the console relies on are present.
func (r LoginResponse) Validate() error {
	errs := FieldErrors{}
	if r.AccessToken == "" {
		errs["accessToken"] = "missing from response"
	}
	if r.RefreshToken == "" {
		errs["refreshToken"] = "missing from response"
	}
	return errs.OrNil()
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

package models

import "strings"

type EmployeeRole struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Employee struct {
	ID           int64        `json:"id"`
	Code         string       `json:"code"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone,omitempty"`
	Gender       string       `json:"gender,omitempty"`
	DateOfBirth  string       `json:"dateOfBirth,omitempty"`
	Department   string       `json:"department,omitempty"`
	Position     string       `json:"position,omitempty"`
	Level        string       `json:"level,omitempty"`
	Address      string       `json:"address,omitempty"`
	IsEnabled    bool         `json:"isEnabled"`
	IsLocked     bool         `json:"isLocked"`
	Role         EmployeeRole `json:"role"`
	CreatedDate  string       `json:"createdDate,omitempty"`
	ProjectNames []string     `json:"projectNames"`
}

// EmployeeQuery holds the list filters. Zero values are left out of the
// query string.
type EmployeeQuery struct {
	Page       *int
	Size       *int
	Search     string
	Name       string
	Email      string
	Department string
	Level      string
	Role       string
	ProjectID  int64
	SortBy     string
	SortDir    string
}

type CreateEmployeeRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Gender      string `json:"gender,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Department  string `json:"department,omitempty"`
	Position    string `json:"position,omitempty"`
	Level       string `json:"level,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	RoleID      int64  `json:"roleId"`
}

func (r CreateEmployeeRequest) Validate() error {
	errs := FieldErrors{}
	if strings.TrimSpace(r.Name) == "" {
		errs["name"] = "name is required"
	}
	if !ValidEmail(r.Email) {
		errs["email"] = "email is not valid"
	}
	if len(r.Password) < 6 {
		errs["password"] = "password must be at least 6 characters"
	}
	if r.RoleID <= 0 {
		errs["roleId"] = "role is required"
	}
	return errs.OrNil()
}

type UpdateEmployeeRequest struct {
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Gender      string `json:"gender,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Department  string `json:"department,omitempty"`
	Position    string `json:"position,omitempty"`
	Level       string `json:"level,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	RoleID      int64  `json:"roleId,omitempty"`
}

func (r UpdateEmployeeRequest) Validate() error {
	errs := FieldErrors{}
	if r.Email != "" && !ValidEmail(r.Email) {
		errs["email"] = "email is not valid"
	}
	return errs.OrNil()
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (r ChangePasswordRequest) Validate() error {
	errs := FieldErrors{}
	if r.CurrentPassword == "" {
		errs["currentPassword"] = "current password is required"
	}
	if len(r.NewPassword) < 6 {
		errs["newPassword"] = "new password must be at least 6 characters"
	} else if r.NewPassword == r.CurrentPassword {
		errs["newPassword"] = "new password must differ from the current one"
	}
	return errs.OrNil()
}

package models

import (
	"strings"
	"time"
)

type ProjectType string

const (
	ProjectTypeInternal    ProjectType = "INTERNAL"
	ProjectTypeExternal    ProjectType = "EXTERNAL"
	ProjectTypeMaintenance ProjectType = "MAINTENANCE"
	ProjectTypeResearch    ProjectType = "RESEARCH"
)

func (t ProjectType) Valid() bool {
	switch t {
	case ProjectTypeInternal, ProjectTypeExternal, ProjectTypeMaintenance, ProjectTypeResearch:
		return true
	}
	return false
}

type ProjectStatus string

const (
	ProjectStatusPlanning   ProjectStatus = "PLANNING"
	ProjectStatusInProgress ProjectStatus = "IN_PROGRESS"
	ProjectStatusOnHold     ProjectStatus = "ON_HOLD"
	ProjectStatusCompleted  ProjectStatus = "COMPLETED"
	ProjectStatusCancelled  ProjectStatus = "CANCELLED"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusPlanning, ProjectStatusInProgress, ProjectStatusOnHold, ProjectStatusCompleted, ProjectStatusCancelled:
		return true
	}
	return false
}

// DateLayout is the calendar date format used by project dates.
const DateLayout = "2006-01-02"

type ProjectEmployee struct {
	ID       int64  `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Position string `json:"position,omitempty"`
	Level    string `json:"level,omitempty"`
}

type Project struct {
	ID            int64             `json:"id"`
	ProjectCode   string            `json:"projectCode"`
	Name          string            `json:"name"`
	PMEmail       string            `json:"pmEmail"`
	StartDate     string            `json:"startDate"`
	EndDate       string            `json:"endDate"`
	ProjectType   ProjectType       `json:"projectType"`
	ProjectStatus ProjectStatus     `json:"projectStatus"`
	Description   string            `json:"description,omitempty"`
	Budget        float64           `json:"budget,omitempty"`
	CreatedDate   string            `json:"createdDate,omitempty"`
	Employees     []ProjectEmployee `json:"employees"`
}

type ProjectQuery struct {
	Page          *int
	Size          *int
	Search        string
	ProjectType   ProjectType
	ProjectStatus ProjectStatus
	StartDateFrom string
	StartDateTo   string
	PMEmail       string
	SortBy        string
	SortDir       string
}

type CreateProjectRequest struct {
	ProjectCode   string        `json:"projectCode"`
	Name          string        `json:"name"`
	PMEmail       string        `json:"pmEmail"`
	Description   string        `json:"description,omitempty"`
	StartDate     string        `json:"startDate"`
	EndDate       string        `json:"endDate"`
	ProjectStatus ProjectStatus `json:"projectStatus"`
	ProjectType   ProjectType   `json:"projectType"`
	Budget        float64       `json:"budget,omitempty"`
}

func (r CreateProjectRequest) Validate() error {
	errs := FieldErrors{}
	if strings.TrimSpace(r.ProjectCode) == "" {
		errs["projectCode"] = "project code is required"
	}
	if strings.TrimSpace(r.Name) == "" {
		errs["name"] = "name is required"
	}
	if strings.TrimSpace(r.PMEmail) == "" {
		errs["pmEmail"] = "project manager email is required"
	} else if !ValidEmail(r.PMEmail) {
		errs["pmEmail"] = "email is not valid"
	}
	if r.ProjectStatus != "" && !r.ProjectStatus.Valid() {
		errs["projectStatus"] = "unknown project status"
	}
	if r.ProjectType != "" && !r.ProjectType.Valid() {
		errs["projectType"] = "unknown project type"
	}
	if r.Budget < 0 {
		errs["budget"] = "budget cannot be negative"
	}
	validateDates(errs, r.StartDate, r.EndDate, true)
	return errs.OrNil()
}

type UpdateProjectRequest struct {
	Name          string        `json:"name,omitempty"`
	PMEmail       string        `json:"pmEmail,omitempty"`
	Description   string        `json:"description,omitempty"`
	StartDate     string        `json:"startDate,omitempty"`
	EndDate       string        `json:"endDate,omitempty"`
	ProjectStatus ProjectStatus `json:"projectStatus,omitempty"`
	ProjectType   ProjectType   `json:"projectType,omitempty"`
	Budget        float64       `json:"budget,omitempty"`
}

func (r UpdateProjectRequest) Validate() error {
	errs := FieldErrors{}
	if r.PMEmail != "" && !ValidEmail(r.PMEmail) {
		errs["pmEmail"] = "email is not valid"
	}
	if r.ProjectStatus != "" && !r.ProjectStatus.Valid() {
		errs["projectStatus"] = "unknown project status"
	}
	if r.ProjectType != "" && !r.ProjectType.Valid() {
		errs["projectType"] = "unknown project type"
	}
	if r.Budget < 0 {
		errs["budget"] = "budget cannot be negative"
	}
	validateDates(errs, r.StartDate, r.EndDate, false)
	return errs.OrNil()
}

type AssignEmployeesRequest struct {
	EmployeeIDs []int64 `json:"employeeIds"`
}

func (r AssignEmployeesRequest) Validate() error {
	if len(r.EmployeeIDs) == 0 {
		return FieldErrors{"employeeIds": "at least one employee is required"}
	}
	return nil
}

func validateDates(errs FieldErrors, start, end string, required bool) {
	var startAt, endAt time.Time
	var err error

	if start == "" {
		if required {
			errs["startDate"] = "start date is required"
		}
	} else if startAt, err = time.Parse(DateLayout, start); err != nil {
		errs["startDate"] = "start date must be YYYY-MM-DD"
	}

	if end == "" {
		if required {
			errs["endDate"] = "end date is required"
		}
	} else if endAt, err = time.Parse(DateLayout, end); err != nil {
		errs["endDate"] = "end date must be YYYY-MM-DD"
	}

	if !startAt.IsZero() && !endAt.IsZero() && endAt.Before(startAt) {
		errs["endDate"] = "end date must not be before start date"
	}
}

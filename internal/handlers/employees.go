package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"pmadmin/console/internal/models"
	"pmadmin/console/internal/service"
)

func (h HandlerSet) ListEmployees(c *gin.Context) {
	page, valid := pageRequest(c)
	if !valid {
		return
	}
	filter := service.EmployeeFilter{
		PageRequest: page,
		Search:      c.Query("search"),
		Name:        c.Query("name"),
		Email:       c.Query("email"),
		Department:  c.Query("department"),
		Level:       c.Query("level"),
		Role:        c.Query("role"),
	}
	if v := c.Query("projectId"); v != "" {
		projectID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.failErr(c, models.FieldErrors{"projectId": "must be a number"})
			return
		}
		filter.ProjectID = projectID
	}

	ok(c, h.employees.List(c.Request.Context(), filter))
}

func (h HandlerSet) Profile(c *gin.Context) {
	employee, err := h.employees.Get(c.Request.Context(), principal(c).Employee.ID)
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, employee)
}

func (h HandlerSet) GetEmployee(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	employee, err := h.employees.GetFor(c.Request.Context(), principal(c), id)
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, employee)
}

func (h HandlerSet) CreateEmployee(c *gin.Context) {
	var req models.CreateEmployeeRequest
	if !bindJSON(c, &req) {
		return
	}
	employee, err := h.employees.Create(c.Request.Context(), principal(c), req)
	if err != nil {
		h.failErr(c, err)
		return
	}
	created(c, employee)
}

func (h HandlerSet) UpdateEmployee(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req models.UpdateEmployeeRequest
	if !bindJSON(c, &req) {
		return
	}
	employee, err := h.employees.Update(c.Request.Context(), principal(c), id, req)
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, employee)
}

func (h HandlerSet) DeleteEmployee(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := h.employees.Delete(c.Request.Context(), principal(c), id); err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, nil)
}

func (h HandlerSet) EmployeeProjects(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	names, err := h.employees.ProjectNames(c.Request.Context(), principal(c), id)
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, names)
}

func (h HandlerSet) AssignProject(c *gin.Context) {
	employeeID, valid := pathID(c, "id")
	if !valid {
		return
	}
	projectID, valid := pathID(c, "projectId")
	if !valid {
		return
	}
	if err := h.employees.AssignProject(c.Request.Context(), principal(c), employeeID, projectID); err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, nil)
}

func (h HandlerSet) UnassignProject(c *gin.Context) {
	employeeID, valid := pathID(c, "id")
	if !valid {
		return
	}
	projectID, valid := pathID(c, "projectId")
	if !valid {
		return
	}
	if err := h.employees.UnassignProject(c.Request.Context(), principal(c), employeeID, projectID); err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, nil)
}

func (h HandlerSet) ChangePassword(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req models.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.employees.ChangePassword(c.Request.Context(), principal(c), id, req); err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, nil)
}

func (h HandlerSet) setLocked(locked bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := pathID(c, "id")
		if !valid {
			return
		}
		employee, err := h.employees.SetLocked(c.Request.Context(), principal(c), id, locked)
		if err != nil {
			h.failErr(c, err)
			return
		}
		ok(c, employee)
	}
}

func (h HandlerSet) setEnabled(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := pathID(c, "id")
		if !valid {
			return
		}
		employee, err := h.employees.SetEnabled(c.Request.Context(), principal(c), id, enabled)
		if err != nil {
			h.failErr(c, err)
			return
		}
		ok(c, employee)
	}
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"pmadmin/console/internal/models"
	"pmadmin/console/internal/service"
)

func (h HandlerSet) ListProjects(c *gin.Context) {
	page, valid := pageRequest(c)
	if !valid {
		return
	}
	ok(c, h.projects.List(c.Request.Context(), service.ProjectFilter{
		PageRequest:   page,
		Search:        c.Query("search"),
		ProjectType:   c.Query("projectType"),
		ProjectStatus: c.Query("projectStatus"),
		StartDateFrom: c.Query("startDateFrom"),
		StartDateTo:   c.Query("startDateTo"),
		PMEmail:       c.Query("pmEmail"),
	}))
}

func (h HandlerSet) SearchProjects(c *gin.Context) {
	ok(c, h.projects.Search(c.Request.Context(), c.Query("q")))
}

func (h HandlerSet) ProjectStats(c *gin.Context) {
	ok(c, h.projects.Stats(c.Request.Context()))
}

func (h HandlerSet) GetProject(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	project, err := h.projects.Get(c.Request.Context(), id)
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, project)
}

func (h HandlerSet) CreateProject(c *gin.Context) {
	var req models.CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	project, err := h.projects.Create(c.Request.Context(), principal(c), req)
	if err != nil {
		h.failErr(c, err)
		return
	}
	created(c, project)
}

func (h HandlerSet) UpdateProject(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req models.UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	project, err := h.projects.Update(c.Request.Context(), principal(c), id, req)
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, project)
}

func (h HandlerSet) DeleteProject(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := h.projects.Delete(c.Request.Context(), principal(c), id); err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, nil)
}

func (h HandlerSet) ProjectMembers(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	members, err := h.projects.Members(c.Request.Context(), id)
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, members)
}

func (h HandlerSet) AssignEmployees(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req models.AssignEmployeesRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		h.failErr(c, err)
		return
	}
	project, err := h.projects.AddEmployees(c.Request.Context(), principal(c), id, req.EmployeeIDs...)
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, project)
}

func (h HandlerSet) AssignEmployee(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	employeeID, valid := pathID(c, "employeeId")
	if !valid {
		return
	}
	project, err := h.projects.AddEmployees(c.Request.Context(), principal(c), id, employeeID)
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, project)
}

func (h HandlerSet) RemoveEmployee(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	employeeID, valid := pathID(c, "employeeId")
	if !valid {
		return
	}
	project, err := h.projects.RemoveEmployee(c.Request.Context(), principal(c), id, employeeID)
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, project)
}

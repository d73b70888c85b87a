package view

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"pmadmin/console/internal/models"
)

func Employees(page models.Page[models.Employee]) Table {
	t := Table{
		Title:   "Employees",
		Headers: []string{"ID", "CODE", "NAME", "EMAIL", "DEPARTMENT", "LEVEL", "ROLE", "STATUS"},
		Footer:  pageFooter(page.Page, page.TotalPages, page.TotalElements),
	}
	for _, e := range page.Content {
		t.Rows = append(t.Rows, []string{
			id(e.ID), e.Code, e.Name, e.Email, e.Department, e.Level, e.Role.Name, employeeStatus(e),
		})
	}
	return t
}

func Employee(e models.Employee) Table {
	return keyValues("Employee "+e.Code, [][2]string{
		{"ID", id(e.ID)},
		{"Name", e.Name},
		{"Email", e.Email},
		{"Phone", e.Phone},
		{"Gender", e.Gender},
		{"Date of birth", e.DateOfBirth},
		{"Department", e.Department},
		{"Position", e.Position},
		{"Level", e.Level},
		{"Address", e.Address},
		{"Role", e.Role.Name},
		{"Status", employeeStatus(e)},
		{"Created", e.CreatedDate},
		{"Projects", strings.Join(e.ProjectNames, ", ")},
	})
}

func ProjectNames(names []string) Table {
	t := Table{Title: "Projects", Headers: []string{"NAME"}}
	for _, name := range names {
		t.Rows = append(t.Rows, []string{name})
	}
	return t
}

func Projects(page models.Page[models.Project]) Table {
	t := ProjectList("Projects", page.Content)
	t.Footer = pageFooter(page.Page, page.TotalPages, page.TotalElements)
	return t
}

// ProjectList renders an unpaged list of projects, as search returns.
func ProjectList(title string, projects []models.Project) Table {
	t := Table{
		Title:   title,
		Headers: []string{"ID", "CODE", "NAME", "PM", "STATUS", "TYPE", "START", "END", "TEAM"},
	}
	for _, p := range projects {
		t.Rows = append(t.Rows, []string{
			id(p.ID), p.ProjectCode, p.Name, p.PMEmail, string(p.ProjectStatus), string(p.ProjectType),
			p.StartDate, p.EndDate, strconv.Itoa(len(p.Employees)),
		})
	}
	return t
}

func Project(p models.Project) []Table {
	budget := ""
	if p.Budget > 0 {
		budget = strconv.FormatFloat(p.Budget, 'f', 2, 64)
	}
	detail := keyValues("Project "+p.ProjectCode, [][2]string{
		{"ID", id(p.ID)},
		{"Name", p.Name},
		{"Project manager", p.PMEmail},
		{"Status", string(p.ProjectStatus)},
		{"Type", string(p.ProjectType)},
		{"Start", p.StartDate},
		{"End", p.EndDate},
		{"Budget", budget},
		{"Description", p.Description},
		{"Created", p.CreatedDate},
	})
	return []Table{detail, Members(p.Employees)}
}

func Members(members []models.ProjectEmployee) Table {
	t := Table{Title: "Team", Headers: []string{"ID", "CODE", "NAME", "EMAIL", "POSITION", "LEVEL"}}
	for _, m := range members {
		t.Rows = append(t.Rows, []string{id(m.ID), m.Code, m.Name, m.Email, m.Position, m.Level})
	}
	return t
}

func ProjectStats(s models.ProjectStats) Table {
	return keyValues("Project statistics", [][2]string{
		{"Total", strconv.Itoa(s.TotalProjects)},
		{"Active", strconv.Itoa(s.ActiveProjects)},
		{"Completed", strconv.Itoa(s.CompletedProjects)},
		{"Planned", strconv.Itoa(s.PlannedProjects)},
		{"Cancelled", strconv.Itoa(s.CancelledProjects)},
		{"Completion rate", percent(s.ProjectCompletionRate)},
	})
}

func EmployeeStats(s models.EmployeeStats) []Table {
	summary := keyValues("Employee statistics", [][2]string{
		{"Total", strconv.Itoa(s.TotalEmployees)},
		{"Active", strconv.Itoa(s.ActiveEmployees)},
		{"Locked", strconv.Itoa(s.LockedEmployees)},
		{"Disabled", strconv.Itoa(s.DisabledEmployees)},
	})
	return []Table{
		summary,
		counts("By department", "DEPARTMENT", s.EmployeesByDepartment),
		counts("By level", "LEVEL", s.EmployeesByLevel),
	}
}

func Breakdown(b models.ProjectBreakdown) []Table {
	return []Table{
		counts("Projects by status", "STATUS", b.ProjectsByStatus),
		counts("Projects by type", "TYPE", b.ProjectsByType),
	}
}

func Overview(o models.Overview) []Table {
	tables := []Table{ProjectStats(o.ProjectStats)}
	tables = append(tables, EmployeeStats(o.EmployeeStats)[0])
	return append(tables, Breakdown(o.ProjectBreakdown)...)
}

func Activities(activities []models.Activity) Table {
	t := Table{Title: "Recent activity", Headers: []string{"WHEN", "TYPE", "TITLE", "DESCRIPTION", "BY"}}
	for _, a := range activities {
		t.Rows = append(t.Rows, []string{
			a.Timestamp.Local().Format(time.DateTime), string(a.Type), a.Title, a.Description, a.User,
		})
	}
	return t
}

func Health(h models.SystemHealth) Table {
	updated := ""
	if !h.LastUpdated.IsZero() {
		updated = h.LastUpdated.Local().Format(time.DateTime)
	}
	return keyValues("System health", [][2]string{
		{"Status", string(h.Status)},
		{"Uptime", percent(h.Uptime)},
		{"Memory", percent(h.MemoryUsage)},
		{"CPU", percent(h.CPUUsage)},
		{"Disk", percent(h.DiskUsage)},
		{"Active connections", strconv.Itoa(h.ActiveConnections)},
		{"Last updated", updated},
	})
}

// Session describes the logged-in user. expires is zero when unknown.
func Session(user *models.User, expires time.Time) Table {
	if user == nil {
		return keyValues("Session", [][2]string{{"State", "anonymous"}})
	}
	expiry := "unknown"
	if !expires.IsZero() {
		expiry = expires.Local().Format(time.DateTime)
		if time.Until(expires) <= 0 {
			expiry += " (expired)"
		}
	}
	return keyValues("Session", [][2]string{
		{"State", "authenticated"},
		{"ID", user.ID},
		{"Name", user.FullName},
		{"Email", user.Email},
		{"Role", string(user.Role)},
		{"Access token expires", expiry},
	})
}

func keyValues(title string, pairs [][2]string) Table {
	t := Table{Title: title, Headers: []string{"FIELD", "VALUE"}}
	for _, kv := range pairs {
		t.Rows = append(t.Rows, []string{kv[0], kv[1]})
	}
	return t
}

func counts(title, label string, m map[string]int) Table {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := Table{Title: title, Headers: []string{label, "COUNT"}}
	for _, k := range keys {
		t.Rows = append(t.Rows, []string{k, strconv.Itoa(m[k])})
	}
	return t
}

func employeeStatus(e models.Employee) string {
	switch {
	case e.IsLocked:
		return "locked"
	case !e.IsEnabled:
		return "disabled"
	default:
		return "active"
	}
}

func pageFooter(page, totalPages int, total int64) string {
	if totalPages == 0 {
		return "no results"
	}
	return fmt.Sprintf("page %d of %d, %d total", page+1, totalPages, total)
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

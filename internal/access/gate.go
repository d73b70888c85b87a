package access

import (
	"strings"

	"pmadmin/console/internal/models"
)

const (
	PathLogin = "/login"
	PathHome  = "/"
)

// Rule restricts a path prefix to a set of roles.
type Rule struct {
	Prefix string
	Roles  []models.Role
}

// DefaultRules is the console's route table.
var DefaultRules = []Rule{
	{Prefix: "/projects", Roles: []models.Role{models.RoleAdmin, models.RolePM}},
	{Prefix: "/employees", Roles: []models.Role{models.RoleAdmin, models.RolePM}},
	{Prefix: "/pm-tools", Roles: []models.Role{models.RoleAdmin}},
	{Prefix: "/settings", Roles: []models.Role{models.RoleAdmin}},
}

type Outcome int

const (
	Allow Outcome = iota
	RedirectLogin
	RedirectHome
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	default:
		return "redirect-home"
	}
}

// View names the page rendered for an allowed path.
type View string

const (
	ViewLogin             View = "login"
	ViewDashboard         View = "dashboard"
	ViewEmployeeDashboard View = "employee-dashboard"
	ViewProjects          View = "projects"
	ViewEmployees         View = "employees"
	ViewPMTools           View = "pm-tools"
	ViewSettings          View = "settings"
	ViewNotFound          View = "not-found"
)

type Decision struct {
	Outcome Outcome
	// Path is where the user ends up: the requested path when allowed.
	Path string
	View View
}

type Gate struct {
	rules []Rule
}

func NewGate(rules []Rule) *Gate {
	return &Gate{rules: rules}
}

// Resolve decides what happens when user (nil when anonymous) navigates to
// path. The login page is always reachable.
func (g *Gate) Resolve(user *models.User, path string) Decision {
	path = normalize(path)

	if path == PathLogin {
		return Decision{Outcome: Allow, Path: path, View: ViewLogin}
	}
	if user == nil {
		return Decision{Outcome: RedirectLogin, Path: PathLogin, View: ViewLogin}
	}

	if rule, ok := g.match(path); ok && !hasRole(rule.Roles, user.Role) {
		return Decision{Outcome: RedirectHome, Path: PathHome, View: homeView(user.Role)}
	}

	return Decision{Outcome: Allow, Path: path, View: viewFor(path, user.Role)}
}

// Allowed reports whether role may open path.
func (g *Gate) Allowed(role models.Role, path string) bool {
	rule, ok := g.match(normalize(path))
	return !ok || hasRole(rule.Roles, role)
}

func (g *Gate) match(path string) (Rule, bool) {
	for _, rule := range g.rules {
		if path == rule.Prefix || strings.HasPrefix(path, rule.Prefix+"/") {
			return rule, true
		}
	}
	return Rule{}, false
}

func hasRole(roles []models.Role, role models.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = PathHome
		}
	}
	return path
}

func homeView(role models.Role) View {
	if role == models.RoleEmployee {
		return ViewEmployeeDashboard
	}
	return ViewDashboard
}

func viewFor(path string, role models.Role) View {
	switch {
	case path == PathHome:
		return homeView(role)
	case path == "/projects" || strings.HasPrefix(path, "/projects/"):
		return ViewProjects
	case path == "/employees" || strings.HasPrefix(path, "/employees/"):
		return ViewEmployees
	case path == "/pm-tools" || strings.HasPrefix(path, "/pm-tools/"):
		return ViewPMTools
	case path == "/settings" || strings.HasPrefix(path, "/settings/"):
		return ViewSettings
	default:
		return ViewNotFound
	}
}

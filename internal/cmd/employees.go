package cmd

import (
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"pmadmin/console/internal/models"
	"pmadmin/console/internal/view"
)

func (r *root) employeesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "employees",
		Aliases: []string{"employee", "emp"},
		Short:   "Manage employees",
	}
	cmd.AddCommand(
		r.employeesListCommand(),
		r.employeesGetCommand(),
		r.employeesProfileCommand(),
		r.employeesCreateCommand(),
		r.employeesUpdateCommand(),
		r.employeesDeleteCommand(),
		r.employeesAssignCommand(),
		r.employeesUnassignCommand(),
		r.employeesProjectsCommand(),
		r.employeesPasswordCommand(),
		r.employeesToggleCommand("lock", "Lock an account"),
		r.employeesToggleCommand("unlock", "Unlock an account"),
		r.employeesToggleCommand("enable", "Enable an account"),
		r.employeesToggleCommand("disable", "Disable an account"),
	)
	return cmd
}

func (r *root) employeesListCommand() *cobra.Command {
	var q models.EmployeeQuery
	var page, size int
	var desc bool

	cmd := &cobra.Command{
		Use:         "list",
		Short:       "List employees",
		Args:        cobra.NoArgs,
		Annotations: routed("/employees"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("page") {
				q.Page = &page
			}
			if cmd.Flags().Changed("size") {
				q.Size = &size
			}
			if desc {
				q.SortDir = "desc"
			}
			result, err := r.app.Employees.List(cmd.Context(), q)
			if err != nil {
				return err
			}
			return r.app.View.Render(result, view.Employees(result))
		},
	}
	f := cmd.Flags()
	f.IntVar(&page, "page", 0, "zero-based page number")
	f.IntVar(&size, "size", 10, "page size")
	f.StringVar(&q.Search, "search", "", "match name, email or code")
	f.StringVar(&q.Name, "name", "", "filter by name")
	f.StringVar(&q.Email, "email", "", "filter by email")
	f.StringVar(&q.Department, "department", "", "filter by department")
	f.StringVar(&q.Level, "level", "", "filter by level")
	f.StringVar(&q.Role, "role", "", "filter by backend role (ADMIN, PROJECT_MANAGER, EMPLOYEE)")
	f.Int64Var(&q.ProjectID, "project", 0, "only members of this project")
	f.StringVar(&q.SortBy, "sort", "", "sort field (id, name, email, department, level, createdDate)")
	f.BoolVar(&desc, "desc", false, "sort descending")
	return cmd
}

func (r *root) employeesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "get <id>",
		Short:       "Show one employee",
		Args:        cobra.ExactArgs(1),
		Annotations: routed("/employees"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			employee, err := r.app.Employees.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return r.app.View.Render(employee, view.Employee(employee))
		},
	}
}

func (r *root) employeesProfileCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "profile",
		Short:       "Show the signed-in employee",
		Args:        cobra.NoArgs,
		Annotations: routed("/"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			employee, err := r.app.Employees.Profile(cmd.Context())
			if err != nil {
				return err
			}
			return r.app.View.Render(employee, view.Employee(employee))
		},
	}
}

// employeeFields binds the flags shared by create and update.
type employeeFields struct {
	name, email, gender, dateOfBirth string
	department, position, level      string
	phone, address                   string
	roleID                           int64
}

func (e *employeeFields) bind(f *pflag.FlagSet) {
	f.StringVar(&e.name, "name", "", "full name")
	f.StringVar(&e.email, "email", "", "email address")
	f.StringVar(&e.gender, "gender", "", "gender")
	f.StringVar(&e.dateOfBirth, "dob", "", "date of birth (YYYY-MM-DD)")
	f.StringVar(&e.department, "department", "", "department")
	f.StringVar(&e.position, "position", "", "position")
	f.StringVar(&e.level, "level", "", "level")
	f.StringVar(&e.phone, "phone", "", "phone number")
	f.StringVar(&e.address, "address", "", "postal address")
	f.Int64Var(&e.roleID, "role-id", 0, "role id (1 admin, 2 project manager, 3 employee)")
}

func (r *root) employeesCreateCommand() *cobra.Command {
	var fields employeeFields
	var password string

	cmd := &cobra.Command{
		Use:         "create",
		Short:       "Create an employee",
		Args:        cobra.NoArgs,
		Annotations: routed("/employees"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			employee, err := r.app.Employees.Create(cmd.Context(), models.CreateEmployeeRequest{
				Name:        fields.name,
				Email:       fields.email,
				Password:    password,
				Gender:      fields.gender,
				DateOfBirth: fields.dateOfBirth,
				Department:  fields.department,
				Position:    fields.position,
				Level:       fields.level,
				Phone:       fields.phone,
				Address:     fields.address,
				RoleID:      fields.roleID,
			})
			if err != nil {
				return err
			}
			return r.app.View.Render(employee, view.Employee(employee))
		},
	}
	fields.bind(cmd.Flags())
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	return cmd
}

func (r *root) employeesUpdateCommand() *cobra.Command {
	var fields employeeFields

	cmd := &cobra.Command{
		Use:         "update <id>",
		Short:       "Update an employee; only the given flags change",
		Args:        cobra.ExactArgs(1),
		Annotations: routed("/employees"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			employee, err := r.app.Employees.Update(cmd.Context(), id, models.UpdateEmployeeRequest{
				Name:        fields.name,
				Email:       fields.email,
				Gender:      fields.gender,
				DateOfBirth: fields.dateOfBirth,
				Department:  fields.department,
				Position:    fields.position,
				Level:       fields.level,
				Phone:       fields.phone,
				Address:     fields.address,
				RoleID:      fields.roleID,
			})
			if err != nil {
				return err
			}
			return r.app.View.Render(employee, view.Employee(employee))
		},
	}
	fields.bind(cmd.Flags())
	return cmd
}

func (r *root) employeesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "delete <id>",
		Short:       "Delete an employee",
		Args:        cobra.ExactArgs(1),
		Annotations: routed("/employees"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			if err := r.app.Employees.Delete(cmd.Context(), id); err != nil {
				return err
			}
			return r.app.View.Message("Employee %d deleted", id)
		},
	}
}

func (r *root) employeesAssignCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "assign <employee-id> <project-id>",
		Short:       "Add an employee to a project",
		Args:        cobra.ExactArgs(2),
		Annotations: routed("/employees"),
		RunE: func(cmd *cobra.Command, args []string) error {
			employeeID, projectID, err := parseIDPair(args, "employee-id", "project-id")
			if err != nil {
				return err
			}
			if err := r.app.Employees.AssignProject(cmd.Context(), employeeID, projectID); err != nil {
				return err
			}
			return r.app.View.Message("Employee %d assigned to project %d", employeeID, projectID)
		},
	}
}

func (r *root) employeesUnassignCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "unassign <employee-id> <project-id>",
		Short:       "Remove an employee from a project",
		Args:        cobra.ExactArgs(2),
		Annotations: routed("/employees"),
		RunE: func(cmd *cobra.Command, args []string) error {
			employeeID, projectID, err := parseIDPair(args, "employee-id", "project-id")
			if err != nil {
				return err
			}
			if err := r.app.Employees.UnassignProject(cmd.Context(), employeeID, projectID); err != nil {
				return err
			}
			return r.app.View.Message("Employee %d removed from project %d", employeeID, projectID)
		},
	}
}

func (r *root) employeesProjectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "projects <id>",
		Short:       "List the projects an employee works on",
		Args:        cobra.ExactArgs(1),
		Annotations: routed("/"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			names, err := r.app.Employees.Projects(cmd.Context(), id)
			if err != nil {
				return err
			}
			return r.app.View.Render(names, view.ProjectNames(names))
		},
	}
}

func (r *root) employeesPasswordCommand() *cobra.Command {
	var req models.ChangePasswordRequest

	cmd := &cobra.Command{
		Use:         "password [id]",
		Short:       "Change a password; defaults to the signed-in employee",
		Args:        cobra.MaximumNArgs(1),
		Annotations: routed("/"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := r.targetEmployee(args)
			if err != nil {
				return err
			}
			if err := r.app.Employees.ChangePassword(cmd.Context(), id, req); err != nil {
				return err
			}
			return r.app.View.Message("Password changed")
		},
	}
	cmd.Flags().StringVar(&req.CurrentPassword, "current", "", "current password")
	cmd.Flags().StringVar(&req.NewPassword, "new", "", "new password")
	return cmd
}

func (r *root) employeesToggleCommand(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:         action + " <id>",
		Short:       short,
		Args:        cobra.ExactArgs(1),
		Annotations: routed("/employees"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}

			var employee models.Employee
			switch action {
			case "lock":
				employee, err = r.app.Employees.Lock(cmd.Context(), id)
			case "unlock":
				employee, err = r.app.Employees.Unlock(cmd.Context(), id)
			case "enable":
				employee, err = r.app.Employees.Enable(cmd.Context(), id)
			default:
				employee, err = r.app.Employees.Disable(cmd.Context(), id)
			}
			if err != nil {
				return err
			}
			return r.app.View.Render(employee, view.Employee(employee))
		},
	}
}

// targetEmployee is the id given in args, or the signed-in user's.
func (r *root) targetEmployee(args []string) (int64, error) {
	if len(args) == 1 {
		return parseID("id", args[0])
	}
	user := r.app.Session.Current()
	if user == nil {
		return 0, errNotLoggedIn
	}
	return parseID("id", user.ID)
}

func parseID(name, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, models.FieldErrors{name: "must be a positive number"}
	}
	return id, nil
}

func parseIDPair(args []string, first, second string) (int64, int64, error) {
	a, err := parseID(first, args[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := parseID(second, args[1])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

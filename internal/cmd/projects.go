package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"pmadmin/console/internal/models"
	"pmadmin/console/internal/view"
)

func (r *root) projectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project", "proj"},
		Short:   "Manage projects and their teams",
	}
	cmd.AddCommand(
		r.projectsListCommand(),
		r.projectsGetCommand(),
		r.projectsCreateCommand(),
		r.projectsUpdateCommand(),
		r.projectsDeleteCommand(),
		r.projectsAssignCommand(),
		r.projectsRemoveCommand(),
		r.projectsAssignManyCommand(),
		r.projectsEmployeesCommand(),
		r.projectsSearchCommand(),
		r.projectsStatsCommand(),
	)
	return cmd
}

func (r *root) projectsListCommand() *cobra.Command {
	var q models.ProjectQuery
	var page, size int
	var projectType, projectStatus string
	var desc bool

	cmd := &cobra.Command{
		Use:         "list",
		Short:       "List projects",
		Args:        cobra.NoArgs,
		Annotations: routed("/projects"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("page") {
				q.Page = &page
			}
			if cmd.Flags().Changed("size") {
				q.Size = &size
			}
			q.ProjectType = models.ProjectType(strings.ToUpper(projectType))
			q.ProjectStatus = models.ProjectStatus(strings.ToUpper(projectStatus))
			if desc {
				q.SortDir = "desc"
			}
			result, err := r.app.Projects.List(cmd.Context(), q)
			if err != nil {
				return err
			}
			return r.app.View.Render(result, view.Projects(result))
		},
	}
	f := cmd.Flags()
	f.IntVar(&page, "page", 0, "zero-based page number")
	f.IntVar(&size, "size", 10, "page size")
	f.StringVar(&q.Search, "search", "", "match name, code or description")
	f.StringVar(&projectType, "type", "", "filter by type (INTERNAL, EXTERNAL, MAINTENANCE, RESEARCH)")
	f.StringVar(&projectStatus, "status", "", "filter by status (PLANNING, IN_PROGRESS, ON_HOLD, COMPLETED, CANCELLED)")
	f.StringVar(&q.StartDateFrom, "start-from", "", "start date on or after (YYYY-MM-DD)")
	f.StringVar(&q.StartDateTo, "start-to", "", "start date on or before (YYYY-MM-DD)")
	f.StringVar(&q.PMEmail, "pm", "", "filter by project manager email")
	f.StringVar(&q.SortBy, "sort", "", "sort field (id, name, projectCode, startDate, endDate, budget)")
	f.BoolVar(&desc, "desc", false, "sort descending")
	return cmd
}

func (r *root) projectsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "get <id>",
		Short:       "Show one project and its team",
		Args:        cobra.ExactArgs(1),
		Annotations: routed("/projects"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			project, err := r.app.Projects.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return r.app.View.Render(project, view.Project(project)...)
		},
	}
}

type projectFields struct {
	name, pmEmail, description, startDate, endDate, status, projectType string
	budget                                                              float64
}

func (p *projectFields) bind(f *pflag.FlagSet) {
	f.StringVar(&p.name, "name", "", "project name")
	f.StringVar(&p.pmEmail, "pm", "", "project manager email")
	f.StringVar(&p.description, "description", "", "description")
	f.StringVar(&p.startDate, "start", "", "start date (YYYY-MM-DD)")
	f.StringVar(&p.endDate, "end", "", "end date (YYYY-MM-DD)")
	f.StringVar(&p.status, "status", "", "status (PLANNING, IN_PROGRESS, ON_HOLD, COMPLETED, CANCELLED)")
	f.StringVar(&p.projectType, "type", "", "type (INTERNAL, EXTERNAL, MAINTENANCE, RESEARCH)")
	f.Float64Var(&p.budget, "budget", 0, "budget")
}

func (r *root) projectsCreateCommand() *cobra.Command {
	var fields projectFields
	var code string

	cmd := &cobra.Command{
		Use:         "create",
		Short:       "Create a project",
		Args:        cobra.NoArgs,
		Annotations: routed("/projects"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			project, err := r.app.Projects.Create(cmd.Context(), models.CreateProjectRequest{
				ProjectCode:   code,
				Name:          fields.name,
				PMEmail:       fields.pmEmail,
				Description:   fields.description,
				StartDate:     fields.startDate,
				EndDate:       fields.endDate,
				ProjectStatus: models.ProjectStatus(strings.ToUpper(fields.status)),
				ProjectType:   models.ProjectType(strings.ToUpper(fields.projectType)),
				Budget:        fields.budget,
			})
			if err != nil {
				return err
			}
			return r.app.View.Render(project, view.Project(project)...)
		},
	}
	fields.bind(cmd.Flags())
	cmd.Flags().StringVar(&code, "code", "", "unique project code")
	return cmd
}

func (r *root) projectsUpdateCommand() *cobra.Command {
	var fields projectFields

	cmd := &cobra.Command{
		Use:         "update <id>",
		Short:       "Update a project; only the given flags change",
		Args:        cobra.ExactArgs(1),
		Annotations: routed("/projects"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			project, err := r.app.Projects.Update(cmd.Context(), id, models.UpdateProjectRequest{
				Name:          fields.name,
				PMEmail:       fields.pmEmail,
				Description:   fields.description,
				StartDate:     fields.startDate,
				EndDate:       fields.endDate,
				ProjectStatus: models.ProjectStatus(strings.ToUpper(fields.status)),
				ProjectType:   models.ProjectType(strings.ToUpper(fields.projectType)),
				Budget:        fields.budget,
			})
			if err != nil {
				return err
			}
			return r.app.View.Render(project, view.Project(project)...)
		},
	}
	fields.bind(cmd.Flags())
	return cmd
}

func (r *root) projectsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "delete <id>",
		Short:       "Delete a project",
		Args:        cobra.ExactArgs(1),
		Annotations: routed("/projects"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			if err := r.app.Projects.Delete(cmd.Context(), id); err != nil {
				return err
			}
			return r.app.View.Message("Project %d deleted", id)
		},
	}
}

func (r *root) projectsAssignCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "assign <project-id> <employee-id>",
		Short:       "Add one employee to the team",
		Args:        cobra.ExactArgs(2),
		Annotations: routed("/projects"),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, employeeID, err := parseIDPair(args, "project-id", "employee-id")
			if err != nil {
				return err
			}
			project, err := r.app.Projects.AssignEmployee(cmd.Context(), projectID, employeeID)
			if err != nil {
				return err
			}
			return r.app.View.Render(project.Employees, view.Members(project.Employees))
		},
	}
}

func (r *root) projectsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "remove <project-id> <employee-id>",
		Short:       "Remove one employee from the team",
		Args:        cobra.ExactArgs(2),
		Annotations: routed("/projects"),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, employeeID, err := parseIDPair(args, "project-id", "employee-id")
			if err != nil {
				return err
			}
			project, err := r.app.Projects.RemoveEmployee(cmd.Context(), projectID, employeeID)
			if err != nil {
				return err
			}
			return r.app.View.Render(project.Employees, view.Members(project.Employees))
		},
	}
}

func (r *root) projectsAssignManyCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "assign-many <project-id> <employee-id>...",
		Short:       "Add several employees to the team at once",
		Args:        cobra.MinimumNArgs(2),
		Annotations: routed("/projects"),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID("project-id", args[0])
			if err != nil {
				return err
			}
			employeeIDs := make([]int64, 0, len(args)-1)
			for _, arg := range args[1:] {
				id, err := parseID("employee-id", arg)
				if err != nil {
					return err
				}
				employeeIDs = append(employeeIDs, id)
			}
			project, err := r.app.Projects.AssignEmployees(cmd.Context(), projectID, employeeIDs)
			if err != nil {
				return err
			}
			return r.app.View.Render(project.Employees, view.Members(project.Employees))
		},
	}
}

func (r *root) projectsEmployeesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "employees <id>",
		Short:       "List the team of a project",
		Args:        cobra.ExactArgs(1),
		Annotations: routed("/projects"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			members, err := r.app.Projects.Employees(cmd.Context(), id)
			if err != nil {
				return err
			}
			return r.app.View.Render(members, view.Members(members))
		},
	}
}

func (r *root) projectsSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "search <term>",
		Short:       "Search projects by name, code or description",
		Args:        cobra.MinimumNArgs(1),
		Annotations: routed("/projects"),
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := r.app.Projects.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return r.app.View.Render(projects, view.ProjectList("Search results", projects))
		},
	}
}

func (r *root) projectsStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "stats",
		Short:       "Show project statistics",
		Args:        cobra.NoArgs,
		Annotations: routed("/projects"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := r.app.Projects.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return r.app.View.Render(stats, view.ProjectStats(stats))
		},
	}
}

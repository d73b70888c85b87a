package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pmadmin/console/internal/access"
	"pmadmin/console/internal/models"
	"pmadmin/console/internal/view"
)

func (r *root) openCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "open <path>",
		Short: "Navigate to a console route and render its view",
		Long: `Open a console route the way the browser console would. Routes the
signed-in role may not see redirect to its home view; without a session every
route but /login redirects to the login view.

Routes: /, /login, /projects, /employees, /pm-tools, /settings`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decision := r.app.Session.Navigate(args[0])
			if decision.Outcome != access.Allow {
				r.app.Log.Info().
					Str("requested", args[0]).
					Str("outcome", decision.Outcome.String()).
					Str("path", decision.Path).
					Msg("route redirected")
				fmt.Fprintf(cmd.ErrOrStderr(), "Redirected to %s\n", decision.Path)
			}
			return r.renderView(cmd.Context(), decision)
		},
	}
}

func (r *root) renderView(ctx context.Context, decision access.Decision) error {
	switch decision.View {
	case access.ViewLogin:
		if decision.Outcome == access.RedirectLogin {
			return errNotLoggedIn
		}
		return r.app.View.Message("Sign in with `pmadmin auth login --email <email>`")

	case access.ViewDashboard:
		return r.renderOverview(ctx)

	case access.ViewEmployeeDashboard:
		profile, err := r.app.Employees.Profile(ctx)
		if err != nil {
			return err
		}
		names, err := r.app.Employees.Projects(ctx, profile.ID)
		if err != nil {
			return err
		}
		return r.app.View.Render(
			map[string]any{"profile": profile, "projects": names},
			view.Employee(profile), view.ProjectNames(names),
		)

	case access.ViewProjects:
		page, err := r.app.Projects.List(ctx, models.ProjectQuery{})
		if err != nil {
			return err
		}
		return r.app.View.Render(page, view.Projects(page))

	case access.ViewEmployees:
		page, err := r.app.Employees.List(ctx, models.EmployeeQuery{})
		if err != nil {
			return err
		}
		return r.app.View.Render(page, view.Employees(page))

	case access.ViewPMTools:
		return r.renderProjectStats(ctx)

	case access.ViewSettings:
		return r.renderStatus(ctx)

	default:
		return fmt.Errorf("page not found: %s", decision.Path)
	}
}

package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"pmadmin/console/internal/jobs"
	"pmadmin/console/internal/view"
)

func (r *root) dashboardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash"},
		Short:   "Show dashboard statistics",
	}
	cmd.AddCommand(
		r.dashboardOverviewCommand(),
		r.dashboardProjectsCommand(),
		r.dashboardEmployeesCommand(),
		r.dashboardActivitiesCommand(),
		r.dashboardHealthCommand(),
		r.dashboardWatchCommand(),
	)
	return cmd
}

func (r *root) dashboardOverviewCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "overview",
		Short:       "Project and employee statistics in one view",
		Args:        cobra.NoArgs,
		Annotations: routed("/"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.renderOverview(cmd.Context())
		},
	}
}

func (r *root) renderOverview(ctx context.Context) error {
	overview, err := r.app.Dashboard.Overview(ctx)
	if err != nil {
		return err
	}
	return r.app.View.Render(overview, view.Overview(overview)...)
}

func (r *root) dashboardProjectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "projects",
		Short:       "Project statistics with type and status breakdown",
		Args:        cobra.NoArgs,
		Annotations: routed("/"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.renderProjectStats(cmd.Context())
		},
	}
}

func (r *root) renderProjectStats(ctx context.Context) error {
	stats, err := r.app.Dashboard.ProjectStats(ctx)
	if err != nil {
		return err
	}
	breakdown, err := r.app.Dashboard.ProjectBreakdown(ctx)
	if err != nil {
		return err
	}
	tables := append([]view.Table{view.ProjectStats(stats)}, view.Breakdown(breakdown)...)
	return r.app.View.Render(map[string]any{"stats": stats, "breakdown": breakdown}, tables...)
}

func (r *root) dashboardEmployeesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "employees",
		Short:       "Employee statistics by department and level",
		Args:        cobra.NoArgs,
		Annotations: routed("/"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := r.app.Dashboard.EmployeeStats(cmd.Context())
			if err != nil {
				return err
			}
			return r.app.View.Render(stats, view.EmployeeStats(stats)...)
		},
	}
}

func (r *root) dashboardActivitiesCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:         "activities",
		Short:       "Recent activity",
		Args:        cobra.NoArgs,
		Annotations: routed("/"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			activities, err := r.app.Dashboard.Activities(cmd.Context())
			if err != nil {
				return err
			}
			if limit > 0 && len(activities) > limit {
				activities = activities[:limit]
			}
			return r.app.View.Render(activities, view.Activities(activities))
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "show at most this many entries (0 shows all)")
	return cmd
}

func (r *root) dashboardHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "health",
		Short:       "Backend health",
		Args:        cobra.NoArgs,
		Annotations: routed("/"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			health, err := r.app.Dashboard.SystemHealth(cmd.Context())
			if err != nil {
				return err
			}
			return r.app.View.Render(health, view.Health(health))
		},
	}
}

func (r *root) dashboardWatchCommand() *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render the overview on a schedule until interrupted",
		Long: `Render the dashboard overview, then again on every tick of the schedule
(watch.schedule in the config, "@every 30s" by default). Stops on Ctrl-C.`,
		Args:        cobra.NoArgs,
		Annotations: routed("/"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if schedule == "" {
				schedule = r.app.Config.Watch.Schedule
			}

			if err := r.renderOverview(ctx); err != nil {
				return err
			}

			scheduler := jobs.NewScheduler(r.app.Log)
			err := scheduler.Add("dashboard-watch", schedule, func(jobCtx context.Context) {
				if err := r.renderOverview(jobCtx); err != nil {
					r.app.Log.Warn().Err(err).Msg("dashboard refresh failed")
				}
			})
			if err != nil {
				return err
			}
			scheduler.Start()
			r.app.Log.Debug().Str("schedule", schedule).Msg("watching dashboard")

			<-ctx.Done()

			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return scheduler.Stop(stopCtx)
		},
	}
	cmd.Flags().StringVar(&schedule, "schedule", "", "cron spec or descriptor overriding watch.schedule")
	return cmd
}

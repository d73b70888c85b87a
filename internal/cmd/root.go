package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"pmadmin/console/internal/access"
)

// routeAnnotation marks a command with the console route it renders, so the
// role gate applies to it.
const routeAnnotation = "route"

type root struct {
	opts globalOptions
	app  *App
}

// NewRootCommand builds the pmadmin command tree. stdout receives rendered
// output, stderr logs.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	r := &root{}

	cmd := &cobra.Command{
		Use:   "pmadmin",
		Short: "Project management administration console",
		Long: `pmadmin manages employees, projects and dashboards of a project management API.

Sign in with "pmadmin auth login"; the session is kept in the configured store
and restored on every run. Set backend.mode to "stub" (or pass --backend stub)
to work against the built-in in-memory backend.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations["standalone"] == "true" {
				return nil
			}
			app, err := newApp(cmd.Context(), &r.opts, stdout, stderr)
			if err != nil {
				return err
			}
			r.app = app
			return r.gate(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if r.app == nil {
				return nil
			}
			return r.app.Close()
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.PersistentFlags()
	flags.StringVar(&r.opts.configPath, "config", "", "config file (default is ./pmadmin.yaml or $HOME/.pmadmin/pmadmin.yaml)")
	flags.StringVarP(&r.opts.output, "output", "o", "table", "output format: table, json or yaml")
	flags.StringVar(&r.opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&r.opts.backend, "backend", "", "backend mode: remote or stub")
	flags.StringVar(&r.opts.apiURL, "api-url", "", "base URL of the remote API")

	cmd.AddCommand(
		r.authCommand(),
		r.employeesCommand(),
		r.projectsCommand(),
		r.dashboardCommand(),
		r.openCommand(),
		r.serveStubCommand(),
	)
	return cmd
}

// Execute runs the command tree with args and writes errors with a hint to
// stderr.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := NewRootCommand(stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(stderr, describeError(err))
	}
	return err
}

// gate refuses annotated commands the current user may not open.
func (r *root) gate(cmd *cobra.Command) error {
	route, ok := cmd.Annotations[routeAnnotation]
	if !ok {
		return nil
	}
	decision := r.app.Session.Navigate(route)
	switch decision.Outcome {
	case access.RedirectLogin:
		return errNotLoggedIn
	case access.RedirectHome:
		user := r.app.Session.Current()
		return fmt.Errorf("%w: role %s cannot open %s", errAccessDenied, user.Role, route)
	}
	return nil
}

func routed(route string) map[string]string {
	return map[string]string{routeAnnotation: route}
}

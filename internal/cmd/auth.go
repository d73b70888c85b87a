package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pmadmin/console/internal/auth"
	"pmadmin/console/internal/session"
	"pmadmin/console/internal/view"
)

func (r *root) authCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in, sign out and inspect the session",
	}
	cmd.AddCommand(
		r.loginCommand(),
		r.logoutCommand(),
		r.logoutAllCommand(),
		r.refreshCommand(),
		r.statusCommand(),
	)
	return cmd
}

func (r *root) loginCommand() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		Long: `Sign in with email and password. The password is read from standard input
when --password is not given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			user, err := r.app.Session.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			return r.app.View.Message("Logged in as %s (%s, role %s)", user.FullName, user.Email, user.Role)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (r *root) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out of this session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := r.app.Session.Logout(cmd.Context()); err != nil {
				return err
			}
			return r.app.View.Message("Logged out")
		},
	}
}

func (r *root) logoutAllCommand() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "logout-all",
		Short: "Revoke every session of an account",
		Long: `Revoke every session of the account, on all devices. Defaults to the
signed-in account; admins may name another one with --email.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" {
				user := r.app.Session.Current()
				if user == nil {
					return errNotLoggedIn
				}
				email = user.Email
			}
			if err := r.app.Session.LogoutAll(cmd.Context(), email); err != nil {
				return err
			}
			return r.app.View.Message("Logged out %s from all devices", email)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account whose sessions to revoke")
	return cmd
}

func (r *root) refreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the refresh token for a new token pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := r.app.Auth.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			return r.app.View.Message("Session refreshed, access token valid until %s", expiryText(sess.AccessToken))
		},
	}
}

type statusReport struct {
	State     string     `json:"state"`
	User      any        `json:"user,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Backend   string     `json:"backend"`
	BaseURL   string     `json:"baseUrl"`
}

func (r *root) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the signed-in user and token expiry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.renderStatus(cmd.Context())
		},
	}
}

func (r *root) renderStatus(ctx context.Context) error {
	user := r.app.Session.Current()
	report := statusReport{
		State:   auth.Anonymous.String(),
		Backend: r.app.Config.Backend.Mode,
		BaseURL: r.app.Client.BaseURL(),
	}

	var expires time.Time
	if user != nil {
		report.State = auth.Authenticated.String()
		report.User = user
		token, _, err := r.app.Store.Get(ctx, session.KeyAccessToken)
		if err != nil {
			return err
		}
		if exp, err := auth.TokenExpiry(token); err == nil {
			expires = exp
			report.ExpiresAt = &exp
		} else {
			r.app.Log.Debug().Err(err).Msg("access token expiry unreadable")
		}
	}

	return r.app.View.Render(report, view.Session(user, expires))
}

func expiryText(token string) string {
	exp, err := auth.TokenExpiry(token)
	if err != nil {
		return "an unknown time"
	}
	return exp.Local().Format(time.DateTime)
}

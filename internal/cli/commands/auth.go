package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"adminconsole/internal/app"
	"adminconsole/internal/session"
)

func LoginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as an administrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				email = os.Getenv("ADMIN_EMAIL")
			}
			if password == "" {
				password = os.Getenv("ADMIN_PASSWORD")
			}
			if email == "" {
				return errors.New("--email is required")
			}
			if password == "" {
				p, err := readLine(cmd, "Password: ")
				if err != nil {
					return err
				}
				password = p
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				u, err := a.Session.Login(ctx, email, password)
				if err != nil {
					return fmt.Errorf("sign in: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s\n", userLabel(u))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email (or ADMIN_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (or ADMIN_PASSWORD, or prompt)")
	return cmd
}

func readLine(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func LogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if _, err := a.Session.Restore(ctx); err != nil && !errors.Is(err, session.ErrNoSession) {
					a.Log.Debug().Err(err).Msg("restore before logout")
				}
				if err := a.Session.Logout(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "signed out")
				return nil
			})
		},
	}
}

func WhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in administrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, a *app.App) error {
				u := a.Session.User()
				if jsonOutput(cmd) {
					return printJSON(cmd.OutOrStdout(), u)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\nid: %s\nadmin: %s\nexpired: %s\n",
					userLabel(u), u.ID, yesNo(u.IsAdmin), yesNo(a.Session.Expired(time.Now())))
				return nil
			})
		},
	}
}

func PrefsCmd() *cobra.Command {
	var theme, language string
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change the stored theme and language",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if theme != "" {
					if err := a.Session.SetTheme(ctx, theme); err != nil {
						return err
					}
				}
				if language != "" {
					if err := a.Session.SetLanguage(ctx, language); err != nil {
						return err
					}
				}
				prefs := map[string]string{
					"theme":    a.Session.Theme(ctx, a.Config.UI.Theme),
					"language": a.Session.Language(ctx, a.Config.UI.Language),
				}
				if jsonOutput(cmd) {
					return printJSON(cmd.OutOrStdout(), prefs)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "theme: %s\nlanguage: %s\n", prefs["theme"], prefs["language"])
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "", "light, dark or system")
	cmd.Flags().StringVar(&language, "lang", "", "UI language code, e.g. en or zh")
	return cmd
}

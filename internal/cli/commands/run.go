package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"adminconsole/internal/app"
	"adminconsole/internal/config"
	"adminconsole/internal/daterange"
	"adminconsole/internal/pagination"
	"adminconsole/internal/session"
	"adminconsole/internal/transport"
)

// withApp opens the client for one command and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if v := flagString(cmd, "api-url"); v != "" {
		cfg.API.BaseURL = strings.TrimSuffix(v, "/")
	}
	if v := flagString(cmd, "log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v := flagString(cmd, "metrics-addr"); v != "" {
		cfg.Metrics.Addr = v
	}
	app.SetupLogger(cfg.Log.Level)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.Open(ctx, cfg, log.Logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn().Err(err).Msg("close")
		}
	}()
	return fn(app.WithContext(ctx, a), a)
}

// withSession is withApp for commands that need a signed-in administrator. A
// 401 from any call drops the stored session.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		if _, err := a.RequireSession(ctx); err != nil {
			return err
		}
		err := fn(ctx, a)
		if a.Session.HandleError(ctx, err) {
			return fmt.Errorf("%w (%w)", app.ErrSignInRequired, err)
		}
		return err
	})
}

// notFound turns a 404 into a message naming what was looked up.
func notFound(err error, what, id string) error {
	if transport.IsNotFound(err) {
		return fmt.Errorf("%s %s not found", what, id)
	}
	return err
}

func flagString(cmd *cobra.Command, name string) string {
	f := cmd.Flag(name)
	if f == nil {
		return ""
	}
	return f.Value.String()
}

func jsonOutput(cmd *cobra.Command) bool {
	return flagString(cmd, "json") == "true"
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// render prints v as JSON when --json is set, otherwise through table.
func render(cmd *cobra.Command, v any, table func(w *tabwriter.Writer)) error {
	if jsonOutput(cmd) {
		return printJSON(cmd.OutOrStdout(), v)
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	table(tw)
	return tw.Flush()
}

func row(w io.Writer, cols ...any) {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(w, strings.Join(parts, "\t"))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// pageFlags binds --page (1-based) and --page-size.
type pageFlags struct {
	page     int
	pageSize int
}

func (p *pageFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.page, "page", 1, "Page number, starting at 1")
	cmd.Flags().IntVar(&p.pageSize, "page-size", 0, fmt.Sprintf("Rows per page, one of %v (default from PAGE_SIZE)", pagination.PageSizeOptions))
}

func (p pageFlags) state(a *app.App) (pagination.State, error) {
	size := p.pageSize
	if size == 0 {
		size = a.Config.UI.PageSize
	} else if !pagination.IsPageSizeOption(size) {
		return pagination.State{}, fmt.Errorf("--page-size must be one of %v", pagination.PageSizeOptions)
	}
	s := pagination.New(pagination.Options{InitialPageSize: size})
	s.GoToPage(p.page - 1)
	return s, nil
}

func pageFooter(w io.Writer, s pagination.State, total int) {
	pages := s.TotalPages(total)
	fmt.Fprintf(w, "\npage %d of %d, %d total", s.Page()+1, max(pages, 1), total)
	if s.HasNext(total) {
		fmt.Fprintf(w, ", next: --page %d", s.Page()+2)
	}
	fmt.Fprintln(w)
}

// rangeFlags binds --days or --from/--to.
type rangeFlags struct {
	days int
	from string
	to   string
}

func (r *rangeFlags) bind(cmd *cobra.Command, defaultDays int) {
	cmd.Flags().IntVar(&r.days, "days", defaultDays, fmt.Sprintf("Relative range in days, usually one of %v", daterange.Presets))
	cmd.Flags().StringVar(&r.from, "from", "", "Custom range start, YYYY-MM-DD")
	cmd.Flags().StringVar(&r.to, "to", "", "Custom range end, YYYY-MM-DD (inclusive)")
}

func (r rangeFlags) resolve(now time.Time) (daterange.Range, error) {
	if r.from != "" || r.to != "" {
		if r.from == "" || r.to == "" {
			return daterange.Range{}, fmt.Errorf("--from and --to must be set together")
		}
		return daterange.Custom(r.from, r.to, time.Local)
	}
	return daterange.LastDays(now, r.days)
}

func optInt(cmd *cobra.Command, name string, v int) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func optString(cmd *cobra.Command, name string, v string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "enable", "enabled":
		return true, nil
	case "off", "disable", "disabled":
		return false, nil
	}
	return strconv.ParseBool(s)
}

func userLabel(u *session.User) string {
	if u.Name != nil && *u.Name != "" {
		return fmt.Sprintf("%s <%s>", *u.Name, u.Email)
	}
	return u.Email
}

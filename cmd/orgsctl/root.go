package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/maxviazov/orgs-directory-service/pkg/client"
	"github.com/maxviazov/orgs-directory-service/pkg/pagination"
)

type globalOptions struct {
	baseURL string
	perPage int
	retries int
	output  string
	verbose bool
}

func (o *globalOptions) client() (*client.Client, error) {
	level := zerolog.WarnLevel
	if o.verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	policy := client.DefaultRetryPolicy()
	policy.MaxAttempts = o.retries
	return client.New(o.baseURL,
		client.WithLogger(log),
		client.WithRetryPolicy(policy),
		client.WithPerPage(o.perPage),
	)
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "orgsctl",
		Short:         "Browse and edit the organizations directory",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != "json" && opts.output != "table" {
				return fmt.Errorf("--output must be json or table, got %q", opts.output)
			}
			if opts.retries < 1 {
				return fmt.Errorf("--retries must be at least 1")
			}
			return nil
		},
	}
	f := root.PersistentFlags()
	f.StringVar(&opts.baseURL, "base-url", envOr("ORGS_API_URL", "http://127.0.0.1:3000"), "API base URL")
	f.IntVar(&opts.perPage, "per-page", pagination.ClientDefaultPerPage, "page size used when walking lists")
	f.IntVar(&opts.retries, "retries", 3, "attempts per request before giving up")
	f.StringVarP(&opts.output, "output", "o", "table", "output format: json or table")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log every API call")

	root.AddCommand(
		newOrgsCommand(opts),
		newUsersCommand(opts),
		newLabelsCommand(opts),
		newLabelCommand(opts),
		newUserCommand(opts),
	)
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// render prints v as indented JSON, or as a table built from headers and rows.
func render(w io.Writer, format string, v any, headers []string, rows [][]string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...).
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/laurel-hq/laurel/migrations"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect schema migrations",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withProvider(cmd.Context(), func(ctx context.Context, p *goose.Provider) error {
					results, err := p.Up(ctx)
					for _, r := range results {
						printResult(cmd.OutOrStdout(), r)
					}
					if err != nil {
						return withCode(exitDB, errors.Wrap(err, "migrate up"))
					}
					if len(results) == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "no pending migrations")
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withProvider(cmd.Context(), func(ctx context.Context, p *goose.Provider) error {
					r, err := p.Down(ctx)
					if r != nil {
						printResult(cmd.OutOrStdout(), r)
					}
					if err != nil {
						return withCode(exitDB, errors.Wrap(err, "migrate down"))
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "List migrations and whether they are applied",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withProvider(cmd.Context(), func(ctx context.Context, p *goose.Provider) error {
					statuses, err := p.Status(ctx)
					if err != nil {
						return withCode(exitDB, errors.Wrap(err, "migrate status"))
					}
					for _, s := range statuses {
						applied := "pending"
						if s.State == goose.StateApplied {
							applied = s.AppliedAt.Format("2006-01-02 15:04:05")
						}
						fmt.Fprintf(cmd.OutOrStdout(), "%5d  %-40s %s\n", s.Source.Version, s.Source.Path, applied)
					}
					return nil
				})
			},
		},
	)
	return cmd
}

func withProvider(ctx context.Context, fn func(context.Context, *goose.Provider) error) error {
	db, err := openSQL()
	if err != nil {
		return err
	}
	defer func(db *sql.DB) { _ = db.Close() }(db)

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return withCode(exitUsage, errors.Wrap(err, "load migrations"))
	}
	return fn(ctx, provider)
}

func printResult(w io.Writer, r *goose.MigrationResult) {
	status := "ok"
	if r.Error != nil {
		status = r.Error.Error()
	}
	fmt.Fprintf(w, "%-4s %5d  %-40s %s (%s)\n", r.Direction, r.Source.Version, r.Source.Path, status, r.Duration)
}

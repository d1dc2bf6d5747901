// Package migrate applies the goose SQL migrations that define the Postgres
// schema. The migrations are embedded so the api binary can run them without
// the source tree.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/pressly/goose/v3"

	"github.com/angelmondragon/shopdesk-backend/pkg/logger"
)

// DefaultDir is where migrations live in the source tree.
const DefaultDir = "pkg/migrate/migrations"

//go:embed migrations/*.sql
var embedded embed.FS

// Embedded returns the migrations compiled into the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Source resolves dir: the default directory maps to the embedded set so
// the binary and the tree can never disagree.
func Source(dir string) fs.FS {
	if dir == "" || dir == DefaultDir {
		return Embedded()
	}
	return os.DirFS(dir)
}

type Runner struct {
	provider *goose.Provider
	logg     *logger.Logger
}

func NewRunner(db *sql.DB, migrations fs.FS, logg *logger.Logger) (*Runner, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	return &Runner{provider: provider, logg: logg}, nil
}

// Exec runs one of up, down, redo or status.
func (r *Runner) Exec(ctx context.Context, command string) error {
	switch command {
	case "up":
		results, err := r.provider.Up(ctx)
		r.report(ctx, results...)
		return wrap("up", err)
	case "down":
		result, err := r.provider.Down(ctx)
		r.report(ctx, result)
		return wrap("down", err)
	case "redo":
		down, err := r.provider.Down(ctx)
		r.report(ctx, down)
		if err != nil {
			return wrap("redo", err)
		}
		up, err := r.provider.UpByOne(ctx)
		r.report(ctx, up)
		return wrap("redo", err)
	case "status":
		statuses, err := r.provider.Status(ctx)
		if err != nil {
			return wrap("status", err)
		}
		for _, st := range statuses {
			fields := map[string]any{"version": st.Source.Version, "file": st.Source.Path, "state": string(st.State)}
			if !st.AppliedAt.IsZero() {
				fields["applied_at"] = st.AppliedAt
			}
			r.info(r.fields(ctx, fields), "migration status")
		}
		return nil
	default:
		return fmt.Errorf("unknown goose command %q", command)
	}
}

// MigrateTo moves the schema up or down to version (YYYYMMDDHHMMSS).
func (r *Runner) MigrateTo(ctx context.Context, version string) error {
	target, err := strconv.ParseInt(version, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", version, err)
	}
	current, err := r.provider.GetDBVersion(ctx)
	if err != nil {
		return wrap("version", err)
	}

	var results []*goose.MigrationResult
	switch {
	case current == target:
		return nil
	case current < target:
		results, err = r.provider.UpTo(ctx, target)
	default:
		results, err = r.provider.DownTo(ctx, target)
	}
	r.report(ctx, results...)
	return wrap(fmt.Sprintf("migrate %d -> %d", current, target), err)
}

func (r *Runner) report(ctx context.Context, results ...*goose.MigrationResult) {
	for _, res := range results {
		if res == nil || res.Source == nil {
			continue
		}
		r.info(r.fields(ctx, map[string]any{
			"version":     res.Source.Version,
			"file":        res.Source.Path,
			"direction":   res.Direction,
			"duration_ms": res.Duration.Milliseconds(),
		}), "migration applied")
	}
}

func (r *Runner) fields(ctx context.Context, fields map[string]any) context.Context {
	if r.logg == nil {
		return ctx
	}
	return r.logg.WithFields(ctx, fields)
}

func (r *Runner) info(ctx context.Context, msg string) {
	if r.logg != nil {
		r.logg.Info(ctx, msg)
	}
}

func wrap(command string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("goose %s: %w", command, err)
}

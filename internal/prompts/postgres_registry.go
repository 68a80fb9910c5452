package prompts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// PostgresRegistry reads prompts from the prompt_versions / prompt_aliases
// tables (see migrations/).
type PostgresRegistry struct {
	db *sql.DB
}

func NewPostgresRegistry(db *sql.DB) *PostgresRegistry {
	return &PostgresRegistry{db: db}
}

// Load resolves name@alias through prompt_aliases. The alias "latest" falls
// back to the highest stored version when no such alias row exists.
func (r *PostgresRegistry) Load(ctx context.Context, name, alias string) (*Template, error) {
	tmpl, err := r.scan(r.db.QueryRowContext(ctx, `
		SELECT v.version, v.template
		FROM prompt_aliases a
		JOIN prompt_versions v ON v.name = a.name AND v.version = a.version
		WHERE a.name = $1 AND a.alias = $2
	`, name, alias), name)
	if errors.Is(err, sql.ErrNoRows) && alias == "latest" {
		tmpl, err = r.scan(r.db.QueryRowContext(ctx, `
			SELECT version, template
			FROM prompt_versions
			WHERE name = $1
			ORDER BY version DESC
			LIMIT 1
		`, name), name)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s@%s", ErrPromptNotFound, name, alias)
		}
		return nil, err
	}
	return tmpl, nil
}

func (r *PostgresRegistry) scan(row *sql.Row, name string) (*Template, error) {
	var (
		version int64
		text    string
	)
	if err := row.Scan(&version, &text); err != nil {
		return nil, err
	}
	return &Template{Name: name, Version: strconv.FormatInt(version, 10), Text: text}, nil
}

func (r *PostgresRegistry) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

package prompts

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const aliasQuery = `FROM prompt_aliases a\s+JOIN prompt_versions v`

func TestPostgresRegistry_LatestFallsBackToHighestVersion(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(aliasQuery).
		WithArgs("user_prompt", "latest").
		WillReturnRows(sqlmock.NewRows([]string{"version", "template"}))
	mock.ExpectQuery(`SELECT version, template\s+FROM prompt_versions\s+WHERE name = \$1\s+ORDER BY version DESC`).
		WithArgs("user_prompt").
		WillReturnRows(sqlmock.NewRows([]string{"version", "template"}).AddRow(int64(3), "Q: {{user_query}}"))

	tmpl, err := NewPostgresRegistry(db).Load(context.Background(), "user_prompt", "latest")
	require.NoError(t, err)
	assert.Equal(t, &Template{Name: "user_prompt", Version: "3", Text: "Q: {{user_query}}"}, tmpl)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRegistry_ExplicitLatestAliasWins(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(aliasQuery).
		WithArgs("user_prompt", "latest").
		WillReturnRows(sqlmock.NewRows([]string{"version", "template"}).AddRow(int64(2), "Pinned: {{user_query}}"))

	tmpl, err := NewPostgresRegistry(db).Load(context.Background(), "user_prompt", "latest")
	require.NoError(t, err)
	assert.Equal(t, "2", tmpl.Version)
	assert.Equal(t, "Pinned: {{user_query}}", tmpl.Text)
	assert.NoError(t, mock.ExpectationsWereMet(), "no MAX(version) query when the alias exists")
}

func TestPostgresRegistry_Alias(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(aliasQuery).
		WithArgs("system_prompt", "production").
		WillReturnRows(sqlmock.NewRows([]string{"version", "template"}).AddRow(int64(2), "Be terse."))

	tmpl, err := NewPostgresRegistry(db).Load(context.Background(), "system_prompt", "production")
	require.NoError(t, err)
	assert.Equal(t, "2", tmpl.Version)
	assert.Equal(t, "Be terse.", tmpl.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRegistry_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(aliasQuery).
		WithArgs("missing", "latest").
		WillReturnRows(sqlmock.NewRows([]string{"version", "template"}))
	mock.ExpectQuery(`FROM prompt_versions`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"version", "template"}))

	_, err = NewPostgresRegistry(db).Load(context.Background(), "missing", "latest")
	assert.True(t, errors.Is(err, ErrPromptNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRegistry_MissingAliasIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(aliasQuery).
		WithArgs("user_prompt", "staging").
		WillReturnRows(sqlmock.NewRows([]string{"version", "template"}))

	_, err = NewPostgresRegistry(db).Load(context.Background(), "user_prompt", "staging")
	assert.True(t, errors.Is(err, ErrPromptNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRegistry_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(aliasQuery).
		WithArgs("user_prompt", "latest").
		WillReturnError(errors.New("connection reset by peer"))

	_, err = NewPostgresRegistry(db).Load(context.Background(), "user_prompt", "latest")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrPromptNotFound))
}

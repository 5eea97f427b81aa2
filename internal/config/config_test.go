package config

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"field-assembler/internal/container"
	"field-assembler/internal/property"
)

const sampleConfig = `
version = "v1"
log_level = "debug"
strategy = "unordered"
max_concurrency = 4
conversions = ["default", "textual_bool"]

[[tables]]
id = "lookup"
namespace = "status"
key = "code"
value = "label"
rows = [
  { code = 1, label = "active" },
  { code = 2, label = "closed" },
]

[[tables]]
id = "lookup"
namespace = "country"
key = "iso"

[[tables.rows]]
iso = "DE"
name = "Germany"
`

func TestNewConfigFromBytes(t *testing.T) {
	cfg, err := NewConfigFromBytes([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, VersionLatest, cfg.Version)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, StrategyUnordered, cfg.Strategy)
	assert.Equal(t, 4, cfg.MaxConcurrency)

	categories, err := cfg.Categories()
	require.NoError(t, err)
	assert.True(t, categories.Has(property.CategoryDefault|property.CategoryTextualBool))
	require.Len(t, cfg.Tables, 2)
	assert.Len(t, cfg.Tables[0].Rows, 2)
	assert.Equal(t, "config v1: strategy=unordered tables=2 sql=0", cfg.String())
}

func TestNewConfigFromBytes_Defaults(t *testing.T) {
	cfg, err := NewConfigFromBytes(nil)
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, StrategySequential, cfg.Strategy)
	assert.Equal(t, "info", cfg.LogLevel)

	categories, err := cfg.Categories()
	require.NoError(t, err)
	assert.Equal(t, property.CategoryDefault, categories)
}

func TestNewConfigFromBytes_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
		wantMsg string
	}{
		{name: "bad toml", data: "version = ", wantErr: ErrFailedToLoadConfig},
		{name: "version", data: `version = "v2"`, wantErr: ErrUnsupportedConfigVer},
		{name: "strategy", data: `strategy = "random"`, wantErr: ErrInvalidStrategy},
		{name: "level", data: `log_level = "loud"`, wantErr: ErrFailedToValidateConfig, wantMsg: "loud"},
		{name: "format", data: `log_format = "xml"`, wantErr: ErrFailedToValidateConfig, wantMsg: "xml"},
		{name: "concurrency", data: `max_concurrency = -1`, wantMsg: "must not be negative"},
		{name: "conversions", data: `conversions = ["magic"]`, wantMsg: "unknown conversion category"},
		{
			name:    "table without id",
			data:    "[[tables]]\nnamespace = \"a\"\nkey = \"k\"",
			wantErr: ErrEmptyID,
		},
		{
			name:    "table without key",
			data:    "[[tables]]\nid = \"t\"\nnamespace = \"a\"",
			wantErr: ErrMissingKey,
		},
		{
			name:    "duplicate namespace",
			data:    "[[tables]]\nid = \"t\"\nnamespace = \"a\"\nkey = \"k\"\n[[tables]]\nid = \"t\"\nnamespace = \"a\"\nkey = \"k\"",
			wantErr: ErrDuplicateNamespace,
		},
		{
			name:    "row without key",
			data:    "[[tables]]\nid = \"t\"\nnamespace = \"a\"\nkey = \"k\"\nrows = [{ x = 1 }]",
			wantMsg: `row 0 has no "k" column`,
		},
		{
			name:    "sql id clashes with table",
			data:    "[[tables]]\nid = \"t\"\nnamespace = \"a\"\nkey = \"k\"\n[[sql]]\nid = \"t\"\ndsn = \":memory:\"",
			wantErr: ErrDuplicateID,
		},
		{
			name:    "sql without dsn",
			data:    "[[sql]]\nid = \"db\"",
			wantMsg: "empty dsn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfigFromBytes([]byte(tt.data))
			require.Error(t, err)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestNewConfig(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "engine.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	cfg, err := NewConfig(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Tables, 2)

	_, err = NewConfig(filepath.Join(dir, "engine.yaml"))
	require.ErrorIs(t, err, ErrFailedToLoadConfig)

	_, err = NewConfig(filepath.Join(dir, "missing.toml"))
	require.ErrorIs(t, err, ErrFailedToLoadConfig)
}

func TestNewConfigFromReader(t *testing.T) {
	cfg, err := NewConfigFromReader(strings.NewReader(`strategy = "SEQUENTIAL"`))
	require.NoError(t, err)
	assert.Equal(t, StrategySequential, cfg.Strategy)
}

func TestMarshal_RoundTrip(t *testing.T) {
	cfg, err := NewConfigFromBytes([]byte(sampleConfig))
	require.NoError(t, err)

	data, err := cfg.Marshal()
	require.NoError(t, err)

	again, err := NewConfigFromBytes(data)
	require.NoError(t, err)
	assert.Equal(t, cfg.Strategy, again.Strategy)
	assert.Len(t, again.Tables, len(cfg.Tables))
}

func TestBuild_Tables(t *testing.T) {
	cfg, err := NewConfigFromBytes([]byte(sampleConfig))
	require.NoError(t, err)

	src, err := cfg.Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })

	require.Len(t, src.Containers, 1)

	c := src.Containers[0]
	assert.Equal(t, "lookup", c.ID())
	assert.Equal(t, container.ScopeNamespace, c.Scope())

	got, err := c.Get(context.Background(), "status", []any{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, map[any]any{int64(1): "active", int64(2): "closed"}, got)

	got, err = c.Get(context.Background(), "country", []any{"DE"})
	require.NoError(t, err)
	assert.Equal(t, map[any]any{"DE": map[string]any{"iso": "DE", "name": "Germany"}}, got)

	_, err = c.Get(context.Background(), "planet", []any{"x"})
	require.ErrorIs(t, err, container.ErrUnknownNamespace)
}

func TestBuild_SQL(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "users.db")

	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)

	_, err = db.Exec(`CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO users (id, name) VALUES (1, 'ada'), (2, 'linus')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	cfg, err := NewConfigFromBytes([]byte(`
[[sql]]
id = "db"
dsn = "` + dsn + `"

[[sql.tables]]
namespace = "users"
table = "users"
key = "id"
columns = ["name"]
`))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.SQL[0].Driver)

	src, err := cfg.Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })

	require.Len(t, src.Containers, 1)

	got, err := src.Containers[0].Get(context.Background(), "users", []any{2})
	require.NoError(t, err)
	require.Len(t, got, 1)

	row, ok := got[int64(2)].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "linus", row["name"])
}

func TestBuild_UnknownDriver(t *testing.T) {
	cfg := Default()
	cfg.SQL = []SQLSource{{ID: "db", Driver: "nope", DSN: "x"}}

	_, err := cfg.Build()
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrFailedToLoadConfig))
	assert.Contains(t, err.Error(), "sql db")
}

//spellchecker:words config
package config_test

//spellchecker:words path filepath testing github mhdb internal config store stretchr testify assert require
import (
	"os"
	"path/filepath"
	"testing"

	"github.com/FAU-CDI/mhdb/internal/config"
	"github.com/FAU-CDI/mhdb/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	assert.Equal(t, config.Config{
		Index: config.Index{Base: "mhindex", Engine: config.EngineLevelDB},
	}, cfg)
	assert.NoError(t, cfg.Validate())

	engine, err := cfg.Engine()
	require.NoError(t, err)
	assert.Equal(t, store.DiskEngine{}, engine)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
		want    config.Config
		wantErr bool
	}{
		{
			name:    "yaml overlays defaults",
			file:    "mhdb.yaml",
			content: "index:\n  engine: sqlite\nlog:\n  verbose: true\n",
			want: config.Config{
				Index: config.Index{Base: "mhindex", Engine: config.EngineSQLite},
				Log:   config.Log{Verbose: true},
			},
		},
		{
			name:    "json",
			file:    "mhdb.json",
			content: `{"index": {"base": ".uids"}, "log": {"pretty": true}}`,
			want: config.Config{
				Index: config.Index{Base: ".uids", Engine: config.EngineLevelDB},
				Log:   config.Log{Pretty: true},
			},
		},
		{
			name:    "unknown engine",
			file:    "mhdb.yml",
			content: "index:\n  engine: bdb\n",
			wantErr: true,
		},
		{
			name:    "numeric base",
			file:    "mhdb.yml",
			content: "index:\n  base: \"123\"\n",
			wantErr: true,
		},
		{
			name:    "base with separator",
			file:    "mhdb.yml",
			content: "index:\n  base: a/b\n",
			wantErr: true,
		},
		{
			name:    "unknown format",
			file:    "mhdb.toml",
			content: "",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := config.Load(writeFile(t, tt.file, tt.content))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultPath(t *testing.T) {
	path := writeFile(t, "custom.yaml", "")
	t.Setenv(config.EnvVar, path)

	assert.Equal(t, path, config.DefaultPath())
}

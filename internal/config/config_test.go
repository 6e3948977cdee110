package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bedboss.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 4, cfg.Classifier.SampleRows)
	assert.Equal(t, 5, cfg.Classifier.MaxHeaderRows)
	assert.True(t, cfg.Classifier.AllowPartial)
	assert.Equal(t, 4, cfg.Compatibility.Workers)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.NoError(t, cfg.Validate())

	opts := cfg.Classifier.TableOptions()
	assert.Equal(t, 4, opts.SampleRows)
	assert.Equal(t, 5, opts.MaxHeaderRows)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlay(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  read_timeout: 5s
classifier:
  sample_rows: 10
  allow_partial: false
compatibility:
  exclude: [hg19, mm9]
registry:
  path: /data/genomes.yaml
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10, cfg.Classifier.SampleRows)
	assert.Equal(t, 5, cfg.Classifier.MaxHeaderRows)
	assert.False(t, cfg.Classifier.AllowPartial)
	assert.Equal(t, []string{"hg19", "mm9"}, cfg.Compatibility.Exclude)
	assert.Equal(t, 4, cfg.Compatibility.Workers)
	assert.Equal(t, "/data/genomes.yaml", cfg.Registry.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "server: [\n"},
		{"bad port", "server:\n  port: 70000\n"},
		{"zero timeout", "server:\n  write_timeout: 0s\n"},
		{"zero sample rows", "classifier:\n  sample_rows: 0\n"},
		{"zero workers", "compatibility:\n  workers: 0\n"},
		{"bad level", "log:\n  level: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

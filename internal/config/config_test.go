package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/ktree/internal/ktree"
	"github.com/viant/ktree/internal/output"
)

func newFlags(t *testing.T) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("ktree", pflag.ContinueOnError)
	fs.String("compress", "none", "")
	fs.String("catalog", "", "")
	fs.String("distance", "euclidean", "")
	fs.String("log-level", "info", "")
	fs.String("log-format", "text", "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, output.CompressionNone, cfg.Compression())
	assert.Equal(t, 16, cfg.Build.SplitIterations)
	assert.Equal(t, ktree.DefaultChunkFloats, cfg.Build.ChunkFloats)
	assert.Equal(t, "ktree", cfg.Tracing.ServiceName)
	assert.Empty(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ktree.yaml")
	content := `
log:
  level: debug
  format: json
build:
  compression: zstd
  distance: cosine
  split_iterations: 4
tracing:
  sample_rate: 0.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, output.CompressionZstd, cfg.Compression())
	d, err := cfg.Distance()
	require.NoError(t, err)
	assert.Equal(t, ktree.DistanceCosine, d)
	assert.Equal(t, 4, cfg.Build.SplitIterations)
	assert.Equal(t, 0.5, cfg.Tracing.SampleRate)
	level, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_Precedence(t *testing.T) {
	t.Setenv("KTREE_BUILD_COMPRESSION", "lz4")
	t.Setenv("KTREE_LOG_LEVEL", "warn")

	cfg, err := Load("", newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, output.CompressionLZ4, cfg.Compression(), "env overrides defaults")
	assert.Equal(t, "warn", cfg.Log.Level)

	fs := newFlags(t)
	require.NoError(t, fs.Parse([]string{"--compress", "zstd"}))
	cfg, err = Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, output.CompressionZstd, cfg.Compression(), "flags override env")
	assert.Equal(t, "warn", cfg.Log.Level, "unchanged flags keep env values")
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  string
		val  string
		want string
	}{
		{"compression", "KTREE_BUILD_COMPRESSION", "gzip", "compression"},
		{"distance", "KTREE_BUILD_DISTANCE", "manhattan", "distance"},
		{"log level", "KTREE_LOG_LEVEL", "loud", "log level"},
		{"log format", "KTREE_LOG_FORMAT", "xml", "log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.val)
			_, err := Load("", nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_Warnings(t *testing.T) {
	cfg := Default()
	cfg.Build.SplitIterations = 0
	cfg.Build.ChunkFloats = -1
	cfg.Tracing.SampleRate = 2
	cfg.Tracing.OTLPEndpoint = "localhost:4317"
	cfg.Tracing.ServiceName = ""

	warnings := cfg.Validate()
	require.Len(t, warnings, 4)
	joined := strings.Join(warnings, "\n")
	for _, key := range []string{"split_iterations", "chunk_floats", "sample_rate", "service_name"} {
		assert.Contains(t, joined, key)
	}
}

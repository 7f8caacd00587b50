package bserve_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/advdv/bconduit/bserve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

type TestEnv struct {
	bserve.BaseEnvironment
	Greeting string `env:"GREETING" envDefault:"hello"`
}

func TestParseEnvDefaults(t *testing.T) {
	t.Setenv("BCONDUIT_ADDR", ":9090")

	env, err := bserve.ParseEnv[TestEnv]()()
	require.NoError(t, err)

	assert.Equal(t, ":9090", env.Addr)
	assert.Equal(t, 8, env.Threads)
	assert.Equal(t, 0, env.QueueSize)
	assert.Equal(t, bserve.TransportNetHTTP, env.Transport)
	assert.Equal(t, "bconduit", env.ServiceName)
	assert.Equal(t, zapcore.InfoLevel, env.LogLevel)
	assert.Equal(t, "none", env.OtelExporter)
	assert.Empty(t, env.MetricsAddr)
	assert.Equal(t, "hello", env.Greeting)
}

func TestParseEnvRequiresAddr(t *testing.T) {
	t.Setenv("BCONDUIT_ADDR", "")
	os.Unsetenv("BCONDUIT_ADDR")

	_, err := bserve.ParseEnv[TestEnv]()()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BCONDUIT_ADDR")
}

func TestParseEnvValidation(t *testing.T) {
	for _, tt := range []struct {
		name, key, val, msg string
	}{
		{"threads", "BCONDUIT_THREADS", "0", "BCONDUIT_THREADS must be at least 1"},
		{"transport", "BCONDUIT_TRANSPORT", "grpc", `unsupported BCONDUIT_TRANSPORT: "grpc"`},
		{"exporter", "BCONDUIT_OTEL_EXPORTER", "xrayudp", `unsupported BCONDUIT_OTEL_EXPORTER: "xrayudp"`},
		{"log level", "BCONDUIT_LOG_LEVEL", "loud", "failed to parse environment"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BCONDUIT_ADDR", ":9090")
			t.Setenv(tt.key, tt.val)

			_, err := bserve.ParseEnv[TestEnv]()()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParseEnvConfigFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bconduit.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
BCONDUIT_ADDR: ":7070"
BCONDUIT_THREADS: 16
BCONDUIT_TRANSPORT: fasthttp
GREETING: hoi
`), 0o600))

	t.Setenv("BCONDUIT_CONFIG_FILE", file)
	t.Setenv("BCONDUIT_THREADS", "4")

	env, err := bserve.ParseEnv[TestEnv]()()
	require.NoError(t, err)

	assert.Equal(t, ":7070", env.Addr)
	assert.Equal(t, 4, env.Threads, "process environment wins over the file")
	assert.Equal(t, bserve.TransportFastHTTP, env.Transport)
	assert.Equal(t, "hoi", env.Greeting)
}

func TestParseEnvConfigFileErrors(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		t.Setenv("BCONDUIT_CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

		_, err := bserve.ParseEnv[TestEnv]()()
		require.ErrorContains(t, err, "failed to read config file")
	})

	t.Run("nested", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "bconduit.yaml")
		require.NoError(t, os.WriteFile(file, []byte("BCONDUIT_ADDR:\n  host: x\n"), 0o600))
		t.Setenv("BCONDUIT_CONFIG_FILE", file)

		_, err := bserve.ParseEnv[TestEnv]()()
		require.ErrorContains(t, err, "BCONDUIT_ADDR must be a scalar")
	})
}

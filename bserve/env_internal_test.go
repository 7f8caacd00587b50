package bserve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadSourcesLayering(t *testing.T) {
	dir := t.TempDir()

	yamlFile := filepath.Join(dir, "bconduit.yaml")
	require.NoError(t, os.WriteFile(yamlFile, []byte("A: from-yaml\nB: from-yaml\n"), 0o600))

	dotEnv := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(dotEnv, []byte(
		"A=from-dotenv\nB=from-dotenv\nC=from-dotenv\nBCONDUIT_CONFIG_FILE="+yamlFile+"\n"), 0o600))

	procEnv := map[string]string{"B": "from-env"}
	vals, err := loadSources(dotEnv, procEnv)
	require.NoError(t, err)

	require.Equal(t, "from-yaml", vals["A"])
	require.Equal(t, "from-env", vals["B"])
	require.Equal(t, "from-dotenv", vals["C"])
	require.Equal(t, map[string]string{"B": "from-env"}, procEnv)
}

func TestLoadSourcesWithoutFiles(t *testing.T) {
	vals, err := loadSources(filepath.Join(t.TempDir(), ".env"), map[string]string{"A": "1"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"A": "1"}, vals)
}

func TestQueueSizeDefaultsToThreads(t *testing.T) {
	require.Equal(t, 6, BaseEnvironment{Threads: 6}.queueSize())
	require.Equal(t, 2, BaseEnvironment{Threads: 6, QueueSize: 2}.queueSize())
}

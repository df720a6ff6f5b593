package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("BUDGETFLOW_TEST_DIR", "/tmp/bf")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "data", "bf.db"), ExpandPath("~/data/bf.db"))
	assert.Equal(t, "/tmp/bf/bf.db", ExpandPath("$BUDGETFLOW_TEST_DIR/bf.db"))
	assert.Equal(t, "/var/lib/bf.db", ExpandPath("/var/lib/bf.db"))
}

func TestDefaultDatabasePath(t *testing.T) {
	path, err := DefaultDatabasePath()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, filepath.Join("budgetflow", "budgetflow.db")))
}

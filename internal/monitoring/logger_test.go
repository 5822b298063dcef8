package monitoring

import (
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = format
	})
	Logf("computed %d patterns", 3)
	assert.Equal(t, "computed %d patterns", got)

	// nil mutes the logger
	got = ""
	SetLogger(nil)
	assert.NotPanics(t, func() { Logf("muted") })
	assert.Empty(t, got)
}

func TestLogfDefault(t *testing.T) {
	require.NotNil(t, Logf)
	assert.NotPanics(t, func() { Logf("test message: %s", "value") })
}

func TestSetupFile(t *testing.T) {
	defer log.SetOutput(os.Stderr)

	path := filepath.Join(t.TempDir(), "iam.log")
	c := SetupFile(path)
	log.Printf("pattern written for %s", "water.xyz")
	require.NoError(t, c.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "pattern written for water.xyz")
}

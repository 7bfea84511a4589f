package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "podconsole.log")
	closer, err := Setup(path, "debug")
	require.NoError(t, err)
	t.Cleanup(func() { Log.SetLevel(logrus.InfoLevel) })

	Log.WithFields(Fields{"owner": "system"}).Debug("probe ok")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "probe ok")
	assert.Contains(t, string(data), "owner=system")
}

func TestSetup_BadLevel(t *testing.T) {
	_, err := Setup(filepath.Join(t.TempDir(), "x.log"), "loud")
	assert.Error(t, err)
}

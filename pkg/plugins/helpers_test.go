package plugins

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// writePluginDir creates a plugin subdirectory with a manifest declaring the
// given build unit. An empty unit writes a directory without a manifest.
func writePluginDir(t *testing.T, folder, name, unit string) {
	t.Helper()

	dir := filepath.Join(folder, name)
	require.NoError(t, os.MkdirAll(dir, 0755))

	if unit == "" {
		return
	}

	manifest := "unit: " + unit + "\nname: " + name + "\nversion: 1.0.0\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFileName), []byte(manifest), 0644))
}

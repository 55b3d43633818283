package platform

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetConfigDirHonorsXDG(t *testing.T) {
	if runtime.GOOS == osWindows || runtime.GOOS == osDarwin {
		t.Skip("XDG_CONFIG_HOME only applies on unix-like systems")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := GetConfigDir()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "vbdplayer"), got)
}

package dotfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadReturnsZeroConfigWhenNoDotfilePresent(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, &Config{}, cfg)
}

func TestLoadDecodesTOML(t *testing.T) {
	dir := t.TempDir()
	src := `
search_paths = ["vendor/datalog"]
system_paths = ["/usr/share/drlc"]
output = "build/out.go"
amalgamation = true
emit_dot = false
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".drlc.toml"), []byte(src), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"vendor/datalog"}, cfg.SearchPaths)
	require.Equal(t, []string{"/usr/share/drlc"}, cfg.SystemPaths)
	require.Equal(t, "build/out.go", cfg.Output)
	require.True(t, cfg.Amalgamation)
	require.False(t, cfg.EmitDot)
}

func TestLoadDecodesYAML(t *testing.T) {
	dir := t.TempDir()
	src := `
searchPaths:
  - vendor/datalog
output: build/out.go
amalgamation: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".drlc.yaml"), []byte(src), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"vendor/datalog"}, cfg.SearchPaths)
	require.Equal(t, "build/out.go", cfg.Output)
	require.True(t, cfg.Amalgamation)
}

func TestLoadPrefersCUEOverOtherFormats(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".drlc.cue"), []byte(`output: "from-cue.go"`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".drlc.toml"), []byte(`output = "from-toml.go"`), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, "from-cue.go", cfg.Output)
}

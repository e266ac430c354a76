package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeDL(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestCompileCommandWritesGeneratedPackage(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	root := writeDL(t, srcDir, "root.dl", `
#message edge(u32 X, u32 Y).
#export tc(u32 X, u32 Y).
tc(X,Y) : edge(X,Y).
tc(X,Z) : tc(X,Y), edge(Y,Z).
`)

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"compile", root, "-o", outDir})

	err := cmd.Execute()
	require.NoError(t, err)

	for _, name := range []string{"schema.go", "hooks.go", "procedures.go", "interface.go"} {
		_, statErr := os.Stat(filepath.Join(outDir, name))
		require.NoError(t, statErr, "expected %s to be written", name)
	}
}

func TestCompileCommandReportsDiagnosticsOnError(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	root := writeDL(t, srcDir, "root.dl", `
#message edge(u32 X, u32 Y).
#export bad(u32 X, u32 Z).
bad(X, Z) : edge(X, Y).
`)

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"compile", root, "-o", outDir})

	err := cmd.Execute()
	require.Error(t, err)
	require.Equal(t, ExitCompileError, GetExitCode(err))
	require.Contains(t, out.String(), "S300")
}

func TestCompileCommandWritesAmalgamation(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	amalgPath := filepath.Join(srcDir, "amalgamated.dl")
	root := writeDL(t, srcDir, "root.dl", `
#message edge(u32 X, u32 Y).
#export tc(u32 X, u32 Y).
tc(X,Y) : edge(X,Y).
`)

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"compile", root, "-o", outDir, "--amalgamation", amalgPath})

	err := cmd.Execute()
	require.NoError(t, err)

	data, readErr := os.ReadFile(amalgPath)
	require.NoError(t, readErr)
	require.Contains(t, string(data), "tc")
}

func TestCompileCommandRequiresOutput(t *testing.T) {
	srcDir := t.TempDir()
	root := writeDL(t, srcDir, "root.dl", `#message edge(u32 X, u32 Y).`)

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"compile", root})

	err := cmd.Execute()
	require.Error(t, err)
}

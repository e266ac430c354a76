package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "drlc", cmd.Use)
}

func TestCompileCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	sub, _, err := cmd.Find([]string{"compile"})
	require.NoError(t, err)
	assert.Equal(t, "compile", sub.Name())
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.Equal(t, "false", verbose.DefValue)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)
}

func TestCompileCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	compileCmd, _, err := cmd.Find([]string{"compile"})
	require.NoError(t, err)

	output := compileCmd.Flags().Lookup("output")
	require.NotNil(t, output)
	assert.Equal(t, "o", output.Shorthand)

	modulePath := compileCmd.Flags().Lookup("module-path")
	require.NotNil(t, modulePath)
	assert.Equal(t, "M", modulePath.Shorthand)

	include := compileCmd.Flags().Lookup("include")
	require.NotNil(t, include)
	assert.Equal(t, "I", include.Shorthand)

	isystem := compileCmd.Flags().Lookup("isystem")
	require.NotNil(t, isystem)

	amalgamation := compileCmd.Flags().Lookup("amalgamation")
	require.NotNil(t, amalgamation)

	dot := compileCmd.Flags().Lookup("dot")
	require.NotNil(t, dot)
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))
	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "invalid", "compile", ".", "-o", "out"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

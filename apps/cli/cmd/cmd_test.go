package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/httpc/packages/core/parser"
	"github.com/abdul-hamid-achik/httpc/packages/core/runner"
	"github.com/abdul-hamid-achik/httpc/packages/http"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"syntax", &parser.SyntaxError{Message: "bad"}, ExitUsageError},
		{"file", &runner.FileError{Path: "x", Err: fs.ErrNotExist}, ExitFileError},
		{"network", &http.TransactionError{Kind: http.ErrorConnect, Err: errors.New("refused")}, ExitNetworkError},
		{"config", &configError{Path: ".httpc.yaml", Err: errors.New("bad yaml")}, ExitConfigError},
		{"wrapped network", fmt.Errorf("outer: %w", &http.TransactionError{Kind: http.ErrorRead}), ExitNetworkError},
		{"other", errors.New("boom"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestAlreadyReported(t *testing.T) {
	assert.True(t, alreadyReported(&parser.SyntaxError{}))
	assert.True(t, alreadyReported(&runner.FileError{Err: fs.ErrNotExist}))
	assert.True(t, alreadyReported(&http.TransactionError{Kind: http.ErrorDNS}))
	assert.False(t, alreadyReported(&configError{Err: errors.New("x")}))
	assert.False(t, alreadyReported(errors.New("x")))
}

func newSettingsCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	registerSettingsFlags(c)
	require.NoError(t, c.ParseFlags(args))
	t.Cleanup(func() { configFlag = "" })
	return c
}

func TestFlagConfig_OnlyChangedFlags(t *testing.T) {
	c := newSettingsCommand(t, "--idle-timeout", "500", "--pretty")

	cfg := flagConfig(c)
	assert.Equal(t, 500, cfg.IdleTimeout)
	require.NotNil(t, cfg.Pretty)
	assert.True(t, *cfg.Pretty)

	assert.Zero(t, cfg.DialTimeout)
	assert.Empty(t, cfg.Prompt)
	assert.Nil(t, cfg.NoColor)
}

func TestLoadSettings_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "httpc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("idleTimeout: 1000\ndialTimeout: 2000\nprompt: \"file > \"\n"), 0644))

	t.Setenv("HTTPC_DIAL_TIMEOUT", "2500")
	t.Setenv("HTTPC_PROMPT", "env > ")

	c := newSettingsCommand(t, "--config", path, "--prompt", "flag > ")

	cfg, configPath, err := loadSettings(c)
	require.NoError(t, err)

	assert.Equal(t, path, configPath)
	assert.Equal(t, 1000, cfg.IdleTimeout)
	assert.Equal(t, 2500, cfg.DialTimeout)
	assert.Equal(t, "flag > ", cfg.Prompt)
}

func TestLoadSettings_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	c := newSettingsCommand(t, "--config", path)

	_, _, err := loadSettings(c)
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, exitCode(err))
}

func TestLoadSettings_UnusableProxy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "httpc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prompt: \"> \"\n"), 0644))

	c := newSettingsCommand(t, "--config", path, "--proxy", "localhost:1080")

	_, _, err := loadSettings(c)
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, exitCode(err))
	assert.Contains(t, err.Error(), "proxy")

	t.Setenv("HTTPC_PROXY", "socks5://127.0.0.1:1080")
	c = newSettingsCommand(t, "--config", path)
	cfg, _, err := loadSettings(c)
	require.NoError(t, err)
	assert.Equal(t, "socks5://127.0.0.1:1080", cfg.Proxy)
}

func executeRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestValidateCommand(t *testing.T) {
	stdout, _, err := executeRoot(t, "validate", "POST", "-d", "a b", "-h", "k:v", "http://example.com/x")
	require.NoError(t, err)
	assert.Equal(t, "Valid: httpc post -h k:v -d 'a b' http://example.com/x\n", stdout)

	_, stderr, err := executeRoot(t, "validate", "get", "-d", "x", "http://example.com/")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCode(err))
	assert.Contains(t, stderr, "Invalid: httpc get -d 'x' http://example.com/")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeRoot(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "httpc version dev (HTTP/1.0)")
}

func TestImportCurlCommand(t *testing.T) {
	stdout, stderr, err := executeRoot(t, "import", "curl", `curl -k -H "Accept: text/plain" https://example.com/`)
	require.NoError(t, err)

	assert.Equal(t, "httpc get -h Accept:text/plain https://example.com/\n", stdout)
	assert.Contains(t, stderr, "ignored -k")
}

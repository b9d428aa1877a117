package runner

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/httpc/packages/core/parser"
	"github.com/abdul-hamid-achik/httpc/packages/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapFiles map[string]string

func (m mapFiles) ReadFile(name string) ([]byte, error) {
	content, ok := m[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return []byte(content), nil
}

func mustExtract(t *testing.T, line string) *parser.CommandLine {
	t.Helper()
	cl, err := parser.Extract(line)
	require.NoError(t, err)
	return cl
}

func TestDispatch_Help(t *testing.T) {
	action, err := Dispatch(mustExtract(t, "httpc help post"), nil)
	require.NoError(t, err)

	assert.Equal(t, ActionHelp, action.Kind)
	assert.Equal(t, "post", action.HelpTopic)
	assert.Nil(t, action.Request)
}

func TestDispatch_Get(t *testing.T) {
	action, err := Dispatch(mustExtract(t, "httpc get -v -h a:1 -h b:2 http://example.com/x"), nil)
	require.NoError(t, err)

	require.Equal(t, ActionRequest, action.Kind)
	assert.True(t, action.Verbose)
	assert.Equal(t, http.MethodGet, action.Request.Method)
	assert.Equal(t, "http://example.com/x", action.Request.URL)
	assert.Equal(t, []string{"a:1", "b:2"}, action.Request.Headers)
	assert.Empty(t, action.Request.Body)
}

func TestDispatch_PostInline(t *testing.T) {
	action, err := Dispatch(mustExtract(t, `httpc post -d '{"a":1}' http://example.com/`), nil)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, action.Request.Method)
	assert.Equal(t, `{"a":1}`, action.Request.Body)
	assert.False(t, action.Verbose)
}

func TestDispatch_PostFile(t *testing.T) {
	files := mapFiles{"body.txt": "line one\nline two\n"}

	action, err := Dispatch(mustExtract(t, "httpc post -h k:v -f body.txt http://example.com/"), files)
	require.NoError(t, err)

	assert.Equal(t, "line one\nline two\n", action.Request.Body)
	assert.Equal(t, []string{"k:v"}, action.Request.Headers)
}

func TestDispatch_PostFileFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload.txt")
	require.NoError(t, os.WriteFile(path, []byte("from disk"), 0644))

	action, err := Dispatch(mustExtract(t, "httpc post -f "+path+" http://example.com/"), nil)
	require.NoError(t, err)
	assert.Equal(t, "from disk", action.Request.Body)
}

func TestDispatch_PostMissingFile(t *testing.T) {
	action, err := Dispatch(mustExtract(t, "httpc post -f missing.txt http://example.com/"), mapFiles{})
	require.Error(t, err)
	assert.Nil(t, action)

	var fileErr *FileError
	require.True(t, errors.As(err, &fileErr))
	assert.Equal(t, "missing.txt", fileErr.Path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), "missing.txt")
}

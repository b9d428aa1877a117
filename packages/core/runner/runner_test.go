package runner

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/httpc/packages/core/parser"
	"github.com/abdul-hamid-achik/httpc/packages/history"
	"github.com/abdul-hamid-achik/httpc/packages/http"
	"github.com/abdul-hamid-achik/httpc/packages/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serveOnce answers every connection with response after reading one
// request, and reports the raw request it saw.
func serveOnce(t *testing.T, response string) (string, <-chan string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	seen := make(chan string, 16)
	var wg sync.WaitGroup
	t.Cleanup(func() {
		_ = ln.Close()
		wg.Wait()
	})

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer conn.Close()
				seen <- readRawRequest(bufio.NewReader(conn))
				_, _ = io.WriteString(conn, response)
			}()
		}
	}()

	return "http://" + ln.Addr().String(), seen
}

func readRawRequest(r *bufio.Reader) string {
	var sb strings.Builder
	length := 0
	for {
		line, err := r.ReadString('\n')
		sb.WriteString(line)
		if err != nil {
			return sb.String()
		}
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "" {
			break
		}
		if key, value, ok := strings.Cut(trimmed, ":"); ok && strings.EqualFold(key, "Content-Length") {
			length, _ = strconv.Atoi(strings.TrimSpace(value))
		}
	}
	if length > 0 {
		body := make([]byte, length)
		n, _ := io.ReadFull(r, body)
		sb.Write(body[:n])
	}
	return sb.String()
}

type memoryRecorder struct {
	mu      sync.Mutex
	entries []*history.Entry
	err     error
}

func (m *memoryRecorder) Record(_ context.Context, e *history.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return m.err
}

func newTestRunner(opts ...Option) (*Runner, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	formatter := output.NewConsoleFormatter(output.WithWriter(buf), output.WithNoColor(true))
	client := http.NewClient(
		http.WithIdleTimeout(2*time.Second),
		http.WithCloseTimeout(200*time.Millisecond),
	)
	return NewRunner(client, formatter, opts...), buf
}

const okResponse = "HTTP/1.0 200 OK\r\nContent-Type: text/plain\r\n\r\nhello"

func TestRunner_GetPrintsBody(t *testing.T) {
	base, seen := serveOnce(t, okResponse)
	r, buf := newTestRunner()

	result, err := r.Execute(context.Background(), "httpc get -h Accept:text/plain "+base+"/greeting")
	require.NoError(t, err)

	assert.Equal(t, "hello\n", buf.String())
	require.NotNil(t, result.Response)
	assert.Equal(t, 200, result.Response.StatusCode())
	assert.Equal(t, parser.CommandGet, result.Command.Command)

	req := <-seen
	assert.True(t, strings.HasPrefix(req, "GET /greeting HTTP/1.0\r\n"))
	assert.Contains(t, req, "Accept:text/plain\r\n")
}

func TestRunner_GetVerbose(t *testing.T) {
	base, _ := serveOnce(t, okResponse)
	r, buf := newTestRunner()

	_, err := r.Execute(context.Background(), "httpc get -v "+base+"/")
	require.NoError(t, err)

	assert.Equal(t, okResponse+"\n", buf.String())
}

func TestRunner_PostFromFile(t *testing.T) {
	base, seen := serveOnce(t, okResponse)
	r, _ := newTestRunner(WithFileReader(mapFiles{"data.txt": "abc"}))

	_, err := r.Execute(context.Background(), "httpc post -f data.txt "+base+"/upload")
	require.NoError(t, err)

	req := <-seen
	assert.True(t, strings.HasPrefix(req, "POST /upload HTTP/1.0\r\nContent-Length: 3\r\n"))
	assert.True(t, strings.HasSuffix(req, "\r\n\r\nabc"))
}

func TestRunner_InvalidLine(t *testing.T) {
	rec := &memoryRecorder{}
	r, buf := newTestRunner(WithRecorder(rec))

	result, err := r.Execute(context.Background(), "httpc fetch http://example.com")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, parser.ErrSyntax))
	assert.Equal(t, output.InvalidCommand+"\n", buf.String())
	assert.Empty(t, rec.entries)
}

func TestRunner_Help(t *testing.T) {
	r, buf := newTestRunner()

	result, err := r.Execute(context.Background(), "httpc help get")
	require.NoError(t, err)

	assert.Equal(t, ActionHelp, result.Action.Kind)
	assert.Equal(t, output.HelpGet+"\n", buf.String())
}

func TestRunner_MissingFileSkipsNetwork(t *testing.T) {
	rec := &memoryRecorder{}
	r, buf := newTestRunner(WithRecorder(rec), WithFileReader(mapFiles{}))

	_, err := r.Execute(context.Background(), "httpc post -f nope.txt http://127.0.0.1:1/")
	require.Error(t, err)

	var fileErr *FileError
	assert.True(t, errors.As(err, &fileErr))
	assert.Contains(t, buf.String(), "Error: reading body file nope.txt")
	assert.Empty(t, rec.entries)
}

func TestRunner_ConnectionErrorIsPrintedAndRecorded(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	rec := &memoryRecorder{}
	r, buf := newTestRunner(WithRecorder(rec))

	_, err = r.Execute(context.Background(), "httpc get http://"+addr+"/")
	require.Error(t, err)

	var txErr *http.TransactionError
	require.True(t, errors.As(err, &txErr))
	assert.Equal(t, http.ErrorConnect, txErr.Kind)
	assert.True(t, strings.HasPrefix(buf.String(), "Error: "))

	require.Len(t, rec.entries, 1)
	assert.True(t, rec.entries[0].Failed())
	assert.Equal(t, "GET", rec.entries[0].Method)
	assert.NotEmpty(t, rec.entries[0].ID)
}

func TestRunner_RecordsSuccess(t *testing.T) {
	base, _ := serveOnce(t, okResponse)
	rec := &memoryRecorder{}
	r, _ := newTestRunner(WithRecorder(rec))

	result, err := r.Execute(context.Background(), "httpc get "+base+"/a")
	require.NoError(t, err)

	require.Len(t, rec.entries, 1)
	entry := rec.entries[0]
	assert.Equal(t, result.Response.ID, entry.ID)
	assert.Equal(t, 200, entry.StatusCode)
	assert.Equal(t, len(okResponse), entry.Bytes)
	assert.Equal(t, "httpc get "+base+"/a", entry.Command)
	assert.False(t, entry.Failed())
}

func TestRunner_RecorderFailureIsNotFatal(t *testing.T) {
	base, _ := serveOnce(t, okResponse)
	rec := &memoryRecorder{err: errors.New("disk full")}
	r, buf := newTestRunner(WithRecorder(rec))

	_, err := r.Execute(context.Background(), "httpc get "+base+"/")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", buf.String())
}

func TestRunner_SetFormatter(t *testing.T) {
	r, first := newTestRunner()
	second := &bytes.Buffer{}
	r.SetFormatter(output.NewConsoleFormatter(output.WithWriter(second), output.WithNoColor(true)))

	_, err := r.Execute(context.Background(), "httpc help")
	require.NoError(t, err)

	assert.Empty(t, first.String())
	assert.Equal(t, output.HelpGeneral+"\n", second.String())
}

func TestNewRunner_Defaults(t *testing.T) {
	r := NewRunner(nil, nil)

	assert.NotNil(t, r.client)
	assert.NotNil(t, r.formatter)
	assert.IsType(t, OSFileReader{}, r.files)
}

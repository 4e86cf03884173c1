package sse

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readFrame reads lines up to the blank line ending one SSE frame.
func readFrame(t *testing.T, r *bufio.Reader) []string {
	t.Helper()
	var lines []string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		if line == "" {
			return lines
		}
		lines = append(lines, line)
	}
}

func TestBroadcaster_Stream(t *testing.T) {
	b := NewBroadcaster(nil)
	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		b.Run(ctx)
	}()

	srv := httptest.NewServer(b)
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	first := readFrame(t, reader)
	require.NotEmpty(t, first)
	assert.Equal(t, "event: connected", first[0])

	require.Eventually(t, func() bool { return b.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	b.Broadcast(Event{Event: "favorite.toggled", ID: "abc", Data: map[string]any{"id": "3", "favorite": true}})
	frame := readFrame(t, reader)
	require.Len(t, frame, 3)
	assert.Equal(t, "event: favorite.toggled", frame[0])
	assert.Equal(t, "id: abc", frame[1])
	assert.JSONEq(t, `{"id":"3","favorite":true}`, strings.TrimPrefix(frame[2], "data: "))

	cancel()
	<-runDone
	assert.Eventually(t, func() bool { return b.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestBroadcaster_BroadcastWithoutRun(t *testing.T) {
	b := NewBroadcaster(nil)
	for range cap(b.events) + 3 {
		b.Broadcast(Event{Event: "x"})
	}
	assert.Len(t, b.events, cap(b.events))
	assert.Zero(t, b.ClientCount())
}

type plainWriter struct {
	header http.Header
	status int
}

func (p *plainWriter) Header() http.Header         { return p.header }
func (p *plainWriter) Write(b []byte) (int, error) { return len(b), nil }
func (p *plainWriter) WriteHeader(code int)        { p.status = code }

func TestBroadcaster_RequiresFlusher(t *testing.T) {
	b := NewBroadcaster(nil)
	w := &plainWriter{header: http.Header{}}
	b.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/updates/stream", nil))
	assert.Equal(t, http.StatusInternalServerError, w.status)
}

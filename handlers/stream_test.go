package handlers

import (
	"bufio"
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"priority-notes/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer lets the test read what the writer goroutine produced
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func startWriter(t *testing.T, interval time.Duration) (*syncBuffer, chan []models.Note, chan struct{}, <-chan error) {
	t.Helper()

	out := &syncBuffer{}
	updates := make(chan []models.Note)
	done := make(chan struct{})
	result := make(chan error, 1)

	go func() {
		result <- writeEvents(bufio.NewWriter(out), updates, done, interval)
	}()

	return out, updates, done, result
}

func TestWriteEvents(t *testing.T) {
	out, updates, done, result := startWriter(t, time.Hour)

	first := []models.Note{{ID: 1, Title: "A", Description: "a", Priority: 1}}
	updates <- first
	updates <- []models.Note{{ID: 1, Title: "A", Description: "a", Priority: 1}}
	updates <- []models.Note{}

	close(done)
	require.NoError(t, <-result)

	events := strings.Split(strings.TrimSpace(out.String()), "\n\n")
	require.Len(t, events, 2, "identical consecutive lists are sent once")
	assert.Equal(t, `event: notes`+"\n"+`data: [{"id":1,"title":"A","description":"a","priority":1}]`, events[0])
	assert.Equal(t, "event: notes\ndata: []", events[1])
}

func TestWriteEventsKeepAlive(t *testing.T) {
	out, _, done, result := startWriter(t, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), ": keep-alive")
	}, 2*time.Second, 10*time.Millisecond)

	close(done)
	require.NoError(t, <-result)
}

package logging

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lockedBuffer lets the concurrency test read the buffer after writers finish.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func TestConsoleLogger_Levels(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		log     func(l *ConsoleLogger)
		want    string
	}{
		{"verbose enabled", true, func(l *ConsoleLogger) { l.Verbose("rows: %d", 2) }, "[VERBOSE] rows: 2\n"},
		{"verbose disabled", false, func(l *ConsoleLogger) { l.Verbose("rows: %d", 2) }, ""},
		{"info", false, func(l *ConsoleLogger) { l.Info("Reading %s", "train") }, "Reading train\n"},
		{"error", false, func(l *ConsoleLogger) { l.Error("write failed: %s", "boom") }, "[ERROR] write failed: boom\n"},
		{"no args keeps percent", false, func(l *ConsoleLogger) { l.Info("100%") }, "100%\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewWriterLogger(&buf, tt.verbose))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestConsoleLogger_WithRunID(t *testing.T) {
	var buf bytes.Buffer
	base := NewWriterLogger(&buf, true)
	logger := base.WithRunID("abc123")

	logger.Verbose("connecting")
	logger.Info("Reading train")
	base.Verbose("untagged")

	assert.Equal(t, "[VERBOSE] [abc123] connecting\nReading train\n[VERBOSE] untagged\n", buf.String())
}

func TestConsoleLogger_ConcurrentSafety(t *testing.T) {
	out := &lockedBuffer{}
	logger := NewWriterLogger(out, true).WithRunID("run")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Info("message %d", id)
			logger.Verbose("verbose %d", id)
			logger.Error("error %d", id)
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(out.buf.String()), "\n")
	require.Len(t, lines, 30)
	for i, line := range lines {
		if !strings.Contains(line, "message") && !strings.Contains(line, "verbose") && !strings.Contains(line, "error") {
			t.Errorf("Line %d appears corrupted: %q", i, line)
		}
	}
}

func TestNullLogger_ConcurrentSafety(t *testing.T) {
	logger := NewNullLogger()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Info("message %d", id)
			logger.Verbose("verbose %d", id)
			logger.Error("error %d", id)
		}(i)
	}

	wg.Wait()
}

func BenchmarkConsoleLogger_VerboseDisabled(b *testing.B) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, false)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Verbose("benchmark message %d", i)
	}
}

// Example demonstrates NullLogger usage
func ExampleNullLogger() {
	logger := NewNullLogger()
	logger.Info("This message is discarded")
	logger.Error("And this")
	fmt.Println("Done")
	// Output:
	// Done
}

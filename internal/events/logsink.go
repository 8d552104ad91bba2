package events

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/npratt/swcedit/internal/config"
)

// Sink consumes events from the router.
type Sink interface {
	Start(ctx context.Context, events <-chan Event) error
	Stop() error
}

// LogSink writes events as JSON lines to a size-rotated file.
type LogSink struct {
	path     string
	rotation config.LogRotationConfig
	out      io.WriteCloser
	encoder  *json.Encoder
	mu       sync.Mutex
	done     chan struct{}
	started  bool
}

// NewLogSink creates a LogSink for path. Nothing is opened until Start.
func NewLogSink(path string, rotation config.LogRotationConfig) *LogSink {
	return &LogSink{
		path:     path,
		rotation: rotation,
		done:     make(chan struct{}),
	}
}

// Start opens the log and processes events until ctx is canceled or the
// channel is closed. A non-empty log from an earlier session is rotated
// away first so each session starts a fresh file.
func (s *LogSink) Start(ctx context.Context, events <-chan Event) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	out := &lumberjack.Logger{
		Filename:   s.path,
		MaxSize:    s.rotation.MaxSizeMB,
		MaxBackups: s.rotation.MaxBackups,
		MaxAge:     s.rotation.MaxAgeDays,
		Compress:   s.rotation.Compress,
	}
	if info, err := os.Stat(s.path); err == nil && info.Size() > 0 {
		if err := out.Rotate(); err != nil {
			return fmt.Errorf("rotate log file: %w", err)
		}
	}

	s.mu.Lock()
	s.out = out
	s.encoder = json.NewEncoder(out)
	s.started = true
	s.mu.Unlock()

	go s.run(ctx, events)
	return nil
}

func (s *LogSink) run(ctx context.Context, events <-chan Event) {
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			s.write(event)
		}
	}
}

func (s *LogSink) write(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.encoder == nil {
		return
	}
	if err := s.encoder.Encode(event); err != nil {
		fmt.Fprintf(os.Stderr, "log sink: failed to write event: %v\n", err)
	}
}

// Stop waits for the sink to drain and closes the log.
func (s *LogSink) Stop() error {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		return nil
	}

	<-s.done

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.out == nil {
		return nil
	}
	err := s.out.Close()
	s.out = nil
	s.encoder = nil
	return err
}

// Path returns the log file path.
func (s *LogSink) Path() string {
	return s.path
}

// Package audit records access decisions asynchronously. Emitting an
// event never blocks or fails the request that produced it.
package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/coursekit/media-gateway/models"
	"github.com/coursekit/media-gateway/repositories"
)

// Service processes access events on a background worker pool. Every
// event is written to the structured log; when a persistence repository
// is configured the event is also inserted into the access_logs table.
type Service struct {
	accessLogs  repositories.AccessLogRepository // nil disables persistence
	logger      *zap.Logger
	eventChan   chan *models.AccessEvent
	workerCount int
	bufferSize  int
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	started     bool
	mu          sync.Mutex
}

// Config holds tuning parameters for the audit service
type Config struct {
	BufferSize  int
	WorkerCount int
}

// DefaultConfig returns the default audit configuration
func DefaultConfig() Config {
	return Config{
		BufferSize:  10000,
		WorkerCount: 3,
	}
}

// NewService creates an audit service. accessLogs may be nil, in which
// case events are logged but not persisted.
func NewService(accessLogs repositories.AccessLogRepository, logger *zap.Logger, config Config) *Service {
	ctx, cancel := context.WithCancel(context.Background())

	return &Service{
		accessLogs:  accessLogs,
		logger:      logger,
		eventChan:   make(chan *models.AccessEvent, config.BufferSize),
		workerCount: config.WorkerCount,
		bufferSize:  config.BufferSize,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start launches the background workers
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("audit service already started")
	}

	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.started = true
	s.logger.Info("started audit service",
		zap.Int("worker_count", s.workerCount),
		zap.Int("buffer_size", s.bufferSize),
		zap.Bool("persistence", s.accessLogs != nil))

	return nil
}

// Stop drains pending events and stops the workers, waiting at most
// the given timeout.
func (s *Service) Stop(timeout time.Duration) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return fmt.Errorf("audit service not started")
	}
	s.mu.Unlock()

	s.logger.Info("stopping audit service", zap.Int("pending_events", len(s.eventChan)))

	close(s.eventChan)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("audit service stopped")
		s.cancel()
		return nil
	case <-time.After(timeout):
		s.cancel()
		return fmt.Errorf("audit service stop timeout after %v", timeout)
	}
}

// Record queues an access event without blocking. When the buffer is
// full the event is dropped with a warning; the request outcome is
// never affected.
func (s *Service) Record(event *models.AccessEvent) {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		s.logger.Warn("audit service not started, dropping event",
			zap.String("path", event.Path))
		return
	}
	s.mu.Unlock()

	select {
	case s.eventChan <- event:
	default:
		s.logger.Warn("audit event buffer full, dropping event",
			zap.String("path", event.Path),
			zap.String("decision", string(event.Decision)))
	}
}

// worker processes events from the channel until it is closed
func (s *Service) worker(id int) {
	defer s.wg.Done()

	s.logger.Debug("audit worker started", zap.Int("worker_id", id))

	for event := range s.eventChan {
		s.processEvent(id, event)
	}

	s.logger.Debug("audit worker stopped", zap.Int("worker_id", id))
}

func (s *Service) processEvent(workerID int, event *models.AccessEvent) {
	fields := []zap.Field{
		zap.String("path", event.Path),
		zap.String("class", string(event.Class)),
		zap.String("decision", string(event.Decision)),
		zap.String("reason", event.Reason),
		zap.Int("status_code", event.StatusCode),
		zap.String("source_ip", event.SourceIP),
	}
	if event.UserID != nil {
		fields = append(fields,
			zap.String("user_id", event.UserID.String()),
			zap.String("role", event.Role))
	}

	if event.Decision == models.DecisionGranted {
		s.logger.Info("media access", fields...)
	} else {
		s.logger.Warn("media access", fields...)
	}

	if s.accessLogs == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.accessLogs.Insert(ctx, event); err != nil {
		s.logger.Error("failed to persist access event",
			zap.Int("worker_id", workerID),
			zap.String("path", event.Path),
			zap.Error(err))
	}
}

// Pending returns the number of queued events, for readiness reporting
func (s *Service) Pending() int {
	return len(s.eventChan)
}

// Package web serves the browser dashboard, its JSON API and a reload event
// stream, polling the CSV for changes in the background.
package web

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/theirongolddev/spendview/internal/model"
	"github.com/theirongolddev/spendview/internal/pipeline"
	"github.com/theirongolddev/spendview/internal/source"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// ErrNotLoaded is returned by handlers before the first successful load.
var ErrNotLoaded = errors.New("dataset not loaded")

// Config controls the server runtime behavior.
type Config struct {
	DataFile     string
	UseCache     bool
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	Defaults     model.Selection
}

// Snapshot describes the currently loaded dataset.
type Snapshot struct {
	At        time.Time `json:"at"`
	Path      string    `json:"path"`
	Rows      int       `json:"rows"`
	MtimeNs   int64     `json:"mtime_ns"`
	SizeBytes int64     `json:"size_bytes"`
	FromCache bool      `json:"from_cache"`
}

// Delta captures the change between two loads.
type Delta struct {
	Rows      int   `json:"rows"`
	SizeBytes int64 `json:"size_bytes"`
}

// Event is emitted whenever the dataset is (re)loaded.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Event types.
const (
	EventSnapshot = "snapshot"
	EventReload   = "reload"
)

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	ReloadCount     int64     `json:"reload_count"`
	DataFile        string    `json:"data_file"`
	Dataset         Snapshot  `json:"dataset"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service holds the loaded dataset and serves it over HTTP.
type Service struct {
	cfg Config
	log *zap.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	reloadCount int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	students    []model.Student
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new service with the provided config.
func New(cfg Config, log *zap.Logger) *Service {
	if cfg.Interval < time.Second {
		cfg.Interval = 5 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8501"
	}
	if cfg.Defaults.Gender == nil && cfg.Defaults.Years == nil && cfg.Defaults.Majors == nil {
		cfg.Defaults = pipeline.DefaultSelection()
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		cfg:       cfg,
		log:       log,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// App builds the fiber application with every route registered.
func (s *Service) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "spendview",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	app.Use(s.requestLogger)

	app.Get("/", s.handlePage)
	app.Get("/healthz", s.handleHealth)

	v1 := app.Group("/v1")
	v1.Get("/status", s.handleStatus)
	v1.Get("/events", s.handleEvents)
	v1.Get("/stream", s.handleStream)

	api := app.Group("/api/v1")
	api.Get("/summary", s.handleSummary)
	api.Get("/payments", s.handlePayments)
	api.Get("/gender", s.handleGender)
	api.Get("/years", s.handleYears)
	api.Get("/majors", s.handleMajors)
	api.Get("/majors/totals", s.handleMajorTotals)

	return app
}

// Run loads the dataset, starts the HTTP server and polls the file until ctx
// is canceled.
func (s *Service) Run(ctx context.Context) error {
	app := s.App()

	errCh := make(chan error, 1)
	go func() {
		if err := app.Listen(s.cfg.Addr); err != nil {
			errCh <- err
		}
	}()

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce()
	s.log.Info("dashboard listening", zap.String("addr", s.cfg.Addr), zap.String("file", s.cfg.DataFile))

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return app.ShutdownWithTimeout(5 * time.Second)
		case <-ticker.C:
			s.pollOnce()
		case err := <-errCh:
			return fmt.Errorf("http server: %w", err)
		}
	}
}

// pollOnce reloads the dataset when the file's identity changed since the
// last load.
func (s *Service) pollOnce() {
	now := time.Now()

	info, err := source.Stat(s.cfg.DataFile)
	if err == nil {
		s.mu.RLock()
		unchanged := s.hasSnapshot &&
			s.snapshot.MtimeNs == info.MtimeNs &&
			s.snapshot.SizeBytes == info.SizeBytes
		s.mu.RUnlock()
		if unchanged {
			s.mu.Lock()
			s.lastPollAt = now
			s.pollCount++
			s.mu.Unlock()
			return
		}
	}

	var res *pipeline.LoadResult
	if err == nil {
		res, err = pipeline.LoadPreferCache(s.cfg.DataFile, s.cfg.UseCache)
	}
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.log.Warn("poll failed", zap.String("file", s.cfg.DataFile), zap.Error(err))
		return
	}

	snap := snapshotFromDataset(res, now)

	var ev Event

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.students = res.Dataset.Students
	s.lastPollAt = now
	s.pollCount++
	s.reloadCount++
	s.lastError = ""

	s.nextEventID++
	ev = Event{
		ID:        s.nextEventID,
		Type:      EventSnapshot,
		Timestamp: now,
		Snapshot:  snap,
	}
	if prevExists {
		ev.Type = EventReload
		ev.Delta = diffSnapshots(prev, snap)
	}
	s.mu.Unlock()

	s.log.Info("dataset loaded",
		zap.String("event", ev.Type),
		zap.Int("rows", snap.Rows),
		zap.Bool("from_cache", snap.FromCache),
	)
	s.publishEvent(ev)
}

func snapshotFromDataset(res *pipeline.LoadResult, at time.Time) Snapshot {
	id := res.Dataset.Identity()
	return Snapshot{
		At:        at,
		Path:      res.Dataset.Path,
		Rows:      len(res.Dataset.Students),
		MtimeNs:   id.MtimeNs,
		SizeBytes: id.SizeBytes,
		FromCache: res.FromCache,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Rows:      curr.Rows - prev.Rows,
		SizeBytes: curr.SizeBytes - prev.SizeBytes,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

// data returns the loaded rows. The slice is replaced, never mutated, on reload.
func (s *Service) data() ([]model.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasSnapshot {
		if s.lastError != "" {
			return nil, fmt.Errorf("%w: %s", ErrNotLoaded, s.lastError)
		}
		return nil, ErrNotLoaded
	}
	return s.students, nil
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		ReloadCount:     s.reloadCount,
		DataFile:        s.cfg.DataFile,
		Dataset:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(c *fiber.Ctx) error {
	return c.SendString("ok\n")
}

func (s *Service) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.snapshotStatus())
}

func (s *Service) handleEvents(c *fiber.Ctx) error {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	return c.JSON(events)
}

func (s *Service) handleStream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)

	// Send current snapshot immediately.
	current := Event{
		Type:      EventSnapshot,
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Dataset,
	}

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer s.removeSubscriber(id)

		if err := writeSSE(w, current); err != nil {
			return
		}
		keepAlive := time.NewTicker(15 * time.Second)
		defer keepAlive.Stop()

		for {
			select {
			case ev := <-ch:
				if err := writeSSE(w, ev); err != nil {
					return
				}
			case <-keepAlive.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}

func writeSSE(w *bufio.Writer, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data); err != nil {
		return err
	}
	return w.Flush()
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

func (s *Service) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	status := c.Response().StatusCode()
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else {
			status = fiber.StatusInternalServerError
		}
	}
	s.log.Debug("request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", status),
		zap.Duration("latency", time.Since(start)),
	)
	return err
}

func (s *Service) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.Is(err, pipeline.ErrUnknownCategory):
		code = fiber.StatusBadRequest
	case errors.Is(err, ErrNotLoaded):
		code = fiber.StatusServiceUnavailable
	}
	if code >= fiber.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"rawsort/internal/logging"
)

// DefaultDebounce matches the quiet period used when Options.Debounce is zero.
const DefaultDebounce = 2 * time.Second

// Handler runs one cycle. Returned errors are logged and the watch continues.
type Handler func(ctx context.Context) error

// Options tunes a subscription.
type Options struct {
	Debounce time.Duration
	Logger   *slog.Logger
}

// Subscription is an active watch. Close or cancel the parent context to stop it.
type Subscription struct {
	dir      string
	watcher  *fsnotify.Watcher
	handler  Handler
	debounce time.Duration
	logger   *slog.Logger

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once

	mu       sync.Mutex
	cycles   int
	closeErr error
}

// Subscribe starts watching dir and calls handler after each debounced burst
// of create events.
func Subscribe(ctx context.Context, dir string, opts Options, handler Handler) (*Subscription, error) {
	if handler == nil {
		return nil, errors.New("watch handler is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s := &Subscription{
		dir:      dir,
		watcher:  w,
		handler:  handler,
		debounce: opts.Debounce,
		logger:   logging.NewComponentLogger(opts.Logger, "watch"),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go s.loop(loopCtx)

	s.logger.Info("watch started",
		logging.String("dir", dir),
		logging.Duration("debounce", opts.Debounce),
		logging.String(logging.FieldEventType, "watch_started"),
	)
	return s, nil
}

// Close stops the watch and waits for an in-flight cycle to finish.
func (s *Subscription) Close() error {
	s.closeOnce.Do(s.cancel)
	<-s.done
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeErr
}

// Wait blocks until the watch loop has ended.
func (s *Subscription) Wait() {
	<-s.done
}

// Cycles returns how many cycles have completed.
func (s *Subscription) Cycles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cycles
}

func (s *Subscription) loop(ctx context.Context) {
	defer close(s.done)

	var (
		timer    *time.Timer
		fire     <-chan time.Time
		running  bool
		pending  bool
		finished = make(chan error, 1)
	)
	start := func() {
		running = true
		go func() { finished <- s.handler(ctx) }()
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
		if running {
			<-finished
		}
		err := s.watcher.Close()
		s.mu.Lock()
		s.closeErr = err
		s.mu.Unlock()
		s.logger.Info("watch stopped", logging.String("dir", s.dir), logging.String(logging.FieldEventType, "watch_stopped"))
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) {
				s.logger.Debug("ignoring watch event", logging.String("path", ev.Name), logging.String("op", ev.Op.String()))
				continue
			}
			s.logger.Debug("file created", logging.String("path", ev.Name))
			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				timer.Reset(s.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if running {
				pending = true
				continue
			}
			start()
		case err := <-finished:
			running = false
			s.mu.Lock()
			s.cycles++
			s.mu.Unlock()
			if err != nil {
				logging.WarnWithContext(s.logger, "watch cycle failed", "watch_cycle_failed",
					logging.Error(err),
					logging.String(logging.FieldImpact, "files stay in the watched directory until the next cycle"),
				)
			}
			if pending && ctx.Err() == nil {
				pending = false
				start()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			logging.WarnWithContext(s.logger, "watcher error", "watch_error",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check inotify limits"),
			)
		}
	}
}

// Package bridge moves configuration payloads between files and the
// editor tick. In Direct mode picking, reading and writing happen inside
// the calling tick. In Deferred mode they run on a goroutine that talks
// back only through a one-slot Mailbox (loads) and an event queue (save
// results and background failures).
package bridge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash"
	"github.com/google/uuid"

	"github.com/iburimskiy/ifs-editor/internal/config"
	"github.com/iburimskiy/ifs-editor/internal/logger"
	"github.com/iburimskiy/ifs-editor/internal/metrics"
)

var (
	// ErrFileIO wraps read, write and dialog failures.
	ErrFileIO = errors.New("file error")
	// ErrLoadInFlight rejects a deferred load while another one has not
	// delivered its payload yet.
	ErrLoadInFlight = errors.New("a config load is already in progress")
)

type Mode int

const (
	Direct Mode = iota
	Deferred
)

func (m Mode) String() string {
	if m == Deferred {
		return "deferred"
	}
	return "direct"
}

type Op int

const (
	OpLoad Op = iota
	OpSave
)

// Event reports the outcome of a save, or a load that failed before
// reaching the mailbox.
type Event struct {
	ID    string
	Op    Op
	Label string
	Path  string
	// Sum is the xxhash of the written payload.
	Sum uint64
	Err error
}

const eventQueueSize = 16

type Bridge struct {
	mode    Mode
	picker  Picker
	mailbox *Mailbox
	redraw  func()
	events  chan Event
	loading atomic.Bool
	wg      sync.WaitGroup
}

// New returns a bridge. redraw, if not nil, is called after a deferred
// payload has been sent so the host runs another tick.
func New(mode Mode, picker Picker, redraw func()) *Bridge {
	return &Bridge{
		mode:    mode,
		picker:  picker,
		mailbox: NewMailbox(),
		redraw:  redraw,
		events:  make(chan Event, eventQueueSize),
	}
}

func (b *Bridge) Mode() Mode { return b.mode }

// Mailbox exposes the load mailbox, for hosts that produce payloads themselves.
func (b *Bridge) Mailbox() *Mailbox { return b.mailbox }

// Loading reports whether a deferred load has not delivered yet.
func (b *Bridge) Loading() bool { return b.loading.Load() }

// Wait blocks until every background task has finished.
func (b *Bridge) Wait() { b.wg.Wait() }

// LoadFile reads and parses path synchronously.
func (b *Bridge) LoadFile(path string) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		metrics.ConfigLoads.WithLabelValues(Direct.String(), "error").Inc()
		return nil, fmt.Errorf("%w: %w", ErrFileIO, err)
	}
	cfg, err := config.Parse(data)
	metrics.ConfigLoads.WithLabelValues(Direct.String(), metrics.Result(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Logger().Info("config loaded", "path", path)
	return cfg, nil
}

// RequestLoad asks the user for a config file. In Direct mode the result
// is returned; (nil, nil) means the dialog was canceled. In Deferred mode
// the call returns (nil, nil) at once and the payload shows up in Poll.
func (b *Bridge) RequestLoad(ctx context.Context) (*config.Config, error) {
	if b.mode == Direct {
		path, err := b.picker.PickOpen(ctx, ConfigDialog)
		if errors.Is(err, ErrCanceled) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFileIO, err)
		}
		return b.LoadFile(path)
	}

	if !b.loading.CompareAndSwap(false, true) {
		return nil, ErrLoadInFlight
	}
	id := uuid.Must(uuid.NewV7()).String()
	log := logger.Logger().With("request", id)
	log.Debug("deferred load started")

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer b.loading.Store(false)

		path, err := b.picker.PickOpen(ctx, ConfigDialog)
		if errors.Is(err, ErrCanceled) {
			log.Debug("deferred load canceled")
			return
		}
		var data []byte
		if err == nil {
			data, err = os.ReadFile(path)
		}
		if err != nil {
			metrics.ConfigLoads.WithLabelValues(Deferred.String(), "error").Inc()
			b.emit(Event{ID: id, Op: OpLoad, Label: "config", Path: path, Err: fmt.Errorf("%w: %w", ErrFileIO, err)})
			return
		}
		log.Debug("deferred load delivered", "path", path, "bytes", len(data))
		b.mailbox.Send(data)
		if b.redraw != nil {
			b.redraw()
		}
	}()
	return nil, nil
}

// Poll drains the mailbox without blocking. (nil, nil) means nothing
// arrived since the last call.
func (b *Bridge) Poll() (*config.Config, error) {
	data, ok := b.mailbox.TryReceive()
	if !ok {
		return nil, nil
	}
	cfg, err := config.Parse(data)
	metrics.ConfigLoads.WithLabelValues(Deferred.String(), metrics.Result(err)).Inc()
	return cfg, err
}

// SaveFile writes payload to path synchronously.
func (b *Bridge) SaveFile(label, path string, payload []byte) error {
	err := os.WriteFile(path, payload, 0o644)
	metrics.ConfigSaves.WithLabelValues(Direct.String(), metrics.Result(err)).Inc()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileIO, err)
	}
	logger.Logger().Info("file saved", "label", label, "path", path)
	b.emit(Event{Op: OpSave, Label: label, Path: path, Sum: xxhash.Sum64(payload)})
	return nil
}

// RequestSave asks for a destination and writes payload there. Direct
// mode writes before returning; Deferred mode writes from a goroutine.
// Both report completion through Events.
func (b *Bridge) RequestSave(ctx context.Context, label string, d Dialog, payload []byte) error {
	if b.mode == Direct {
		path, err := b.picker.PickSave(ctx, d)
		if errors.Is(err, ErrCanceled) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFileIO, err)
		}
		return b.SaveFile(label, path, payload)
	}

	id := uuid.Must(uuid.NewV7()).String()
	payload = append([]byte(nil), payload...)
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		path, err := b.picker.PickSave(ctx, d)
		if errors.Is(err, ErrCanceled) {
			return
		}
		if err == nil {
			err = os.WriteFile(path, payload, 0o644)
		}
		metrics.ConfigSaves.WithLabelValues(Deferred.String(), metrics.Result(err)).Inc()
		ev := Event{ID: id, Op: OpSave, Label: label, Path: path, Sum: xxhash.Sum64(payload)}
		if err != nil {
			ev.Err = fmt.Errorf("%w: %w", ErrFileIO, err)
		} else {
			logger.Logger().Info("file saved", "label", label, "path", path, "request", id)
		}
		b.emit(ev)
		if b.redraw != nil {
			b.redraw()
		}
	}()
	return nil
}

// Events returns every queued event without blocking.
func (b *Bridge) Events() []Event {
	var out []Event
	for {
		select {
		case ev := <-b.events:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func (b *Bridge) emit(ev Event) {
	select {
	case b.events <- ev:
	default:
		logger.Logger().Warn("bridge event dropped", "label", ev.Label, "path", ev.Path, "err", ev.Err)
	}
}

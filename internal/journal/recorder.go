// Package journal copies board events into the activity repository on a
// background goroutine so the store never waits on SQL.
package journal

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandeepkv93/taskboard/internal/board"
	"github.com/sandeepkv93/taskboard/internal/storage"
)

var ErrNilRepository = errors.New("journal: nil repository")

const defaultWriteTimeout = 2 * time.Second

type Options struct {
	// Limit caps the number of retained entries. Zero keeps everything.
	Limit        int
	WriteTimeout time.Duration
	// OnRecord runs on the recorder goroutine after each successful write.
	OnRecord func(storage.Activity)
}

type Recorder struct {
	repo   storage.Repository
	events <-chan board.Event
	opts   Options

	mu      sync.Mutex
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool

	recorded uint64
	failed   uint64
}

func NewRecorder(repo storage.Repository, events <-chan board.Event, opts Options) (*Recorder, error) {
	if repo == nil {
		return nil, ErrNilRepository
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}
	return &Recorder{
		repo:   repo,
		events: events,
		opts:   opts,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}, nil
}

func (r *Recorder) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.started = true
	go r.loop()
}

// Stop drains events already buffered and waits for the loop to exit.
func (r *Recorder) Stop() {
	r.mu.Lock()
	if !r.started || r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	close(r.stopCh)
	r.mu.Unlock()
	<-r.doneCh
}

// Done is closed once the loop has exited, either via Stop or because the
// event channel was closed.
func (r *Recorder) Done() <-chan struct{} {
	return r.doneCh
}

func (r *Recorder) Recorded() uint64 {
	return atomic.LoadUint64(&r.recorded)
}

func (r *Recorder) Failed() uint64 {
	return atomic.LoadUint64(&r.failed)
}

func (r *Recorder) loop() {
	defer close(r.doneCh)
	for {
		select {
		case ev, ok := <-r.events:
			if !ok {
				return
			}
			r.record(ev)
		case <-r.stopCh:
			r.drain()
			return
		}
	}
}

func (r *Recorder) drain() {
	for {
		select {
		case ev, ok := <-r.events:
			if !ok {
				return
			}
			r.record(ev)
		default:
			return
		}
	}
}

func (r *Recorder) record(ev board.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), r.opts.WriteTimeout)
	defer cancel()

	entry := FromEvent(ev)
	id, err := r.repo.AppendActivity(ctx, entry)
	if err != nil {
		atomic.AddUint64(&r.failed, 1)
		log.Printf("journal: append %s #%d: %v", ev.Kind, ev.Seq, err)
		return
	}
	entry.ID = id
	atomic.AddUint64(&r.recorded, 1)

	if r.opts.Limit > 0 {
		if _, err := r.repo.PruneActivity(ctx, r.opts.Limit); err != nil {
			log.Printf("journal: prune to %d: %v", r.opts.Limit, err)
		}
	}
	if r.opts.OnRecord != nil {
		r.opts.OnRecord(entry)
	}
}

// FromEvent converts a board event into an unsaved activity row.
func FromEvent(ev board.Event) storage.Activity {
	return storage.Activity{
		Seq:      ev.Seq,
		Kind:     string(ev.Kind),
		TaskID:   ev.TaskID,
		ColumnID: ev.ColumnID,
		Detail:   ev.Detail,
		At:       ev.At,
	}
}

// Package presenter connects a store to a passive list view. It turns
// snapshots into rows and runs add/remove requests on a background worker so
// the view never waits on storage.
package presenter

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jask/shoplist/internal/model"
	"github.com/jask/shoplist/internal/store"
)

var (
	ErrClosed = errors.New("presenter closed")
	ErrBound  = errors.New("presenter already bound")
)

// Row describes one list entry. Remove requests name the row by ID, never by
// position.
type Row struct {
	ID    int64
	Label string
}

// Renderer receives the full row list after every change.
type Renderer interface {
	Render(rows []Row)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(rows []Row)

func (f RendererFunc) Render(rows []Row) { f(rows) }

// Rows builds the row list for a snapshot.
func Rows(snap model.Snapshot) []Row {
	rows := make([]Row, snap.Len())
	for i := range rows {
		it := snap.At(i)
		rows[i] = Row{ID: it.ID, Label: it.Name}
	}
	return rows
}

type job struct {
	id   string
	ctx  context.Context
	op   string
	run  func(ctx context.Context) error
	errc chan error
}

// queueSize bounds pending requests before submitters block.
const queueSize = 32

type Presenter struct {
	store  *store.Store
	render Renderer
	logger *zap.Logger

	mu    sync.RWMutex
	rows  []Row
	bound bool

	sendMu sync.RWMutex
	closed bool
	jobs   chan job
	done   chan struct{}
	wg     sync.WaitGroup
}

// New creates a presenter and starts its mutation worker.
func New(st *store.Store, r Renderer, logger *zap.Logger) *Presenter {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Presenter{
		store:  st,
		render: r,
		logger: logger.Named("presenter"),
		jobs:   make(chan job, queueSize),
		done:   make(chan struct{}),
	}
	p.wg.Add(1)
	go p.work()
	return p
}

// Bind subscribes to the store and renders every snapshot until ctx ends or
// Close is called. The current snapshot is rendered straight away.
func (p *Presenter) Bind(ctx context.Context) error {
	p.mu.Lock()
	if p.bound {
		p.mu.Unlock()
		return ErrBound
	}
	p.bound = true
	p.mu.Unlock()

	p.sendMu.RLock()
	defer p.sendMu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	sub := p.store.Observe()
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case <-p.done:
				return
			case snap, ok := <-sub.C:
				if !ok {
					return
				}
				rows := Rows(snap)
				p.mu.Lock()
				p.rows = rows
				p.mu.Unlock()
				p.render.Render(rows)
			}
		}
	}()
	return nil
}

// OnAddRequested queues an add. Blank names are refused here and never reach
// the store. The returned channel yields the outcome exactly once.
func (p *Presenter) OnAddRequested(ctx context.Context, name string) <-chan error {
	if _, err := model.NormalizeName(name); err != nil {
		return resolved(err)
	}
	return p.submit(ctx, store.OpAdd, func(ctx context.Context) error {
		_, err := p.store.Add(ctx, name)
		return err
	})
}

// OnRowRemoveRequested queues removal of the item with id.
func (p *Presenter) OnRowRemoveRequested(ctx context.Context, id int64) <-chan error {
	return p.submit(ctx, store.OpRemove, func(ctx context.Context) error {
		return p.store.Remove(ctx, id)
	})
}

// Len reports the number of rows last rendered.
func (p *Presenter) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.rows)
}

// Row returns row i of the last render.
func (p *Presenter) Row(i int) (Row, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if i < 0 || i >= len(p.rows) {
		return Row{}, false
	}
	return p.rows[i], true
}

// Close stops rendering and the worker. Pending and later requests resolve
// with ErrClosed.
func (p *Presenter) Close() {
	p.sendMu.Lock()
	if p.closed {
		p.sendMu.Unlock()
		return
	}
	p.closed = true
	p.sendMu.Unlock()

	close(p.done)
	p.wg.Wait()
	for {
		select {
		case j := <-p.jobs:
			j.errc <- ErrClosed
		default:
			return
		}
	}
}

func (p *Presenter) submit(ctx context.Context, op string, run func(context.Context) error) <-chan error {
	errc := make(chan error, 1)

	// sendMu keeps Close from draining the queue while a send is in flight.
	p.sendMu.RLock()
	defer p.sendMu.RUnlock()
	if p.closed {
		errc <- ErrClosed
		return errc
	}
	if err := ctx.Err(); err != nil {
		errc <- err
		return errc
	}
	j := job{id: uuid.NewString(), ctx: ctx, op: op, run: run, errc: errc}
	select {
	case p.jobs <- j:
		p.logger.Debug("request queued", zap.String("req_id", j.id), zap.String("op", op))
	case <-ctx.Done():
		errc <- ctx.Err()
	}
	return errc
}

func (p *Presenter) work() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case j := <-p.jobs:
			err := j.run(j.ctx)
			if err != nil {
				p.logger.Info("request failed",
					zap.String("req_id", j.id),
					zap.String("op", j.op),
					zap.Error(err),
				)
			}
			j.errc <- err
		}
	}
}

func resolved(err error) <-chan error {
	errc := make(chan error, 1)
	errc <- err
	return errc
}

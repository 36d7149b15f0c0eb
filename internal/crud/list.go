package crud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/csg33k/beneficiary-admin/internal/domain"
	"github.com/csg33k/beneficiary-admin/internal/metrics"
	"github.com/csg33k/beneficiary-admin/internal/notify"
	"github.com/csg33k/beneficiary-admin/internal/ports"
)

// Named is an entity that can be named in a delete prompt.
type Named interface {
	domain.Entity
	FullName() string
}

// Resource fetches and deletes the entities of one scope.
type Resource[T any] interface {
	List(ctx context.Context) ([]T, error)
	Delete(ctx context.Context, item T) error
}

// Confirmer presents a blocking yes/no prompt.
type Confirmer interface {
	Confirm(ctx context.Context, title, prompt string) bool
}

type ConfirmFunc func(ctx context.Context, title, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, title, prompt string) bool {
	return f(ctx, title, prompt)
}

// Preconfirmed is for surfaces that already asked before reaching the
// server, such as an hx-confirm attribute in the browser.
var Preconfirmed Confirmer = ConfirmFunc(func(context.Context, string, string) bool { return true })

// Labels name the entity in notices and prompts.
type Labels struct {
	Singular string // "employee"
	Plural   string // "employees"
}

type ListConfig[T Named, F Binding[T]] struct {
	Labels     Labels
	Resource   Resource[T]
	Persister  Persister[T]
	References ports.NationalityGateway
	NewFields  func() F
	Notifier   notify.Notifier
	Confirmer  Confirmer
	// Accept filters entities that do not belong to this list's scope.
	// Nil accepts everything.
	Accept func(T) bool
	Logger *slog.Logger
}

var ErrNoOpenForm = errors.New("no open form")

// List owns the collection for one resource scope. Its content changes only
// by a full reload or by splicing in the result of a server-confirmed create,
// update or delete. Gateway failures are reported to the notifier and end
// here; a second action while one is in flight is not prevented and the last
// response to arrive wins.
type List[T Named, F Binding[T]] struct {
	cfg ListConfig[T, F]
	log *slog.Logger

	mu         sync.Mutex
	items      []T
	inflight   int
	createForm *Form[T, F]
	editForm   *Form[T, F]
	closed     bool
}

func NewList[T Named, F Binding[T]](cfg ListConfig[T, F]) *List[T, F] {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	if cfg.Confirmer == nil {
		cfg.Confirmer = Preconfirmed
	}
	if cfg.Notifier == nil {
		cfg.Notifier = notify.Discard
	}
	return &List[T, F]{cfg: cfg, log: log.With("list", cfg.Labels.Plural)}
}

// Load replaces the collection with a fresh fetch. On failure the current
// collection is kept: stale data is better than none.
func (l *List[T, F]) Load(ctx context.Context) {
	l.begin()
	items, err := l.cfg.Resource.List(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.inflight--
	if l.closed {
		return
	}
	if err != nil {
		l.fail("An error occurred obtaining "+l.cfg.Labels.Plural, err)
		return
	}
	l.items = l.inScope(items)
}

// RequestCreate opens a create form with no bound entity.
func (l *List[T, F]) RequestCreate(ctx context.Context) *Form[T, F] {
	form, _ := NewForm[T](ModeCreate, nil, l.cfg.NewFields(), l.cfg.Persister, l.cfg.References)
	l.mu.Lock()
	l.createForm = form
	l.mu.Unlock()

	if err := form.Mount(ctx); err != nil {
		l.report(l.createErrorTitle(), err)
	}
	return form
}

// RequestEdit opens an edit form on a copy of entity and closes any create
// form; the list is not touched until the server confirms the update.
// Reopening the entity already being edited rebinds the open form to the
// current row, discarding unsaved input without refetching reference data.
func (l *List[T, F]) RequestEdit(ctx context.Context, entity T) *Form[T, F] {
	l.mu.Lock()
	l.createForm = nil
	if open := l.editForm; open != nil {
		if bound, _ := open.Bound(); bound.EntityID() == entity.EntityID() && open.State() == StateReady {
			l.mu.Unlock()
			open.Rebind(entity)
			return open
		}
	}
	l.mu.Unlock()

	snapshot := entity
	form, _ := NewForm(ModeEdit, &snapshot, l.cfg.NewFields(), l.cfg.Persister, l.cfg.References)
	l.mu.Lock()
	l.editForm = form
	l.mu.Unlock()

	if err := form.Mount(ctx); err != nil {
		l.report(l.updateErrorTitle(), err)
	}
	return form
}

// SubmitCreate submits the open create form. Validation errors come back for
// inline display without a notice; gateway failures are reported here.
func (l *List[T, F]) SubmitCreate(ctx context.Context) (T, error) {
	var zero T
	form := l.CreateForm()
	if form == nil {
		return zero, ErrNoOpenForm
	}
	created, err := form.Submit(ctx)
	if err != nil {
		if !domain.IsValidation(err) && !errors.Is(err, domain.ErrNotReady) {
			l.report(l.createErrorTitle(), err)
		}
		return zero, err
	}
	l.OnFormCreated(created)
	return created, nil
}

// SubmitEdit submits the open edit form.
func (l *List[T, F]) SubmitEdit(ctx context.Context) (T, error) {
	var zero T
	form := l.EditForm()
	if form == nil {
		return zero, ErrNoOpenForm
	}
	updated, err := form.Submit(ctx)
	if err != nil {
		if !domain.IsValidation(err) && !errors.Is(err, domain.ErrNotReady) {
			l.report(l.updateErrorTitle(), err)
		}
		return zero, err
	}
	l.OnFormUpdated(updated)
	return updated, nil
}

// OnFormCreated appends a server-created entity and closes the create form.
func (l *List[T, F]) OnFormCreated(created T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.createForm = nil
	if l.accepts(created) {
		l.items = ApplyCreate(l.items, created)
	} else {
		l.log.Warn("created entity outside list scope", "id", created.EntityID())
	}
	notify.Success(l.cfg.Notifier, "Success", l.title()+" has been created")
}

// OnFormUpdated replaces the element with the same id, keeping its position,
// and closes the edit form. An id with no match leaves the list unchanged.
func (l *List[T, F]) OnFormUpdated(updated T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.editForm = nil
	if !l.accepts(updated) {
		l.log.Warn("updated entity outside list scope", "id", updated.EntityID())
	} else if next, ok := ApplyUpdate(l.items, updated); ok {
		l.items = next
	} else {
		l.log.Warn("updated entity not in list", "id", updated.EntityID())
	}
	notify.Success(l.cfg.Notifier, "Success", l.title()+" has been updated")
}

// DeletePrompt is the confirmation shown before a delete.
func (l *List[T, F]) DeletePrompt(entity T) (title, prompt string) {
	s := l.cfg.Labels.Singular
	return "Delete " + s, fmt.Sprintf("Are you sure you want to delete the %s %s?", s, entity.FullName())
}

// RequestDelete asks for confirmation and deletes only on a yes.
func (l *List[T, F]) RequestDelete(ctx context.Context, entity T) bool {
	title, prompt := l.DeletePrompt(entity)
	if !l.cfg.Confirmer.Confirm(ctx, title, prompt) {
		return false
	}
	l.ConfirmDelete(ctx, entity)
	return true
}

// ConfirmDelete deletes entity remotely and, on success, drops it locally.
func (l *List[T, F]) ConfirmDelete(ctx context.Context, entity T) {
	l.begin()
	err := l.cfg.Resource.Delete(ctx, entity)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.inflight--
	if l.closed {
		return
	}
	if err != nil {
		l.fail("An error occurred deleting the "+l.cfg.Labels.Singular, err)
		return
	}
	l.items = ApplyDelete(l.items, entity.EntityID())
	notify.Success(l.cfg.Notifier, "Success", l.title()+" has been deleted")
}

// CancelForm discards any open create or edit form.
func (l *List[T, F]) CancelForm() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.createForm = nil
	l.editForm = nil
}

// Close tears the list down. Responses that arrive afterwards are dropped.
func (l *List[T, F]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.createForm = nil
	l.editForm = nil
}

// Items returns a copy of the collection in display order.
func (l *List[T, F]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.items)
}

// Find returns the element with id.
func (l *List[T, F]) Find(id int64) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.items {
		if e.EntityID() == id {
			return e, true
		}
	}
	var zero T
	return zero, false
}

// Loading reports whether a fetch or delete is in flight.
func (l *List[T, F]) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inflight > 0
}

func (l *List[T, F]) CreateForm() *Form[T, F] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.createForm
}

func (l *List[T, F]) EditForm() *Form[T, F] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.editForm
}

func (l *List[T, F]) Labels() Labels { return l.cfg.Labels }

func (l *List[T, F]) begin() {
	l.mu.Lock()
	l.inflight++
	l.mu.Unlock()
}

func (l *List[T, F]) accepts(e T) bool {
	return l.cfg.Accept == nil || l.cfg.Accept(e)
}

func (l *List[T, F]) inScope(items []T) []T {
	if l.cfg.Accept == nil {
		return items
	}
	kept := make([]T, 0, len(items))
	for _, e := range items {
		if l.cfg.Accept(e) {
			kept = append(kept, e)
		} else {
			l.log.Warn("dropping entity outside list scope", "id", e.EntityID())
			metrics.DroppedOutOfScope(l.cfg.Labels.Plural)
		}
	}
	return kept
}

// report takes the lock; fail expects it held.
func (l *List[T, F]) report(title string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.fail(title, err)
}

func (l *List[T, F]) fail(title string, err error) {
	if errors.Is(err, domain.ErrUnauthorized) {
		l.log.Debug("credential rejected", "title", title)
		return
	}
	notify.Error(l.cfg.Notifier, title, err)
}

func (l *List[T, F]) title() string {
	return cases.Title(language.English).String(l.cfg.Labels.Singular)
}

func (l *List[T, F]) createErrorTitle() string {
	return "An error occurred while creating " + l.cfg.Labels.Singular
}

func (l *List[T, F]) updateErrorTitle() string {
	return "An error occurred while updating " + l.cfg.Labels.Singular
}

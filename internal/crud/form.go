package crud

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/csg33k/beneficiary-admin/internal/domain"
	"github.com/csg33k/beneficiary-admin/internal/ports"
)

type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

type State int

const (
	StateUninitialized State = iota
	StateLoadingReferenceData
	StateReady
	StateSubmitting
	StateSucceeded
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoadingReferenceData:
		return "loading-reference-data"
	case StateReady:
		return "ready"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	}
	return "unknown"
}

// Binding maps one entity type to editable fields and back.
type Binding[T any] interface {
	// Populate copies every field of entity into the inputs.
	Populate(entity T)
	// Clear blanks every input.
	Clear()
	// Validate checks required inputs; it returns a *domain.ValidationError.
	Validate() error
	// Payload builds the normalized entity to send.
	Payload() T
}

// Persister dispatches a form's payload. Update receives the entity the form
// was bound to so scoped resources can build their path.
type Persister[T any] interface {
	Create(ctx context.Context, payload T) (T, error)
	Update(ctx context.Context, bound T, payload T) (T, error)
}

// Form collects input for exactly one entity and delegates persistence. It
// never touches a collection: the server's record is returned to the caller.
type Form[T domain.Entity, F Binding[T]] struct {
	mu            sync.Mutex
	mode          Mode
	bound         T
	fields        F
	persist       Persister[T]
	refs          ports.NationalityGateway
	nationalities []domain.Nationality
	state         State
	lastErr       error
}

var errEditWithoutEntity = errors.New("edit form needs an entity")

// NewForm builds an unmounted form. bound is required in edit mode and
// ignored in create mode.
func NewForm[T domain.Entity, F Binding[T]](mode Mode, bound *T, fields F, persist Persister[T], refs ports.NationalityGateway) (*Form[T, F], error) {
	f := &Form[T, F]{mode: mode, fields: fields, persist: persist, refs: refs}
	if mode == ModeEdit {
		if bound == nil {
			return nil, errEditWithoutEntity
		}
		f.bound = *bound
	}
	return f, nil
}

// Mount loads the nationality list and populates the inputs from the bound
// entity. A failed reference load is returned for the owner to report, but
// the form still becomes ready.
func (f *Form[T, F]) Mount(ctx context.Context) error {
	f.mu.Lock()
	f.state = StateLoadingReferenceData
	f.mu.Unlock()

	nats, err := f.refs.ListNationalities(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		f.nationalities = nats
	}
	if f.mode == ModeEdit {
		f.fields.Populate(f.bound)
	}
	f.state = StateReady
	f.lastErr = err
	return err
}

// Rebind points an edit form at a new snapshot and repopulates its inputs,
// dropping any error left by an earlier submit.
func (f *Form[T, F]) Rebind(entity T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bound = entity
	f.fields.Populate(entity)
	f.lastErr = nil
}

// Fill lets the caller write user input into the fields.
func (f *Form[T, F]) Fill(fn func(F) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateSubmitting {
		return domain.ErrNotReady
	}
	return fn(f.fields)
}

// Submit validates, normalizes and dispatches the form. Validation failures
// return before any gateway call. On success the server's record is returned;
// in create mode the inputs are cleared for reuse. On failure the inputs keep
// their values and the form is ready again.
func (f *Form[T, F]) Submit(ctx context.Context) (T, error) {
	var zero T

	f.mu.Lock()
	if f.state != StateReady && f.state != StateSucceeded {
		f.mu.Unlock()
		return zero, domain.ErrNotReady
	}
	if err := f.fields.Validate(); err != nil {
		f.lastErr = err
		f.mu.Unlock()
		return zero, err
	}
	payload := f.fields.Payload()
	bound := f.bound
	f.state = StateSubmitting
	f.mu.Unlock()

	var (
		result T
		err    error
	)
	if f.mode == ModeCreate {
		result, err = f.persist.Create(ctx, payload)
	} else {
		result, err = f.persist.Update(ctx, bound, payload)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastErr = err
	if err != nil {
		f.state = StateReady
		return zero, err
	}
	if f.mode == ModeCreate {
		f.fields.Clear()
	} else {
		f.bound = result
	}
	f.state = StateSucceeded
	return result, nil
}

func (f *Form[T, F]) Mode() Mode { return f.mode }

func (f *Form[T, F]) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Bound returns the entity snapshot an edit form works on.
func (f *Form[T, F]) Bound() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bound, f.mode == ModeEdit
}

// Fields exposes the inputs for rendering.
func (f *Form[T, F]) Fields() F {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

func (f *Form[T, F]) Nationalities() []domain.Nationality {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.nationalities)
}

// LastError is the error of the latest mount or submit, nil after success.
func (f *Form[T, F]) LastError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

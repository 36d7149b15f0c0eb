package crud

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/csg33k/beneficiary-admin/internal/domain"
)

var errNetwork = errors.New("network unreachable")

// stubEmployees plays the remote API for one employee roster.
type stubEmployees struct {
	mu sync.Mutex

	items  []domain.Employee
	nextID int64

	listErr   error
	createErr error
	updateErr error
	deleteErr error

	listCalls   int
	createCalls int
	updateCalls int
	deleteCalls int

	// gate, when set, blocks List until it is closed.
	gate chan struct{}
}

func (s *stubEmployees) List(context.Context) ([]domain.Employee, error) {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return slices.Clone(s.items), nil
}

func (s *stubEmployees) Delete(_ context.Context, e domain.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls++
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.items = ApplyDelete(s.items, e.ID)
	return nil
}

func (s *stubEmployees) Create(_ context.Context, e domain.Employee) (domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	if s.createErr != nil {
		return domain.Employee{}, s.createErr
	}
	s.nextID++
	e.ID = s.nextID
	e.Nationality = "Mexican"
	s.items = append(s.items, e)
	return e, nil
}

func (s *stubEmployees) Update(_ context.Context, bound, e domain.Employee) (domain.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls++
	if s.updateErr != nil {
		return domain.Employee{}, s.updateErr
	}
	e.ID = bound.ID
	s.items, _ = ApplyUpdate(s.items, e)
	return e, nil
}

func (s *stubEmployees) gatewayCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createCalls + s.updateCalls + s.deleteCalls
}

type stubNationalities struct {
	err   error
	calls int
}

func (s *stubNationalities) ListNationalities(context.Context) ([]domain.Nationality, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []domain.Nationality{{ID: 1, Description: "Mexican"}, {ID: 2, Description: "Spanish"}}, nil
}

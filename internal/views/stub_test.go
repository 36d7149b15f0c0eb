package views

import (
	"context"
	"errors"
	"sync"

	"github.com/csg33k/beneficiary-admin/internal/domain"
)

var errNetwork = errors.New("network unreachable")

// stubGateway records which remote operations were attempted.
type stubGateway struct {
	mu sync.Mutex

	employees     map[int64]domain.Employee
	beneficiaries []domain.Beneficiary

	getErr  error
	calls   []string
	listFor []int64
}

func (s *stubGateway) record(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, op)
}

func (s *stubGateway) count(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (s *stubGateway) Login(context.Context, domain.AdminCredential) (string, error) {
	s.record("login")
	return "token", nil
}

func (s *stubGateway) ListNationalities(context.Context) ([]domain.Nationality, error) {
	s.record("nationalities")
	return []domain.Nationality{{ID: 1, Description: "Mexican"}}, nil
}

func (s *stubGateway) ListEmployees(context.Context) ([]domain.Employee, error) {
	s.record("employees")
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		out = append(out, e)
	}
	return out, nil
}

func (s *stubGateway) GetEmployee(_ context.Context, id int64) (*domain.Employee, error) {
	s.record("employee")
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	e, ok := s.employees[id]
	if !ok {
		return nil, &domain.RemoteError{Op: "get employee", Status: 404, Body: []byte(`{"message":"Employee not found"}`)}
	}
	return &e, nil
}

func (s *stubGateway) CreateEmployee(_ context.Context, e domain.Employee) (*domain.Employee, error) {
	s.record("create employee")
	return &e, nil
}

func (s *stubGateway) UpdateEmployee(_ context.Context, id int64, e domain.Employee) (*domain.Employee, error) {
	s.record("update employee")
	e.ID = id
	return &e, nil
}

func (s *stubGateway) DeleteEmployee(context.Context, int64) error {
	s.record("delete employee")
	return nil
}

func (s *stubGateway) ListBeneficiaries(_ context.Context, employeeID int64) ([]domain.Beneficiary, error) {
	s.record("beneficiaries")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listFor = append(s.listFor, employeeID)
	return append([]domain.Beneficiary(nil), s.beneficiaries...), nil
}

func (s *stubGateway) CreateBeneficiary(_ context.Context, employeeID int64, b domain.Beneficiary) (*domain.Beneficiary, error) {
	s.record("create beneficiary")
	b.ID = 100
	b.EmployeeID = employeeID
	return &b, nil
}

func (s *stubGateway) UpdateBeneficiary(_ context.Context, employeeID, beneficiaryID int64, b domain.Beneficiary) (*domain.Beneficiary, error) {
	s.record("update beneficiary")
	b.ID = beneficiaryID
	b.EmployeeID = employeeID
	return &b, nil
}

func (s *stubGateway) DeleteBeneficiary(context.Context, int64, int64) error {
	s.record("delete beneficiary")
	return nil
}

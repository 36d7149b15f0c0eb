// Package views composes the generic list and form controllers into the
// screens of the admin client: the employee roster, the beneficiary list of
// one employee, and the employee detail view that nests the latter.
package views

import (
	"context"
	"log/slog"
	"sync"

	"github.com/csg33k/beneficiary-admin/internal/crud"
	"github.com/csg33k/beneficiary-admin/internal/domain"
	"github.com/csg33k/beneficiary-admin/internal/forms"
	"github.com/csg33k/beneficiary-admin/internal/notify"
	"github.com/csg33k/beneficiary-admin/internal/ports"
)

type (
	EmployeeList    = crud.List[domain.Employee, *forms.EmployeeFields]
	EmployeeForm    = crud.Form[domain.Employee, *forms.EmployeeFields]
	BeneficiaryList = crud.List[domain.Beneficiary, *forms.BeneficiaryFields]
	BeneficiaryForm = crud.Form[domain.Beneficiary, *forms.BeneficiaryFields]
)

// NewEmployeeList builds the unscoped employee roster.
func NewEmployeeList(gw ports.Gateway, n notify.Notifier, c crud.Confirmer, log *slog.Logger) *EmployeeList {
	res := employeeResource{gw: gw}
	return crud.NewList(crud.ListConfig[domain.Employee, *forms.EmployeeFields]{
		Labels:     crud.Labels{Singular: "employee", Plural: "employees"},
		Resource:   res,
		Persister:  res,
		References: gw,
		NewFields:  forms.NewEmployeeFields,
		Notifier:   n,
		Confirmer:  c,
		Logger:     log,
	})
}

// NewBeneficiaryList builds the beneficiary list of one employee. Anything
// the server returns for a different employee is dropped.
func NewBeneficiaryList(gw ports.Gateway, employeeID int64, n notify.Notifier, c crud.Confirmer, log *slog.Logger) *BeneficiaryList {
	res := beneficiaryResource{gw: gw, employeeID: employeeID}
	if log == nil {
		log = slog.Default()
	}
	return crud.NewList(crud.ListConfig[domain.Beneficiary, *forms.BeneficiaryFields]{
		Labels:     crud.Labels{Singular: "beneficiary", Plural: "beneficiaries"},
		Resource:   res,
		Persister:  res,
		References: gw,
		NewFields:  func() *forms.BeneficiaryFields { return forms.NewBeneficiaryFields(employeeID) },
		Notifier:   n,
		Confirmer:  c,
		Accept:     func(b domain.Beneficiary) bool { return b.EmployeeID == employeeID },
		Logger:     log.With("employee_id", employeeID),
	})
}

// Workspace is the operator's open screens: the roster and at most one
// detail view. It stands in for the page the single operator is looking at.
type Workspace struct {
	gw       ports.Gateway
	notifier notify.Notifier
	confirm  crud.Confirmer
	log      *slog.Logger

	mu        sync.Mutex
	employees *EmployeeList
	detail    *Detail
}

func NewWorkspace(gw ports.Gateway, n notify.Notifier, c crud.Confirmer, log *slog.Logger) *Workspace {
	if log == nil {
		log = slog.Default()
	}
	return &Workspace{gw: gw, notifier: n, confirm: c, log: log}
}

// Employees returns the roster, mounting and loading it on first use.
func (w *Workspace) Employees(ctx context.Context) *EmployeeList {
	w.mu.Lock()
	list := w.employees
	fresh := list == nil
	if fresh {
		list = NewEmployeeList(w.gw, w.notifier, w.confirm, w.log)
		w.employees = list
	}
	w.mu.Unlock()

	if fresh {
		list.Load(ctx)
	}
	return list
}

// OpenEmployees remounts the roster, as navigating to the root route does.
func (w *Workspace) OpenEmployees(ctx context.Context) *EmployeeList {
	w.mu.Lock()
	if w.employees != nil {
		w.employees.Close()
		w.employees = nil
	}
	w.mu.Unlock()
	return w.Employees(ctx)
}

// Detail returns the detail view for id, mounting a new one if the open
// view shows a different employee.
func (w *Workspace) Detail(ctx context.Context, id int64) *Detail {
	w.mu.Lock()
	d := w.detail
	if d != nil && d.EmployeeID() == id {
		w.mu.Unlock()
		return d
	}
	if d != nil {
		d.Close()
	}
	d = NewDetail(w.gw, id, w.notifier, w.confirm, w.log)
	w.detail = d
	w.mu.Unlock()

	d.Mount(ctx)
	return d
}

// OpenDetail remounts the detail view for id.
func (w *Workspace) OpenDetail(ctx context.Context, id int64) *Detail {
	w.mu.Lock()
	if w.detail != nil {
		w.detail.Close()
		w.detail = nil
	}
	w.mu.Unlock()
	return w.Detail(ctx, id)
}

// Reset closes every open screen, e.g. after the credential was rejected.
func (w *Workspace) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.employees != nil {
		w.employees.Close()
		w.employees = nil
	}
	if w.detail != nil {
		w.detail.Close()
		w.detail = nil
	}
}

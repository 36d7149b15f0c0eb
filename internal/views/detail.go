package views

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/csg33k/beneficiary-admin/internal/crud"
	"github.com/csg33k/beneficiary-admin/internal/domain"
	"github.com/csg33k/beneficiary-admin/internal/notify"
	"github.com/csg33k/beneficiary-admin/internal/ports"
)

// Detail shows one employee read-only and nests that employee's
// beneficiary list. The nested list does not exist until the employee has
// been fetched with a valid id, so no beneficiary call is made with a bad
// scope.
type Detail struct {
	gw         ports.Gateway
	employeeID int64
	notifier   notify.Notifier
	confirm    crud.Confirmer
	log        *slog.Logger

	mu            sync.Mutex
	employee      domain.Employee
	beneficiaries *BeneficiaryList
	closed        bool
}

func NewDetail(gw ports.Gateway, employeeID int64, n notify.Notifier, c crud.Confirmer, log *slog.Logger) *Detail {
	if log == nil {
		log = slog.Default()
	}
	return &Detail{gw: gw, employeeID: employeeID, notifier: n, confirm: c, log: log}
}

// Mount fetches the employee and, once it resolves, builds and loads the
// beneficiary list. A failed fetch is reported and leaves the fields blank;
// it is not retried.
func (d *Detail) Mount(ctx context.Context) {
	e, err := d.gw.GetEmployee(ctx, d.employeeID)

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if err != nil {
		d.mu.Unlock()
		if !errors.Is(err, domain.ErrUnauthorized) {
			notify.Error(d.notifier, "An error occurred while obtaining employee", err)
		}
		return
	}
	d.employee = *e
	if e.ID <= 0 {
		d.mu.Unlock()
		d.log.Warn("employee fetched without id", "requested_id", d.employeeID)
		return
	}
	list := NewBeneficiaryList(d.gw, e.ID, d.notifier, d.confirm, d.log)
	d.beneficiaries = list
	d.mu.Unlock()

	list.Load(ctx)
}

// Employee returns the fetched employee, zero until Mount succeeds.
func (d *Detail) Employee() domain.Employee {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.employee
}

// Beneficiaries returns the nested list, nil until the employee resolved.
func (d *Detail) Beneficiaries() *BeneficiaryList {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.beneficiaries
}

// Resolved reports whether the employee was fetched.
func (d *Detail) Resolved() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.employee.ID > 0
}

func (d *Detail) EmployeeID() int64 { return d.employeeID }

func (d *Detail) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	if d.beneficiaries != nil {
		d.beneficiaries.Close()
	}
}

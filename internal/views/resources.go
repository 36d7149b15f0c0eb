package views

import (
	"context"

	"github.com/csg33k/beneficiary-admin/internal/domain"
	"github.com/csg33k/beneficiary-admin/internal/ports"
)

// employeeResource adapts the gateway to the list and form contracts.
type employeeResource struct {
	gw ports.EmployeeGateway
}

func (r employeeResource) List(ctx context.Context) ([]domain.Employee, error) {
	return r.gw.ListEmployees(ctx)
}

func (r employeeResource) Delete(ctx context.Context, e domain.Employee) error {
	return r.gw.DeleteEmployee(ctx, e.ID)
}

func (r employeeResource) Create(ctx context.Context, e domain.Employee) (domain.Employee, error) {
	created, err := r.gw.CreateEmployee(ctx, e)
	if err != nil {
		return domain.Employee{}, err
	}
	return *created, nil
}

func (r employeeResource) Update(ctx context.Context, bound, e domain.Employee) (domain.Employee, error) {
	updated, err := r.gw.UpdateEmployee(ctx, bound.ID, e)
	if err != nil {
		return domain.Employee{}, err
	}
	return *updated, nil
}

// beneficiaryResource is bound to one employee; every call carries its id.
type beneficiaryResource struct {
	gw         ports.BeneficiaryGateway
	employeeID int64
}

func (r beneficiaryResource) List(ctx context.Context) ([]domain.Beneficiary, error) {
	return r.gw.ListBeneficiaries(ctx, r.employeeID)
}

func (r beneficiaryResource) Delete(ctx context.Context, b domain.Beneficiary) error {
	return r.gw.DeleteBeneficiary(ctx, r.employeeID, b.ID)
}

func (r beneficiaryResource) Create(ctx context.Context, b domain.Beneficiary) (domain.Beneficiary, error) {
	created, err := r.gw.CreateBeneficiary(ctx, r.employeeID, b)
	if err != nil {
		return domain.Beneficiary{}, err
	}
	return *created, nil
}

func (r beneficiaryResource) Update(ctx context.Context, bound, b domain.Beneficiary) (domain.Beneficiary, error) {
	updated, err := r.gw.UpdateBeneficiary(ctx, r.employeeID, bound.ID, b)
	if err != nil {
		return domain.Beneficiary{}, err
	}
	return *updated, nil
}

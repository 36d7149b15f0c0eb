package ports

import (
	"context"

	"github.com/csg33k/beneficiary-admin/internal/domain"
)

// Authenticator exchanges an admin credential for a session token. A
// successful login also stores the token in the session.
type Authenticator interface {
	Login(ctx context.Context, cred domain.AdminCredential) (string, error)
}

// NationalityGateway serves read-only reference data.
type NationalityGateway interface {
	ListNationalities(ctx context.Context) ([]domain.Nationality, error)
}

// EmployeeGateway defines the remote employee operations. Create and Update
// return the server's record, which is authoritative over what was sent.
type EmployeeGateway interface {
	ListEmployees(ctx context.Context) ([]domain.Employee, error)
	GetEmployee(ctx context.Context, id int64) (*domain.Employee, error)
	CreateEmployee(ctx context.Context, e domain.Employee) (*domain.Employee, error)
	UpdateEmployee(ctx context.Context, id int64, e domain.Employee) (*domain.Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error
}

// BeneficiaryGateway defines the remote beneficiary operations, all scoped
// by the owning employee's id.
type BeneficiaryGateway interface {
	ListBeneficiaries(ctx context.Context, employeeID int64) ([]domain.Beneficiary, error)
	CreateBeneficiary(ctx context.Context, employeeID int64, b domain.Beneficiary) (*domain.Beneficiary, error)
	UpdateBeneficiary(ctx context.Context, employeeID, beneficiaryID int64, b domain.Beneficiary) (*domain.Beneficiary, error)
	DeleteBeneficiary(ctx context.Context, employeeID, beneficiaryID int64) error
}

// Gateway is the full Remote Entity Gateway.
type Gateway interface {
	Authenticator
	NationalityGateway
	EmployeeGateway
	BeneficiaryGateway
}

// TokenStore persists the session token between process runs.
// Load returns "" with a nil error when no token is stored.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}

package templates

import (
	"github.com/csg33k/beneficiary-admin/internal/domain"
	"github.com/csg33k/beneficiary-admin/internal/notify"
)

// Field is one text-like input of an entity form.
type Field struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Error    string
	Max      int
	Required bool
}

// FormData describes an open create or edit form.
type FormData struct {
	Title            string
	Action           string
	Method           string // "post" or "put"
	Target           string
	CancelURL        string
	Fields           []Field
	NationalityID    int64
	NationalityError string
	Nationalities    []domain.Nationality
}

type EmployeeRow struct {
	domain.Employee
	Confirm string
}

type EmployeesPanel struct {
	Notices []notify.Notice
	Rows    []EmployeeRow
	Loading bool
	Form    *FormData
}

type BeneficiaryRow struct {
	domain.Beneficiary
	Confirm string
}

type BeneficiariesPanel struct {
	EmployeeID int64
	Notices    []notify.Notice
	Rows       []BeneficiaryRow
	Total      string
	Loading    bool
	Form       *FormData
}

type DetailData struct {
	Notices       []notify.Notice
	Employee      domain.Employee
	Resolved      bool
	Beneficiaries *BeneficiariesPanel
}

type LoginData struct {
	Username string
	Error    string
	Errors   map[string]string
}

package forms

import (
	"strconv"
	"strings"
	"time"

	"github.com/csg33k/beneficiary-admin/internal/domain"
)

var employeeLabels = map[string]string{
	"nationalityId":  "nationality",
	"firstName":      "first name",
	"lastName":       "last name",
	"birthDate":      "birth date",
	"employeeNumber": "number",
	"curp":           "CURP",
	"ssn":            "SSN",
	"phone":          "phone",
}

// EmployeeFields are the inputs of the employee form.
type EmployeeFields struct {
	NationalityID  int64     `form:"nationalityId" validate:"required"`
	FirstName      string    `form:"firstName" validate:"required,max=50"`
	LastName       string    `form:"lastName" validate:"required,max=50"`
	BirthDate      time.Time `form:"birthDate" validate:"required"`
	EmployeeNumber string    `form:"employeeNumber" validate:"required,number,max=10"`
	CURP           string    `form:"curp" validate:"max=18"`
	SSN            string    `form:"ssn" validate:"max=9"`
	Phone          string    `form:"phone" validate:"required,number,len=10"`
}

func NewEmployeeFields() *EmployeeFields { return &EmployeeFields{} }

func (f *EmployeeFields) Populate(e domain.Employee) {
	*f = EmployeeFields{
		NationalityID: e.NationalityID,
		FirstName:     e.FirstName,
		LastName:      e.LastName,
		BirthDate:     ParseDate(e.BirthDate),
		CURP:          e.CURP,
		SSN:           e.SSN,
		Phone:         string(e.Phone),
	}
	if e.EmployeeNumber != 0 {
		f.EmployeeNumber = strconv.FormatInt(e.EmployeeNumber, 10)
	}
}

func (f *EmployeeFields) Clear() { *f = EmployeeFields{} }

func (f *EmployeeFields) Validate() error {
	f.normalize()
	return check("employee", f, employeeLabels)
}

func (f *EmployeeFields) Payload() domain.Employee {
	f.normalize()
	number, _ := strconv.ParseInt(f.EmployeeNumber, 10, 64)
	return domain.Employee{
		NationalityID:  f.NationalityID,
		FirstName:      f.FirstName,
		LastName:       f.LastName,
		BirthDate:      FormatDate(f.BirthDate),
		EmployeeNumber: number,
		CURP:           f.CURP,
		SSN:            f.SSN,
		Phone:          domain.Phone(f.Phone),
	}
}

func (f *EmployeeFields) normalize() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.EmployeeNumber = strings.TrimSpace(f.EmployeeNumber)
	f.CURP = strings.TrimSpace(f.CURP)
	f.SSN = strings.TrimSpace(f.SSN)
	f.Phone = domain.PhoneFromNumber(f.Phone)
}

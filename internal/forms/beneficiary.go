package forms

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/csg33k/beneficiary-admin/internal/domain"
)

var beneficiaryLabels = map[string]string{
	"nationalityId":        "nationality",
	"firstName":            "first name",
	"lastName":             "last name",
	"birthDate":            "birth date",
	"curp":                 "CURP",
	"ssn":                  "SSN",
	"phone":                "phone",
	"participationPercent": "participation percent",
}

var hundred = decimal.NewFromInt(100)

// BeneficiaryFields are the inputs of the beneficiary form. EmployeeID is
// fixed by the list that opens the form, never typed by the operator.
type BeneficiaryFields struct {
	EmployeeID           int64     `form:"-"`
	NationalityID        int64     `form:"nationalityId" validate:"required"`
	FirstName            string    `form:"firstName" validate:"required,max=50"`
	LastName             string    `form:"lastName" validate:"required,max=50"`
	BirthDate            time.Time `form:"birthDate" validate:"required"`
	CURP                 string    `form:"curp" validate:"max=18"`
	SSN                  string    `form:"ssn" validate:"max=9"`
	Phone                string    `form:"phone" validate:"required,number,len=10"`
	ParticipationPercent string    `form:"participationPercent" validate:"required"`
}

// NewBeneficiaryFields returns blank inputs for beneficiaries of employeeID.
func NewBeneficiaryFields(employeeID int64) *BeneficiaryFields {
	return &BeneficiaryFields{EmployeeID: employeeID}
}

func (f *BeneficiaryFields) Populate(b domain.Beneficiary) {
	*f = BeneficiaryFields{
		EmployeeID:           f.EmployeeID,
		NationalityID:        b.NationalityID,
		FirstName:            b.FirstName,
		LastName:             b.LastName,
		BirthDate:            ParseDate(b.BirthDate),
		CURP:                 b.CURP,
		SSN:                  b.SSN,
		Phone:                string(b.Phone),
		ParticipationPercent: b.ParticipationPercent.String(),
	}
}

func (f *BeneficiaryFields) Clear() {
	*f = BeneficiaryFields{EmployeeID: f.EmployeeID}
}

// Validate checks required inputs. The percentage must lie in 0..100; the
// sum across one employee's beneficiaries is left to the server.
func (f *BeneficiaryFields) Validate() error {
	f.normalize()
	err := check("beneficiary", f, beneficiaryLabels)
	if f.ParticipationPercent == "" {
		return err
	}
	pct, perr := decimal.NewFromString(f.ParticipationPercent)
	msg := ""
	switch {
	case perr != nil:
		msg = "Participation percent must be a number"
	case pct.IsNegative() || pct.GreaterThan(hundred):
		msg = "Participation percent must be between 0 and 100"
	case !pct.Equal(pct.Round(2)):
		msg = "Participation percent allows at most two decimals"
	}
	if msg == "" {
		return err
	}
	ve, ok := err.(*domain.ValidationError)
	if !ok {
		if err != nil {
			return err
		}
		ve = &domain.ValidationError{Fields: map[string]string{}}
	}
	ve.Fields["participationPercent"] = msg
	return ve
}

func (f *BeneficiaryFields) Payload() domain.Beneficiary {
	f.normalize()
	pct, _ := decimal.NewFromString(f.ParticipationPercent)
	return domain.Beneficiary{
		EmployeeID:           f.EmployeeID,
		NationalityID:        f.NationalityID,
		FirstName:            f.FirstName,
		LastName:             f.LastName,
		BirthDate:            FormatDate(f.BirthDate),
		CURP:                 f.CURP,
		SSN:                  f.SSN,
		Phone:                domain.Phone(f.Phone),
		ParticipationPercent: domain.NewPercent(pct),
	}
}

func (f *BeneficiaryFields) normalize() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.CURP = strings.TrimSpace(f.CURP)
	f.SSN = strings.TrimSpace(f.SSN)
	f.Phone = domain.PhoneFromNumber(f.Phone)
	f.ParticipationPercent = strings.TrimSpace(f.ParticipationPercent)
}

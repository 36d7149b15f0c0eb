package domain

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format the remote API accepts for birth dates.
const DateLayout = "2006-01-02"

// Entity is a server-owned record identified by an opaque positive id.
type Entity interface {
	EntityID() int64
}

// Phone holds a phone number as text. The remote API has been seen to return
// it either as a JSON string or as a bare number; both decode to the same value.
type Phone string

func (p *Phone) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Phone(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = Phone(PhoneFromNumber(n.String()))
	return nil
}

// PhoneFromNumber renders a numeric phone entry as plain digits, so
// "5551234567.0" and "5.551234567e9" both become "5551234567".
func PhoneFromNumber(s string) string {
	s = strings.TrimSpace(s)
	if strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) < 0 {
		return s
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	return d.String()
}

// Percent is a participation percentage with two-decimal precision. It is
// sent to the API as a JSON number.
type Percent struct {
	decimal.Decimal
}

func NewPercent(d decimal.Decimal) Percent {
	return Percent{Decimal: d.Round(2)}
}

func (p Percent) MarshalJSON() ([]byte, error) {
	return []byte(p.Decimal.StringFixed(2)), nil
}

func (p *Percent) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		p.Decimal = decimal.Zero
		return nil
	}
	if err := p.Decimal.UnmarshalJSON(data); err != nil {
		return err
	}
	p.Decimal = p.Decimal.Round(2)
	return nil
}

// String renders the percent with two decimals, e.g. "25.50".
func (p Percent) String() string {
	return p.Decimal.StringFixed(2)
}

type Nationality struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
}

func (n Nationality) EntityID() int64 { return n.ID }

type Employee struct {
	ID             int64  `json:"id,omitempty"`
	NationalityID  int64  `json:"nationalityId,omitempty"`
	Nationality    string `json:"nationality,omitempty"` // display value computed by the server
	FirstName      string `json:"firstName,omitempty"`
	LastName       string `json:"lastName,omitempty"`
	BirthDate      string `json:"birthDate,omitempty"`
	EmployeeNumber int64  `json:"employeeNumber,omitempty"`
	CURP           string `json:"curp"`
	SSN            string `json:"ssn"`
	Phone          Phone  `json:"phone,omitempty"`
	IsActive       bool   `json:"isActive,omitempty"`
}

func (e Employee) EntityID() int64 { return e.ID }

// FullName is "First Last", used in prompts and report headers.
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

type Beneficiary struct {
	ID                   int64   `json:"id,omitempty"`
	EmployeeID           int64   `json:"employeeId,omitempty"`
	NationalityID        int64   `json:"nationalityId,omitempty"`
	Nationality          string  `json:"nationality,omitempty"`
	FirstName            string  `json:"firstName,omitempty"`
	LastName             string  `json:"lastName,omitempty"`
	BirthDate            string  `json:"birthDate,omitempty"`
	CURP                 string  `json:"curp"`
	SSN                  string  `json:"ssn"`
	Phone                Phone   `json:"phone,omitempty"`
	ParticipationPercent Percent `json:"participationPercent"`
	IsActive             bool    `json:"isActive,omitempty"`
}

func (b Beneficiary) EntityID() int64 { return b.ID }

func (b Beneficiary) FullName() string {
	return strings.TrimSpace(b.FirstName + " " + b.LastName)
}

// AdminCredential is submitted once to obtain a session token.
type AdminCredential struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

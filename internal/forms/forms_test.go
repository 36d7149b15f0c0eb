package forms

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/beneficiary-admin/internal/domain"
)

func validEmployeeFields() *EmployeeFields {
	return &EmployeeFields{
		NationalityID:  2,
		FirstName:      "Ana",
		LastName:       "Diaz",
		BirthDate:      time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
		EmployeeNumber: "1001",
		Phone:          "5551234567",
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1990-05-01", "1990-05-01"},
		{"1990-05-01T13:45:00Z", "1990-05-01"},
		{"Tue, 01 May 1990 00:00:00 GMT", "1990-05-01"},
		{"1990-05-01 08:00:00", "1990-05-01"},
		{"", ""},
		{"not a date", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(ParseDate(tt.in)))
		})
	}
}

func TestEmployeeFields_PopulateMapsEveryField(t *testing.T) {
	f := NewEmployeeFields()
	f.Populate(domain.Employee{
		ID:             1,
		NationalityID:  2,
		FirstName:      "Ana",
		LastName:       "Diaz",
		BirthDate:      "Tue, 01 May 1990 00:00:00 GMT",
		EmployeeNumber: 1001,
		CURP:           "DIAA900501MDFZNN09",
		SSN:            "123456789",
		Phone:          "5551234567",
	})

	assert.Equal(t, int64(2), f.NationalityID)
	assert.Equal(t, "Ana", f.FirstName)
	assert.Equal(t, "Diaz", f.LastName)
	assert.Equal(t, "1990-05-01", FormatDate(f.BirthDate))
	assert.Equal(t, "1001", f.EmployeeNumber)
	assert.Equal(t, "DIAA900501MDFZNN09", f.CURP)
	assert.Equal(t, "123456789", f.SSN)
	assert.Equal(t, "5551234567", f.Phone)
}

func TestEmployeeFields_PopulateLeavesAbsentFieldsBlank(t *testing.T) {
	f := validEmployeeFields()
	f.Populate(domain.Employee{FirstName: "Ana"})

	assert.Equal(t, "Ana", f.FirstName)
	assert.Empty(t, f.LastName)
	assert.True(t, f.BirthDate.IsZero())
	assert.Empty(t, f.EmployeeNumber)
	assert.Empty(t, f.Phone)
}

func TestEmployeeFields_ValidateRequired(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *EmployeeFields)
		field  string
		msg    string
	}{
		{"nationality", func(f *EmployeeFields) { f.NationalityID = 0 }, "nationalityId", "Please input employee nationality!"},
		{"first name", func(f *EmployeeFields) { f.FirstName = "  " }, "firstName", "Please input employee first name!"},
		{"last name", func(f *EmployeeFields) { f.LastName = "" }, "lastName", "Please input employee last name!"},
		{"birth date", func(f *EmployeeFields) { f.BirthDate = time.Time{} }, "birthDate", "Please input employee birth date!"},
		{"number", func(f *EmployeeFields) { f.EmployeeNumber = "" }, "employeeNumber", "Please input employee number!"},
		{"phone", func(f *EmployeeFields) { f.Phone = "" }, "phone", "Please input employee phone!"},
		{"phone length", func(f *EmployeeFields) { f.Phone = "555" }, "phone", "Phone must be exactly 10 digits"},
		{"ssn length", func(f *EmployeeFields) { f.SSN = "1234567890" }, "ssn", "SSN must be at most 9 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validEmployeeFields()
			tt.mutate(f)
			err := f.Validate()
			require.Error(t, err)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.msg, ve.Field(tt.field))
		})
	}
}

func TestEmployeeFields_PayloadNormalizes(t *testing.T) {
	f := validEmployeeFields()
	f.BirthDate = time.Date(1990, 5, 1, 23, 30, 0, 0, time.FixedZone("CST", -6*3600))
	f.Phone = "5551234567.0"
	f.FirstName = " Ana "

	require.NoError(t, f.Validate())
	p := f.Payload()
	assert.Equal(t, "1990-05-01", p.BirthDate)
	assert.Equal(t, domain.Phone("5551234567"), p.Phone)
	assert.Equal(t, "Ana", p.FirstName)
	assert.Equal(t, int64(1001), p.EmployeeNumber)
	assert.Zero(t, p.ID)
}

func TestEmployeeFields_Clear(t *testing.T) {
	f := validEmployeeFields()
	f.Clear()
	assert.Equal(t, EmployeeFields{}, *f)
}

func validBeneficiaryFields() *BeneficiaryFields {
	f := NewBeneficiaryFields(7)
	f.NationalityID = 1
	f.FirstName = "Luis"
	f.LastName = "Diaz"
	f.BirthDate = time.Date(2015, 3, 2, 0, 0, 0, 0, time.UTC)
	f.Phone = "5550000000"
	f.ParticipationPercent = "50"
	return f
}

func TestBeneficiaryFields_ValidatePercent(t *testing.T) {
	tests := []struct {
		in  string
		msg string
	}{
		{"", "Please input beneficiary participation percent!"},
		{"abc", "Participation percent must be a number"},
		{"-1", "Participation percent must be between 0 and 100"},
		{"100.01", "Participation percent must be between 0 and 100"},
		{"33.333", "Participation percent allows at most two decimals"},
		{"33.33", ""},
		{"100", ""},
		{"0", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			f := validBeneficiaryFields()
			f.ParticipationPercent = tt.in
			err := f.Validate()
			if tt.msg == "" {
				assert.NoError(t, err)
				return
			}
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.msg, ve.Field("participationPercent"))
		})
	}
}

func TestBeneficiaryFields_PercentErrorJoinsOtherFieldErrors(t *testing.T) {
	f := validBeneficiaryFields()
	f.FirstName = ""
	f.ParticipationPercent = "150"

	var ve *domain.ValidationError
	require.ErrorAs(t, f.Validate(), &ve)
	assert.Equal(t, "Please input beneficiary first name!", ve.Field("firstName"))
	assert.Equal(t, "Participation percent must be between 0 and 100", ve.Field("participationPercent"))
}

func TestBeneficiaryFields_PopulateKeepsScope(t *testing.T) {
	f := NewBeneficiaryFields(7)
	f.Populate(domain.Beneficiary{
		ID:                   3,
		EmployeeID:           7,
		FirstName:            "Luis",
		ParticipationPercent: domain.NewPercent(decimal.RequireFromString("25.5")),
		BirthDate:            "2015-03-02",
		Phone:                "5550000000",
	})
	assert.Equal(t, int64(7), f.EmployeeID)
	assert.Equal(t, "25.50", f.ParticipationPercent)
	assert.Equal(t, "2015-03-02", FormatDate(f.BirthDate))

	f.Clear()
	assert.Equal(t, int64(7), f.EmployeeID)
	assert.Empty(t, f.FirstName)
}

func TestBeneficiaryFields_Payload(t *testing.T) {
	f := validBeneficiaryFields()
	f.ParticipationPercent = "12.5"
	require.NoError(t, f.Validate())

	p := f.Payload()
	assert.Equal(t, int64(7), p.EmployeeID)
	assert.Equal(t, "2015-03-02", p.BirthDate)
	assert.Equal(t, "12.50", p.ParticipationPercent.String())
}

func TestPayload_ClearedOptionalFieldsAreSent(t *testing.T) {
	e := NewEmployeeFields()
	e.Populate(domain.Employee{
		ID: 1, NationalityID: 2, FirstName: "Ana", LastName: "Diaz",
		BirthDate: "1990-05-01", EmployeeNumber: 1001,
		CURP: "DIAA900501MDFZNN09", SSN: "123456789", Phone: "5551234567",
	})
	e.CURP = ""
	e.SSN = ""
	require.NoError(t, e.Validate())
	body, err := json.Marshal(e.Payload())
	require.NoError(t, err)
	assert.Contains(t, string(body), `"curp":""`)
	assert.Contains(t, string(body), `"ssn":""`)

	b := validBeneficiaryFields()
	b.CURP = ""
	body, err = json.Marshal(b.Payload())
	require.NoError(t, err)
	assert.Contains(t, string(body), `"curp":""`)
	assert.Contains(t, string(body), `"ssn":""`)
}

func TestDecode_EmployeeInputs(t *testing.T) {
	var f EmployeeFields
	err := Decode(&f, url.Values{
		"nationalityId":  {"2"},
		"firstName":      {" Ana "},
		"birthDate":      {"1990-05-01"},
		"employeeNumber": {"1001"},
		"phone":          {"5551234567"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), f.NationalityID)
	assert.Equal(t, " Ana ", f.FirstName, "trimmed at validation, not decode")
	assert.Equal(t, time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC), f.BirthDate)
	assert.Equal(t, "1001", f.EmployeeNumber)
}

func TestDecode_BeneficiaryKeepsScope(t *testing.T) {
	f := NewBeneficiaryFields(7)
	require.NoError(t, Decode(f, url.Values{"participationPercent": {"25"}, "employeeId": {"9"}}))
	assert.Equal(t, int64(7), f.EmployeeID)
	assert.Equal(t, "25", f.ParticipationPercent)
}

func TestValidateCredential(t *testing.T) {
	c := domain.AdminCredential{Username: "  "}
	err := ValidateCredential(&c)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Please input your username!", ve.Field("username"))
	assert.Equal(t, "Please input your password!", ve.Field("password"))

	c = domain.AdminCredential{Username: " admin ", Password: "secret"}
	require.NoError(t, ValidateCredential(&c))
	assert.Equal(t, "admin", c.Username)
}

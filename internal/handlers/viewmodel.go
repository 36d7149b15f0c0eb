package handlers

import (
	"errors"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/csg33k/beneficiary-admin/internal/domain"
	"github.com/csg33k/beneficiary-admin/internal/forms"
	"github.com/csg33k/beneficiary-admin/internal/templates"
	"github.com/csg33k/beneficiary-admin/internal/views"
)

func (h *Handler) employeesPanel(list *views.EmployeeList) templates.EmployeesPanel {
	items := list.Items()
	rows := make([]templates.EmployeeRow, 0, len(items))
	for _, e := range items {
		_, prompt := list.DeletePrompt(e)
		rows = append(rows, templates.EmployeeRow{Employee: e, Confirm: prompt})
	}
	p := templates.EmployeesPanel{
		Notices: h.notices.Drain(),
		Rows:    rows,
		Loading: list.Loading(),
	}
	if f := list.EditForm(); f != nil {
		p.Form = employeeForm(f)
	} else if f := list.CreateForm(); f != nil {
		p.Form = employeeForm(f)
	}
	return p
}

func (h *Handler) beneficiariesPanel(employeeID int64, list *views.BeneficiaryList) *templates.BeneficiariesPanel {
	items := list.Items()
	rows := make([]templates.BeneficiaryRow, 0, len(items))
	total := decimal.Zero
	for _, b := range items {
		_, prompt := list.DeletePrompt(b)
		rows = append(rows, templates.BeneficiaryRow{Beneficiary: b, Confirm: prompt})
		total = total.Add(b.ParticipationPercent.Decimal)
	}
	p := &templates.BeneficiariesPanel{
		EmployeeID: employeeID,
		Notices:    h.notices.Drain(),
		Rows:       rows,
		Total:      total.StringFixed(2),
		Loading:    list.Loading(),
	}
	if f := list.EditForm(); f != nil {
		p.Form = beneficiaryForm(employeeID, f)
	} else if f := list.CreateForm(); f != nil {
		p.Form = beneficiaryForm(employeeID, f)
	}
	return p
}

func inlineErrors(err error) *domain.ValidationError {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

func employeeForm(f *views.EmployeeForm) *templates.FormData {
	in := f.Fields()
	errs := inlineErrors(f.LastError())
	d := &templates.FormData{
		Title:            "New employee",
		Action:           "/employees",
		Method:           "post",
		Target:           "#employees-panel",
		CancelURL:        "/employees/cancel",
		NationalityID:    in.NationalityID,
		NationalityError: errs.Field("nationalityId"),
		Nationalities:    f.Nationalities(),
	}
	if bound, editing := f.Bound(); editing {
		d.Title = "Edit employee"
		d.Action = "/employees/" + strconv.FormatInt(bound.ID, 10)
		d.Method = "put"
	}
	d.Fields = []templates.Field{
		{Name: "firstName", Label: "First name", Type: "text", Value: in.FirstName, Max: 50, Required: true},
		{Name: "lastName", Label: "Last name", Type: "text", Value: in.LastName, Max: 50, Required: true},
		{Name: "birthDate", Label: "Birth date", Type: "date", Value: forms.FormatDate(in.BirthDate), Required: true},
		{Name: "employeeNumber", Label: "Number", Type: "text", Value: in.EmployeeNumber, Max: 10, Required: true},
		{Name: "curp", Label: "CURP", Type: "text", Value: in.CURP, Max: 18},
		{Name: "ssn", Label: "SSN", Type: "text", Value: in.SSN, Max: 9},
		{Name: "phone", Label: "Phone", Type: "tel", Value: in.Phone, Max: 10, Required: true},
	}
	for i := range d.Fields {
		d.Fields[i].Error = errs.Field(d.Fields[i].Name)
	}
	return d
}

func beneficiaryForm(employeeID int64, f *views.BeneficiaryForm) *templates.FormData {
	in := f.Fields()
	errs := inlineErrors(f.LastError())
	base := "/employee/" + strconv.FormatInt(employeeID, 10) + "/beneficiaries"
	d := &templates.FormData{
		Title:            "New beneficiary",
		Action:           base,
		Method:           "post",
		Target:           "#beneficiaries-panel",
		CancelURL:        base + "/cancel",
		NationalityID:    in.NationalityID,
		NationalityError: errs.Field("nationalityId"),
		Nationalities:    f.Nationalities(),
	}
	if bound, editing := f.Bound(); editing {
		d.Title = "Edit beneficiary"
		d.Action = base + "/" + strconv.FormatInt(bound.ID, 10)
		d.Method = "put"
	}
	d.Fields = []templates.Field{
		{Name: "firstName", Label: "First name", Type: "text", Value: in.FirstName, Max: 50, Required: true},
		{Name: "lastName", Label: "Last name", Type: "text", Value: in.LastName, Max: 50, Required: true},
		{Name: "birthDate", Label: "Birth date", Type: "date", Value: forms.FormatDate(in.BirthDate), Required: true},
		{Name: "curp", Label: "CURP", Type: "text", Value: in.CURP, Max: 18},
		{Name: "ssn", Label: "SSN", Type: "text", Value: in.SSN, Max: 9},
		{Name: "phone", Label: "Phone", Type: "tel", Value: in.Phone, Max: 10, Required: true},
		{Name: "participationPercent", Label: "Participation percent", Type: "text", Value: in.ParticipationPercent, Required: true},
	}
	for i := range d.Fields {
		d.Fields[i].Error = errs.Field(d.Fields[i].Name)
	}
	return d
}

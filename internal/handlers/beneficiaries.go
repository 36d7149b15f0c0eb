package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/csg33k/beneficiary-admin/internal/adapters/pdf"
	"github.com/csg33k/beneficiary-admin/internal/crud"
	"github.com/csg33k/beneficiary-admin/internal/domain"
	"github.com/csg33k/beneficiary-admin/internal/forms"
	"github.com/csg33k/beneficiary-admin/internal/templates"
	"github.com/csg33k/beneficiary-admin/internal/views"
)

// viewEmployee remounts the detail view: the employee is refetched and, once
// it resolves, the beneficiary list is loaded.
func (h *Handler) viewEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", 400)
		return
	}
	d := h.ws.OpenDetail(r.Context(), id)
	if h.signedOut(w, r) {
		return
	}
	data := templates.DetailData{
		Employee: d.Employee(),
		Resolved: d.Resolved(),
	}
	if list := d.Beneficiaries(); list != nil {
		data.Beneficiaries = h.beneficiariesPanel(id, list)
		data.Notices = data.Beneficiaries.Notices
		data.Beneficiaries.Notices = nil
	} else {
		data.Notices = h.notices.Drain()
	}
	render(w, r, templates.DetailPage(data))
}

func (h *Handler) employeePDF(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", 400)
		return
	}
	d := h.ws.Detail(r.Context(), id)
	if h.signedOut(w, r) {
		return
	}
	if !d.Resolved() {
		http.Error(w, "employee not found", 404)
		return
	}
	var bens []domain.Beneficiary
	if list := d.Beneficiaries(); list != nil {
		bens = list.Items()
	}
	var buf bytes.Buffer
	if err := pdf.EmployeeReport(d.Employee(), bens, &buf); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	filename := fmt.Sprintf("employee_%d_%s.pdf", id, time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write(buf.Bytes())
}

// beneficiaries returns the nested list of employee id's detail view, or
// writes an error when the employee never resolved.
func (h *Handler) beneficiaries(w http.ResponseWriter, r *http.Request) (int64, *views.BeneficiaryList, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", 400)
		return 0, nil, false
	}
	d := h.ws.Detail(r.Context(), id)
	if h.signedOut(w, r) {
		return 0, nil, false
	}
	list := d.Beneficiaries()
	if list == nil {
		http.Error(w, "employee not found", 404)
		return 0, nil, false
	}
	return id, list, true
}

func (h *Handler) renderBeneficiaries(w http.ResponseWriter, r *http.Request, employeeID int64, list *views.BeneficiaryList) {
	if h.signedOut(w, r) {
		return
	}
	render(w, r, templates.BeneficiariesFragment(*h.beneficiariesPanel(employeeID, list)))
}

func (h *Handler) newBeneficiary(w http.ResponseWriter, r *http.Request) {
	id, list, ok := h.beneficiaries(w, r)
	if !ok {
		return
	}
	list.CancelForm()
	list.RequestCreate(r.Context())
	h.renderBeneficiaries(w, r, id, list)
}

func (h *Handler) createBeneficiary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	id, list, ok := h.beneficiaries(w, r)
	if !ok {
		return
	}
	form := list.CreateForm()
	if form == nil {
		form = list.RequestCreate(ctx)
	}
	if err := form.Fill(decodeBeneficiary(r)); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	if _, err := list.SubmitCreate(ctx); err != nil {
		h.log.Debug("create beneficiary", "employee_id", id, "error", err)
	}
	h.renderBeneficiaries(w, r, id, list)
}

func (h *Handler) cancelBeneficiary(w http.ResponseWriter, r *http.Request) {
	id, list, ok := h.beneficiaries(w, r)
	if !ok {
		return
	}
	list.CancelForm()
	h.renderBeneficiaries(w, r, id, list)
}

func (h *Handler) editBeneficiary(w http.ResponseWriter, r *http.Request) {
	bid, err := pathID(r, "bid")
	if err != nil {
		http.Error(w, "invalid id", 400)
		return
	}
	id, list, ok := h.beneficiaries(w, r)
	if !ok {
		return
	}
	b, found := list.Find(bid)
	if !found {
		http.Error(w, "beneficiary not found", 404)
		return
	}
	list.RequestEdit(r.Context(), b)
	h.renderBeneficiaries(w, r, id, list)
}

func (h *Handler) updateBeneficiary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bid, err := pathID(r, "bid")
	if err != nil {
		http.Error(w, "invalid id", 400)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	id, list, ok := h.beneficiaries(w, r)
	if !ok {
		return
	}
	form := list.EditForm()
	if form == nil {
		http.Error(w, crud.ErrNoOpenForm.Error(), http.StatusConflict)
		return
	}
	if bound, _ := form.Bound(); bound.ID != bid {
		http.Error(w, "edit form is open for another beneficiary", http.StatusConflict)
		return
	}
	if err := form.Fill(decodeBeneficiary(r)); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	if _, err := list.SubmitEdit(ctx); err != nil {
		h.log.Debug("update beneficiary", "employee_id", id, "id", bid, "error", err)
	}
	h.renderBeneficiaries(w, r, id, list)
}

func (h *Handler) deleteBeneficiary(w http.ResponseWriter, r *http.Request) {
	bid, err := pathID(r, "bid")
	if err != nil {
		http.Error(w, "invalid id", 400)
		return
	}
	id, list, ok := h.beneficiaries(w, r)
	if !ok {
		return
	}
	b, found := list.Find(bid)
	if !found {
		http.Error(w, "beneficiary not found", 404)
		return
	}
	list.RequestDelete(r.Context(), b)
	h.renderBeneficiaries(w, r, id, list)
}

func decodeBeneficiary(r *http.Request) func(*forms.BeneficiaryFields) error {
	return func(f *forms.BeneficiaryFields) error {
		f.Clear()
		return forms.Decode(f, r.PostForm)
	}
}

package handlers

import (
	"net/http"

	"github.com/csg33k/beneficiary-admin/internal/crud"
	"github.com/csg33k/beneficiary-admin/internal/forms"
	"github.com/csg33k/beneficiary-admin/internal/templates"
	"github.com/csg33k/beneficiary-admin/internal/views"
)

// index remounts the roster, refetching it from the remote API.
func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	list := h.ws.OpenEmployees(r.Context())
	if h.signedOut(w, r) {
		return
	}
	render(w, r, templates.EmployeesPage(h.employeesPanel(list)))
}

func (h *Handler) renderEmployees(w http.ResponseWriter, r *http.Request, list *views.EmployeeList) {
	if h.signedOut(w, r) {
		return
	}
	render(w, r, templates.EmployeesFragment(h.employeesPanel(list)))
}

func (h *Handler) newEmployee(w http.ResponseWriter, r *http.Request) {
	list := h.ws.Employees(r.Context())
	list.CancelForm()
	list.RequestCreate(r.Context())
	h.renderEmployees(w, r, list)
}

func (h *Handler) createEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	list := h.ws.Employees(ctx)
	form := list.CreateForm()
	if form == nil {
		form = list.RequestCreate(ctx)
	}
	if err := form.Fill(decodeEmployee(r)); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	if _, err := list.SubmitCreate(ctx); err != nil {
		h.log.Debug("create employee", "error", err)
	}
	h.renderEmployees(w, r, list)
}

func (h *Handler) cancelEmployee(w http.ResponseWriter, r *http.Request) {
	list := h.ws.Employees(r.Context())
	list.CancelForm()
	h.renderEmployees(w, r, list)
}

func (h *Handler) editEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", 400)
		return
	}
	list := h.ws.Employees(r.Context())
	e, ok := list.Find(id)
	if !ok {
		http.Error(w, "employee not found", 404)
		return
	}
	list.RequestEdit(r.Context(), e)
	h.renderEmployees(w, r, list)
}

func (h *Handler) updateEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", 400)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	list := h.ws.Employees(ctx)
	form := list.EditForm()
	if form == nil {
		http.Error(w, crud.ErrNoOpenForm.Error(), http.StatusConflict)
		return
	}
	if bound, _ := form.Bound(); bound.ID != id {
		http.Error(w, "edit form is open for another employee", http.StatusConflict)
		return
	}
	if err := form.Fill(decodeEmployee(r)); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	if _, err := list.SubmitEdit(ctx); err != nil {
		h.log.Debug("update employee", "id", id, "error", err)
	}
	h.renderEmployees(w, r, list)
}

// deleteEmployee runs after the browser's hx-confirm; the workspace lists
// are built with a pre-confirmed prompt.
func (h *Handler) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", 400)
		return
	}
	list := h.ws.Employees(r.Context())
	e, ok := list.Find(id)
	if !ok {
		http.Error(w, "employee not found", 404)
		return
	}
	list.RequestDelete(r.Context(), e)
	h.renderEmployees(w, r, list)
}

func decodeEmployee(r *http.Request) func(*forms.EmployeeFields) error {
	return func(f *forms.EmployeeFields) error {
		f.Clear()
		return forms.Decode(f, r.PostForm)
	}
}

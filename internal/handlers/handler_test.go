package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/beneficiary-admin/internal/adapters/httpapi"
	"github.com/csg33k/beneficiary-admin/internal/crud"
	"github.com/csg33k/beneficiary-admin/internal/domain"
	"github.com/csg33k/beneficiary-admin/internal/handlers"
	"github.com/csg33k/beneficiary-admin/internal/notify"
	"github.com/csg33k/beneficiary-admin/internal/session"
	"github.com/csg33k/beneficiary-admin/internal/testutil/fakeapi"
	"github.com/csg33k/beneficiary-admin/internal/views"
)

type env struct {
	api     *fakeapi.Server
	session *session.Session
	routes  http.Handler
}

func setup(t *testing.T) *env {
	t.Helper()
	api := fakeapi.New(t)
	sess := session.New(nil, nil)
	client := httpapi.NewClient(api.URL, sess)
	rec := notify.NewRecorder()
	ws := views.NewWorkspace(client, rec, crud.Preconfirmed, nil)
	h := handlers.New(client, sess, ws, rec, nil)
	return &env{api: api, session: sess, routes: h.Routes()}
}

func signedIn(t *testing.T) *env {
	t.Helper()
	e := setup(t)
	require.NoError(t, e.session.Set(context.Background(), e.api.Token()))
	return e
}

func (e *env) do(method, target string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	w := httptest.NewRecorder()
	e.routes.ServeHTTP(w, req)
	return w
}

func employeeInputs(first string) url.Values {
	return url.Values{
		"nationalityId":  {"1"},
		"firstName":      {first},
		"lastName":       {"Diaz"},
		"birthDate":      {"1990-05-01"},
		"employeeNumber": {"1001"},
		"phone":          {"5551234567"},
	}
}

func TestRoot_RedirectsToLoginWithoutToken(t *testing.T) {
	e := setup(t)

	w := e.do(http.MethodGet, "/", nil, false)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = e.do(http.MethodGet, "/employees/new", nil, true)
	assert.Equal(t, "/login", w.Header().Get("HX-Redirect"))
}

func TestLogin(t *testing.T) {
	e := setup(t)

	w := e.do(http.MethodPost, "/login", url.Values{}, false)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Please input your username!")
	assert.Zero(t, e.api.Count("POST /auth"), "no call with missing inputs")

	w = e.do(http.MethodPost, "/login", url.Values{"username": {"admin"}, "password": {"nope"}}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")

	w = e.do(http.MethodPost, "/login", url.Values{"username": {fakeapi.Username}, "password": {fakeapi.Password}}, false)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	_, ok := e.session.Token(context.Background())
	assert.True(t, ok)
}

func TestLogout(t *testing.T) {
	e := signedIn(t)
	w := e.do(http.MethodPost, "/logout", url.Values{}, false)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	_, ok := e.session.Token(context.Background())
	assert.False(t, ok)
}

func TestEmployeeLifecycle(t *testing.T) {
	e := signedIn(t)

	w := e.do(http.MethodGet, "/", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No employees yet.")

	w = e.do(http.MethodGet, "/employees/new", nil, true)
	assert.Contains(t, w.Body.String(), "New employee")
	assert.Contains(t, w.Body.String(), "Mexican", "nationalities loaded")

	w = e.do(http.MethodPost, "/employees", employeeInputs("Ana"), true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Employee has been created")
	assert.Contains(t, w.Body.String(), "Ana Diaz")
	assert.NotContains(t, w.Body.String(), "New employee", "form closed on success")
	require.Len(t, e.api.Employees(), 1)
	id := strconv.FormatInt(e.api.Employees()[0].ID, 10)

	w = e.do(http.MethodGet, "/employees/"+id+"/edit", nil, true)
	assert.Contains(t, w.Body.String(), "Edit employee")
	assert.Contains(t, w.Body.String(), `value="Ana"`)

	w = e.do(http.MethodPut, "/employees/"+id, employeeInputs("Ana Maria"), true)
	assert.Contains(t, w.Body.String(), "Employee has been updated")
	assert.Contains(t, w.Body.String(), "Ana Maria Diaz")
	assert.Equal(t, "Ana Maria", e.api.Employees()[0].FirstName)

	w = e.do(http.MethodDelete, "/employees/"+id, nil, true)
	assert.Contains(t, w.Body.String(), "Employee has been deleted")
	assert.Contains(t, w.Body.String(), "No employees yet.")
	assert.Empty(t, e.api.Employees())
}

func TestCreateEmployee_ValidationStaysInline(t *testing.T) {
	e := signedIn(t)
	e.do(http.MethodGet, "/employees/new", nil, true)

	w := e.do(http.MethodPost, "/employees", url.Values{"lastName": {"Diaz"}}, true)
	body := w.Body.String()
	assert.Contains(t, body, "Please input employee first name!")
	assert.Contains(t, body, `value="Diaz"`, "inputs kept")
	assert.NotContains(t, body, "notice-error")
	assert.Zero(t, e.api.Count("POST /employee"))
}

func TestCreateEmployee_RemoteFailureIsNotified(t *testing.T) {
	e := signedIn(t)
	e.api.Fail("POST /employee", http.StatusBadRequest, `{"message":"Employee number already exists"}`)

	w := e.do(http.MethodPost, "/employees", employeeInputs("Ana"), true)
	body := w.Body.String()
	assert.Contains(t, body, "An error occurred while creating employee")
	assert.Contains(t, body, "Employee number already exists")
	assert.Contains(t, body, "New employee", "form stays open")
}

func TestRevokedTokenRedirectsSilently(t *testing.T) {
	e := signedIn(t)
	e.api.RevokeTokens()

	w := e.do(http.MethodGet, "/employees/new", nil, true)
	assert.Equal(t, "/login", w.Header().Get("HX-Redirect"))
	assert.NotContains(t, w.Body.String(), "An error occurred")

	_, ok := e.session.Token(context.Background())
	assert.False(t, ok)
	w = e.do(http.MethodGet, "/", nil, false)
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestEmployeeDetail(t *testing.T) {
	e := signedIn(t)
	emp := e.api.AddEmployee(domain.Employee{NationalityID: 1, FirstName: "Ana", LastName: "Diaz", BirthDate: "1990-05-01"})
	e.api.AddBeneficiary(emp.ID, domain.Beneficiary{FirstName: "Luis", LastName: "Diaz", ParticipationPercent: domain.NewPercent(decimal.NewFromInt(60))})
	e.api.LeakBeneficiary(domain.Beneficiary{ID: 99, EmployeeID: emp.ID + 1, FirstName: "Stray"})
	id := strconv.FormatInt(emp.ID, 10)

	w := e.do(http.MethodGet, "/employee/"+id, nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Ana")
	assert.Contains(t, body, "Luis Diaz")
	assert.Contains(t, body, "60.00%")
	assert.NotContains(t, body, "Stray")
}

func TestEmployeeDetail_UnknownEmployee(t *testing.T) {
	e := signedIn(t)

	w := e.do(http.MethodGet, "/employee/42", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "An error occurred while obtaining employee")
	assert.Zero(t, e.api.Count("GET /employee/{id}/beneficiaries"))

	w = e.do(http.MethodGet, "/employee/42/beneficiaries/new", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBeneficiaryLifecycle(t *testing.T) {
	e := signedIn(t)
	emp := e.api.AddEmployee(domain.Employee{NationalityID: 1, FirstName: "Ana", LastName: "Diaz"})
	base := "/employee/" + strconv.FormatInt(emp.ID, 10)
	e.do(http.MethodGet, base, nil, false)

	inputs := url.Values{
		"nationalityId":        {"2"},
		"firstName":            {"Luis"},
		"lastName":             {"Diaz"},
		"birthDate":            {"2010-01-02"},
		"phone":                {"5551112222"},
		"participationPercent": {"12.5"},
	}
	w := e.do(http.MethodPost, base+"/beneficiaries", inputs, true)
	assert.Contains(t, w.Body.String(), "Beneficiary has been created")
	assert.Contains(t, w.Body.String(), "12.50%")
	bens := e.api.Beneficiaries(emp.ID)
	require.Len(t, bens, 1)
	bid := strconv.FormatInt(bens[0].ID, 10)

	e.do(http.MethodGet, base+"/beneficiaries/"+bid+"/edit", nil, true)
	inputs.Set("participationPercent", "101")
	w = e.do(http.MethodPut, base+"/beneficiaries/"+bid, inputs, true)
	assert.Contains(t, w.Body.String(), "Participation percent must be between 0 and 100")

	inputs.Set("participationPercent", "100")
	w = e.do(http.MethodPut, base+"/beneficiaries/"+bid, inputs, true)
	assert.Contains(t, w.Body.String(), "Beneficiary has been updated")
	assert.Contains(t, w.Body.String(), "100.00%")

	w = e.do(http.MethodGet, base+"/pdf", nil, false)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))

	w = e.do(http.MethodDelete, base+"/beneficiaries/"+bid, nil, true)
	assert.Contains(t, w.Body.String(), "Beneficiary has been deleted")
	assert.Empty(t, e.api.Beneficiaries(emp.ID))
}

func TestMetricsEndpoint(t *testing.T) {
	e := signedIn(t)
	e.do(http.MethodGet, "/", nil, false)

	w := e.do(http.MethodGet, "/metrics", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "beneficiary_admin_gateway_requests_total")
}

// Package fakeapi is an in-memory stand-in for the remote admin API, served
// over httptest. It issues HS256 tokens, enforces the Authorization header
// and can be told to fail any route.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"

	"github.com/csg33k/beneficiary-admin/internal/domain"
)

const (
	Username = "admin"
	Password = "secret"
	Scheme   = "JWT"
)

// Request is one call the server received.
type Request struct {
	Pattern       string
	Path          string
	Authorization string
	RequestID     string
}

type failure struct {
	status int
	body   string
}

type Server struct {
	*httptest.Server

	mu            sync.Mutex
	secret        []byte
	nationalities []domain.Nationality
	employees     []domain.Employee
	beneficiaries []domain.Beneficiary
	stray         []domain.Beneficiary
	nextEmployee  int64
	nextBenef     int64
	failures      map[string]failure
	requests      []Request
}

// New starts a server seeded with two nationalities and closes it when the
// test ends.
func New(t testing.TB) *Server {
	s := &Server{
		secret: []byte("fake-api-secret"),
		nationalities: []domain.Nationality{
			{ID: 1, Description: "Mexican"},
			{ID: 2, Description: "American"},
		},
		failures: map[string]failure{},
	}
	mux := http.NewServeMux()
	s.route(mux, "POST /auth", false, s.handleAuth)
	s.route(mux, "GET /nationalities", true, s.handleNationalities)
	s.route(mux, "GET /employees", true, s.handleListEmployees)
	s.route(mux, "POST /employee", true, s.handleCreateEmployee)
	s.route(mux, "GET /employee/{id}", true, s.handleGetEmployee)
	s.route(mux, "PUT /employee/{id}", true, s.handleUpdateEmployee)
	s.route(mux, "DELETE /employee/{id}", true, s.handleDeleteEmployee)
	s.route(mux, "GET /employee/{id}/beneficiaries", true, s.handleListBeneficiaries)
	s.route(mux, "POST /employee/{id}/beneficiary", true, s.handleCreateBeneficiary)
	s.route(mux, "PUT /employee/{id}/beneficiary/{bid}", true, s.handleUpdateBeneficiary)
	s.route(mux, "DELETE /employee/{id}/beneficiary/{bid}", true, s.handleDeleteBeneficiary)

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// ── Test controls ─────────────────────────────────────────────────────────────

// Fail makes pattern (e.g. "GET /employees") answer status with body until
// Heal is called.
func (s *Server) Fail(pattern string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[pattern] = failure{status: status, body: body}
}

func (s *Server) Heal(pattern string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, pattern)
}

// RevokeTokens rotates the signing key so every issued token is rejected.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secret = []byte(fmt.Sprintf("rotated-%d", time.Now().UnixNano()))
}

// Token issues a valid token without going through /auth.
func (s *Server) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, err := s.sign()
	if err != nil {
		panic(err)
	}
	return tok
}

// AddEmployee stores e with a fresh id and returns the stored record.
func (s *Server) AddEmployee(e domain.Employee) domain.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertEmployee(e)
}

// AddBeneficiary stores b under employeeID and returns the stored record.
func (s *Server) AddBeneficiary(employeeID int64, b domain.Beneficiary) domain.Beneficiary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertBeneficiary(employeeID, b)
}

// LeakBeneficiary makes every beneficiary listing also return b, whatever
// employee was asked for.
func (s *Server) LeakBeneficiary(b domain.Beneficiary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stray = append(s.stray, b)
}

func (s *Server) Employees() []domain.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.employees)
}

func (s *Server) Beneficiaries(employeeID int64) []domain.Beneficiary {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Beneficiary
	for _, b := range s.beneficiaries {
		if b.EmployeeID == employeeID {
			out = append(out, b)
		}
	}
	return out
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// Count returns how many requests hit pattern.
func (s *Server) Count(pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if r.Pattern == pattern {
			n++
		}
	}
	return n
}

// ── Plumbing ──────────────────────────────────────────────────────────────────

func (s *Server) route(mux *http.ServeMux, pattern string, authed bool, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Pattern:       pattern,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
		})
		f, failing := s.failures[pattern]
		s.mu.Unlock()

		if authed && !s.authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid or expired token"})
			return
		}
		if failing {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.body))
			return
		}
		h(w, r)
	})
}

func (s *Server) sign() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) authorized(r *http.Request) bool {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), Scheme+" ")
	if !ok || raw == "" {
		return false
	}
	s.mu.Lock()
	secret := s.secret
	s.mu.Unlock()
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	return err == nil && token.Valid
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil && id > 0
}

func (s *Server) nationalityName(id int64) string {
	for _, n := range s.nationalities {
		if n.ID == id {
			return n.Description
		}
	}
	return ""
}

func (s *Server) insertEmployee(e domain.Employee) domain.Employee {
	s.nextEmployee++
	e.ID = s.nextEmployee
	e.IsActive = true
	e.Nationality = s.nationalityName(e.NationalityID)
	s.employees = append(s.employees, e)
	return e
}

func (s *Server) insertBeneficiary(employeeID int64, b domain.Beneficiary) domain.Beneficiary {
	s.nextBenef++
	b.ID = s.nextBenef
	b.EmployeeID = employeeID
	b.IsActive = true
	b.Nationality = s.nationalityName(b.NationalityID)
	s.beneficiaries = append(s.beneficiaries, b)
	return b
}

func (s *Server) employeeIndex(id int64) int {
	return slices.IndexFunc(s.employees, func(e domain.Employee) bool { return e.ID == id })
}

func (s *Server) beneficiaryIndex(employeeID, id int64) int {
	return slices.IndexFunc(s.beneficiaries, func(b domain.Beneficiary) bool {
		return b.ID == id && b.EmployeeID == employeeID
	})
}

// percentSum totals the participation of employeeID's beneficiaries,
// skipping exceptID.
func (s *Server) percentSum(employeeID, exceptID int64) decimal.Decimal {
	sum := decimal.Zero
	for _, b := range s.beneficiaries {
		if b.EmployeeID == employeeID && b.ID != exceptID {
			sum = sum.Add(b.ParticipationPercent.Decimal)
		}
	}
	return sum
}

// ── Handlers ──────────────────────────────────────────────────────────────────

func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	var cred domain.AdminCredential
	if err := json.NewDecoder(r.Body).Decode(&cred); err != nil {
		writeMessage(w, http.StatusBadRequest, "Malformed credential")
		return
	}
	if cred.Username != Username || cred.Password != Password {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	s.mu.Lock()
	tok, err := s.sign()
	s.mu.Unlock()
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access_token": tok})
}

func (s *Server) handleNationalities(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.nationalities)
}

func (s *Server) handleListEmployees(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.employees
	if out == nil {
		out = []domain.Employee{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	i := -1
	if ok {
		i = s.employeeIndex(id)
	}
	if i < 0 {
		writeMessage(w, http.StatusNotFound, "Employee not found")
		return
	}
	writeJSON(w, http.StatusOK, s.employees[i])
}

func (s *Server) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var e domain.Employee
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeMessage(w, http.StatusBadRequest, "Malformed employee")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.employees {
		if other.EmployeeNumber == e.EmployeeNumber {
			writeMessage(w, http.StatusConflict, "Employee number already exists")
			return
		}
	}
	writeJSON(w, http.StatusCreated, s.insertEmployee(e))
}

func (s *Server) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	var e domain.Employee
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil || !ok {
		writeMessage(w, http.StatusBadRequest, "Malformed employee")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.employeeIndex(id)
	if i < 0 {
		writeMessage(w, http.StatusNotFound, "Employee not found")
		return
	}
	e.ID = id
	e.IsActive = true
	e.Nationality = s.nationalityName(e.NationalityID)
	s.employees[i] = e
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.employeeIndex(id)
	if i < 0 {
		writeMessage(w, http.StatusNotFound, "Employee not found")
		return
	}
	e := s.employees[i]
	s.employees = slices.Delete(s.employees, i, i+1)
	s.beneficiaries = slices.DeleteFunc(s.beneficiaries, func(b domain.Beneficiary) bool { return b.EmployeeID == id })
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleListBeneficiaries(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.employeeIndex(id) < 0 {
		writeMessage(w, http.StatusNotFound, "Employee not found")
		return
	}
	out := []domain.Beneficiary{}
	for _, b := range s.beneficiaries {
		if b.EmployeeID == id {
			out = append(out, b)
		}
	}
	out = append(out, s.stray...)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateBeneficiary(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	var b domain.Beneficiary
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeMessage(w, http.StatusBadRequest, "Malformed beneficiary")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.employeeIndex(id) < 0 {
		writeMessage(w, http.StatusNotFound, "Employee not found")
		return
	}
	if s.percentSum(id, 0).Add(b.ParticipationPercent.Decimal).GreaterThan(decimal.NewFromInt(100)) {
		writeMessage(w, http.StatusBadRequest, "Participation percent exceeds 100")
		return
	}
	writeJSON(w, http.StatusCreated, s.insertBeneficiary(id, b))
}

func (s *Server) handleUpdateBeneficiary(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	bid, _ := pathID(r, "bid")
	var b domain.Beneficiary
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeMessage(w, http.StatusBadRequest, "Malformed beneficiary")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.beneficiaryIndex(id, bid)
	if i < 0 {
		writeMessage(w, http.StatusNotFound, "Beneficiary not found")
		return
	}
	if s.percentSum(id, bid).Add(b.ParticipationPercent.Decimal).GreaterThan(decimal.NewFromInt(100)) {
		writeMessage(w, http.StatusBadRequest, "Participation percent exceeds 100")
		return
	}
	b.ID = bid
	b.EmployeeID = id
	b.IsActive = true
	b.Nationality = s.nationalityName(b.NationalityID)
	s.beneficiaries[i] = b
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBeneficiary(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	bid, _ := pathID(r, "bid")
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.beneficiaryIndex(id, bid)
	if i < 0 {
		writeMessage(w, http.StatusNotFound, "Beneficiary not found")
		return
	}
	b := s.beneficiaries[i]
	s.beneficiaries = slices.Delete(s.beneficiaries, i, i+1)
	writeJSON(w, http.StatusOK, b)
}

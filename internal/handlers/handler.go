package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/csg33k/beneficiary-admin/internal/domain"
	"github.com/csg33k/beneficiary-admin/internal/forms"
	"github.com/csg33k/beneficiary-admin/internal/notify"
	"github.com/csg33k/beneficiary-admin/internal/ports"
	"github.com/csg33k/beneficiary-admin/internal/session"
	"github.com/csg33k/beneficiary-admin/internal/templates"
	"github.com/csg33k/beneficiary-admin/internal/views"
)

type Handler struct {
	auth    ports.Authenticator
	session *session.Session
	ws      *views.Workspace
	notices *notify.Recorder
	log     *slog.Logger
}

// New wires the web surface. A rejected credential closes every open screen
// so the next request starts from the login page.
func New(auth ports.Authenticator, sess *session.Session, ws *views.Workspace, notices *notify.Recorder, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	sess.OnInvalidate(ws.Reset)
	return &Handler{auth: auth, session: sess, ws: ws, notices: notices, log: log}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /login", h.loginPage)
	mux.HandleFunc("POST /login", h.login)
	mux.HandleFunc("POST /logout", h.logout)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /{$}", h.signedIn(h.index))
	mux.HandleFunc("GET /employees/new", h.signedIn(h.newEmployee))
	mux.HandleFunc("POST /employees", h.signedIn(h.createEmployee))
	mux.HandleFunc("POST /employees/cancel", h.signedIn(h.cancelEmployee))
	mux.HandleFunc("GET /employees/{id}/edit", h.signedIn(h.editEmployee))
	mux.HandleFunc("PUT /employees/{id}", h.signedIn(h.updateEmployee))
	mux.HandleFunc("DELETE /employees/{id}", h.signedIn(h.deleteEmployee))

	mux.HandleFunc("GET /employee/{id}", h.signedIn(h.viewEmployee))
	mux.HandleFunc("GET /employee/{id}/pdf", h.signedIn(h.employeePDF))
	mux.HandleFunc("GET /employee/{id}/beneficiaries/new", h.signedIn(h.newBeneficiary))
	mux.HandleFunc("POST /employee/{id}/beneficiaries", h.signedIn(h.createBeneficiary))
	mux.HandleFunc("POST /employee/{id}/beneficiaries/cancel", h.signedIn(h.cancelBeneficiary))
	mux.HandleFunc("GET /employee/{id}/beneficiaries/{bid}/edit", h.signedIn(h.editBeneficiary))
	mux.HandleFunc("PUT /employee/{id}/beneficiaries/{bid}", h.signedIn(h.updateBeneficiary))
	mux.HandleFunc("DELETE /employee/{id}/beneficiaries/{bid}", h.signedIn(h.deleteBeneficiary))
	return h.logRequests(mux)
}

// ── Auth ──────────────────────────────────────────────────────────────────────

func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, templates.LoginPage(templates.LoginData{}))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	var cred domain.AdminCredential
	if err := forms.Decode(&cred, r.PostForm); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	data := templates.LoginData{Username: cred.Username}
	if err := forms.ValidateCredential(&cred); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			data.Errors = ve.Fields
		}
		renderStatus(w, r, http.StatusUnprocessableEntity, templates.LoginPage(data))
		return
	}
	if _, err := h.auth.Login(r.Context(), cred); err != nil {
		h.log.Warn("login failed", "username", cred.Username, "error", err)
		data.Error = notify.Describe(err)
		renderStatus(w, r, http.StatusUnauthorized, templates.LoginPage(data))
		return
	}
	h.ws.Reset()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Clear(r.Context()); err != nil {
		h.log.Warn("clear session", "error", err)
	}
	h.ws.Reset()
	h.toLogin(w, r)
}

// signedIn sends requests without a token to the login page. Whether the
// token is still accepted is only known after the next remote call.
func (h *Handler) signedIn(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := h.session.Token(r.Context()); !ok {
			h.toLogin(w, r)
			return
		}
		next(w, r)
	}
}

// signedOut reports, and handles, a session invalidated while serving r.
func (h *Handler) signedOut(w http.ResponseWriter, r *http.Request) bool {
	if _, ok := h.session.Token(r.Context()); ok {
		return false
	}
	h.toLogin(w, r)
	return true
}

func (h *Handler) toLogin(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// ── Plumbing ──────────────────────────────────────────────────────────────────

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.log.Debug("http", "method", r.Method, "path", r.URL.Path, "status", rec.status, "took", time.Since(start))
	})
}

// render writes a templ component to the response.
func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), 500)
	}
}

// renderStatus is render with a non-200 status.
func renderStatus(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		slog.Warn("render", "error", err)
	}
}

func pathID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(r.PathValue(key), 10, 64)
}

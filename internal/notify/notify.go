// Package notify is the process-wide transient feedback surface. It keeps
// no state between notices beyond a queue the UI drains on each render.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/csg33k/beneficiary-admin/internal/domain"
	"github.com/csg33k/beneficiary-admin/internal/metrics"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type Notice struct {
	Level   Level
	Title   string
	Message string
	At      time.Time
}

// Notifier receives notices. Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(n Notice)
}

// Discard drops every notice.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(Notice) {}

// Success emits a positive confirmation.
func Success(n Notifier, title, message string) {
	n.Notify(Notice{Level: LevelSuccess, Title: title, Message: message, At: time.Now()})
}

// Error emits a negative confirmation whose message is derived from err.
func Error(n Notifier, title string, err error) {
	n.Notify(Notice{Level: LevelError, Title: title, Message: Describe(err), At: time.Now()})
}

// Describe turns a gateway error into the text shown to the operator.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var re *domain.RemoteError
	if errors.As(err, &re) {
		return re.Message()
	}
	return err.Error()
}

// Recorder queues notices until the UI drains them. It also serves as the
// test double for asserting what was shown.
type Recorder struct {
	mu      sync.Mutex
	pending []Notice
	history []Notice
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, n)
	r.history = append(r.history, n)
}

// Drain returns and forgets the notices not yet shown.
func (r *Recorder) Drain() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.pending
	r.pending = nil
	return out
}

// All returns every notice recorded so far, drained or not.
func (r *Recorder) All() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.history...)
}

// Last returns the most recent notice.
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) == 0 {
		return Notice{}, false
	}
	return r.history[len(r.history)-1], true
}

// Logged wraps a notifier so every notice is also written to log and
// counted.
func Logged(next Notifier, log *slog.Logger) Notifier {
	if log == nil {
		log = slog.Default()
	}
	return &logged{next: next, log: log}
}

type logged struct {
	next Notifier
	log  *slog.Logger
}

func (l *logged) Notify(n Notice) {
	level := slog.LevelInfo
	if n.Level == LevelError {
		level = slog.LevelWarn
	}
	l.log.Log(context.Background(), level, "notification", "title", n.Title, "message", n.Message)
	metrics.Notice(string(n.Level))
	l.next.Notify(n)
}

package journal

import "time"

// Entry statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Session is one run of the shell.
type Session struct {
	ID        string     `json:"id"`
	Namespace string     `json:"namespace"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Entries   int        `json:"entries"`
	Failures  int        `json:"failures"`
}

// Entry is one executed buffer.
type Entry struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Seq       int       `json:"seq"`
	Input     string    `json:"input"`
	Code      string    `json:"code"`
	Status    string    `json:"status"`
	Value     string    `json:"value,omitempty"`
	Output    string    `json:"output,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Failure is a buffer the cleaner rejected.
type Failure struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Input     string    `json:"input"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Line      int       `json:"line"`
	CreatedAt time.Time `json:"created_at"`
}

package screen

import (
	"sync"

	"catalog-console/prometheus"
)

// Severity classifies a notice
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notice is a message the operator must acknowledge
type Notice struct {
	Severity Severity
	Message  string
}

// Notifier shows notices to the operator
type Notifier interface {
	Notify(Notice)
}

// NoticeBoard queues notices until the next render drains them
type NoticeBoard struct {
	mu      sync.Mutex
	notices []Notice
}

// Notify queues n
func (b *NoticeBoard) Notify(n Notice) {
	b.mu.Lock()
	b.notices = append(b.notices, n)
	b.mu.Unlock()

	prometheus.RecordNotice(string(n.Severity))
}

// Drain returns and clears the queued notices
func (b *NoticeBoard) Drain() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.notices
	b.notices = nil
	return out
}

// Confirmer asks the operator to confirm a destructive action
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

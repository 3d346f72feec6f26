package worker

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/anyswap/CrossChain-Swaps/params"
	"github.com/anyswap/CrossChain-Swaps/swaps"
	"github.com/anyswap/CrossChain-Swaps/tools"
)

// EmailAlertSink mail operators when operations end up recoverable.
// Events arriving within Interval of the last email are batched
// into the next one.
type EmailAlertSink struct {
	mu       sync.Mutex
	to       []string
	cc       []string
	subject  string
	interval time.Duration
	lastSend time.Time
	pending  []swaps.OperationEvent

	send func(to, cc []string, subject, content string) error
	now  func() time.Time
}

// NewEmailAlertSink new email alert sink
func NewEmailAlertSink(identifier string, cfg *params.EmailConfig) *EmailAlertSink {
	return &EmailAlertSink{
		to:       cfg.To,
		cc:       cfg.Cc,
		subject:  fmt.Sprintf("[%v] operations recoverable", identifier),
		interval: time.Duration(cfg.Interval) * time.Second,
		send:     tools.SendEmail,
		now:      time.Now,
	}
}

// OnEvents implements EventSink
func (s *EmailAlertSink) OnEvents(events []swaps.OperationEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ev := range events {
		if ev.Status == swaps.Recoverable {
			s.pending = append(s.pending, ev)
		}
	}
	if len(s.pending) == 0 {
		return
	}
	now := s.now()
	if !s.lastSend.IsZero() && now.Sub(s.lastSend) < s.interval {
		return
	}
	content := formatAlert(s.pending)
	if err := s.send(s.to, s.cc, s.subject, content); err != nil {
		logWorkerError("alert", "send email failed", err, "operations", len(s.pending))
		return
	}
	logWorker("alert", "send email success", "operations", len(s.pending))
	s.lastSend = now
	s.pending = nil
}

func formatAlert(events []swaps.OperationEvent) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d operation(s) became recoverable:\n\n", len(events))
	for _, ev := range events {
		fmt.Fprintf(&sb, "operation %d sender %v at %v\n\t%v\n",
			ev.OperationID, ev.Sender, time.Unix(ev.Timestamp, 0).UTC().Format(time.RFC3339), ev.Detail)
	}
	return sb.String()
}

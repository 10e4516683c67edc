// Package audit emits structured security events. Delivery is fire-and-forget:
// a slow or failing sink never blocks or fails the operation that produced the
// event.
package audit

import "github.com/rs/zerolog"

// Kind identifies a security event.
type Kind string

const (
	KindRegistered     Kind = "registered"
	KindLoginSucceeded Kind = "login_succeeded"
	KindLoginFailed    Kind = "login_failed"
	KindRateLimited    Kind = "rate_limited"
	KindTokenRefreshed Kind = "token_refreshed"
	KindInvalidToken   Kind = "invalid_token"
)

// Sink receives security events. Implementations must not block.
type Sink interface {
	Emit(kind Kind, attrs map[string]string)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Emit(Kind, map[string]string) {}

// redacted lists attribute keys that must never reach a sink.
var redacted = map[string]struct{}{
	"password": {},
	"token":    {},
	"secret":   {},
}

// LogSink writes events to a zerolog logger as structured entries.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Emit(kind Kind, attrs map[string]string) {
	ev := s.log.Info().Str("event", string(kind))
	for k, v := range attrs {
		if _, sensitive := redacted[k]; sensitive {
			continue
		}
		ev = ev.Str(k, v)
	}
	ev.Msg("audit")
}

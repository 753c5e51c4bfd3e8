package notification

import (
	"strings"
	"time"
)

// Ledger records when each alert identity was last emitted. It is kept apart from the
// notification log so that eviction or clearing the log never re-arms an alert.
type Ledger map[string]time.Time

func ledgerKey(kind Kind, subject string) string {
	if subject == "" {
		return string(kind)
	}
	return string(kind) + ":" + subject
}

// prune drops windowed entries whose cooldown has elapsed. Forever entries are kept.
func (l Ledger) prune(policy Policy, now time.Time) {
	for key, emittedAt := range l {
		cooldown := policy.For(kindOf(key))
		if !cooldown.Suppresses(emittedAt, now) {
			delete(l, key)
		}
	}
}

func kindOf(key string) Kind {
	kind, _, _ := strings.Cut(key, ":")
	return Kind(kind)
}

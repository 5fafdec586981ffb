package analytics

import "time"

// ActionTimestamp prefers the moment recorded on the event payload over the
// envelope's occurred_at, which is stamped later by the outbox.
func ActionTimestamp(eventTime *time.Time, fallback time.Time) time.Time {
	if eventTime != nil && !eventTime.IsZero() {
		return eventTime.UTC()
	}
	return fallback.UTC()
}

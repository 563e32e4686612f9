package infrastructure

import (
	"cogbot/events"
)

const (
	// SubjectPrefix prefixes every mirrored event subject
	SubjectPrefix = "cogbot"
	// StreamName is the JetStream stream holding mirrored events
	StreamName = "cogbot_events"
)

// SubjectForEvent returns the NATS subject an event is published on
func SubjectForEvent(eventType events.EventType) string {
	return SubjectPrefix + "." + string(eventType)
}

// AllSubjects returns every subject the bot publishes to
func AllSubjects() []string {
	types := events.AllEventTypes()
	subjects := make([]string, 0, len(types))
	for _, t := range types {
		subjects = append(subjects, SubjectForEvent(t))
	}
	return subjects
}

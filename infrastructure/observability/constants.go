package observability

// Metric name prefixes
const (
	MetricPrefix = "cogbot"
)

// Metric names
const (
	// Discord metrics
	CommandsHandledTotal = MetricPrefix + ".commands.handled_total"
	ReactionsAddedTotal  = MetricPrefix + ".reactions.added_total"

	// Outbound fetch metrics
	ExternalFetchesTotal = MetricPrefix + ".fetches.total"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"

	// Database metrics
	DatabaseQueriesTotal  = MetricPrefix + ".database.queries_total"
	DatabaseQueryDuration = MetricPrefix + ".database.query_duration"
)

// Label keys
const (
	LabelCommand   = "command"
	LabelFeature   = "feature"
	LabelEventType = "event_type"
	LabelSource    = "source"
	LabelOutcome   = "outcome"

	// Database labels
	LabelRepository = "repository"
	LabelMethod     = "method"
)

// Fetch outcomes
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

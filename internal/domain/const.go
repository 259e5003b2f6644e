package domain

// Upstream names used in errors, logs, spans and metric labels.
const (
	UpstreamAirtable   = "airtable"
	UpstreamBlogger    = "blogger"
	UpstreamNowPlaying = "nowplaying"
)

// FilterMode selects where dashboard buckets are computed.
type FilterMode string

const (
	// FilterModeServer sends each bucket predicate upstream and passes results through.
	FilterModeServer FilterMode = "server"
	// FilterModeLocal fetches the table once and evaluates the predicates locally.
	FilterModeLocal FilterMode = "local"
)

const DetailsLinkLabel = "View details"

package crankfeed

import (
	"encoding/json"
)

// RawRecord is one record as returned by the tabular backend.
type RawRecord struct {
	ID          string         `json:"id"`
	CreatedTime string         `json:"createdTime"`
	Fields      map[string]any `json:"fields"`
}

type EventStatus int

const (
	StatusUnknown EventStatus = iota
	StatusApproved
	StatusPending
	StatusSuggested
)

// Canonical status strings as stored upstream. Matching is exact and case-sensitive.
const (
	StatusApprovedText  = "Approved"
	StatusPendingText   = "Pending"
	StatusSuggestedText = "Suggested"
)

func ParseEventStatus(s string) EventStatus {
	switch s {
	case StatusApprovedText:
		return StatusApproved
	case StatusPendingText:
		return StatusPending
	case StatusSuggestedText:
		return StatusSuggested
	default:
		return StatusUnknown
	}
}

func (s EventStatus) String() string {
	switch s {
	case StatusApproved:
		return StatusApprovedText
	case StatusPending:
		return StatusPendingText
	case StatusSuggested:
		return StatusSuggestedText
	default:
		return "Unknown"
	}
}

type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Event is the canonical event shape served to widgets.
type Event struct {
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Venue       string   `json:"venue"`
	City        string   `json:"city"`
	Tags        []string `json:"tags"`
	StatusText  string   `json:"status"`
	Source      string   `json:"source"`
	LeadScore   *float64 `json:"leadScore"`
	SponsorLead bool     `json:"sponsorLead"`
	Links       []Link   `json:"links"`
}

// Status returns the enum form of the free-text status.
func (e Event) Status() EventStatus {
	return ParseEventStatus(e.StatusText)
}

// MarshalJSON keeps tags and links as arrays even when a caller built the
// value without the normalizer.
func (e Event) MarshalJSON() ([]byte, error) {
	type alias Event
	a := alias(e)
	if a.Tags == nil {
		a.Tags = []string{}
	}
	if a.Links == nil {
		a.Links = []Link{}
	}
	return json.Marshal(a)
}

type Artist struct {
	Name      string `json:"name"`
	City      string `json:"city"`
	Genre     string `json:"genre"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

// Dashboard is the admin aggregation payload.
type Dashboard struct {
	ApprovedEvents []Event  `json:"approvedEvents"`
	PendingEvents  []Event  `json:"pendingEvents"`
	SponsorLeads   []Event  `json:"sponsorLeads"`
	Artists        []Artist `json:"artists"`
}

// EmptyDashboard has every bucket present and empty.
func EmptyDashboard() Dashboard {
	return Dashboard{
		ApprovedEvents: []Event{},
		PendingEvents:  []Event{},
		SponsorLeads:   []Event{},
		Artists:        []Artist{},
	}
}

type FeedPost struct {
	Title       string `json:"title"`
	PublishedAt string `json:"publishedAt"`
	URL         string `json:"url"`
	SnippetHTML string `json:"snippetHtml"`
}

const (
	DefaultNowPlayingTitle  = "Buzzcrank Revival Live"
	DefaultNowPlayingArtist = "Memphis & beyond"
)

type NowPlaying struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Art    string `json:"art"`
}

// WithDefaults fills absent fields so renderers never see a partial value.
func (n NowPlaying) WithDefaults() NowPlaying {
	if n.Title == "" {
		n.Title = DefaultNowPlayingTitle
	}
	if n.Artist == "" {
		n.Artist = DefaultNowPlayingArtist
	}
	return n
}

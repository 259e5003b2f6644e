package normalize

import (
	"github.com/buzzcrank/crankfeed"
)

// EventAliases lists, per canonical event field, the upstream columns that
// may carry it. The first present non-empty column wins.
type EventAliases struct {
	Title       []string
	Date        []string
	Time        []string
	Venue       []string
	City        []string
	Tags        []string
	Status      []string
	Source      []string
	LeadScore   []string
	SponsorLead []string
	Link        []string
}

type ArtistAliases struct {
	Name      []string
	City      []string
	Genre     []string
	Status    []string
	CreatedAt []string
}

var Events = EventAliases{
	Title:       []string{crankfeed.FieldTitle, crankfeed.FieldName},
	Date:        []string{crankfeed.FieldDate},
	Time:        []string{crankfeed.FieldTime, crankfeed.FieldStartTime},
	Venue:       []string{crankfeed.FieldVenue},
	City:        []string{crankfeed.FieldCity},
	Tags:        []string{crankfeed.FieldTags},
	Status:      []string{crankfeed.FieldStatus},
	Source:      []string{crankfeed.FieldSource},
	LeadScore:   []string{crankfeed.FieldLeadScore},
	SponsorLead: []string{crankfeed.FieldSponsorLead},
	Link:        []string{crankfeed.FieldEventLink, crankfeed.FieldLink},
}

// Artists falls back to the record's createdTime when no CreatedAt column is set.
var Artists = ArtistAliases{
	Name:      []string{crankfeed.FieldArtistName, crankfeed.FieldName},
	City:      []string{crankfeed.FieldCity},
	Genre:     []string{crankfeed.FieldGenre},
	Status:    []string{crankfeed.FieldStatus},
	CreatedAt: []string{crankfeed.FieldCreatedAt},
}

// Columns is the union of every alias column, in declaration order. It is
// the field allow-list for event queries, so a column the normalizer reads is
// always requested.
func (a EventAliases) Columns() []string {
	return columns(a.Title, a.Date, a.Time, a.Venue, a.City, a.Tags, a.Status,
		a.Source, a.LeadScore, a.SponsorLead, a.Link)
}

func (a ArtistAliases) Columns() []string {
	return columns(a.Name, a.City, a.Genre, a.Status, a.CreatedAt)
}

func columns(groups ...[]string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, group := range groups {
		for _, name := range group {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}

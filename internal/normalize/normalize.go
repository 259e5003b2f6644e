package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/buzzcrank/crankfeed"
	"github.com/buzzcrank/crankfeed/internal/domain"
)

// Event maps one upstream record to the canonical event shape. It never
// fails: unknown or malformed columns degrade to zero values.
func Event(raw crankfeed.RawRecord) crankfeed.Event {
	f := raw.Fields
	return crankfeed.Event{
		Title:       text(first(f, Events.Title)),
		Date:        text(first(f, Events.Date)),
		Time:        text(first(f, Events.Time)),
		Venue:       text(first(f, Events.Venue)),
		City:        text(first(f, Events.City)),
		Tags:        tags(first(f, Events.Tags)),
		StatusText:  text(first(f, Events.Status)),
		Source:      text(first(f, Events.Source)),
		LeadScore:   leadScore(first(f, Events.LeadScore)),
		SponsorLead: crankfeed.Truthy(first(f, Events.SponsorLead)),
		Links:       links(first(f, Events.Link)),
	}
}

func Artist(raw crankfeed.RawRecord) crankfeed.Artist {
	f := raw.Fields
	createdAt := text(first(f, Artists.CreatedAt))
	if createdAt == "" {
		createdAt = raw.CreatedTime
	}
	return crankfeed.Artist{
		Name:      text(first(f, Artists.Name)),
		City:      text(first(f, Artists.City)),
		Genre:     text(first(f, Artists.Genre)),
		Status:    text(first(f, Artists.Status)),
		CreatedAt: createdAt,
	}
}

func EventList(raws []crankfeed.RawRecord) []crankfeed.Event {
	events := make([]crankfeed.Event, 0, len(raws))
	for _, raw := range raws {
		events = append(events, Event(raw))
	}
	return events
}

func ArtistList(raws []crankfeed.RawRecord) []crankfeed.Artist {
	artists := make([]crankfeed.Artist, 0, len(raws))
	for _, raw := range raws {
		artists = append(artists, Artist(raw))
	}
	return artists
}

func first(fields map[string]any, keys []string) any {
	for _, k := range keys {
		v, ok := fields[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if t == "" {
				continue
			}
		case []any:
			if len(t) == 0 {
				continue
			}
		}
		return v
	}
	return nil
}

// text renders scalar values; lookup columns arrive as arrays and are joined.
func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			if s := text(e); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case bool:
		return strconv.FormatBool(t)
	case nil, map[string]any:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func tags(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case []any:
		// array elements are kept as-is; non-strings are rendered as text
		for _, e := range t {
			if s := text(e); s != "" {
				out = append(out, s)
			}
		}
	case []string:
		out = append(out, t...)
	case string:
		for _, part := range strings.Split(t, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func leadScore(v any) *float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return nil
		}
		f = n
	default:
		return nil
	}
	return &f
}

func links(v any) []crankfeed.Link {
	url, ok := v.(string)
	if !ok || strings.TrimSpace(url) == "" {
		return []crankfeed.Link{}
	}
	return []crankfeed.Link{{Label: domain.DetailsLinkLabel, URL: url}}
}

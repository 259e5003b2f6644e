package normalize

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buzzcrank/crankfeed"
)

func record(fields map[string]any) crankfeed.RawRecord {
	return crankfeed.RawRecord{ID: "rec1", CreatedTime: "2025-01-02T03:04:05.000Z", Fields: fields}
}

func TestEventTags(t *testing.T) {
	assert.Equal(t, []string{"rock", "blues"}, Event(record(map[string]any{"Tags": "rock, blues ,"})).Tags)
	assert.Equal(t, []string{"jazz"}, Event(record(map[string]any{"Tags": []any{"jazz"}})).Tags)
	assert.Equal(t, []string{"a", "3", "true", "b"}, Event(record(map[string]any{"Tags": []any{"a", 3.0, true, nil, "", "b"}})).Tags)
	assert.Equal(t, []string{}, Event(record(map[string]any{"Tags": " , ,"})).Tags)
}

func TestEventTextCoercion(t *testing.T) {
	ev := Event(record(map[string]any{
		"Title":  true,
		"Venue":  []any{"Hall", 2.0, false},
		"City":   map[string]any{"id": "att"},
		"Source": json.Number("42"),
	}))
	assert.Equal(t, "true", ev.Title)
	assert.Equal(t, "Hall, 2, false", ev.Venue)
	assert.Equal(t, "", ev.City)
	assert.Equal(t, "42", ev.Source)
}

func TestAliasColumns(t *testing.T) {
	cols := Events.Columns()
	for _, group := range [][]string{
		Events.Title, Events.Date, Events.Time, Events.Venue, Events.City, Events.Tags,
		Events.Status, Events.Source, Events.LeadScore, Events.SponsorLead, Events.Link,
	} {
		for _, name := range group {
			assert.Contains(t, cols, name)
		}
	}
	assert.Contains(t, cols, crankfeed.FieldName)
	assert.Contains(t, cols, crankfeed.FieldLink)
	assert.Len(t, cols, 14)

	assert.Equal(t, []string{"Artist / Band Name", "Name", "City", "Genre", "Status", "Created At"}, Artists.Columns())
}

func TestEventLinks(t *testing.T) {
	ev := Event(record(map[string]any{"Event Link": "http://x"}))
	assert.Equal(t, []crankfeed.Link{{Label: "View details", URL: "http://x"}}, ev.Links)

	ev = Event(record(map[string]any{"Link": "http://fallback"}))
	assert.Equal(t, []crankfeed.Link{{Label: "View details", URL: "http://fallback"}}, ev.Links)

	ev = Event(record(map[string]any{"Event Link": ""}))
	assert.Equal(t, []crankfeed.Link{}, ev.Links)
}

func TestEventEmptyRecord(t *testing.T) {
	ev := Event(crankfeed.RawRecord{})
	assert.NotNil(t, ev.Tags)
	assert.NotNil(t, ev.Links)
	assert.Nil(t, ev.LeadScore)
	assert.False(t, ev.SponsorLead)

	b, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"title": "", "date": "", "time": "", "venue": "", "city": "",
		"tags": [], "status": "", "source": "", "leadScore": null,
		"sponsorLead": false, "links": []
	}`, string(b))
}

func TestEventAliases(t *testing.T) {
	got := Event(record(map[string]any{
		"Name":         "Juke Joint Night",
		"Start Time":   "8pm",
		"Venue":        "Wild Bill's",
		"City":         "Memphis",
		"Status":       "Approved",
		"Source":       "form",
		"Lead Score":   72.0,
		"Sponsor Lead": true,
		"Date":         "2025-07-04",
	}))

	score := 72.0
	want := crankfeed.Event{
		Title:       "Juke Joint Night",
		Date:        "2025-07-04",
		Time:        "8pm",
		Venue:       "Wild Bill's",
		City:        "Memphis",
		Tags:        []string{},
		StatusText:  "Approved",
		Source:      "form",
		LeadScore:   &score,
		SponsorLead: true,
		Links:       []crankfeed.Link{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Event mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, crankfeed.StatusApproved, got.Status())
}

func TestEventTitlePrefersTitle(t *testing.T) {
	ev := Event(record(map[string]any{"Title": "Primary", "Name": "Secondary"}))
	assert.Equal(t, "Primary", ev.Title)

	ev = Event(record(map[string]any{"Title": "", "Name": "Secondary"}))
	assert.Equal(t, "Secondary", ev.Title)
}

func TestEventLeadScore(t *testing.T) {
	assert.Nil(t, Event(record(map[string]any{"Lead Score": "high"})).LeadScore)
	assert.Nil(t, Event(record(map[string]any{"Lead Score": true})).LeadScore)

	ev := Event(record(map[string]any{"Lead Score": json.Number("61")}))
	require.NotNil(t, ev.LeadScore)
	assert.Equal(t, 61.0, *ev.LeadScore)
}

func TestEventSponsorLead(t *testing.T) {
	for v, want := range map[any]bool{
		true:  true,
		false: false,
		1.0:   true,
		0.0:   false,
		"yes": true,
		"":    false,
	} {
		ev := Event(record(map[string]any{"Sponsor Lead": v}))
		assert.Equal(t, want, ev.SponsorLead, "value %v", v)
	}
}

func TestEventStatusIsExact(t *testing.T) {
	assert.Equal(t, crankfeed.StatusUnknown, Event(record(map[string]any{"Status": "approved"})).Status())
	assert.Equal(t, crankfeed.StatusSuggested, Event(record(map[string]any{"Status": "Suggested"})).Status())
}

func TestArtist(t *testing.T) {
	got := Artist(record(map[string]any{
		"Artist / Band Name": "The Revivalists",
		"Name":               "ignored",
		"City":               "Memphis",
		"Genre":              "Soul",
		"Status":             "Active",
	}))
	assert.Equal(t, crankfeed.Artist{
		Name:      "The Revivalists",
		City:      "Memphis",
		Genre:     "Soul",
		Status:    "Active",
		CreatedAt: "2025-01-02T03:04:05.000Z",
	}, got)

	got = Artist(record(map[string]any{"Name": "Solo", "Created At": "2024-12-01"}))
	assert.Equal(t, "Solo", got.Name)
	assert.Equal(t, "2024-12-01", got.CreatedAt)
}

func TestLists(t *testing.T) {
	assert.Equal(t, []crankfeed.Event{}, EventList(nil))
	assert.Equal(t, []crankfeed.Artist{}, ArtistList(nil))

	events := EventList([]crankfeed.RawRecord{
		record(map[string]any{"Title": "a"}),
		record(map[string]any{"Title": "b"}),
	})
	require.Len(t, events, 2)
	assert.Equal(t, "a", events[0].Title)
	assert.Equal(t, "b", events[1].Title)
}

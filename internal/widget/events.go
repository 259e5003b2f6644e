package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/buzzcrank/crankfeed"
	"github.com/buzzcrank/crankfeed/client"
	"github.com/buzzcrank/crankfeed/internal/domain"
)

const (
	UpstreamEventsEndpoint = "events-endpoint"
	UntitledEvent          = "Untitled event"
	metaSeparator          = " • "
)

type EventsWidget struct {
	client *client.Client
	url    string
	home   string
}

// NewEventsWidget reads the normalized events array served at url. home is
// the page offered when the feed cannot be reached.
func NewEventsWidget(cl *client.Client, url, home string) *EventsWidget {
	return &EventsWidget{client: cl, url: url, home: home}
}

func (w *EventsWidget) Name() string { return "events" }

func (w *EventsWidget) Messages() Messages {
	home := &crankfeed.Link{Label: linkLabel(w.home), URL: w.home}
	return Messages{
		Loading: Message{Text: "Loading the event calendar…"},
		Empty: Message{
			Tone:  ToneLive,
			Text:  "No events in the calendar yet — submit your show to get listed, or check ",
			Link:  home,
			After: ".",
		},
		Success: Message{Tone: ToneLive, Text: "Live feed synced. Here’s what’s coming up."},
		Error: Message{
			Tone:  ToneError,
			Text:  "Couldn’t reach the event feed. Try refreshing in a moment, or see ",
			Link:  home,
			After: ".",
		},
	}
}

func (w *EventsWidget) Fetch(ctx context.Context) ([]Card, error) {
	body, err := w.client.Get(ctx, UpstreamEventsEndpoint, w.url, nil)
	if err != nil {
		return nil, err
	}

	// anything other than an array reads as an empty calendar
	if !bytes.HasPrefix(bytes.TrimSpace(body), []byte("[")) {
		return nil, nil
	}

	var events []crankfeed.Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, domain.UpstreamError{Upstream: UpstreamEventsEndpoint, Err: errors.Wrap(err, "decode events")}
	}

	cards := make([]Card, 0, len(events))
	for _, ev := range events {
		cards = append(cards, EventCard(ev))
	}
	return cards, nil
}

func EventCard(ev crankfeed.Event) Card {
	card := Card{
		Title:  ev.Title,
		Meta:   joinNonEmpty(metaSeparator, ev.Venue, ev.City),
		When:   ev.Date,
		Detail: ev.Time,
	}
	if card.Title == "" {
		card.Title = UntitledEvent
	}
	for _, tag := range ev.Tags {
		card.Tags = append(card.Tags, "#"+tag)
	}
	if len(ev.Links) > 0 && ev.Links[0].URL != "" {
		action := ev.Links[0]
		if action.Label == "" {
			action.Label = domain.DetailsLinkLabel
		}
		card.Action = &action
	}
	return card
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// linkLabel shows a bare host for a home page link.
func linkLabel(home string) string {
	label := strings.TrimPrefix(strings.TrimPrefix(home, "https://"), "http://")
	return strings.TrimSuffix(label, "/")
}

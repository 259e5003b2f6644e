package widget

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/buzzcrank/crankfeed"
)

var tracer = otel.Tracer("widget")

type Phase int

const (
	Loading Phase = iota
	Success
	Empty
	Failed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Empty:
		return "empty"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}

type Tone int

const (
	ToneNeutral Tone = iota
	ToneLive
	ToneError
)

// Message is a status line: Text, then an optional link, then After.
type Message struct {
	Tone  Tone
	Text  string
	Link  *crankfeed.Link
	After string
}

func (m Message) IsZero() bool {
	return m.Text == "" && m.Link == nil && m.After == ""
}

// Card is one rendered list item.
type Card struct {
	Title     string
	URL       string
	Meta      string
	When      string
	Detail    string
	Snippet   string
	Tags      []string
	Action    *crankfeed.Link
	MoreLabel string
}

type Messages struct {
	Loading Message
	Empty   Message
	Success Message
	Error   Message
}

// Widget is a one-shot list widget: it knows its messages and how to fetch
// its cards.
type Widget interface {
	Name() string
	Messages() Messages
	Fetch(ctx context.Context) ([]Card, error)
}

// Surface is where a widget draws. ReplaceCards swaps the whole list; nil
// clears it.
type Surface interface {
	SetStatus(msg Message)
	ReplaceCards(cards []Card)
}

type State struct {
	Phase Phase
	Cards int
	Err   error
}

type Loader struct {
	widget  Widget
	surface Surface
	logger  *zap.Logger
}

func NewLoader(w Widget, surface Surface, logger *zap.Logger) *Loader {
	return &Loader{widget: w, surface: surface, logger: logger}
}

// Load runs the widget once through loading to success, empty or error.
// Failures are logged and reflected on the surface, never returned.
func (l *Loader) Load(ctx context.Context) State {
	ctx, span := tracer.Start(ctx, "Widget.Load")
	defer span.End()
	span.SetAttributes(attribute.String("widget", l.widget.Name()))

	messages := l.widget.Messages()
	l.surface.SetStatus(messages.Loading)

	cards, err := l.widget.Fetch(ctx)
	if err != nil {
		span.RecordError(err)
		l.logger.Warn("widget load failed", zap.String("widget", l.widget.Name()), zap.Error(err))
		l.surface.SetStatus(messages.Error)
		l.surface.ReplaceCards(nil)
		return State{Phase: Failed, Err: err}
	}

	if len(cards) == 0 {
		l.surface.SetStatus(messages.Empty)
		l.surface.ReplaceCards(nil)
		return State{Phase: Empty}
	}

	l.surface.SetStatus(messages.Success)
	l.surface.ReplaceCards(cards)
	span.SetAttributes(attribute.Int("cards", len(cards)))
	return State{Phase: Success, Cards: len(cards)}
}

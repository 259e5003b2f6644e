package widget

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/buzzcrank/crankfeed"
)

var (
	accent = lipgloss.Color("#F2A541")
	live   = lipgloss.Color("#8BC34A")
	alert  = lipgloss.Color("#FF5B7A")
	muted  = lipgloss.Color("#8A8F98")

	frameStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	metaStyle   = lipgloss.NewStyle().Foreground(muted)
	tagStyle    = lipgloss.NewStyle().Foreground(accent)
	linkStyle   = lipgloss.NewStyle().Underline(true)
)

// TerminalSurface renders a widget as a framed plain-text block for the
// terminal. Text is never interpreted as markup.
type TerminalSurface struct {
	name string
	// Width wraps card text; zero disables wrapping.
	Width int

	mu     sync.RWMutex
	status Message
	cards  []Card
	track  *crankfeed.NowPlaying
}

func NewTerminalSurface(name string) *TerminalSurface {
	return &TerminalSurface{name: name}
}

func (s *TerminalSurface) SetStatus(msg Message) {
	s.mu.Lock()
	s.status = msg
	s.mu.Unlock()
}

func (s *TerminalSurface) ReplaceCards(cards []Card) {
	copied := append([]Card(nil), cards...)
	s.mu.Lock()
	s.cards = copied
	s.mu.Unlock()
}

func (s *TerminalSurface) SetTrack(np crankfeed.NowPlaying) {
	s.mu.Lock()
	s.track = &np
	s.mu.Unlock()
}

func (s *TerminalSurface) View() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blocks := []string{headerStyle.Render(s.name)}
	if line := statusLine(s.status); line != "" {
		blocks = append(blocks, line)
	}
	if s.track != nil {
		art := ArtFallback
		if s.track.Art != "" {
			art = linkStyle.Render(s.track.Art)
		}
		blocks = append(blocks,
			titleStyle.Render(s.track.Title),
			s.track.Artist,
			metaStyle.Render("art: ")+art,
		)
	}
	for _, c := range s.cards {
		blocks = append(blocks, s.card(c))
	}
	return frameStyle.Render(lipgloss.JoinVertical(lipgloss.Left, blocks...))
}

func (s *TerminalSurface) card(c Card) string {
	lines := []string{titleStyle.Render(c.Title)}
	if c.Meta != "" {
		lines = append(lines, metaStyle.Render(c.Meta))
	}
	if when := joinNonEmpty(" · ", c.When, c.Detail); when != "" {
		lines = append(lines, metaStyle.Render(when))
	}
	if len(c.Tags) > 0 {
		lines = append(lines, tagStyle.Render(strings.Join(c.Tags, "  ")))
	}
	if c.Snippet != "" {
		snippet := lipgloss.NewStyle()
		if s.Width > 0 {
			snippet = snippet.Width(s.Width)
		}
		lines = append(lines, snippet.Render(c.Snippet))
	}
	if c.Action != nil {
		lines = append(lines, c.Action.Label+": "+linkStyle.Render(c.Action.URL))
	} else if c.URL != "" {
		lines = append(lines, linkStyle.Render(c.URL))
	}
	return "\n" + strings.Join(lines, "\n")
}

func statusLine(m Message) string {
	if m.IsZero() {
		return ""
	}
	text := m.Text
	if m.Link != nil {
		text += linkStyle.Render(m.Link.Label)
	}
	text += m.After

	switch m.Tone {
	case ToneLive:
		return lipgloss.NewStyle().Foreground(live).Render("● ") + text
	case ToneError:
		return lipgloss.NewStyle().Foreground(alert).Render("● ") + text
	default:
		return metaStyle.Render(text)
	}
}

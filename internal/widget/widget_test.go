package widget

import (
	"context"
	"fmt"
	"html"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/buzzcrank/crankfeed"
	"github.com/buzzcrank/crankfeed/client"
)

const home = "https://buzzcrank.blogspot.com/"

func serve(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func unescape(h template.HTML) string { return html.UnescapeString(string(h)) }

func TestSanitizeTruncates(t *testing.T) {
	fragment := "<p>" + strings.Repeat("<b>word</b> ", 80) + "</p>"

	got := Sanitize(fragment, 220)
	assert.NotContains(t, got, "<")
	assert.NotContains(t, got, ">")
	assert.True(t, strings.HasSuffix(got, Ellipsis))
	assert.Equal(t, 218, utf8.RuneCountInString(got))
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 220)
}

func TestSanitizeDropsScripts(t *testing.T) {
	got := Sanitize(`<div>Hello <script>alert("x")</script><style>p{}</style><i>world</i>&amp; friends</div>`, 220)
	assert.Equal(t, "Hello world& friends", got)
}

func TestSanitizeEncodedMarkup(t *testing.T) {
	assert.Equal(t, "Read now", Sanitize("<p>Read &lt;script&gt;alert(1)&lt;/script&gt; now</p>", 220))
	assert.Equal(t, "Read bold now", Sanitize("Read &lt;b&gt;bold&lt;/b&gt; now", 220))

	got := Sanitize("<p>5 &lt; 6 &amp;&amp; 7 &gt; 2</p>", 220)
	assert.NotContains(t, got, "<")
	assert.NotContains(t, got, ">")
	assert.Equal(t, "5 ‹ 6 && 7 › 2", got)
}

func TestSanitizeShortInputUntouched(t *testing.T) {
	assert.Equal(t, "Short and sweet", Sanitize("  <p>Short and\n sweet</p> ", 220))
	assert.Equal(t, "", Sanitize("", 220))
}

func TestEventsLoaderEmpty(t *testing.T) {
	srv := serve(t, `[]`)
	surface := NewHTMLSurface()
	surface.ReplaceCards([]Card{{Title: "stale"}})

	loader := NewLoader(NewEventsWidget(client.New(client.Options{}), srv.URL, home), surface, zap.NewNop())
	state := loader.Load(context.Background())

	assert.Equal(t, Empty, state.Phase)
	status := unescape(surface.Status())
	assert.Contains(t, status, "No events in the calendar yet")
	assert.Contains(t, status, `href="https://buzzcrank.blogspot.com/"`)
	assert.Contains(t, status, ">buzzcrank.blogspot.com</a>.")
	assert.Empty(t, surface.List())
}

func TestEventsLoaderNonArrayIsEmpty(t *testing.T) {
	srv := serve(t, `{"error":"nope"}`)
	surface := NewHTMLSurface()

	state := NewLoader(NewEventsWidget(client.New(client.Options{}), srv.URL, home), surface, zap.NewNop()).Load(context.Background())
	assert.Equal(t, Empty, state.Phase)
}

func TestEventsLoaderNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	surface := NewHTMLSurface()
	surface.ReplaceCards([]Card{{Title: "stale"}})

	state := NewLoader(NewEventsWidget(client.New(client.Options{}), url, home), surface, zap.NewNop()).Load(context.Background())

	assert.Equal(t, Failed, state.Phase)
	assert.Error(t, state.Err)
	status := unescape(surface.Status())
	assert.Contains(t, status, "Couldn’t reach the event feed")
	assert.Contains(t, status, `href="https://buzzcrank.blogspot.com/"`)
	assert.Empty(t, surface.List())
}

func TestEventsLoaderSuccess(t *testing.T) {
	srv := serve(t, `[
		{"title":"Juke <Joint>","date":"2025-07-04","time":"8pm","venue":"Wild Bill's","city":"Memphis","tags":["blues","soul"],"links":[{"label":"View details","url":"http://x"}]},
		{"title":"","venue":"","city":"Oxford","tags":[],"links":[]}
	]`)
	surface := NewHTMLSurface()

	state := NewLoader(NewEventsWidget(client.New(client.Options{}), srv.URL, home), surface, zap.NewNop()).Load(context.Background())
	require.Equal(t, Success, state.Phase)
	assert.Equal(t, 2, state.Cards)

	list := string(surface.List())
	assert.Contains(t, list, "Juke &lt;Joint&gt;")
	assert.NotContains(t, list, "<Joint>")
	assert.Contains(t, unescape(surface.List()), "Wild Bill's • Memphis")
	assert.Contains(t, list, "#blues  #soul")
	assert.Contains(t, list, `href="http://x"`)
	assert.Contains(t, list, UntitledEvent)
	assert.Contains(t, unescape(surface.Status()), "Live feed synced.")
}

func TestEventCard(t *testing.T) {
	card := EventCard(crankfeed.Event{City: "Memphis", Links: []crankfeed.Link{{URL: "http://y"}}})
	assert.Equal(t, UntitledEvent, card.Title)
	assert.Equal(t, "Memphis", card.Meta)
	require.NotNil(t, card.Action)
	assert.Equal(t, "View details", card.Action.Label)

	card = EventCard(crankfeed.Event{Title: "t", Links: []crankfeed.Link{{Label: "Tickets", URL: ""}}})
	assert.Nil(t, card.Action)
}

const bloggerFeedJSON = `{"feed":{"entry":[
	{"title":{"$t":"First"},"published":{"$t":"2025-01-05T10:00:00.000-08:00"},
	 "link":[{"rel":"replies","href":"http://r"},{"rel":"alternate","href":"https://buzzcrank.blogspot.com/2025/01/first.html"}],
	 "summary":{"$t":"<p>Hello <script>evil()</script>there</p>"}},
	{"published":{"$t":"not a date"},"content":{"$t":"Body only"}},
	{"title":{"$t":"Third"}},
	{"title":{"$t":"Fourth"}}
]}}`

func TestBlogPosts(t *testing.T) {
	srv := serve(t, bloggerFeedJSON)
	w := NewBlogWidget(client.New(client.Options{}), srv.URL, home, 3, 220)

	posts, err := w.Posts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 3)

	assert.Equal(t, crankfeed.FeedPost{
		Title:       "First",
		PublishedAt: "2025-01-05T10:00:00.000-08:00",
		URL:         "https://buzzcrank.blogspot.com/2025/01/first.html",
		SnippetHTML: "Hello there",
	}, posts[0])
	assert.Equal(t, UntitledPost, posts[1].Title)
	assert.Equal(t, home, posts[1].URL)
	assert.Equal(t, "Body only", posts[1].SnippetHTML)
	assert.Equal(t, "Third", posts[2].Title)
}

func TestBlogLoaderSuccess(t *testing.T) {
	srv := serve(t, bloggerFeedJSON)
	surface := NewHTMLSurface()

	state := NewLoader(NewBlogWidget(client.New(client.Options{}), srv.URL, home, 3, 220), surface, zap.NewNop()).Load(context.Background())
	require.Equal(t, Success, state.Phase)
	assert.Equal(t, 3, state.Cards)
	assert.Empty(t, surface.Status())

	list := string(surface.List())
	assert.Contains(t, list, "Jan 5, 2025")
	assert.Contains(t, list, "Hello there")
	assert.NotContains(t, list, "evil")
	assert.Contains(t, list, ReadMoreLabel)
}

func TestBlogLoaderEmpty(t *testing.T) {
	srv := serve(t, `{"feed":{}}`)
	surface := NewHTMLSurface()

	state := NewLoader(NewBlogWidget(client.New(client.Options{}), srv.URL, home, 3, 220), surface, zap.NewNop()).Load(context.Background())
	assert.Equal(t, Empty, state.Phase)
	status := unescape(surface.Status())
	assert.Contains(t, status, "No posts yet — check back soon or read directly on ")
	assert.Contains(t, status, ">buzzcrank.blogspot.com</a>.")
	assert.Empty(t, surface.List())
}

func TestBlogLoaderUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()
	surface := NewHTMLSurface()

	state := NewLoader(NewBlogWidget(client.New(client.Options{}), srv.URL, home, 3, 220), surface, zap.NewNop()).Load(context.Background())
	assert.Equal(t, Failed, state.Phase)
	assert.Contains(t, unescape(surface.Status()), "Couldn't load posts.")
	assert.Empty(t, surface.List())
}

func TestBlogAtomFallback(t *testing.T) {
	atom := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Buzzcrank</title>
  <entry>
    <title>Atom post</title>
    <link rel="alternate" href="https://buzzcrank.blogspot.com/atom-post.html"/>
    <published>2025-02-01T12:00:00Z</published>
    <summary type="html">&lt;b&gt;Bold&lt;/b&gt; summary</summary>
  </entry>
</feed>`
	srv := serve(t, atom)

	posts, err := NewBlogWidget(client.New(client.Options{}), srv.URL, home, 3, 220).Posts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Atom post", posts[0].Title)
	assert.Equal(t, "https://buzzcrank.blogspot.com/atom-post.html", posts[0].URL)
	assert.Equal(t, "Bold summary", posts[0].SnippetHTML)
	assert.Equal(t, "Feb 1, 2025", formatDate(posts[0].PublishedAt))
}

func TestTerminalSurface(t *testing.T) {
	s := NewTerminalSurface("events")
	s.SetStatus(Message{Tone: ToneLive, Text: "Live feed synced."})
	s.ReplaceCards([]Card{EventCard(crankfeed.Event{Title: "Show", Venue: "Hall", City: "Memphis", Tags: []string{"rock"}})})

	view := s.View()
	assert.Contains(t, view, "events")
	assert.Contains(t, view, "Live feed synced.")
	assert.Contains(t, view, "Show")
	assert.Contains(t, view, "Hall • Memphis")
	assert.Contains(t, view, "#rock")

	s.ReplaceCards(nil)
	assert.NotContains(t, s.View(), "Show")
}

func TestHTMLTrackArtToggle(t *testing.T) {
	s := NewHTMLSurface()
	s.SetTrack(crankfeed.NowPlaying{Title: "Tune", Artist: "Band"})
	assert.Contains(t, string(s.Track()), "<span>"+ArtFallback+"</span>")
	assert.NotContains(t, string(s.Track()), "<img")

	s.SetTrack(crankfeed.NowPlaying{Title: "Tune", Artist: "Band", Art: "https://img/cover.jpg"})
	assert.Contains(t, string(s.Track()), `<img src="https://img/cover.jpg"`)
}

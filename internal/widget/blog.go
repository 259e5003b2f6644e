package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/pkg/errors"

	"github.com/buzzcrank/crankfeed"
	"github.com/buzzcrank/crankfeed/client"
	"github.com/buzzcrank/crankfeed/internal/domain"
)

const (
	UpstreamBlogEndpoint = "blog-endpoint"
	UntitledPost         = "Untitled post"
	ReadMoreLabel        = "Read full story →"
	DefaultMaxPosts      = 3
	DefaultSnippetBudget = 220
)

type BlogWidget struct {
	client   *client.Client
	url      string
	home     string
	maxPosts int
	budget   int
}

// NewBlogWidget reads a Blogger JSON feed, or an Atom/RSS document, from url.
func NewBlogWidget(cl *client.Client, url, home string, maxPosts, budget int) *BlogWidget {
	if maxPosts <= 0 {
		maxPosts = DefaultMaxPosts
	}
	if budget <= 0 {
		budget = DefaultSnippetBudget
	}
	return &BlogWidget{client: cl, url: url, home: home, maxPosts: maxPosts, budget: budget}
}

func (w *BlogWidget) Name() string { return "blog" }

func (w *BlogWidget) Messages() Messages {
	home := &crankfeed.Link{Label: linkLabel(w.home), URL: w.home}
	return Messages{
		Loading: Message{Text: "Loading latest posts from the Buzzcrank blog…"},
		Empty:   Message{Text: "No posts yet — check back soon or read directly on ", Link: home, After: "."},
		Error:   Message{Tone: ToneError, Text: "Couldn't load posts. You can still read the blog directly on ", Link: home, After: "."},
	}
}

func (w *BlogWidget) Fetch(ctx context.Context) ([]Card, error) {
	posts, err := w.Posts(ctx)
	if err != nil {
		return nil, err
	}

	cards := make([]Card, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, Card{
			Title:     p.Title,
			URL:       p.URL,
			When:      formatDate(p.PublishedAt),
			Snippet:   p.SnippetHTML,
			MoreLabel: ReadMoreLabel,
		})
	}
	return cards, nil
}

// Posts returns at most maxPosts posts with sanitized snippets.
func (w *BlogWidget) Posts(ctx context.Context) ([]crankfeed.FeedPost, error) {
	body, err := w.client.Get(ctx, UpstreamBlogEndpoint, w.url, nil)
	if err != nil {
		return nil, err
	}

	var posts []crankfeed.FeedPost
	if bytes.HasPrefix(bytes.TrimSpace(body), []byte("{")) {
		posts, err = w.parseBlogger(body)
	} else {
		posts, err = w.parseSyndication(body)
	}
	if err != nil {
		return nil, domain.UpstreamError{Upstream: UpstreamBlogEndpoint, Err: err}
	}

	if len(posts) > w.maxPosts {
		posts = posts[:w.maxPosts]
	}
	return posts, nil
}

type gdText struct {
	T string `json:"$t"`
}

type bloggerLink struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

type bloggerEntry struct {
	Title     *gdText       `json:"title"`
	Published *gdText       `json:"published"`
	Link      []bloggerLink `json:"link"`
	Summary   *gdText       `json:"summary"`
	Content   *gdText       `json:"content"`
}

type bloggerFeed struct {
	Feed *struct {
		Entry []bloggerEntry `json:"entry"`
	} `json:"feed"`
}

func (w *BlogWidget) parseBlogger(body []byte) ([]crankfeed.FeedPost, error) {
	var doc bloggerFeed
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, errors.Wrap(err, "decode blogger feed")
	}
	if doc.Feed == nil {
		return nil, nil
	}

	posts := make([]crankfeed.FeedPost, 0, len(doc.Feed.Entry))
	for _, e := range doc.Feed.Entry {
		post := crankfeed.FeedPost{URL: w.home}
		if e.Title != nil {
			post.Title = e.Title.T
		}
		if e.Published != nil {
			post.PublishedAt = e.Published.T
		}
		for _, l := range e.Link {
			if l.Rel == "alternate" && l.Href != "" {
				post.URL = l.Href
				break
			}
		}
		body := e.Summary
		if body == nil {
			body = e.Content
		}
		if body != nil {
			post.SnippetHTML = Sanitize(body.T, w.budget)
		}
		posts = append(posts, withPostDefaults(post))
	}
	return posts, nil
}

func (w *BlogWidget) parseSyndication(body []byte) ([]crankfeed.FeedPost, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "parse feed")
	}

	posts := make([]crankfeed.FeedPost, 0, len(feed.Items))
	for _, item := range feed.Items {
		post := crankfeed.FeedPost{
			Title: item.Title,
			URL:   item.Link,
		}
		if post.URL == "" {
			post.URL = w.home
		}
		if item.PublishedParsed != nil {
			post.PublishedAt = item.PublishedParsed.Format(time.RFC3339)
		} else {
			post.PublishedAt = item.Published
		}
		source := item.Description
		if source == "" {
			source = item.Content
		}
		post.SnippetHTML = Sanitize(source, w.budget)
		posts = append(posts, withPostDefaults(post))
	}
	return posts, nil
}

func withPostDefaults(p crankfeed.FeedPost) crankfeed.FeedPost {
	if p.Title == "" {
		p.Title = UntitledPost
	}
	return p
}

// formatDate renders an RFC 3339 timestamp as a medium date, or "" when it
// does not parse.
func formatDate(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

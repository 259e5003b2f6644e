package gateway

import (
	"context"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel/attribute"

	"github.com/buzzcrank/crankfeed/client"
	"github.com/buzzcrank/crankfeed/internal/config"
	"github.com/buzzcrank/crankfeed/internal/domain"
)

type FeedGateway struct {
	client *client.Client
	config config.Feed
	cache  *cache.Cache
}

// NewFeedGateway returns a gateway for the blog feed. With cfg.CacheTTL set,
// successful bodies are served from memory until they expire; failures are
// never cached.
func NewFeedGateway(cl *client.Client, cfg config.Feed) *FeedGateway {
	g := &FeedGateway{client: cl, config: cfg}
	if cfg.CacheTTL > 0 {
		g.cache = cache.New(cfg.CacheTTL, 0)
	}
	return g
}

func (g *FeedGateway) Fetch(ctx context.Context) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "Gateway.Feed.Fetch")
	defer span.End()

	if err := g.config.Validate(); err != nil {
		return nil, err
	}

	if g.cache != nil {
		if x, found := g.cache.Get(g.config.URL); found {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return x.([]byte), nil
		}
	}

	body, err := g.client.Get(ctx, domain.UpstreamBlogger, g.config.URL, nil)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if g.cache != nil {
		g.cache.Set(g.config.URL, body, cache.DefaultExpiration)
	}
	return body, nil
}

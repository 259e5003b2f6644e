package gateway

import (
	"context"
	"net/http"

	"github.com/buzzcrank/crankfeed/client"
	"github.com/buzzcrank/crankfeed/internal/config"
	"github.com/buzzcrank/crankfeed/internal/domain"
)

type NowPlayingGateway struct {
	client *client.Client
	config config.NowPlaying
}

func NewNowPlayingGateway(cl *client.Client, cfg config.NowPlaying) *NowPlayingGateway {
	return &NowPlayingGateway{client: cl, config: cfg}
}

func (g *NowPlayingGateway) Fetch(ctx context.Context) (any, error) {
	ctx, span := tracer.Start(ctx, "Gateway.NowPlaying.Fetch")
	defer span.End()

	if err := g.config.Validate(); err != nil {
		return nil, err
	}

	var payload any
	err := g.client.GetJSON(ctx, domain.UpstreamNowPlaying, g.config.URL, http.Header{"Accept": {"application/json"}}, &payload)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return payload, nil
}

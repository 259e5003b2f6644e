package usecase

import (
	"context"

	"github.com/buzzcrank/crankfeed"
)

// Query narrows a table fetch. An empty Filter or Fields means no restriction.
type Query struct {
	Filter string
	Fields []string
}

// RecordGateway reads every page of a table from the tabular backend.
type RecordGateway interface {
	FetchAll(ctx context.Context, table string, q Query) ([]crankfeed.RawRecord, error)
}

// FeedGateway returns the blog syndication feed body untouched.
type FeedGateway interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// NowPlayingGateway returns the decoded stream-metadata payload.
type NowPlayingGateway interface {
	Fetch(ctx context.Context) (any, error)
}

package usecase

import (
	"context"

	"github.com/buzzcrank/crankfeed"
	"github.com/buzzcrank/crankfeed/internal/normalize"
)

type BlogUsecase struct {
	feed FeedGateway
}

func NewBlogUsecase(feed FeedGateway) *BlogUsecase {
	return &BlogUsecase{feed: feed}
}

// Feed returns the upstream feed document as-is.
func (uc *BlogUsecase) Feed(ctx context.Context) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "Usecase.Blog.Feed")
	defer span.End()

	body, err := uc.feed.Fetch(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return body, nil
}

type NowPlayingUsecase struct {
	source NowPlayingGateway
}

func NewNowPlayingUsecase(source NowPlayingGateway) *NowPlayingUsecase {
	return &NowPlayingUsecase{source: source}
}

func (uc *NowPlayingUsecase) Current(ctx context.Context) (crankfeed.NowPlaying, error) {
	ctx, span := tracer.Start(ctx, "Usecase.NowPlaying.Current")
	defer span.End()

	payload, err := uc.source.Fetch(ctx)
	if err != nil {
		span.RecordError(err)
		return crankfeed.NowPlaying{}, err
	}
	return normalize.NowPlaying(payload), nil
}

package widget

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/buzzcrank/crankfeed"
	"github.com/buzzcrank/crankfeed/client"
)

const (
	UpstreamNowPlayingEndpoint = "nowplaying-endpoint"
	LoadingTrack               = "Loading current track…"
	DefaultPollInterval        = 30 * time.Second
)

// TrackSurface shows the current track.
type TrackSurface interface {
	SetTrack(np crankfeed.NowPlaying)
}

// Poller refreshes the now-playing track on a fixed interval. A failed poll
// keeps the last good track on the surface. A tick that fires while the
// previous poll is still running is skipped.
type Poller struct {
	client   *client.Client
	url      string
	surface  TrackSurface
	interval time.Duration
	logger   *zap.Logger

	inFlight atomic.Bool
	skipped  atomic.Int64

	mu   sync.Mutex
	last *crankfeed.NowPlaying
}

func NewPoller(cl *client.Client, url string, surface TrackSurface, interval time.Duration, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		client:   cl,
		url:      url,
		surface:  surface,
		interval: interval,
		logger:   logger,
	}
}

// Run polls immediately and then every interval until ctx is done. It
// returns only after any in-flight poll has finished.
func (p *Poller) Run(ctx context.Context) error {
	p.surface.SetTrack(crankfeed.NowPlaying{Title: LoadingTrack, Artist: crankfeed.DefaultNowPlayingTitle})

	var wg sync.WaitGroup
	defer wg.Wait()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.tick(ctx, &wg)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.tick(ctx, &wg)
		}
	}
}

func (p *Poller) tick(ctx context.Context, wg *sync.WaitGroup) {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.skipped.Add(1)
		p.logger.Debug("now playing poll skipped, previous still running")
		return
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer p.inFlight.Store(false)
		p.Poll(ctx)
	}()
}

// Poll fetches once and reports whether the surface was updated.
func (p *Poller) Poll(ctx context.Context) bool {
	ctx, span := tracer.Start(ctx, "Widget.NowPlaying.Poll")
	defer span.End()

	var np crankfeed.NowPlaying
	err := p.client.GetJSON(ctx, UpstreamNowPlayingEndpoint, p.url, nil, &np)
	if err != nil {
		span.RecordError(err)
		p.logger.Warn("now playing poll failed", zap.Error(err))
		return false
	}

	np = np.WithDefaults()
	p.mu.Lock()
	p.last = &np
	p.mu.Unlock()

	p.surface.SetTrack(np)
	return true
}

// Last returns the most recent good track, if any.
func (p *Poller) Last() (crankfeed.NowPlaying, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last == nil {
		return crankfeed.NowPlaying{}, false
	}
	return *p.last, true
}

// Skipped counts ticks dropped because a poll was still running.
func (p *Poller) Skipped() int64 {
	return p.skipped.Load()
}

package widget

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/buzzcrank/crankfeed"
	"github.com/buzzcrank/crankfeed/client"
)

type trackRecorder struct {
	mu     sync.Mutex
	tracks []crankfeed.NowPlaying
}

func (r *trackRecorder) SetTrack(np crankfeed.NowPlaying) {
	r.mu.Lock()
	r.tracks = append(r.tracks, np)
	r.mu.Unlock()
}

func (r *trackRecorder) last() crankfeed.NowPlaying {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tracks[len(r.tracks)-1]
}

func (r *trackRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tracks)
}

func newTestClient(t *testing.T) *client.Client {
	tr := &http.Transport{}
	t.Cleanup(tr.CloseIdleConnections)
	return client.New(client.Options{Transport: tr, Timeout: 5 * time.Second})
}

func TestPollerKeepsLastGoodTrack(t *testing.T) {
	t.Cleanup(func() { goleak.VerifyNone(t) })

	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"title":"Spoonful","artist":"Howlin' Wolf","art":"https://art/1.jpg"}`))
	}))
	defer srv.Close()

	surface := &trackRecorder{}
	p := NewPoller(newTestClient(t), srv.URL, surface, time.Hour, zap.NewNop())

	require.True(t, p.Poll(context.Background()))
	want := crankfeed.NowPlaying{Title: "Spoonful", Artist: "Howlin' Wolf", Art: "https://art/1.jpg"}
	assert.Equal(t, want, surface.last())

	fail.Store(true)
	assert.False(t, p.Poll(context.Background()))
	assert.Equal(t, 1, surface.count())
	assert.Equal(t, want, surface.last())

	last, ok := p.Last()
	require.True(t, ok)
	assert.Equal(t, want, last)
}

func TestPollerFillsDefaults(t *testing.T) {
	t.Cleanup(func() { goleak.VerifyNone(t) })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	surface := &trackRecorder{}
	p := NewPoller(newTestClient(t), srv.URL, surface, time.Hour, zap.NewNop())
	require.True(t, p.Poll(context.Background()))
	assert.Equal(t, crankfeed.NowPlaying{
		Title:  crankfeed.DefaultNowPlayingTitle,
		Artist: crankfeed.DefaultNowPlayingArtist,
	}, surface.last())
}

func TestPollerNoTrackBeforeFirstSuccess(t *testing.T) {
	p := NewPoller(client.New(client.Options{}), "http://127.0.0.1:0", &trackRecorder{}, 0, zap.NewNop())
	_, ok := p.Last()
	assert.False(t, ok)
	assert.Equal(t, DefaultPollInterval, p.interval)
}

func TestPollerSkipsWhileInFlight(t *testing.T) {
	t.Cleanup(func() { goleak.VerifyNone(t) })

	var active, maxActive, calls atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		n := active.Add(1)
		defer active.Add(-1)
		for {
			m := maxActive.Load()
			if n <= m || maxActive.CompareAndSwap(m, n) {
				break
			}
		}
		select {
		case <-release:
		case <-r.Context().Done():
		}
		w.Write([]byte(`{"title":"Slow"}`))
	}))
	defer srv.Close()
	defer close(release)

	surface := &trackRecorder{}
	p := NewPoller(newTestClient(t), srv.URL, surface, 5*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	assert.Eventually(t, func() bool { return p.Skipped() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int32(1), maxActive.Load())
	assert.Equal(t, LoadingTrack, surface.tracks[0].Title)
}

func TestPollerRunUpdatesSurface(t *testing.T) {
	t.Cleanup(func() { goleak.VerifyNone(t) })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title":"Tune","artist":"Band"}`))
	}))
	defer srv.Close()

	surface := NewHTMLSurface()
	p := NewPoller(newTestClient(t), srv.URL, surface, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	assert.Eventually(t, func() bool {
		_, ok := p.Last()
		return ok
	}, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done

	track := string(surface.Track())
	assert.Contains(t, track, "Tune")
	assert.Contains(t, track, "Band")
	assert.Contains(t, track, ArtFallback)
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/buzzcrank/crankfeed"
	"github.com/buzzcrank/crankfeed/client"
	"github.com/buzzcrank/crankfeed/internal/widget"
)

var (
	watch    bool
	htmlOut  bool
	jsonDump bool
)

var widgetsCmd = &cobra.Command{
	Use:   "widgets",
	Short: "Load the events and blog widgets against a running server and print them",
	Long: `Runs the events and blog widgets once against widgets.baseURL and prints
what a page would show. With --watch the now-playing widget keeps polling
until interrupted.`,
	RunE: runWidgets,
}

func init() {
	widgetsCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep polling the now-playing widget")
	widgetsCmd.Flags().BoolVar(&htmlOut, "html", false, "Print escaped HTML fragments instead of terminal views")
	widgetsCmd.Flags().BoolVar(&jsonDump, "json", false, "Also dump the loader states as JSON")
}

type surface interface {
	widget.Surface
	widget.TrackSurface
}

type renderable struct {
	name    string
	surface surface
	view    func() string
}

func newRenderable(name string) renderable {
	if htmlOut {
		s := widget.NewHTMLSurface()
		return renderable{name: name, surface: s, view: func() string {
			var sb strings.Builder
			_, _ = s.WriteTo(&sb)
			return sb.String()
		}}
	}
	s := widget.NewTerminalSurface(name)
	s.Width = 72
	return renderable{name: name, surface: s, view: s.View}
}

func runWidgets(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := conf.Widgets
	cl := client.New(client.Options{})

	events := newRenderable("events")
	blog := newRenderable("blog")
	loaders := []struct {
		r      renderable
		loader *widget.Loader
	}{
		{events, widget.NewLoader(widget.NewEventsWidget(cl, w.BaseURL+w.EventsPath, w.EventsHome), events.surface, logger)},
		{blog, widget.NewLoader(widget.NewBlogWidget(cl, w.BlogURL, w.BlogHome, w.MaxPosts, w.SnippetBudget), blog.surface, logger)},
	}

	states := make([]widget.State, len(loaders))
	g, gctx := errgroup.WithContext(ctx)
	for i, l := range loaders {
		g.Go(func() error {
			states[i] = l.loader.Load(gctx)
			return nil
		})
	}
	_ = g.Wait()

	for i, l := range loaders {
		fmt.Println(l.r.view())
		if jsonDump {
			crankfeed.JsonPrint(l.r.name, map[string]any{
				"phase": states[i].Phase.String(),
				"cards": states[i].Cards,
			})
		}
	}

	if !watch {
		return nil
	}

	np := newRenderable("now playing")
	poller := widget.NewPoller(cl, w.BaseURL+w.NowPlayingPath, &printingTrack{r: np}, w.PollInterval, logger)
	if err := poller.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "stopped")
	return nil
}

// printingTrack prints the surface after every track change.
type printingTrack struct {
	r renderable
}

func (p *printingTrack) SetTrack(np crankfeed.NowPlaying) {
	p.r.surface.SetTrack(np)
	fmt.Println(p.r.view())
}

package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/buzzcrank/crankfeed"
	"github.com/buzzcrank/crankfeed/formula"
	"github.com/buzzcrank/crankfeed/internal/config"
	"github.com/buzzcrank/crankfeed/internal/domain"
	"github.com/buzzcrank/crankfeed/internal/normalize"
)

var tracer = otel.Tracer("usecase")

// bucket pairs a dashboard bucket with the predicate that selects it.
type bucket struct {
	name      string
	predicate formula.Expr
	target    *[]crankfeed.Event
}

type DashboardUsecase struct {
	records    RecordGateway
	config     config.Airtable
	mode       domain.FilterMode
	predicates [3]formula.Expr
	filterErr  error
	now        func() time.Time
}

// NewDashboardUsecase parses any configured bucket filters up front. A filter
// that does not parse fails every Build rather than the constructor, the same
// way missing credentials do.
func NewDashboardUsecase(records RecordGateway, cfg config.Airtable, dash config.Dashboard) *DashboardUsecase {
	uc := &DashboardUsecase{
		records: records,
		config:  cfg,
		mode:    dash.FilterMode,
		now:     time.Now,
	}
	uc.predicates, uc.filterErr = bucketPredicates(dash)
	return uc
}

func bucketPredicates(dash config.Dashboard) ([3]formula.Expr, error) {
	preds := [3]formula.Expr{
		formula.ApprovedUpcoming(),
		formula.PendingOrSuggested(),
		formula.HighValueSponsorLead(),
	}
	for i, src := range []string{dash.ApprovedFilter, dash.PendingFilter, dash.SponsorFilter} {
		if strings.TrimSpace(src) == "" {
			continue
		}
		expr, err := formula.Parse(src)
		if err != nil {
			return preds, errors.Wrapf(err, "dashboard filter %q", src)
		}
		preds[i] = expr
	}
	return preds, nil
}

// Build assembles the admin dashboard. Either every bucket and the artist
// roster are filled or an error is returned.
func (uc *DashboardUsecase) Build(ctx context.Context) (crankfeed.Dashboard, error) {
	ctx, span := tracer.Start(ctx, "Usecase.Dashboard.Build")
	defer span.End()
	span.SetAttributes(attribute.String("mode", string(uc.mode)))

	if err := uc.config.Validate(); err != nil {
		span.RecordError(err)
		return crankfeed.Dashboard{}, err
	}
	if uc.filterErr != nil {
		span.RecordError(uc.filterErr)
		return crankfeed.Dashboard{}, uc.filterErr
	}

	dashboard := crankfeed.EmptyDashboard()
	buckets := []bucket{
		{"approvedEvents", uc.predicates[0], &dashboard.ApprovedEvents},
		{"pendingEvents", uc.predicates[1], &dashboard.PendingEvents},
		{"sponsorLeads", uc.predicates[2], &dashboard.SponsorLeads},
	}
	eventFields := normalize.Events.Columns()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		raws, err := uc.records.FetchAll(ctx, uc.config.ArtistsTable, Query{Fields: normalize.Artists.Columns()})
		if err != nil {
			return errors.Wrap(err, "artists")
		}
		dashboard.Artists = normalize.ArtistList(raws)
		return nil
	})

	switch uc.mode {
	case domain.FilterModeLocal:
		g.Go(func() error {
			raws, err := uc.records.FetchAll(ctx, uc.config.EventsTable, Query{Fields: eventFields})
			if err != nil {
				return errors.Wrap(err, "events")
			}
			return uc.partition(raws, buckets)
		})
	default:
		for _, b := range buckets {
			g.Go(func() error {
				raws, err := uc.records.FetchAll(ctx, uc.config.EventsTable, Query{
					Filter: formula.Render(b.predicate),
					Fields: eventFields,
				})
				if err != nil {
					return errors.Wrap(err, b.name)
				}
				*b.target = normalize.EventList(raws)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return crankfeed.Dashboard{}, err
	}
	return dashboard, nil
}

// partition evaluates each bucket predicate against the raw fields, so a
// record lands in a bucket exactly when the upstream filter would select it.
func (uc *DashboardUsecase) partition(raws []crankfeed.RawRecord, buckets []bucket) error {
	today := uc.now()
	for _, raw := range raws {
		env := formula.Env{Fields: raw.Fields, Today: today}
		var event *crankfeed.Event
		for _, b := range buckets {
			ok, err := formula.Match(env, b.predicate)
			if err != nil {
				return errors.Wrapf(err, "evaluate %s for %s", b.name, raw.ID)
			}
			if !ok {
				continue
			}
			if event == nil {
				ev := normalize.Event(raw)
				event = &ev
			}
			*b.target = append(*b.target, *event)
		}
	}
	return nil
}

package usecase

import (
	"context"

	"github.com/pkg/errors"

	"github.com/buzzcrank/crankfeed"
	"github.com/buzzcrank/crankfeed/internal/config"
	"github.com/buzzcrank/crankfeed/internal/normalize"
)

type EventsUsecase struct {
	records RecordGateway
	config  config.Airtable
}

func NewEventsUsecase(records RecordGateway, cfg config.Airtable) *EventsUsecase {
	return &EventsUsecase{records: records, config: cfg}
}

// List returns every event in the table that has a title, unfiltered.
func (uc *EventsUsecase) List(ctx context.Context) ([]crankfeed.Event, error) {
	ctx, span := tracer.Start(ctx, "Usecase.Events.List")
	defer span.End()

	if err := uc.config.Validate(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	raws, err := uc.records.FetchAll(ctx, uc.config.EventsTable, Query{})
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "events")
	}

	events := make([]crankfeed.Event, 0, len(raws))
	for _, ev := range normalize.EventList(raws) {
		if ev.Title == "" {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/buzzcrank/crankfeed"
	"github.com/buzzcrank/crankfeed/client"
	"github.com/buzzcrank/crankfeed/internal/config"
	"github.com/buzzcrank/crankfeed/internal/domain"
	"github.com/buzzcrank/crankfeed/internal/usecase"
)

var tracer = otel.Tracer("gateway")

type RecordGateway struct {
	client *client.Client
	config config.Airtable
}

func NewRecordGateway(cl *client.Client, cfg config.Airtable) *RecordGateway {
	return &RecordGateway{client: cl, config: cfg}
}

type recordPage struct {
	Records []crankfeed.RawRecord `json:"records"`
	Offset  string                `json:"offset"`
}

// FetchAll follows offset tokens until the last page and returns every record
// in upstream order. Any failed page fails the whole fetch.
func (g *RecordGateway) FetchAll(ctx context.Context, table string, q usecase.Query) ([]crankfeed.RawRecord, error) {
	ctx, span := tracer.Start(ctx, "Gateway.Record.FetchAll")
	defer span.End()
	span.SetAttributes(attribute.String("table", table))

	if err := g.config.Validate(); err != nil {
		return nil, err
	}

	endpoint := strings.TrimRight(g.config.BaseURL, "/") + "/" + url.PathEscape(g.config.BaseID) + "/" + url.PathEscape(table)
	header := http.Header{"Authorization": {"Bearer " + g.config.APIKey}}

	params := url.Values{}
	if q.Filter != "" {
		params.Set("filterByFormula", q.Filter)
	}
	for _, f := range q.Fields {
		params.Add("fields[]", f)
	}

	records := []crankfeed.RawRecord{}
	seen := map[string]bool{}
	pages := 0
	for {
		target := endpoint
		if len(params) > 0 {
			target += "?" + params.Encode()
		}

		var page recordPage
		err := g.client.GetJSON(ctx, domain.UpstreamAirtable, target, header, &page)
		if err != nil {
			span.RecordError(err)
			return nil, errors.Wrapf(err, "fetch %s page %d", table, pages+1)
		}
		pages++
		records = append(records, page.Records...)

		if page.Offset == "" {
			break
		}
		if seen[page.Offset] {
			err := domain.UpstreamError{Upstream: domain.UpstreamAirtable, Err: errors.Errorf("offset %q repeated", page.Offset)}
			span.RecordError(err)
			return nil, err
		}
		seen[page.Offset] = true
		params.Set("offset", page.Offset)
	}

	span.SetAttributes(attribute.Int("pages", pages), attribute.Int("records", len(records)))
	return records, nil
}

package content

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"github.com/nishantgupta83/mindful-living-search/internal/search/index"
	pkgerrors "github.com/nishantgupta83/mindful-living-search/pkg/errors"
	"github.com/nishantgupta83/mindful-living-search/pkg/postgres"
)

const fetchActiveQuery = `
SELECT id, title, description, approach, steps, insights, area, tags
FROM life_situations
WHERE is_active
ORDER BY id`

// Postgres reads the corpus from the life_situations table.
type Postgres struct {
	client *postgres.Client
	logger *slog.Logger
}

// NewPostgres wraps a pooled client.
func NewPostgres(client *postgres.Client) *Postgres {
	return &Postgres{
		client: client,
		logger: slog.Default().With("component", "content-store"),
	}
}

// FetchActiveDocuments returns every active document. Rows that fail to parse
// are logged and skipped; the fetch only fails as a whole when the query
// errors or no row at all is usable.
func (p *Postgres) FetchActiveDocuments(ctx context.Context) ([]index.Document, error) {
	rows, err := p.client.DB.QueryContext(ctx, fetchActiveQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: querying life_situations: %v", pkgerrors.ErrCorpusFetch, err)
	}
	defer rows.Close()

	var docs []index.Document
	var skipped int
	for rows.Next() {
		var (
			id, title, description, approach, area string
			steps, tags                            pq.StringArray
			insightsJSON                           []byte
		)
		if err := rows.Scan(&id, &title, &description, &approach, &steps, &insightsJSON, &area, &tags); err != nil {
			p.logger.Warn("skipping unscannable corpus row", "error", err)
			skipped++
			continue
		}

		fields := map[string]any{
			"title":       title,
			"description": description,
			"approach":    approach,
			"steps":       []string(steps),
			"area":        area,
			"tags":        []string(tags),
		}
		if len(insightsJSON) > 0 {
			var insights []string
			if err := json.Unmarshal(insightsJSON, &insights); err != nil {
				p.logger.Warn("document has malformed insights, defaulting to none",
					"doc_id", id,
					"error", err,
				)
			} else {
				fields["insights"] = insights
			}
		}

		doc, err := index.ParseDocument(id, fields)
		if err != nil {
			p.logger.Warn("skipping malformed document", "doc_id", id, "error", err)
			skipped++
			continue
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating life_situations: %v", pkgerrors.ErrCorpusFetch, err)
	}
	if len(docs) == 0 && skipped > 0 {
		return nil, fmt.Errorf("%w: all %d corpus rows were malformed", pkgerrors.ErrCorpusFetch, skipped)
	}

	p.logger.Info("corpus fetched", "documents", len(docs), "skipped", skipped)
	return docs, nil
}

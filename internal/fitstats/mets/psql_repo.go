package mets

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2beens/fitstats/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type PsqlRepo struct {
	db *pgxpool.Pool
}

func NewPsqlRepo(db *pgxpool.Pool) *PsqlRepo {
	return &PsqlRepo{
		db: db,
	}
}

// ListActivityMets reads all rows of activity_mets; sub-activity options are kept as JSONB.
func (r *PsqlRepo) ListActivityMets(ctx context.Context) (_ []ActivityMets, undecodable int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.mets.psql.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, activity, dropdown_label, sub_activity_options FROM activity_mets ORDER BY id;`,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	docs := make([]ActivityMets, 0)
	for rows.Next() {
		var id int
		var activity, dropdownLabel *string
		var optionsBytes []byte
		if err := rows.Scan(&id, &activity, &dropdownLabel, &optionsBytes); err != nil {
			return nil, 0, fmt.Errorf("rows scan: %w", err)
		}

		doc := ActivityMets{
			Activity: activity,
		}
		if dropdownLabel != nil {
			doc.DropdownLabel = *dropdownLabel
		}

		if optionsBytes != nil {
			if err := json.Unmarshal(optionsBytes, &doc.SubActivityOptions); err != nil {
				log.Warnf("unmarshal sub activity options for activity mets row %d: %s", id, err)
				undecodable++
				continue
			}
		}

		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows: %w", err)
	}

	span.SetAttributes(attribute.Int("documents", len(docs)))

	return docs, undecodable, nil
}

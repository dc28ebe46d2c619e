package mets

import (
	"context"
	"fmt"

	"github.com/2beens/fitstats/internal/telemetry/metrics"
	"github.com/2beens/fitstats/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// Resolver builds the MET lookup table from the reference source.
// It holds no state between calls; every LoadTable reads the source again.
type Resolver struct {
	repo           metsRepo
	metricsManager *metrics.Manager
}

func NewResolver(repo metsRepo, metricsManager *metrics.Manager) *Resolver {
	return &Resolver{
		repo:           repo,
		metricsManager: metricsManager,
	}
}

func (r *Resolver) LoadTable(ctx context.Context) (_ Table, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "mets.resolver.loadTable")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	docs, undecodable, err := r.repo.ListActivityMets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list activity mets: %w", err)
	}

	malformed := undecodable
	table := BuildTable(docs, func(docIdx int, reason string) {
		malformed++
		log.Warnf("skipping malformed MET entry in document #%d: %s", docIdx, reason)
	})

	if malformed > 0 && r.metricsManager != nil {
		r.metricsManager.CounterMalformedMetEntries.Add(float64(malformed))
	}

	span.SetAttributes(
		attribute.Int("mets.documents", len(docs)),
		attribute.Int("mets.entries", len(table)),
		attribute.Int("mets.malformed", malformed),
	)
	log.Tracef("MET table loaded: %d documents, %d entries, %d malformed", len(docs), len(table), malformed)

	return table, nil
}

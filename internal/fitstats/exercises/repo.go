package exercises

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

//go:generate mockgen -source=$GOFILE -destination=exercises_mocks_test.go -package=exercises_test

type exercisesRepo interface {
	Add(ctx context.Context, exercise Exercise) (*Exercise, error)
	ListAll(ctx context.Context, params ListParams) ([]Exercise, error)
}

const (
	MongoCollection = "exercises"
	PsqlTable       = "exercise_log"
)

// ListParams filters exercise records. Empty Username means all users.
// The date range is half-open: From <= date < To; nil bounds are open.
type ListParams struct {
	Username string
	From     *time.Time
	To       *time.Time
}

func setListParamsAttributes(span trace.Span, params ListParams) {
	span.SetAttributes(attribute.String("username", params.Username))
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}
}

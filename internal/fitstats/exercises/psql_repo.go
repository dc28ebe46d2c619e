package exercises

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/2beens/fitstats/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
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

func (r *PsqlRepo) Add(ctx context.Context, exercise Exercise) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.psql.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO exercise_log
				(username, exercise_type, sub_activity, description, duration, date, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id;`,
		exercise.Username, exercise.ExerciseType, exercise.SubActivity, exercise.Description,
		exercise.Duration, exercise.Date, exercise.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("unexpected error [no rows next]")
	}

	var id int
	if err := rows.Scan(&id); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	span.SetAttributes(attribute.Int("exercise.id", id))

	exercise.ID = strconv.Itoa(id)
	return &exercise, nil
}

func (r *PsqlRepo) ListAll(ctx context.Context, params ListParams) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.psql.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	setListParamsAttributes(span, params)

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, username, exercise_type, sub_activity, description, duration, date, created_at
			FROM exercise_log
				WHERE ($1::text = '' OR username = $1)
				AND ($2::timestamptz IS NULL OR date >= $2)
				AND ($3::timestamptz IS NULL OR date < $3)
			ORDER BY date ASC;`,
		params.Username, params.From, params.To,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	exercises, err := r.rows2exercises(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2exercises: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(exercises)))

	return exercises, nil
}

func (r *PsqlRepo) rows2exercises(rows pgx.Rows) ([]Exercise, error) {
	exercises := make([]Exercise, 0)
	for rows.Next() {
		var id int
		var e Exercise
		var subActivity *string
		var date, createdAt time.Time
		if err := rows.Scan(
			&id, &e.Username, &e.ExerciseType, &subActivity,
			&e.Description, &e.Duration, &date, &createdAt,
		); err != nil {
			return nil, err
		}

		e.ID = strconv.Itoa(id)
		e.SubActivity = subActivity
		e.Date = date.UTC()
		e.CreatedAt = createdAt.UTC()
		exercises = append(exercises, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return exercises, nil
}

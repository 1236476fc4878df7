package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"gate-tutor-backend/internal/models"
)

type PostgresStudyPlanRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresStudyPlanRepo(pool *pgxpool.Pool) *PostgresStudyPlanRepo {
	return &PostgresStudyPlanRepo{pool: pool}
}

func (r *PostgresStudyPlanRepo) ListAll(ctx context.Context) ([]*models.StudyPlan, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, topic, status, scheduled_date
		FROM study_plans
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query study plans: %w", err)
	}
	defer rows.Close()

	plans := []*models.StudyPlan{}
	for rows.Next() {
		p := &models.StudyPlan{}
		if err := rows.Scan(&p.ID, &p.Topic, &p.Status, &p.ScheduledDate); err != nil {
			return nil, fmt.Errorf("failed to scan study plan: %w", err)
		}
		p.ScheduledDate = p.ScheduledDate.UTC()
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (r *PostgresStudyPlanRepo) Create(ctx context.Context, p *models.StudyPlan) error {
	id := uuid.New()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO study_plans (id, topic, status, scheduled_date)
		VALUES ($1, $2, $3, $4)
	`, id.String(), p.Topic, p.Status, p.ScheduledDate)
	if err != nil {
		return fmt.Errorf("failed to insert study plan: %w", err)
	}

	p.ID = id.String()
	return nil
}

func (r *PostgresStudyPlanRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *PostgresStudyPlanRepo) Close(ctx context.Context) error {
	r.pool.Close()
	return nil
}

package repository

import (
	"context"

	"gate-tutor-backend/internal/models"
)

// StudyPlanStore is the record store behind the schedule endpoints.
// Records are only ever inserted and listed.
type StudyPlanStore interface {
	// ListAll returns every stored plan, in insertion order where the
	// backend keeps one.
	ListAll(ctx context.Context) ([]*models.StudyPlan, error)
	// Create persists p and sets p.ID.
	Create(ctx context.Context, p *models.StudyPlan) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// UnavailableStudyPlanRepo stands in for a backend that could not be set up
// at startup. The server keeps running and every call reports Err.
type UnavailableStudyPlanRepo struct {
	Err error
}

func (r *UnavailableStudyPlanRepo) ListAll(ctx context.Context) ([]*models.StudyPlan, error) {
	return nil, r.Err
}

func (r *UnavailableStudyPlanRepo) Create(ctx context.Context, p *models.StudyPlan) error {
	return r.Err
}

func (r *UnavailableStudyPlanRepo) Ping(ctx context.Context) error { return r.Err }

func (r *UnavailableStudyPlanRepo) Close(ctx context.Context) error { return nil }

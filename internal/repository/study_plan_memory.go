package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"gate-tutor-backend/internal/models"
)

// MemoryStudyPlanRepo keeps plans in process memory. Contents are lost on
// restart; meant for local development without a database.
type MemoryStudyPlanRepo struct {
	mu    sync.RWMutex
	plans []models.StudyPlan
}

func NewMemoryStudyPlanRepo() *MemoryStudyPlanRepo {
	return &MemoryStudyPlanRepo{}
}

func (r *MemoryStudyPlanRepo) ListAll(ctx context.Context) ([]*models.StudyPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.StudyPlan, 0, len(r.plans))
	for i := range r.plans {
		p := r.plans[i]
		out = append(out, &p)
	}
	return out, nil
}

func (r *MemoryStudyPlanRepo) Create(ctx context.Context, p *models.StudyPlan) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.ID = uuid.NewString()

	r.mu.Lock()
	r.plans = append(r.plans, *p)
	r.mu.Unlock()
	return nil
}

func (r *MemoryStudyPlanRepo) Ping(ctx context.Context) error { return nil }

func (r *MemoryStudyPlanRepo) Close(ctx context.Context) error { return nil }

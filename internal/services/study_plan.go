package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"gate-tutor-backend/internal/models"
	"gate-tutor-backend/internal/repository"
)

type StudyPlanService struct {
	store    repository.StudyPlanStore
	validate *validator.Validate
	now      func() time.Time
}

func NewStudyPlanService(store repository.StudyPlanStore) *StudyPlanService {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &StudyPlanService{store: store, validate: v, now: time.Now}
}

// List never returns a nil slice so the API always encodes an array.
func (s *StudyPlanService) List(ctx context.Context) ([]*models.StudyPlan, error) {
	plans, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []*models.StudyPlan{}
	}
	return plans, nil
}

func (s *StudyPlanService) Create(ctx context.Context, req models.CreateStudyPlanRequest) (*models.StudyPlan, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	req.Status = strings.TrimSpace(req.Status)

	if err := s.validate.Struct(req); err != nil {
		return nil, toValidationError(err)
	}

	plan := &models.StudyPlan{
		Topic:  req.Topic,
		Status: req.Status,
	}
	if plan.Status == "" {
		plan.Status = models.DefaultStudyPlanStatus
	}
	if req.ScheduledDate != nil && !req.ScheduledDate.IsZero() {
		plan.ScheduledDate = *req.ScheduledDate
	} else {
		plan.ScheduledDate = s.now()
	}
	plan.ScheduledDate = NormalizeScheduledDate(plan.ScheduledDate)

	if err := s.store.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to save study plan: %w", err)
	}
	return plan, nil
}

// NormalizeScheduledDate reduces t to UTC at millisecond precision, the
// resolution of BSON dates, so every store returns exactly what was saved.
func NormalizeScheduledDate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = "is required"
		case "max":
			fields[fe.Field()] = fmt.Sprintf("must be at most %s characters", fe.Param())
		default:
			fields[fe.Field()] = "is invalid"
		}
	}
	return &ValidationError{Fields: fields}
}

package models

import "time"

const DefaultStudyPlanStatus = "Pending"

// StudyPlan is one scheduled study topic. ID is assigned by the store and is
// opaque to callers.
type StudyPlan struct {
	ID            string    `json:"_id"`
	Topic         string    `json:"topic"`
	Status        string    `json:"status"`
	ScheduledDate time.Time `json:"scheduledDate"`
}

// CreateStudyPlanRequest is the body of POST /api/schedule. Status and
// ScheduledDate fall back to their defaults when omitted.
type CreateStudyPlanRequest struct {
	Topic         string     `json:"topic" validate:"required,max=500"`
	Status        string     `json:"status,omitempty" validate:"max=64"`
	ScheduledDate *time.Time `json:"scheduledDate,omitempty"`
}

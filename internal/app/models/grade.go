package models

import "time"

// Grade is a recorded score for one evaluation type of an enrollment.
// Weight is snapshotted at recording time so later reconfiguration does
// not silently rewrite history.
type Grade struct {
	ID               int64     `json:"id" db:"id"`
	EnrollmentID     int64     `json:"enrollmentId" db:"enrollment_id"`
	EvaluationTypeID int64     `json:"evaluationTypeId" db:"evaluation_type_id"`
	Value            float64   `json:"value" db:"value"`
	Weight           float64   `json:"weight" db:"weight"`
	EvaluatedAt      time.Time `json:"evaluatedAt" db:"evaluated_at"`
}

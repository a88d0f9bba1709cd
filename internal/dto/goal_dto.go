package dto

import "github.com/goaltrackhq/goaltrack-backend/internal/models"

// CreateGoalRequest carries the client-settable goal fields. Points and
// mulct are pointers so missing values can be told apart from zero.
// The owner is always taken from the verified token, never from the body.
type CreateGoalRequest struct {
	Description   string   `json:"description"`
	Points        *float64 `json:"points"`
	Mulct         *float64 `json:"mulct"`
	Deadline      string   `json:"deadline"`
	Repeatable    bool     `json:"repeatable"`
	ExecutionDate *int64   `json:"executionDate"`
}

// IncrementPointsRequest and DecrementPointsRequest carry integral amounts;
// a fractional or non-numeric value fails JSON binding and maps to 400.
type IncrementPointsRequest struct {
	Points *int64 `json:"points"`
}

type DecrementPointsRequest struct {
	Mulct *int64 `json:"mulct"`
}

type PointsResponse struct {
	Message string      `json:"message"`
	User    models.User `json:"user"`
}

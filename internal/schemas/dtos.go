package schemas

import "github.com/google/uuid"

// AuthResponseDTO is a struct that represents the signup/login response
// User is the created or authenticated user
// Token is the signed identity token with a 24-hour expiry
type AuthResponseDTO struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// AuthenticatedUser is the identity the auth guard attaches to the request
// context after token verification and user lookup.
type AuthenticatedUser struct {
	UserId   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// MessageDTO is a struct that represents a plain success message response
type MessageDTO struct {
	Message string `json:"message"`
}

// HealthDTO is the health route response.
type HealthDTO struct {
	Status string `json:"status"`
}

// MoodStatsDTO aggregates a user's mood entries.
type MoodStatsDTO struct {
	TotalEntries   int      `json:"total_entries"`
	AverageMood    *float64 `json:"average_mood"`
	MinMood        *int     `json:"min_mood"`
	MaxMood        *int     `json:"max_mood"`
	MostCommonMood *int     `json:"most_common_mood"`
}

// QuizStatisticsDTO is one per-quiz-type aggregate row.
type QuizStatisticsDTO struct {
	QuizType           string   `json:"quiz_type"`
	TotalAssessments   int      `json:"total_assessments"`
	AverageScore       *float64 `json:"average_score"`
	MinScore           *int     `json:"min_score"`
	MaxScore           *int     `json:"max_score"`
	MostCommonSeverity *string  `json:"most_common_severity"`
	AverageMood        *float64 `json:"average_mood"`
	AverageStress      *float64 `json:"average_stress"`
	AverageSleep       *float64 `json:"average_sleep"`
}

// QuizProgressDTO is one calendar-month bucket of the progress trend.
type QuizProgressDTO struct {
	Month         string   `json:"month"`
	AverageScore  *float64 `json:"average_score"`
	AverageMood   *float64 `json:"average_mood"`
	AverageStress *float64 `json:"average_stress"`
	AverageSleep  *float64 `json:"average_sleep"`
}

// PaginatedResponse is a struct that represents a paginated response
// Records is the records of the response
// Pagination is the pagination of the response
type PaginatedResponse struct {
	Records    interface{} `json:"records"`
	Pagination Pagination  `json:"pagination"`
}

// Pagination is a struct that represents a pagination
// Offset is the given offset of the pagination
// Limit is the given limit of the pagination
// Records is the total records of the pagination
type Pagination struct {
	Offset  int `json:"offset"`
	Limit   int `json:"limit"`
	Records int `json:"records"`
}

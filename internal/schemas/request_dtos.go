// Package schemas defines the request structures for various operations in the application.
package schemas

// SignupRequest is a struct that represents a signup request
// Username is required and must be less than 50 characters
// Email is required and must be a valid email
// Password is required and must be at least 6 characters
// Name, Birthday and Gender are optional profile fields
type SignupRequest struct {
	Username string `json:"username" validate:"required,max=50,username_validation"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"max=100"`
	Birthday string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
	Gender   string `json:"gender" validate:"max=20"`
}

// LoginRequest is a struct that represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest carries the optional profile fields; absent fields
// keep their stored values (COALESCE semantics).
type UpdateProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=100"`
	Birthday *string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
	Gender   *string `json:"gender" validate:"omitempty,max=20"`
}

// CreateMoodLogRequest validates the mood level against the 1-5 scale.
type CreateMoodLogRequest struct {
	MoodLevel int    `json:"mood_level" validate:"required,min=1,max=5"`
	MoodNote  string `json:"mood_note" validate:"max=1000"`
}

// CreateActivityLogRequest is a struct that represents an activity log request
type CreateActivityLogRequest struct {
	ActivityType string `json:"activity_type" validate:"required,max=100"`
	Description  string `json:"description" validate:"max=1000"`
}

// CreateExerciseLogRequest carries the structured exercise list.
type CreateExerciseLogRequest struct {
	Exercises []ExerciseEntry `json:"exercises" validate:"required,min=1,dive"`
}

// CreateQuizResultRequest is a struct that represents a quiz result submission.
// Score and Severity are computed by the client; the server checks the score
// range per quiz type and that the severity label is a known band.
type CreateQuizResultRequest struct {
	QuizType        string       `json:"quizType" validate:"required,oneof=PHQ9 GAD7"`
	Score           *int         `json:"score" validate:"required,min=0,max=27"`
	Answers         []QuizAnswer `json:"answers" validate:"required,min=1,dive"`
	Severity        string       `json:"severity" validate:"required,severity_validation"`
	Recommendations string       `json:"recommendations" validate:"max=2000"`
	Notes           string       `json:"notes" validate:"max=2000"`
	FollowUpDate    string       `json:"followUpDate" validate:"omitempty,datetime=2006-01-02"`
	MoodRating      *int         `json:"moodRating" validate:"omitempty,min=1,max=10"`
	StressLevel     *int         `json:"stressLevel" validate:"omitempty,min=1,max=10"`
	SleepHours      *float64     `json:"sleepHours" validate:"omitempty,min=0,max=24"`
}

// UpdateQuizNotesRequest replaces the free-text notes on a stored result.
type UpdateQuizNotesRequest struct {
	Notes string `json:"notes" validate:"required,max=2000"`
}

// CreateReminderRequest is a struct that represents a reminder creation request
// ReminderTime must be a valid HH:MM time of day
type CreateReminderRequest struct {
	ReminderType string `json:"reminder_type" validate:"required,max=50"`
	ReminderText string `json:"reminder_text" validate:"required,max=500"`
	ReminderTime string `json:"reminder_time" validate:"required,time_format"`
	IsActive     *bool  `json:"is_active"`
}

// UpdateReminderRequest carries the partial update; nil fields are untouched.
type UpdateReminderRequest struct {
	ReminderText *string `json:"reminder_text" validate:"omitempty,max=500"`
	ReminderTime *string `json:"reminder_time" validate:"omitempty,time_format"`
	IsActive     *bool   `json:"is_active"`
}

// CreateChatMessageRequest is a struct that represents a chat message request
type CreateChatMessageRequest struct {
	Message string `json:"message" validate:"required,max=1000"`
}

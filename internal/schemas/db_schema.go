// Package schemas defines the data structures
package schemas

import (
	"time"

	"github.com/google/uuid"
)

// User represents the data model for a user in the system.
type User struct {
	UserId       uuid.UUID  `json:"user_id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Name         *string    `json:"name"`
	Birthday     *string    `json:"birthday"`
	Gender       *string    `json:"gender"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

// MoodLog is a single mood entry. MoodLevel is on the 1-5 scale.
type MoodLog struct {
	LogId     uuid.UUID `json:"log_id"`
	UserId    uuid.UUID `json:"user_id"`
	MoodLevel int       `json:"mood_level"`
	MoodNote  *string   `json:"mood_note"`
	LoggedAt  time.Time `json:"logged_at"`
}

// ActivityLog is a single activity entry.
type ActivityLog struct {
	LogId        uuid.UUID `json:"log_id"`
	UserId       uuid.UUID `json:"user_id"`
	ActivityType string    `json:"activity_type"`
	Description  *string   `json:"description"`
	LoggedAt     time.Time `json:"logged_at"`
}

// ExerciseEntry is one exercise inside an exercise log's structured payload.
type ExerciseEntry struct {
	Name      string `json:"name" validate:"required,max=100"`
	Duration  int    `json:"duration" validate:"omitempty,min=0"`
	Completed bool   `json:"completed"`
}

// ExerciseLog stores the structured exercise list as a jsonb column.
// The owning-user column is a UUID; older integer-keyed rows are not compatible.
type ExerciseLog struct {
	LogId     uuid.UUID       `json:"log_id"`
	UserId    uuid.UUID       `json:"user_id"`
	Exercises []ExerciseEntry `json:"exercises"`
	LoggedAt  time.Time       `json:"logged_at"`
}

// Exercise is a row of the static reference exercise list.
type Exercise struct {
	ExerciseId  int    `json:"exercise_id"`
	Period      string `json:"period"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
}

// QuizAnswer is one answered question of a PHQ9/GAD7 assessment.
type QuizAnswer struct {
	QuestionNumber int `json:"questionNumber" validate:"required,min=1"`
	Answer         int `json:"answer" validate:"min=0,max=3"`
}

// QuizResult stores a completed assessment. Score and severity arrive
// pre-computed from the client and are checked against the canonical bands.
type QuizResult struct {
	ResultId        uuid.UUID    `json:"result_id"`
	UserId          uuid.UUID    `json:"user_id"`
	QuizType        string       `json:"quiz_type"`
	Score           int          `json:"score"`
	Severity        string       `json:"severity"`
	Answers         []QuizAnswer `json:"answers"`
	Recommendations *string      `json:"recommendations"`
	Notes           *string      `json:"notes"`
	FollowUpDate    *string      `json:"follow_up_date"`
	MoodRating      *int         `json:"mood_rating"`
	StressLevel     *int         `json:"stress_level"`
	SleepHours      *float64     `json:"sleep_hours"`
	CreatedAt       time.Time    `json:"created_at"`
}

// Reminder is an owner-scoped reminder with a time of day in HH:MM.
type Reminder struct {
	ReminderId   uuid.UUID `json:"reminder_id"`
	UserId       uuid.UUID `json:"user_id"`
	ReminderType string    `json:"reminder_type"`
	ReminderText string    `json:"reminder_text"`
	ReminderTime string    `json:"reminder_time"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// ChatMessage is a persisted community chat message. Username is joined
// from the users table at read time and is not stored on the row.
type ChatMessage struct {
	MessageId uuid.UUID `json:"message_id"`
	UserId    uuid.UUID `json:"user_id"`
	Message   string    `json:"message"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// EmergencyResource is a static reference row.
type EmergencyResource struct {
	ResourceId   int     `json:"resource_id"`
	ResourceName string  `json:"resource_name"`
	Description  *string `json:"description"`
	PhoneNumber  *string `json:"phone_number"`
	Website      *string `json:"website"`
}

// Link is a static reference row, typed professional or information.
type Link struct {
	LinkId      int     `json:"link_id"`
	LinkType    string  `json:"link_type"`
	LinkName    string  `json:"link_name"`
	Url         string  `json:"url"`
	Description *string `json:"description"`
}

// FooterText is the informational footer content.
type FooterText struct {
	FooterId   int    `json:"footer_id"`
	FooterText string `json:"footer_text"`
}

package utils

const (
	// UserIdKey is the key for the user ID used in routing parameters.
	UserIdKey = "userId"

	// ReminderIdKey is the key for the reminder ID used in routing parameters.
	ReminderIdKey = "reminderId"

	// ResultIdKey is the key for the quiz result ID used in routing parameters.
	ResultIdKey = "resultId"

	// StartDateParamKey and EndDateParamKey bound date-range filters (inclusive).
	StartDateParamKey = "start_date"
	EndDateParamKey   = "end_date"

	// PeriodParamKey selects the reference exercise list.
	PeriodParamKey = "period"

	// QuizTypeParamKey filters quiz history and aggregates.
	QuizTypeParamKey = "quizType"

	// TimeframeParamKey selects the statistics window (week, month, year).
	TimeframeParamKey = "timeframe"

	// SeverityParamKey filters quiz history by severity band.
	SeverityParamKey = "severity"

	// SinceParamKey filters chat messages by creation time.
	SinceParamKey = "since"

	// OffsetParamKey is the key for offset used in pagination query parameters.
	OffsetParamKey = "offset"

	// LimitParamKey is the key for limit used in pagination query parameters.
	LimitParamKey = "limit"
)

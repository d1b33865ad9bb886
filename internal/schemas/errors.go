package schemas

// CustomError is a struct that represents an error with a code and a message.
// The code is a stable identifier for clients, the message is human-readable.
type CustomError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorDTO is the envelope every failing response uses.
// Details carries the itemized rule violations for validation failures.
type ErrorDTO struct {
	Error   CustomError `json:"error"`
	Details []string    `json:"details,omitempty"`
}

var (
	// BadRequest covers malformed bodies and out-of-range query parameters.
	BadRequest = &CustomError{Code: "ERR-001", Message: "The request body is invalid. Please check the request body and try again."}
	// UserAlreadyExists is returned on signup when the username or email is taken.
	UserAlreadyExists = &CustomError{Code: "ERR-002", Message: "User already exists"}
	// InvalidCredentials is returned for both unknown email and wrong password,
	// so login failures never distinguish the two.
	InvalidCredentials     = &CustomError{Code: "ERR-003", Message: "Invalid credentials"}
	AuthenticationRequired = &CustomError{Code: "ERR-004", Message: "Authentication required"}
	InvalidToken           = &CustomError{Code: "ERR-005", Message: "Invalid token"}
	NotAuthorized          = &CustomError{Code: "ERR-006", Message: "Not authorized"}
	UserNotFound           = &CustomError{Code: "ERR-007", Message: "User not found"}
	ReminderNotFound       = &CustomError{Code: "ERR-008", Message: "Reminder not found"}
	QuizResultNotFound     = &CustomError{Code: "ERR-009", Message: "Quiz result not found"}
	DatabaseError          = &CustomError{Code: "ERR-010", Message: "A database error occurred. Please try again later."}
	InternalServerError    = &CustomError{Code: "ERR-011", Message: "An internal server error occurred. Please try again later."}
)

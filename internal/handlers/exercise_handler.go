package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mindwell-server/internal/managers"
	"mindwell-server/internal/middleware"
	"mindwell-server/internal/schemas"
	"mindwell-server/internal/utils"
)

type ExerciseHdl interface {
	ListExercises(c *gin.Context)
	LogExercises(c *gin.Context)
	GetExerciseHistory(c *gin.Context)
}

type ExerciseHandler struct {
	DatabaseManager managers.DatabaseMgr
}

func NewExerciseHandler(databaseManager managers.DatabaseMgr) ExerciseHdl {
	return &ExerciseHandler{DatabaseManager: databaseManager}
}

// validPeriods are the time-of-day buckets of the reference exercise list.
var validPeriods = map[string]struct{}{
	"morning":   {},
	"afternoon": {},
	"evening":   {},
}

// ListExercises returns the static reference exercises, optionally filtered
// by period. The route is public, the list carries no user data.
func (handler *ExerciseHandler) ListExercises(c *gin.Context) {
	period := c.Query(utils.PeriodParamKey)
	if period != "" {
		if _, ok := validPeriods[period]; !ok {
			utils.WriteAndLogValidationError(c, []string{"period must be one of morning, afternoon, evening"})
			return
		}
	}

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer cancel()
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, err) }()

	filter := utils.NewQueryFilter().
		WhereIf(period != "", "period =", period)

	queryString := filter.Build("SELECT exercise_id, period, name, description, duration FROM exercises", "ORDER BY exercise_id")
	rows, err := tx.Query(transactionCtx, queryString, filter.Args()...)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	exercises := make([]schemas.Exercise, 0)
	for rows.Next() {
		exercise := schemas.Exercise{}
		if err = rows.Scan(&exercise.ExerciseId, &exercise.Period, &exercise.Name,
			&exercise.Description, &exercise.Duration); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		exercises = append(exercises, exercise)
	}
	if err = rows.Err(); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, exercises, http.StatusOK)
}

// LogExercises stores a completed exercise session as one structured row
// and records the write in the shared log history.
func (handler *ExerciseHandler) LogExercises(c *gin.Context) {
	user, ok := middleware.GetAuthenticatedUser(c)
	if !ok {
		utils.WriteAndLogError(c, schemas.AuthenticationRequired, http.StatusUnauthorized, errors.New("no authenticated user in context"))
		return
	}

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer cancel()
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, err) }()

	exerciseRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.CreateExerciseLogRequest)

	payload, err := json.Marshal(exerciseRequest.Exercises)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	exerciseLog := schemas.ExerciseLog{
		LogId:     uuid.New(),
		UserId:    user.UserId,
		Exercises: exerciseRequest.Exercises,
		LoggedAt:  time.Now(),
	}

	queryString := "INSERT INTO exercise_logs (log_id, user_id, exercises, logged_at) VALUES ($1, $2, $3::jsonb, $4)"
	if _, err = tx.Exec(transactionCtx, queryString, exerciseLog.LogId, exerciseLog.UserId,
		string(payload), exerciseLog.LoggedAt); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = insertLogHistory(transactionCtx, tx, user.UserId, "exercise", exerciseLog.LogId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, &exerciseLog, http.StatusCreated)
}

// GetExerciseHistory lists the authenticated user's exercise sessions,
// newest first, optionally bounded by start_date and end_date (inclusive).
func (handler *ExerciseHandler) GetExerciseHistory(c *gin.Context) {
	user, ok := middleware.GetAuthenticatedUser(c)
	if !ok {
		utils.WriteAndLogError(c, schemas.AuthenticationRequired, http.StatusUnauthorized, errors.New("no authenticated user in context"))
		return
	}

	startDate, endDate, ok := parseDateRange(c)
	if !ok {
		return
	}

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer cancel()
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, err) }()

	offset, limit := utils.ParsePaginationParams(c)
	filter := utils.NewQueryFilter().
		Where("user_id =", user.UserId).
		WhereIf(startDate != "", "logged_at::date >=", startDate).
		WhereIf(endDate != "", "logged_at::date <=", endDate).
		Paginate(limit, offset)

	queryString := filter.Build("SELECT log_id, user_id, exercises, logged_at FROM exercise_logs", "ORDER BY logged_at DESC")
	rows, err := tx.Query(transactionCtx, queryString, filter.Args()...)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	exerciseLogs := make([]schemas.ExerciseLog, 0)
	for rows.Next() {
		exerciseLog := schemas.ExerciseLog{}
		var payload []byte
		if err = rows.Scan(&exerciseLog.LogId, &exerciseLog.UserId, &payload, &exerciseLog.LoggedAt); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		if err = json.Unmarshal(payload, &exerciseLog.Exercises); err != nil {
			utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
			return
		}
		exerciseLogs = append(exerciseLogs, exerciseLog)
	}
	if err = rows.Err(); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx); err != nil {
		return
	}

	utils.WritePaginatedResponse(c, exerciseLogs, offset, limit, len(exerciseLogs))
}

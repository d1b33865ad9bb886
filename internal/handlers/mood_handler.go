package handlers

import (
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

type MoodHdl interface {
	CreateMoodLog(c *gin.Context)
	GetMoodLogs(c *gin.Context)
	GetMoodStats(c *gin.Context)
}

type MoodHandler struct {
	DatabaseManager managers.DatabaseMgr
}

func NewMoodHandler(databaseManager managers.DatabaseMgr) MoodHdl {
	return &MoodHandler{DatabaseManager: databaseManager}
}

// CreateMoodLog stores a mood entry for the authenticated user and records
// the write in the shared log history.
func (handler *MoodHandler) CreateMoodLog(c *gin.Context) {
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

	moodRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.CreateMoodLogRequest)

	moodLog := schemas.MoodLog{
		LogId:     uuid.New(),
		UserId:    user.UserId,
		MoodLevel: moodRequest.MoodLevel,
		MoodNote:  optional(moodRequest.MoodNote),
		LoggedAt:  time.Now(),
	}

	queryString := "INSERT INTO mood_logs (log_id, user_id, mood_level, mood_note, logged_at) VALUES ($1, $2, $3, $4, $5)"
	if _, err = tx.Exec(transactionCtx, queryString, moodLog.LogId, moodLog.UserId, moodLog.MoodLevel,
		moodLog.MoodNote, moodLog.LoggedAt); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = insertLogHistory(transactionCtx, tx, user.UserId, "mood", moodLog.LogId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, &moodLog, http.StatusCreated)
}

// GetMoodLogs lists the authenticated user's mood entries, newest first,
// optionally bounded by start_date and end_date (inclusive).
func (handler *MoodHandler) GetMoodLogs(c *gin.Context) {
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

	queryString := filter.Build("SELECT log_id, user_id, mood_level, mood_note, logged_at FROM mood_logs", "ORDER BY logged_at DESC")
	rows, err := tx.Query(transactionCtx, queryString, filter.Args()...)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	moodLogs := make([]schemas.MoodLog, 0)
	for rows.Next() {
		moodLog := schemas.MoodLog{}
		if err = rows.Scan(&moodLog.LogId, &moodLog.UserId, &moodLog.MoodLevel, &moodLog.MoodNote, &moodLog.LoggedAt); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		moodLogs = append(moodLogs, moodLog)
	}
	if err = rows.Err(); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx); err != nil {
		return
	}

	utils.WritePaginatedResponse(c, moodLogs, offset, limit, len(moodLogs))
}

// GetMoodStats aggregates the authenticated user's mood entries. The
// aggregates are NULL when the user has no entries yet.
func (handler *MoodHandler) GetMoodStats(c *gin.Context) {
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

	stats := schemas.MoodStatsDTO{}
	queryString := "SELECT COUNT(*), AVG(mood_level), MIN(mood_level), MAX(mood_level), " +
		"MODE() WITHIN GROUP (ORDER BY mood_level) FROM mood_logs WHERE user_id = $1"
	err = tx.QueryRow(transactionCtx, queryString, user.UserId).
		Scan(&stats.TotalEntries, &stats.AverageMood, &stats.MinMood, &stats.MaxMood, &stats.MostCommonMood)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, &stats, http.StatusOK)
}

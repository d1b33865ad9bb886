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

type ActivityHdl interface {
	CreateActivityLog(c *gin.Context)
	GetActivityLogs(c *gin.Context)
}

type ActivityHandler struct {
	DatabaseManager managers.DatabaseMgr
}

func NewActivityHandler(databaseManager managers.DatabaseMgr) ActivityHdl {
	return &ActivityHandler{DatabaseManager: databaseManager}
}

// CreateActivityLog stores an activity entry for the authenticated user and
// records the write in the shared log history.
func (handler *ActivityHandler) CreateActivityLog(c *gin.Context) {
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

	activityRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.CreateActivityLogRequest)

	activityLog := schemas.ActivityLog{
		LogId:        uuid.New(),
		UserId:       user.UserId,
		ActivityType: activityRequest.ActivityType,
		Description:  optional(activityRequest.Description),
		LoggedAt:     time.Now(),
	}

	queryString := "INSERT INTO activity_logs (log_id, user_id, activity_type, description, logged_at) VALUES ($1, $2, $3, $4, $5)"
	if _, err = tx.Exec(transactionCtx, queryString, activityLog.LogId, activityLog.UserId,
		activityLog.ActivityType, activityLog.Description, activityLog.LoggedAt); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = insertLogHistory(transactionCtx, tx, user.UserId, "activity", activityLog.LogId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, &activityLog, http.StatusCreated)
}

// GetActivityLogs lists the authenticated user's activity entries, newest
// first, optionally bounded by start_date and end_date (inclusive).
func (handler *ActivityHandler) GetActivityLogs(c *gin.Context) {
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

	queryString := filter.Build("SELECT log_id, user_id, activity_type, description, logged_at FROM activity_logs", "ORDER BY logged_at DESC")
	rows, err := tx.Query(transactionCtx, queryString, filter.Args()...)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	activityLogs := make([]schemas.ActivityLog, 0)
	for rows.Next() {
		activityLog := schemas.ActivityLog{}
		if err = rows.Scan(&activityLog.LogId, &activityLog.UserId, &activityLog.ActivityType,
			&activityLog.Description, &activityLog.LoggedAt); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		activityLogs = append(activityLogs, activityLog)
	}
	if err = rows.Err(); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx); err != nil {
		return
	}

	utils.WritePaginatedResponse(c, activityLogs, offset, limit, len(activityLogs))
}

package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"mindwell-server/internal/managers"
	"mindwell-server/internal/middleware"
	"mindwell-server/internal/schemas"
	"mindwell-server/internal/utils"
)

type ReminderHdl interface {
	CreateReminder(c *gin.Context)
	GetReminders(c *gin.Context)
	UpdateReminder(c *gin.Context)
	DeleteReminder(c *gin.Context)
}

type ReminderHandler struct {
	DatabaseManager managers.DatabaseMgr
}

func NewReminderHandler(databaseManager managers.DatabaseMgr) ReminderHdl {
	return &ReminderHandler{DatabaseManager: databaseManager}
}

// CreateReminder stores a reminder for the authenticated user. New
// reminders are active unless the request says otherwise.
func (handler *ReminderHandler) CreateReminder(c *gin.Context) {
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

	reminderRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.CreateReminderRequest)

	isActive := true
	if reminderRequest.IsActive != nil {
		isActive = *reminderRequest.IsActive
	}

	reminder := schemas.Reminder{
		ReminderId:   uuid.New(),
		UserId:       user.UserId,
		ReminderType: reminderRequest.ReminderType,
		ReminderText: reminderRequest.ReminderText,
		ReminderTime: normalizeTimeOfDay(reminderRequest.ReminderTime),
		IsActive:     isActive,
		CreatedAt:    time.Now(),
	}

	queryString := "INSERT INTO reminders (reminder_id, user_id, reminder_type, reminder_text, reminder_time, is_active, created_at) " +
		"VALUES ($1, $2, $3, $4, $5, $6, $7)"
	if _, err = tx.Exec(transactionCtx, queryString, reminder.ReminderId, reminder.UserId, reminder.ReminderType,
		reminder.ReminderText, reminder.ReminderTime, reminder.IsActive, reminder.CreatedAt); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, &reminder, http.StatusCreated)
}

// GetReminders lists all reminders of the authenticated user ordered by
// their time of day.
func (handler *ReminderHandler) GetReminders(c *gin.Context) {
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

	queryString := "SELECT reminder_id, user_id, reminder_type, reminder_text, reminder_time, is_active, created_at " +
		"FROM reminders WHERE user_id = $1 ORDER BY reminder_time"
	rows, err := tx.Query(transactionCtx, queryString, user.UserId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	reminders := make([]schemas.Reminder, 0)
	for rows.Next() {
		reminder := schemas.Reminder{}
		if err = rows.Scan(&reminder.ReminderId, &reminder.UserId, &reminder.ReminderType, &reminder.ReminderText,
			&reminder.ReminderTime, &reminder.IsActive, &reminder.CreatedAt); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		reminders = append(reminders, reminder)
	}
	if err = rows.Err(); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, reminders, http.StatusOK)
}

// UpdateReminder applies a partial update to one of the authenticated
// user's reminders. Absent fields are untouched, foreign reminders read
// as not found.
func (handler *ReminderHandler) UpdateReminder(c *gin.Context) {
	user, ok := middleware.GetAuthenticatedUser(c)
	if !ok {
		utils.WriteAndLogError(c, schemas.AuthenticationRequired, http.StatusUnauthorized, errors.New("no authenticated user in context"))
		return
	}

	reminderId := c.Param(utils.ReminderIdKey)
	if _, err := uuid.Parse(reminderId); err != nil {
		utils.WriteAndLogValidationError(c, []string{"reminder id must be a valid UUID"})
		return
	}

	updateRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.UpdateReminderRequest)

	updates := utils.NewUpdateSet().
		SetIf(updateRequest.ReminderText != nil, "reminder_text", updateRequest.ReminderText).
		SetIf(updateRequest.IsActive != nil, "is_active", updateRequest.IsActive)
	if updateRequest.ReminderTime != nil {
		updates.Set("reminder_time", normalizeTimeOfDay(*updateRequest.ReminderTime))
	}
	if updates.Empty() {
		utils.WriteAndLogValidationError(c, []string{"at least one updatable field is required"})
		return
	}

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer cancel()
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, err) }()

	filter := utils.NewQueryFilter().
		Where("reminder_id =", reminderId).
		Where("user_id =", user.UserId)
	queryString, args := updates.Build("reminders", filter,
		"reminder_id, user_id, reminder_type, reminder_text, reminder_time, is_active, created_at")

	reminder := schemas.Reminder{}
	err = tx.QueryRow(transactionCtx, queryString, args...).
		Scan(&reminder.ReminderId, &reminder.UserId, &reminder.ReminderType, &reminder.ReminderText,
			&reminder.ReminderTime, &reminder.IsActive, &reminder.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.ReminderNotFound, http.StatusNotFound, err)
		} else {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		}
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, &reminder, http.StatusOK)
}

// DeleteReminder removes one of the authenticated user's reminders.
func (handler *ReminderHandler) DeleteReminder(c *gin.Context) {
	user, ok := middleware.GetAuthenticatedUser(c)
	if !ok {
		utils.WriteAndLogError(c, schemas.AuthenticationRequired, http.StatusUnauthorized, errors.New("no authenticated user in context"))
		return
	}

	reminderId := c.Param(utils.ReminderIdKey)
	if _, err := uuid.Parse(reminderId); err != nil {
		utils.WriteAndLogValidationError(c, []string{"reminder id must be a valid UUID"})
		return
	}

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer cancel()
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, err) }()

	queryString := "DELETE FROM reminders WHERE reminder_id = $1 AND user_id = $2"
	commandTag, err := tx.Exec(transactionCtx, queryString, reminderId, user.UserId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	if commandTag.RowsAffected() == 0 {
		err = pgx.ErrNoRows
		utils.WriteAndLogError(c, schemas.ReminderNotFound, http.StatusNotFound, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, &schemas.MessageDTO{Message: "Reminder deleted"}, http.StatusOK)
}

// normalizeTimeOfDay left-pads single-digit hours so "9:05" and "09:05"
// compare equal in the dispatcher.
func normalizeTimeOfDay(value string) string {
	if len(value) == 4 {
		return "0" + value
	}
	return value
}

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"mindwell-server/internal/managers"
	"mindwell-server/internal/middleware"
	"mindwell-server/internal/schemas"
	"mindwell-server/internal/utils"
)

type QuizHdl interface {
	CreateQuizResult(c *gin.Context)
	GetQuizHistory(c *gin.Context)
	GetQuizStatistics(c *gin.Context)
	GetQuizProgress(c *gin.Context)
	UpdateQuizNotes(c *gin.Context)
}

type QuizHandler struct {
	DatabaseManager managers.DatabaseMgr
}

func NewQuizHandler(databaseManager managers.DatabaseMgr) QuizHdl {
	return &QuizHandler{DatabaseManager: databaseManager}
}

// maxScore is the highest reachable score per questionnaire.
var maxScore = map[string]int{
	"PHQ9": 27,
	"GAD7": 21,
}

// canonicalSeverity maps a score to its severity band. The bands follow the
// published scoring tables for both questionnaires.
func canonicalSeverity(quizType string, score int) string {
	switch {
	case score <= 4:
		return "minimal"
	case score <= 9:
		return "mild"
	case score <= 14:
		return "moderate"
	}

	if quizType == "GAD7" {
		return "severe"
	}
	if score <= 19 {
		return "moderately severe"
	}
	return "severe"
}

// CreateQuizResult stores a completed assessment. The score range is
// enforced per questionnaire. A severity label that disagrees with the
// canonical band for the score is accepted but logged, older clients
// compute the bands slightly differently.
func (handler *QuizHandler) CreateQuizResult(c *gin.Context) {
	user, ok := middleware.GetAuthenticatedUser(c)
	if !ok {
		utils.WriteAndLogError(c, schemas.AuthenticationRequired, http.StatusUnauthorized, errors.New("no authenticated user in context"))
		return
	}

	quizRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.CreateQuizResultRequest)

	score := *quizRequest.Score
	if score > maxScore[quizRequest.QuizType] {
		utils.WriteAndLogValidationError(c,
			[]string{fmt.Sprintf("score must be between 0 and %d for %s", maxScore[quizRequest.QuizType], quizRequest.QuizType)})
		return
	}

	severity := strings.ToLower(quizRequest.Severity)
	if expected := canonicalSeverity(quizRequest.QuizType, score); severity != expected {
		utils.LogMessageWithFields(c, "warn",
			fmt.Sprintf("Severity %q does not match band %q for %s score %d", severity, expected, quizRequest.QuizType, score))
	}

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer cancel()
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, err) }()

	answers, err := json.Marshal(quizRequest.Answers)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	result := schemas.QuizResult{
		ResultId:        uuid.New(),
		UserId:          user.UserId,
		QuizType:        quizRequest.QuizType,
		Score:           score,
		Severity:        severity,
		Answers:         quizRequest.Answers,
		Recommendations: optional(quizRequest.Recommendations),
		Notes:           optional(quizRequest.Notes),
		FollowUpDate:    optional(quizRequest.FollowUpDate),
		MoodRating:      quizRequest.MoodRating,
		StressLevel:     quizRequest.StressLevel,
		SleepHours:      quizRequest.SleepHours,
		CreatedAt:       time.Now(),
	}

	queryString := "INSERT INTO quiz_results (result_id, user_id, quiz_type, score, severity, answers, " +
		"recommendations, notes, follow_up_date, mood_rating, stress_level, sleep_hours, created_at) " +
		"VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8, $9, $10, $11, $12, $13)"
	if _, err = tx.Exec(transactionCtx, queryString, result.ResultId, result.UserId, result.QuizType,
		result.Score, result.Severity, string(answers), result.Recommendations, result.Notes,
		result.FollowUpDate, result.MoodRating, result.StressLevel, result.SleepHours, result.CreatedAt); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = insertLogHistory(transactionCtx, tx, user.UserId, "quiz", result.ResultId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, &result, http.StatusCreated)
}

// GetQuizHistory lists the authenticated user's stored assessments, newest
// first, optionally filtered by quiz type, severity band and date range.
func (handler *QuizHandler) GetQuizHistory(c *gin.Context) {
	user, ok := middleware.GetAuthenticatedUser(c)
	if !ok {
		utils.WriteAndLogError(c, schemas.AuthenticationRequired, http.StatusUnauthorized, errors.New("no authenticated user in context"))
		return
	}

	quizType := c.Query(utils.QuizTypeParamKey)
	if quizType != "" && quizType != "PHQ9" && quizType != "GAD7" {
		utils.WriteAndLogValidationError(c, []string{"quizType must be PHQ9 or GAD7"})
		return
	}
	severity := strings.ToLower(c.Query(utils.SeverityParamKey))

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
		WhereIf(quizType != "", "quiz_type =", quizType).
		WhereIf(severity != "", "severity =", severity).
		WhereIf(startDate != "", "created_at::date >=", startDate).
		WhereIf(endDate != "", "created_at::date <=", endDate).
		Paginate(limit, offset)

	queryString := filter.Build("SELECT result_id, user_id, quiz_type, score, severity, answers, "+
		"recommendations, notes, follow_up_date::text, mood_rating, stress_level, sleep_hours, created_at "+
		"FROM quiz_results", "ORDER BY created_at DESC")
	rows, err := tx.Query(transactionCtx, queryString, filter.Args()...)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	results := make([]schemas.QuizResult, 0)
	for rows.Next() {
		result := schemas.QuizResult{}
		var answers []byte
		if err = rows.Scan(&result.ResultId, &result.UserId, &result.QuizType, &result.Score, &result.Severity,
			&answers, &result.Recommendations, &result.Notes, &result.FollowUpDate, &result.MoodRating,
			&result.StressLevel, &result.SleepHours, &result.CreatedAt); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		if err = json.Unmarshal(answers, &result.Answers); err != nil {
			utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
			return
		}
		results = append(results, result)
	}
	if err = rows.Err(); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx); err != nil {
		return
	}

	utils.WritePaginatedResponse(c, results, offset, limit, len(results))
}

// timeframeCutoff maps the statistics window parameter to the earliest
// included timestamp. A nil cutoff means all time.
func timeframeCutoff(timeframe string) (*time.Time, bool) {
	now := time.Now()
	switch timeframe {
	case "":
		return nil, true
	case "week":
		cutoff := now.AddDate(0, 0, -7)
		return &cutoff, true
	case "month":
		cutoff := now.AddDate(0, -1, 0)
		return &cutoff, true
	case "year":
		cutoff := now.AddDate(-1, 0, 0)
		return &cutoff, true
	}
	return nil, false
}

// GetQuizStatistics aggregates the authenticated user's assessments per
// quiz type, optionally limited to the last week, month or year.
func (handler *QuizHandler) GetQuizStatistics(c *gin.Context) {
	user, ok := middleware.GetAuthenticatedUser(c)
	if !ok {
		utils.WriteAndLogError(c, schemas.AuthenticationRequired, http.StatusUnauthorized, errors.New("no authenticated user in context"))
		return
	}

	cutoff, ok := timeframeCutoff(c.Query(utils.TimeframeParamKey))
	if !ok {
		utils.WriteAndLogValidationError(c, []string{"timeframe must be one of week, month, year"})
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
		Where("user_id =", user.UserId)
	if cutoff != nil {
		filter.Where("created_at >=", *cutoff)
	}

	queryString := filter.Build("SELECT quiz_type, COUNT(*), AVG(score), MIN(score), MAX(score), "+
		"MODE() WITHIN GROUP (ORDER BY severity), AVG(mood_rating), AVG(stress_level), AVG(sleep_hours) "+
		"FROM quiz_results", "GROUP BY quiz_type ORDER BY quiz_type")
	rows, err := tx.Query(transactionCtx, queryString, filter.Args()...)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	statistics := make([]schemas.QuizStatisticsDTO, 0)
	for rows.Next() {
		stats := schemas.QuizStatisticsDTO{}
		if err = rows.Scan(&stats.QuizType, &stats.TotalAssessments, &stats.AverageScore, &stats.MinScore,
			&stats.MaxScore, &stats.MostCommonSeverity, &stats.AverageMood, &stats.AverageStress,
			&stats.AverageSleep); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		statistics = append(statistics, stats)
	}
	if err = rows.Err(); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, statistics, http.StatusOK)
}

// GetQuizProgress returns monthly score averages over the last year,
// optionally limited to one quiz type. Months without assessments are
// absent from the result.
func (handler *QuizHandler) GetQuizProgress(c *gin.Context) {
	user, ok := middleware.GetAuthenticatedUser(c)
	if !ok {
		utils.WriteAndLogError(c, schemas.AuthenticationRequired, http.StatusUnauthorized, errors.New("no authenticated user in context"))
		return
	}

	quizType := c.Query(utils.QuizTypeParamKey)
	if quizType != "" && quizType != "PHQ9" && quizType != "GAD7" {
		utils.WriteAndLogValidationError(c, []string{"quizType must be PHQ9 or GAD7"})
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
		Where("user_id =", user.UserId).
		Where("created_at >=", time.Now().AddDate(-1, 0, 0)).
		WhereIf(quizType != "", "quiz_type =", quizType)

	queryString := filter.Build("SELECT TO_CHAR(DATE_TRUNC('month', created_at), 'YYYY-MM'), AVG(score), "+
		"AVG(mood_rating), AVG(stress_level), AVG(sleep_hours) FROM quiz_results",
		"GROUP BY 1 ORDER BY 1")
	rows, err := tx.Query(transactionCtx, queryString, filter.Args()...)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	progress := make([]schemas.QuizProgressDTO, 0)
	for rows.Next() {
		bucket := schemas.QuizProgressDTO{}
		if err = rows.Scan(&bucket.Month, &bucket.AverageScore, &bucket.AverageMood,
			&bucket.AverageStress, &bucket.AverageSleep); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		progress = append(progress, bucket)
	}
	if err = rows.Err(); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, progress, http.StatusOK)
}

// UpdateQuizNotes replaces the notes on a stored result. Only the owner
// can update a result, foreign results read as not found.
func (handler *QuizHandler) UpdateQuizNotes(c *gin.Context) {
	user, ok := middleware.GetAuthenticatedUser(c)
	if !ok {
		utils.WriteAndLogError(c, schemas.AuthenticationRequired, http.StatusUnauthorized, errors.New("no authenticated user in context"))
		return
	}

	resultId := c.Param(utils.ResultIdKey)
	if _, err := uuid.Parse(resultId); err != nil {
		utils.WriteAndLogValidationError(c, []string{"result id must be a valid UUID"})
		return
	}

	tx, transactionCtx, cancel := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer cancel()
	defer func() { utils.RollbackTransaction(c, tx, transactionCtx, err) }()

	notesRequest := c.MustGet(utils.SanitizedPayloadKey.String()).(*schemas.UpdateQuizNotesRequest)

	var returnedId uuid.UUID
	queryString := "UPDATE quiz_results SET notes = $1 WHERE result_id = $2 AND user_id = $3 RETURNING result_id"
	err = tx.QueryRow(transactionCtx, queryString, notesRequest.Notes, resultId, user.UserId).Scan(&returnedId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.QuizResultNotFound, http.StatusNotFound, err)
		} else {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		}
		return
	}

	if err = utils.CommitTransaction(c, tx, transactionCtx); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, &schemas.MessageDTO{Message: "Notes updated"}, http.StatusOK)
}

package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"mindwell-server/internal/utils"
)

// parseDateRange reads the optional start_date and end_date query parameters.
// A malformed date aborts the request with the validation envelope.
func parseDateRange(c *gin.Context) (string, string, bool) {
	startDate := c.Query(utils.StartDateParamKey)
	endDate := c.Query(utils.EndDateParamKey)

	for _, date := range []string{startDate, endDate} {
		if date == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", date); err != nil {
			utils.WriteAndLogValidationError(c, []string{"date parameters must use the YYYY-MM-DD format"})
			return "", "", false
		}
	}

	return startDate, endDate, true
}

// insertLogHistory records a tracking write in the shared history table so
// the activity feed can show all log types in one stream.
func insertLogHistory(ctx context.Context, tx pgx.Tx, userId uuid.UUID, logType string, referenceId uuid.UUID) error {
	queryString := "INSERT INTO log_history (history_id, user_id, log_type, reference_id, created_at) VALUES ($1, $2, $3, $4, $5)"
	_, err := tx.Exec(ctx, queryString, uuid.New(), userId, logType, referenceId, time.Now())
	return err
}

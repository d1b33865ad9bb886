package utils

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"mindwell-server/internal/interfaces"
	"mindwell-server/internal/schemas"
)

// dbTimeout bounds every transaction against a slow or unreachable database.
const dbTimeout = 10 * time.Second

// BeginTransaction opens a transaction with a deadline derived from the
// request context. The returned context must be passed to every statement
// inside the transaction and the cancel function must be called when the
// transaction ends.
func BeginTransaction(c *gin.Context, pool interfaces.PgxPoolIface) (pgx.Tx, context.Context, context.CancelFunc) {
	ctx, cancel := context.WithDeadline(c.Request.Context(), time.Now().Add(dbTimeout))

	tx, err := pool.Begin(ctx)
	if err != nil {
		WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		cancel()
		return nil, nil, nil
	}

	return tx, ctx, cancel
}

// RollbackTransaction rolls the transaction back unless it was already
// committed. Meant to run deferred, with err read at call time.
func RollbackTransaction(c *gin.Context, tx pgx.Tx, ctx context.Context, err error) {
	if err == nil {
		return
	}

	if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
		LogMessageWithFields(c, "error", "Error rolling back transaction: "+rollbackErr.Error())
	}
}

// CommitTransaction commits the transaction and reports the database error to
// the client on failure.
func CommitTransaction(c *gin.Context, tx pgx.Tx, ctx context.Context) error {
	if err := tx.Commit(ctx); err != nil {
		WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return err
	}

	return nil
}

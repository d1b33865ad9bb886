// Package scheduler delivers due reminders to connected clients. It runs
// in-process, one query per minute, no external broker involved.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mindwell-server/internal/managers"
	"mindwell-server/internal/schemas"
	"mindwell-server/internal/utils"
)

const queryTimeout = 10 * time.Second

// Notifier pushes a reminder event to a user's open connections.
type Notifier interface {
	SendToUser(userId uuid.UUID, eventType string, data interface{})
}

// Dispatcher wakes up once per minute and pushes every active reminder
// whose time of day matches the current minute.
type Dispatcher struct {
	databaseMgr managers.DatabaseMgr
	notifier    Notifier
	now         func() time.Time
}

func NewDispatcher(databaseMgr managers.DatabaseMgr, notifier Notifier) *Dispatcher {
	return &Dispatcher{
		databaseMgr: databaseMgr,
		notifier:    notifier,
		now:         time.Now,
	}
}

// Run blocks until the context is cancelled. Each minute is dispatched at
// most once even if ticks drift.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	lastMinute := ""
	for {
		select {
		case <-ctx.Done():
			utils.LogMessage("info", "Reminder dispatcher stopped")
			return
		case <-ticker.C:
			minute := d.now().Format("15:04")
			if minute == lastMinute {
				continue
			}
			lastMinute = minute

			if err := d.DispatchDue(ctx, minute); err != nil {
				utils.LogMessage("error", "Reminder dispatch failed: "+err.Error())
			}
		}
	}
}

// DispatchDue pushes every active reminder scheduled for the given minute.
func (d *Dispatcher) DispatchDue(ctx context.Context, minute string) error {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	queryString := "SELECT reminder_id, user_id, reminder_type, reminder_text, reminder_time, is_active, created_at " +
		"FROM reminders WHERE is_active = TRUE AND reminder_time = $1"
	rows, err := d.databaseMgr.GetPool().Query(queryCtx, queryString, minute)
	if err != nil {
		return fmt.Errorf("querying due reminders: %w", err)
	}
	defer rows.Close()

	dispatched := 0
	for rows.Next() {
		reminder := schemas.Reminder{}
		if err = rows.Scan(&reminder.ReminderId, &reminder.UserId, &reminder.ReminderType, &reminder.ReminderText,
			&reminder.ReminderTime, &reminder.IsActive, &reminder.CreatedAt); err != nil {
			return fmt.Errorf("scanning reminder: %w", err)
		}

		d.notifier.SendToUser(reminder.UserId, "reminder", &reminder)
		dispatched++
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("reading due reminders: %w", err)
	}

	if dispatched > 0 {
		utils.LogMessage("info", fmt.Sprintf("Dispatched %d reminders for %s", dispatched, minute))
	}

	return nil
}

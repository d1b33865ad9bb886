package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindwell-server/internal/managers/mocks"
)

type recordedEvent struct {
	userId    uuid.UUID
	eventType string
	data      interface{}
}

type fakeNotifier struct {
	events []recordedEvent
}

func (f *fakeNotifier) SendToUser(userId uuid.UUID, eventType string, data interface{}) {
	f.events = append(f.events, recordedEvent{userId: userId, eventType: eventType, data: data})
}

func setupDispatcher(t *testing.T) (*Dispatcher, pgxmock.PgxPoolIface, *fakeNotifier) {
	t.Helper()

	poolMock, err := pgxmock.NewPool()
	require.NoError(t, err)

	databaseMgrMock := &mocks.MockDatabaseManager{}
	databaseMgrMock.On("GetPool").Return(poolMock)

	notifier := &fakeNotifier{}
	return NewDispatcher(databaseMgrMock, notifier), poolMock, notifier
}

func TestDispatchDuePushesActiveReminders(t *testing.T) {
	dispatcher, poolMock, notifier := setupDispatcher(t)

	firstUser := uuid.New()
	secondUser := uuid.New()
	now := time.Now()

	poolMock.ExpectQuery("SELECT reminder_id, user_id").
		WithArgs("08:30").
		WillReturnRows(pgxmock.NewRows([]string{"reminder_id", "user_id", "reminder_type", "reminder_text", "reminder_time", "is_active", "created_at"}).
			AddRow(uuid.New().String(), firstUser.String(), "mood", "log your mood", "08:30", true, now).
			AddRow(uuid.New().String(), secondUser.String(), "exercise", "morning stretches", "08:30", true, now))

	require.NoError(t, dispatcher.DispatchDue(context.Background(), "08:30"))

	require.Len(t, notifier.events, 2)
	assert.Equal(t, firstUser, notifier.events[0].userId)
	assert.Equal(t, "reminder", notifier.events[0].eventType)
	assert.Equal(t, secondUser, notifier.events[1].userId)

	require.NoError(t, poolMock.ExpectationsWereMet())
}

func TestDispatchDueNoMatches(t *testing.T) {
	dispatcher, poolMock, notifier := setupDispatcher(t)

	poolMock.ExpectQuery("SELECT reminder_id, user_id").
		WithArgs("03:15").
		WillReturnRows(pgxmock.NewRows([]string{"reminder_id", "user_id", "reminder_type", "reminder_text", "reminder_time", "is_active", "created_at"}))

	require.NoError(t, dispatcher.DispatchDue(context.Background(), "03:15"))

	assert.Empty(t, notifier.events)
	require.NoError(t, poolMock.ExpectationsWereMet())
}

func TestDispatchDueQueryError(t *testing.T) {
	dispatcher, poolMock, notifier := setupDispatcher(t)

	poolMock.ExpectQuery("SELECT reminder_id, user_id").
		WithArgs("12:00").
		WillReturnError(assert.AnError)

	err := dispatcher.DispatchDue(context.Background(), "12:00")
	assert.Error(t, err)
	assert.Empty(t, notifier.events)
}

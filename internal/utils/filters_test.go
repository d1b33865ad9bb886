package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryFilterBuild(t *testing.T) {
	filter := NewQueryFilter().
		Where("user_id =", "u1").
		WhereIf(true, "logged_at::date >=", "2024-01-01").
		WhereIf(false, "logged_at::date <=", "2024-12-31").
		Paginate(10, 20)

	query := filter.Build("SELECT * FROM mood_logs", "ORDER BY logged_at DESC")

	assert.Equal(t,
		"SELECT * FROM mood_logs WHERE user_id = $1 AND logged_at::date >= $2 ORDER BY logged_at DESC LIMIT $3 OFFSET $4",
		query)
	assert.Equal(t, []interface{}{"u1", "2024-01-01", 10, 20}, filter.Args())
}

func TestQueryFilterNoConditions(t *testing.T) {
	filter := NewQueryFilter()

	query := filter.Build("SELECT * FROM exercises", "ORDER BY exercise_id")

	assert.Equal(t, "SELECT * FROM exercises ORDER BY exercise_id", query)
	assert.Empty(t, filter.Args())
}

func TestQueryFilterOnlyPagination(t *testing.T) {
	filter := NewQueryFilter().Paginate(50, 0)

	query := filter.Build("SELECT * FROM community_chats", "ORDER BY created_at DESC")

	assert.Equal(t, "SELECT * FROM community_chats ORDER BY created_at DESC LIMIT $1 OFFSET $2", query)
	assert.Equal(t, []interface{}{50, 0}, filter.Args())
}

func TestUpdateSetBuild(t *testing.T) {
	text := "drink water"
	active := false

	updates := NewUpdateSet().
		SetIf(true, "reminder_text", &text).
		SetIf(false, "reminder_time", nil).
		SetIf(true, "is_active", &active)

	filter := NewQueryFilter().
		Where("reminder_id =", "r1").
		Where("user_id =", "u1")

	query, args := updates.Build("reminders", filter, "reminder_id")

	assert.Equal(t,
		"UPDATE reminders SET reminder_text = $1, is_active = $2 WHERE reminder_id = $3 AND user_id = $4 RETURNING reminder_id",
		query)
	assert.Equal(t, []interface{}{&text, &active, "r1", "u1"}, args)
}

func TestUpdateSetEmpty(t *testing.T) {
	updates := NewUpdateSet().
		SetIf(false, "reminder_text", nil)

	assert.True(t, updates.Empty())
}

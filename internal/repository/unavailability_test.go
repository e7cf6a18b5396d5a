package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAllUnavailability(t *testing.T) {
	repo, mock := newTestRepository(t)

	createdAt := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	// 数据库返回的是 DATE 类型，转成字符串后不携带时刻
	mock.ExpectQuery("SELECT id, assignee_id, date, created_at FROM unavailability").
		WillReturnRows(sqlmock.NewRows([]string{"id", "assignee_id", "date", "created_at"}).
			AddRow(int64(1), int64(3), time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC), createdAt).
			AddRow(int64(2), int64(3), time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC), createdAt))

	records, err := repo.GetAllUnavailability()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2026-09-11", records[0].Date)
	assert.Equal(t, "2026-09-12", records[1].Date)
	assert.Equal(t, int64(3), records[0].AssigneeID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUnavailabilityByAssigneeID(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery("FROM unavailability WHERE assignee_id = \\$1").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "assignee_id", "date", "created_at"}))

	records, err := repo.GetUnavailabilityByAssigneeID(3)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cloudstore-app/cloudstore-service/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newFileRepoWithMock(t *testing.T) (*FileRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewFileRepository(gormDB), mock, db
}

func TestFileDeleteNotFound(t *testing.T) {
	repo, mock, db := newFileRepoWithMock(t)
	defer db.Close()

	fileID := uuid.New()
	userID := uuid.New()
	mock.ExpectExec(`DELETE FROM "files" WHERE id = \$1 AND user_id = \$2`).
		WithArgs(fileID, userID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), fileID, userID)
	assert.True(t, errors.Is(err, entity.ErrNotFound))
}

func TestSummaryByTypeAggregates(t *testing.T) {
	repo, mock, db := newFileRepoWithMock(t)
	defer db.Close()

	userID := uuid.New()
	rows := sqlmock.NewRows([]string{"type", "count", "total_size"}).
		AddRow("image", int64(12), int64(4096)).
		AddRow("document", int64(3), int64(900))

	mock.ExpectQuery(`SELECT file_type AS type, COUNT\(\*\) AS count, COALESCE\(SUM\(file_size\), 0\) AS total_size FROM "files" WHERE user_id = \$1 GROUP BY "file_type"`).
		WithArgs(userID).
		WillReturnRows(rows)

	summary, err := repo.SummaryByType(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, entity.FileTypeImage, summary[0].Type)
	assert.Equal(t, int64(12), summary[0].Count)
	assert.Equal(t, int64(4096), summary[0].TotalSize)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByPathNotFound(t *testing.T) {
	repo, mock, db := newFileRepoWithMock(t)
	defer db.Close()

	userID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "files" WHERE user_id = \$1 AND file_path = \$2`).
		WithArgs(userID, "nope", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByPath(context.Background(), userID, "nope")
	assert.True(t, errors.Is(err, entity.ErrNotFound))
}

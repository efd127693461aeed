package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/j-bridge/volunteerhub.com/internal/models"
)

func newPostgresMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestApplicationRepository_Postgres_UniqueViolation(t *testing.T) {
	db, mock := newPostgresMock(t)
	repo := NewApplicationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "applications"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := repo.Create(context.Background(), &models.Application{UserID: 1, OpportunityID: 2, Status: models.ApplicationSubmitted})
	assert.ErrorIs(t, err, ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository_Postgres_Create(t *testing.T) {
	db, mock := newPostgresMock(t)
	repo := NewApplicationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "applications"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	app := &models.Application{UserID: 1, OpportunityID: 2, Status: models.ApplicationSubmitted}
	require.NoError(t, repo.Create(context.Background(), app))
	assert.EqualValues(t, 11, app.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepository_Postgres_TransitionGuardedByStatus(t *testing.T) {
	db, mock := newPostgresMock(t)
	repo := NewApplicationRepository(db)

	mock.ExpectExec(`UPDATE "applications" SET "status"=\$1,"updated_at"=\$2 WHERE .*id = \$3 AND status = \$4`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.TransitionStatus(context.Background(), 5, models.ApplicationSubmitted, models.ApplicationWithdrawn)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Postgres_FindByEmailNotFound(t *testing.T) {
	db, mock := newPostgresMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))

	_, err := repo.FindByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

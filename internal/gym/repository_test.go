package gym

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupGymMock(t *testing.T) (Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestCreateGym(t *testing.T) {
	repo, mock := setupGymMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO gyms (name, location)`)).
		WithArgs("Iron Temple", "Downtown").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "location", "created_at"}).
			AddRow(1, "Iron Temple", "Downtown", time.Now()))

	g, err := repo.CreateGym(context.Background(), "Iron Temple", "Downtown")
	require.NoError(t, err)
	require.Equal(t, 1, g.ID)
	require.Equal(t, "Iron Temple", g.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetGymByID(t *testing.T) {
	repo, mock := setupGymMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM gyms WHERE id = $1`)).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "location", "created_at"}).
			AddRow(2, "Southside Gym", "South", time.Now()))

	g, err := repo.GetGymByID(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, "Southside Gym", g.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllGyms(t *testing.T) {
	repo, mock := setupGymMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM gyms ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "location", "created_at"}).
			AddRow(1, "A", "", time.Now()).
			AddRow(2, "B", "", time.Now()))

	gyms, err := repo.GetAllGyms(context.Background())
	require.NoError(t, err)
	require.Len(t, gyms, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

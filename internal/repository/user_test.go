package repository_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/chanotai/library-lending/internal/errs"
	"github.com/chanotai/library-lending/internal/model"
)

const insertUserQuery = `INSERT INTO users (id,username,password,role) VALUES ($1,$2,$3,$4) returning id, username, password, role, created_at, updated_at`

func TestRepository_CreateUser(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(insertUserQuery)).
			WithArgs(sqlmock.AnyArg(), "alice", "hashed", model.RoleMember).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "role"}).
				AddRow(userID, "alice", "hashed", "member"))

		user, err := repo.CreateUser(context.Background(), "alice", "hashed", model.RoleMember)
		require.NoError(t, err)
		require.Equal(t, userID, user.ID)
		require.Equal(t, model.RoleMember, user.Role)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("err. username taken", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(insertUserQuery)).
			WithArgs(sqlmock.AnyArg(), "alice", "hashed", model.RoleMember).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

		_, err := repo.CreateUser(context.Background(), "alice", "hashed", model.RoleMember)
		require.ErrorIs(t, err, errs.ErrUsernameTaken)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_ListMembers(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, role, created_at, updated_at FROM users WHERE role = $1 ORDER BY created_at desc`)).
		WithArgs(model.RoleMember).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "role"}).
			AddRow(userID, "alice", "member"))

	members, err := repo.ListMembers(context.Background())
	require.NoError(t, err)
	require.Len(t, members, 1)
	// the hash never leaves storage
	require.Empty(t, members[0].Password)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetUserByID(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, password, role, created_at, updated_at FROM users WHERE id = $1`)).
		WithArgs(userID).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetUserByID(context.Background(), userID)
	require.ErrorIs(t, err, errs.ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteUser(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMockRepo(t)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
			WithArgs(userID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.DeleteUser(context.Background(), userID))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("err. unknown user", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMockRepo(t)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
			WithArgs(userID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.ErrorIs(t, repo.DeleteUser(context.Background(), userID), errs.ErrUserNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

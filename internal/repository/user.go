package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/chanotai/library-lending/internal/errs"
	"github.com/chanotai/library-lending/internal/model"
)

const (
	userColumns = "id, username, password, role, created_at, updated_at"

	// listings never carry the password hash
	memberColumns = "id, username, role, created_at, updated_at"
)

func (r *repository) CreateUser(ctx context.Context, username, passwordHash string, role model.Role) (model.User, error) {
	q, args, err := qb.Insert(usersTableName).
		Columns("id", "username", "password", "role").
		Values(uuid.New(), username, passwordHash, role).
		Suffix("returning " + userColumns).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	if err := r.db.GetContext(ctx, &user, q, args...); err != nil {
		if isUniqueViolation(err) {
			return model.User{}, errs.ErrUsernameTaken
		}
		r.log.Error("CreateUser", zap.String("q", q), zap.Error(err))
		return model.User{}, err
	}
	return user, nil
}

func (r *repository) GetUserByID(ctx context.Context, id string) (model.User, error) {
	q, args, err := qb.Select(userColumns).
		From(usersTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	if err := r.db.GetContext(ctx, &user, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrUserNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *repository) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	q, args, err := qb.Select(userColumns).
		From(usersTableName).
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	if err := r.db.GetContext(ctx, &user, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrUserNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *repository) ListMembers(ctx context.Context) ([]model.User, error) {
	q, args, err := qb.Select(memberColumns).
		From(usersTableName).
		Where(sq.Eq{"role": model.RoleMember}).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, err
	}

	users := make([]model.User, 0)
	if err := r.db.SelectContext(ctx, &users, q, args...); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repository) DeleteUser(ctx context.Context, id string) error {
	q, args, err := qb.Delete(usersTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrUserNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

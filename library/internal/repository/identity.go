package repository

import (
	"context"

	"github.com/Astemirdum/library-issue-service/library/internal/errs"
	"github.com/Astemirdum/library-issue-service/library/internal/model"
	"github.com/Astemirdum/library-issue-service/pkg/auth"
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var userColumns = []string{"id", "name", "email", "branch", "role", "password_hash", "created_at"}

const userReturning = "returning id, name, email, branch, role, password_hash, created_at"

func (r *repository) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	query, args, err := qb.Insert(usersTableName).
		Columns(userColumns...).
		Values(user.ID, user.Name, user.Email, user.Branch, user.Role, user.PasswordHash, user.CreatedAt).
		Suffix(userReturning).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	return collectOne[model.User](ctx, r.db, "user", query, args...)
}

func (r *repository) getUserWhere(ctx context.Context, pred sq.Sqlizer) (model.User, error) {
	query, args, err := qb.Select(userColumns...).
		From(usersTableName).
		Where(pred).
		OrderBy("created_at").
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	return collectOne[model.User](ctx, r.db, "user", query, args...)
}

func (r *repository) GetUser(ctx context.Context, id uuid.UUID) (model.User, error) {
	return r.getUserWhere(ctx, sq.Eq{"id": id})
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getUserWhere(ctx, sq.Eq{"email": email})
}

func (r *repository) FirstUserWithRole(ctx context.Context, role auth.Role) (model.User, error) {
	return r.getUserWhere(ctx, sq.Eq{"role": role})
}

func (r *repository) ListUsers(ctx context.Context, role auth.Role) ([]model.User, error) {
	query, args, err := qb.Select(userColumns...).
		From(usersTableName).
		Where(sq.Eq{"role": role}).
		OrderBy("name", "id").
		ToSql()
	if err != nil {
		return nil, err
	}
	return collectAll[model.User](ctx, r.db, "user", query, args...)
}

func (r *repository) UpdateUser(ctx context.Context, user model.User) (model.User, error) {
	query, args, err := qb.Update(usersTableName).
		SetMap(map[string]any{
			"name":          user.Name,
			"email":         user.Email,
			"branch":        user.Branch,
			"password_hash": user.PasswordHash,
		}).
		Where(sq.Eq{"id": user.ID}).
		Suffix(userReturning).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	return collectOne[model.User](ctx, r.db, "user", query, args...)
}

func (r *repository) DeleteUser(ctx context.Context, id uuid.UUID, role auth.Role) error {
	query, args, err := qb.Delete(usersTableName).
		Where(sq.Eq{"id": id, "role": role}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return translate(err, "user")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrap(errs.ErrNotFound, "user")
	}
	return nil
}

func (r *repository) CountUsers(ctx context.Context, role auth.Role) (int64, error) {
	return count(ctx, r.db, qb.Select("count(*)").From(usersTableName).Where(sq.Eq{"role": role}))
}

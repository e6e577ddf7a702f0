package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/luct/core"
	"github.com/trezcool/luct/core/user"
)

const userColumns = `id, name, email, password, role, faculty, created_at, updated_at`

type userRepository struct {
	db sqlx.ExtContext
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db sqlx.ExtContext) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	q := `INSERT INTO users (name, email, password, role, faculty, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := sqlx.GetContext(ctx, repo.db, &usr.ID, q,
		usr.Name, usr.Email, string(usr.PasswordHash), usr.Role, usr.Faculty, usr.CreatedAt, usr.UpdatedAt)
	if err != nil {
		if code, _ := pqErrorCode(err); code == codeUniqueViolation {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id int) (user.User, error) {
	var usr user.User
	err := sqlx.GetContext(ctx, repo.db, &usr, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "selecting user by id")
	}
	return usr, nil
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var usr user.User
	err := sqlx.GetContext(ctx, repo.db, &usr, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	if err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "selecting user by email")
	}
	return usr, nil
}

func (repo *userRepository) QueryUsers(ctx context.Context, ordering []core.DBOrdering) ([]user.User, error) {
	q := `SELECT ` + userColumns + ` FROM users ORDER BY ` +
		core.OrderBy(ordering, user.SortColumns, user.DefaultOrdering...) + `, id`

	var users []user.User
	if err := sqlx.SelectContext(ctx, repo.db, &users, q); err != nil {
		return nil, errors.Wrap(err, "selecting users")
	}
	return users, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	q := `UPDATE users SET name = $2, email = $3, password = $4, role = $5, faculty = $6, updated_at = $7
		WHERE id = $1
		RETURNING created_at`
	err := sqlx.GetContext(ctx, repo.db, &usr.CreatedAt, q,
		usr.ID, usr.Name, usr.Email, string(usr.PasswordHash), usr.Role, usr.Faculty, usr.UpdatedAt)
	if err != nil {
		if code, _ := pqErrorCode(err); code == codeUniqueViolation {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "updating user")
	}
	return usr, nil
}

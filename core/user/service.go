package user

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/luct/core"
)

var (
	// errors
	ErrNotFound           = core.NewNotFoundError("User")
	ErrEmailExists        = errors.New("User already exists with this email")
	ErrInvalidCredentials = errors.New("Invalid email or password. Please check your credentials.")
)

type (
	// Repository is the Identity Store.
	Repository interface {
		// CreateUser fails with ErrEmailExists when the email is taken.
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id int) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		QueryUsers(ctx context.Context, ordering []core.DBOrdering) ([]User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
	}

	Service interface {
		Register(ctx context.Context, nu NewUser) (User, error)
		Authenticate(ctx context.Context, creds Credentials) (User, error)
		GetByID(ctx context.Context, id int) (User, error)
		GetByEmail(ctx context.Context, email string) (User, error)
		QueryAll(ctx context.Context, ordering []core.DBOrdering) ([]User, error)
		SetPassword(ctx context.Context, email, pwd string) (User, error)
	}

	service struct {
		repo     Repository
		validate *validator.Validate
		conf     *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, validate *validator.Validate, conf *core.Config) Service {
	return &service{repo: repo, validate: validate, conf: conf}
}

func (svc *service) Register(ctx context.Context, nu NewUser) (User, error) {
	if err := nu.Validate(svc.validate); err != nil {
		return User{}, err
	}

	faculty := nu.Faculty
	if faculty == "" {
		faculty = svc.conf.DefaultFaculty
	}
	now := time.Now().UTC()
	usr := User{
		Name:      nu.Name,
		Email:     nu.Email,
		Role:      nu.Role,
		Faculty:   faculty,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}

	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		if err == ErrEmailExists {
			return User{}, core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return User{}, err
	}
	return usr, nil
}

// Authenticate returns ErrInvalidCredentials on unknown email or wrong password.
func (svc *service) Authenticate(ctx context.Context, creds Credentials) (User, error) {
	if err := creds.Validate(svc.validate); err != nil {
		return User{}, err
	}
	usr, err := svc.repo.GetUserByEmail(ctx, creds.Email)
	if err != nil {
		if core.IsNotFound(err) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err = usr.CheckPassword(creds.Password); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return usr, nil
}

func (svc *service) GetByID(ctx context.Context, id int) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *service) QueryAll(ctx context.Context, ordering []core.DBOrdering) ([]User, error) {
	return svc.repo.QueryUsers(ctx, ordering)
}

// SetPassword resets the password of the User with the given email, bypassing the password policy.
func (svc *service) SetPassword(ctx context.Context, email, pwd string) (User, error) {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	if err = usr.SetPassword(pwd); err != nil {
		return User{}, err
	}
	usr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

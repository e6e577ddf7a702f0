package catalog

import (
	"context"
	"errors"

	"github.com/trezcool/luct/core"
)

var (
	ErrCourseNotFound = core.NewNotFoundError("Course")
	ErrClassNotFound  = core.NewNotFoundError("Class")
	ErrCourseExists   = errors.New("a course with this code already exists")
)

type (
	// Repository is the Catalog Store.
	Repository interface {
		// CreateCourse fails with ErrCourseExists when the course code is taken.
		CreateCourse(ctx context.Context, course Course) (Course, error)
		CreateClass(ctx context.Context, class Class) (Class, error)
		// QueryCourses lists courses by course_code, joined with their program leader name.
		QueryCourses(ctx context.Context) ([]Course, error)
		// QueryClasses lists classes by class_name, joined with their lecturer and course.
		QueryClasses(ctx context.Context, filter ClassFilter) ([]Class, error)
		GetCourseByID(ctx context.Context, id int) (Course, error)
		GetClassByID(ctx context.Context, id int) (Class, error)
	}

	Service interface {
		QueryCourses(ctx context.Context) ([]Course, error)
		QueryClasses(ctx context.Context, filter ClassFilter) ([]Class, error)
		GetClass(ctx context.Context, id int) (Class, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) QueryCourses(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryCourses(ctx)
}

func (svc *service) QueryClasses(ctx context.Context, filter ClassFilter) ([]Class, error) {
	return svc.repo.QueryClasses(ctx, filter)
}

func (svc *service) GetClass(ctx context.Context, id int) (Class, error) {
	return svc.repo.GetClassByID(ctx, id)
}

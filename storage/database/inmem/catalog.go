package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/luct/core/catalog"
)

type catalogRepository struct {
	db *DB
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(db *DB) catalog.Repository {
	return &catalogRepository{db: db}
}

func (repo *catalogRepository) CreateCourse(_ context.Context, course catalog.Course) (catalog.Course, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, c := range repo.db.courses {
		if c.CourseCode == course.CourseCode {
			return catalog.Course{}, catalog.ErrCourseExists
		}
	}
	repo.db.courseSeq++
	course.ID = repo.db.courseSeq
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now().UTC()
	}
	course.ProgramLeaderName = null.String{}
	repo.db.courses[course.ID] = &course
	return repo.course(course), nil
}

func (repo *catalogRepository) CreateClass(_ context.Context, class catalog.Class) (catalog.Class, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.classSeq++
	class.ID = repo.db.classSeq
	if class.CreatedAt.IsZero() {
		class.CreatedAt = time.Now().UTC()
	}
	class.LecturerName, class.CourseName, class.CourseCode = null.String{}, null.String{}, null.String{}
	repo.db.classes[class.ID] = &class
	return repo.class(class), nil
}

func (repo *catalogRepository) QueryCourses(_ context.Context) ([]catalog.Course, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	courses := make([]catalog.Course, 0, len(repo.db.courses))
	for _, c := range repo.db.courses {
		courses = append(courses, repo.course(*c))
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].CourseCode < courses[j].CourseCode })
	return courses, nil
}

func (repo *catalogRepository) QueryClasses(_ context.Context, filter catalog.ClassFilter) ([]catalog.Class, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	classes := make([]catalog.Class, 0, len(repo.db.classes))
	for _, c := range repo.db.classes {
		if filter.LecturerID != 0 && int(c.LecturerID.Int) != filter.LecturerID {
			continue
		}
		if filter.CourseID != 0 && int(c.CourseID.Int) != filter.CourseID {
			continue
		}
		classes = append(classes, repo.class(*c))
	}
	sort.Slice(classes, func(i, j int) bool {
		if classes[i].ClassName == classes[j].ClassName {
			return classes[i].ID < classes[j].ID
		}
		return classes[i].ClassName < classes[j].ClassName
	})
	return classes, nil
}

func (repo *catalogRepository) GetCourseByID(_ context.Context, id int) (catalog.Course, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if c, ok := repo.db.courses[id]; ok {
		return repo.course(*c), nil
	}
	return catalog.Course{}, catalog.ErrCourseNotFound
}

func (repo *catalogRepository) GetClassByID(_ context.Context, id int) (catalog.Class, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if c, ok := repo.db.classes[id]; ok {
		return repo.class(*c), nil
	}
	return catalog.Class{}, catalog.ErrClassNotFound
}

// course joins the program leader name, like a LEFT JOIN on users. Caller holds the lock.
func (repo *catalogRepository) course(c catalog.Course) catalog.Course {
	if c.ProgramLeaderID.Valid {
		if u, ok := repo.db.users[int(c.ProgramLeaderID.Int)]; ok {
			c.ProgramLeaderName = null.StringFrom(u.Name)
		}
	}
	return c
}

// class joins the lecturer name and course, like LEFT JOINs on users & courses. Caller holds the lock.
func (repo *catalogRepository) class(c catalog.Class) catalog.Class {
	if c.LecturerID.Valid {
		if u, ok := repo.db.users[int(c.LecturerID.Int)]; ok {
			c.LecturerName = null.StringFrom(u.Name)
		}
	}
	if c.CourseID.Valid {
		if co, ok := repo.db.courses[int(c.CourseID.Int)]; ok {
			c.CourseName = null.StringFrom(co.CourseName)
			c.CourseCode = null.StringFrom(co.CourseCode)
		}
	}
	return c
}

package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/luct/core/catalog"
)

const (
	selectCourses = `
		SELECT co.id, co.course_code, co.course_name, co.description, co.credits, co.program_leader_id,
			u.name AS program_leader_name, co.created_at
		FROM courses co
		LEFT JOIN users u ON u.id = co.program_leader_id`

	selectClasses = `
		SELECT cl.id, cl.class_name, cl.faculty_name, cl.total_registered_students, cl.venue,
			to_char(cl.scheduled_time, 'HH24:MI:SS') AS scheduled_time,
			cl.lecturer_id, u.name AS lecturer_name,
			cl.course_id, co.course_name, co.course_code, cl.created_at
		FROM classes cl
		LEFT JOIN users u ON u.id = cl.lecturer_id
		LEFT JOIN courses co ON co.id = cl.course_id`
)

type catalogRepository struct {
	db sqlx.ExtContext
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(db sqlx.ExtContext) catalog.Repository {
	return &catalogRepository{db: db}
}

func (repo *catalogRepository) CreateCourse(ctx context.Context, course catalog.Course) (catalog.Course, error) {
	q := `INSERT INTO courses (course_code, course_name, description, credits, program_leader_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	var id int
	err := sqlx.GetContext(ctx, repo.db, &id, q,
		course.CourseCode, course.CourseName, course.Description, course.Credits, course.ProgramLeaderID)
	if err != nil {
		if code, _ := pqErrorCode(err); code == codeUniqueViolation {
			return catalog.Course{}, catalog.ErrCourseExists
		}
		return catalog.Course{}, errors.Wrap(err, "inserting course")
	}
	return repo.GetCourseByID(ctx, id)
}

func (repo *catalogRepository) CreateClass(ctx context.Context, class catalog.Class) (catalog.Class, error) {
	q := `INSERT INTO classes (class_name, faculty_name, total_registered_students, venue, scheduled_time, lecturer_id, course_id)
		VALUES ($1, $2, $3, $4, $5::time, $6, $7)
		RETURNING id`
	var id int
	err := sqlx.GetContext(ctx, repo.db, &id, q,
		class.ClassName, class.FacultyName, class.TotalRegisteredStudents, class.Venue,
		class.ScheduledTime, class.LecturerID, class.CourseID)
	if err != nil {
		return catalog.Class{}, errors.Wrap(err, "inserting class")
	}
	return repo.GetClassByID(ctx, id)
}

func (repo *catalogRepository) QueryCourses(ctx context.Context) ([]catalog.Course, error) {
	var courses []catalog.Course
	if err := sqlx.SelectContext(ctx, repo.db, &courses, selectCourses+` ORDER BY co.course_code`); err != nil {
		return nil, errors.Wrap(err, "selecting courses")
	}
	return courses, nil
}

func (repo *catalogRepository) QueryClasses(ctx context.Context, filter catalog.ClassFilter) ([]catalog.Class, error) {
	q := selectClasses + `
		WHERE ($1 = 0 OR cl.lecturer_id = $1) AND ($2 = 0 OR cl.course_id = $2)
		ORDER BY cl.class_name, cl.id`

	var classes []catalog.Class
	if err := sqlx.SelectContext(ctx, repo.db, &classes, q, filter.LecturerID, filter.CourseID); err != nil {
		return nil, errors.Wrap(err, "selecting classes")
	}
	return classes, nil
}

func (repo *catalogRepository) GetCourseByID(ctx context.Context, id int) (catalog.Course, error) {
	var course catalog.Course
	if err := sqlx.GetContext(ctx, repo.db, &course, selectCourses+` WHERE co.id = $1`, id); err != nil {
		return catalog.Course{}, trapNoRowsErr(err, catalog.ErrCourseNotFound, "selecting course by id")
	}
	return course, nil
}

func (repo *catalogRepository) GetClassByID(ctx context.Context, id int) (catalog.Class, error) {
	var class catalog.Class
	if err := sqlx.GetContext(ctx, repo.db, &class, selectClasses+` WHERE cl.id = $1`, id); err != nil {
		return catalog.Class{}, trapNoRowsErr(err, catalog.ErrClassNotFound, "selecting class by id")
	}
	return class, nil
}

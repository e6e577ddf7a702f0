// Package testutil builds fixtures for tests.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/luct/core"
	"github.com/trezcool/luct/core/catalog"
	"github.com/trezcool/luct/core/report"
	"github.com/trezcool/luct/core/user"
	"github.com/trezcool/luct/storage/database"
)

// bcrypt.MinCost keeps fixtures fast
const fixturePasswordCost = 4

func CreateUser(t *testing.T, repo user.Repository, name, email, pwd, role string, createdAt ...time.Time) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Email:     email,
		Role:      role,
		Faculty:   "Faculty of ICT",
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPasswordWithCost(pwd, fixturePasswordCost); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateCourse(t *testing.T, repo catalog.Repository, code, name string, leader *user.User) catalog.Course {
	t.Helper()

	course := catalog.Course{CourseCode: code, CourseName: name, Credits: null.IntFrom(3)}
	if leader != nil {
		course.ProgramLeaderID = null.IntFrom(leader.ID)
	}
	course, err := repo.CreateCourse(context.Background(), course)
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return course
}

func CreateClass(t *testing.T, repo catalog.Repository, name string, students int, lecturer *user.User, course *catalog.Course) catalog.Class {
	t.Helper()

	class := catalog.Class{
		ClassName:               name,
		FacultyName:             "Faculty of ICT",
		TotalRegisteredStudents: students,
		Venue:                   null.StringFrom("Room 101"),
		ScheduledTime:           null.StringFrom("10:00:00"),
	}
	if lecturer != nil {
		class.LecturerID = null.IntFrom(lecturer.ID)
	}
	if course != nil {
		class.CourseID = null.IntFrom(course.ID)
	}
	class, err := repo.CreateClass(context.Background(), class)
	if err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	return class
}

// CreateReport stores a pending report of lecturer for class. createdAt defaults to now.
func CreateReport(
	t *testing.T,
	repo report.Repository,
	lecturer user.User,
	class catalog.Class,
	week int,
	date, topic string,
	present int,
	createdAt ...time.Time,
) report.Report {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	r, err := repo.CreateReport(context.Background(), report.Report{
		LecturerID:            lecturer.ID,
		ClassID:               class.ID,
		CourseID:              int(class.CourseID.Int),
		WeekOfReporting:       week,
		DateOfLecture:         date,
		ActualStudentsPresent: present,
		TopicTaught:           topic,
		LearningOutcomes:      "Outcomes of " + topic,
		Status:                report.StatusPending,
		CreatedAt:             tstamp,
		UpdatedAt:             tstamp,
	})
	if err != nil {
		t.Fatalf("CreateReport() failed: %v", err)
	}
	return r
}

// Seed writes the sample data into repos.
func Seed(t *testing.T, repos database.Repositories) database.SeedResult {
	t.Helper()

	res, err := database.Seed(context.Background(), repos)
	if err != nil {
		t.Fatalf("Seed() failed: %v", err)
	}
	return res
}

// PrepareDB migrates the test postgres database and empties its tables.
// The test is skipped unless TEST_POSTGRES is set; connection settings come from the TEST_* env vars.
func PrepareDB(t *testing.T) *sql.DB {
	t.Helper()

	if os.Getenv("TEST_POSTGRES") == "" {
		t.Skip("TEST_POSTGRES not set")
	}
	conf := core.NewTestConfig()
	ctx := context.Background()

	if err := database.CreateIfNotExist(ctx, conf); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	db, err := database.Open(ctx, conf)
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	if _, err = db.ExecContext(ctx, "TRUNCATE ratings, reports, classes, courses, users RESTART IDENTITY CASCADE"); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

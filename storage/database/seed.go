package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/luct/core"
	"github.com/trezcool/luct/core/catalog"
	"github.com/trezcool/luct/core/report"
	"github.com/trezcool/luct/core/user"
)

const (
	seedPassword = "password123"
	seedFaculty  = "Faculty of ICT"
)

// Repositories are the stores the sample data is written to.
type Repositories struct {
	Users   user.Repository
	Catalog catalog.Repository
	Reports report.Repository
}

// SeedResult lists what Seed created.
type SeedResult struct {
	Users   []user.User
	Courses []catalog.Course
	Classes []catalog.Class
	Reports []report.Report
}

// Seed writes the sample users, courses, classes & reports.
// It does nothing when the sample lecturer already exists.
func Seed(ctx context.Context, repos Repositories) (SeedResult, error) {
	var res SeedResult

	if _, err := repos.Users.GetUserByEmail(ctx, "lecturer@luct.ac.ls"); err == nil {
		return res, nil
	} else if !core.IsNotFound(err) {
		return res, errors.Wrap(err, "checking seed data")
	}

	now := time.Now().UTC()
	for _, u := range []struct{ name, email, role string }{
		{"John Doe", "lecturer@luct.ac.ls", user.RoleLecturer},
		{"Jane Smith", "principal@luct.ac.ls", user.RolePrincipalLecturer},
		{"Mike Johnson", "programleader@luct.ac.ls", user.RoleProgramLeader},
		{"Student One", "student@luct.ac.ls", user.RoleStudent},
	} {
		usr := user.User{Name: u.name, Email: u.email, Role: u.role, Faculty: seedFaculty, CreatedAt: now, UpdatedAt: now}
		if err := usr.SetPassword(seedPassword); err != nil {
			return res, errors.Wrap(err, "hashing seed password")
		}
		usr, err := repos.Users.CreateUser(ctx, usr)
		if err != nil {
			return res, errors.Wrapf(err, "creating user %s", u.email)
		}
		res.Users = append(res.Users, usr)
	}
	lecturer, leader := res.Users[0], res.Users[2]

	for _, c := range []struct{ code, name, desc string }{
		{"DIWA2110", "Web Application Development", "Learn modern web development technologies"},
		{"DBS2110", "Database Systems", "Database design and implementation"},
		{"SE2110", "Software Engineering", "Software development methodologies"},
	} {
		course, err := repos.Catalog.CreateCourse(ctx, catalog.Course{
			CourseCode:      c.code,
			CourseName:      c.name,
			Description:     null.StringFrom(c.desc),
			Credits:         null.IntFrom(3),
			ProgramLeaderID: null.IntFrom(leader.ID),
			CreatedAt:       now,
		})
		if err != nil {
			return res, errors.Wrapf(err, "creating course %s", c.code)
		}
		res.Courses = append(res.Courses, course)
	}

	for i, c := range []struct {
		name, venue, at string
		students        int
	}{
		{"IT-2023-A", "Room 101", "10:00:00", 30},
		{"BIT-2023-B", "Room 205", "14:00:00", 32},
	} {
		class, err := repos.Catalog.CreateClass(ctx, catalog.Class{
			ClassName:               c.name,
			FacultyName:             seedFaculty,
			TotalRegisteredStudents: c.students,
			Venue:                   null.StringFrom(c.venue),
			ScheduledTime:           null.StringFrom(c.at),
			LecturerID:              null.IntFrom(lecturer.ID),
			CourseID:                null.IntFrom(res.Courses[i].ID),
			CreatedAt:               now,
		})
		if err != nil {
			return res, errors.Wrapf(err, "creating class %s", c.name)
		}
		res.Classes = append(res.Classes, class)
	}

	for i, r := range []struct {
		date, topic, outcomes, recommendations string
		present                                int
	}{
		{"2023-10-15", "React Components and State Management", "Understanding React components, state, and props", "More practical examples needed", 24},
		{"2023-10-14", "SQL Queries and Joins", "Mastering SQL queries and database relationships", "Provide more exercises", 28},
	} {
		rep, err := repos.Reports.CreateReport(ctx, report.Report{
			LecturerID:            lecturer.ID,
			ClassID:               res.Classes[i].ID,
			CourseID:              res.Courses[i].ID,
			WeekOfReporting:       6,
			DateOfLecture:         r.date,
			ActualStudentsPresent: r.present,
			TopicTaught:           r.topic,
			LearningOutcomes:      r.outcomes,
			Recommendations:       r.recommendations,
			Status:                report.StatusPending,
			CreatedAt:             now,
			UpdatedAt:             now,
		})
		if err != nil {
			return res, errors.Wrapf(err, "creating report %q", r.topic)
		}
		res.Reports = append(res.Reports, rep)
	}

	return res, nil
}

package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/luct/core"
	"github.com/trezcool/luct/core/catalog"
	"github.com/trezcool/luct/core/report"
	"github.com/trezcool/luct/core/user"
	"github.com/trezcool/luct/storage/database"
	"github.com/trezcool/luct/tests"
)

// forEachStore runs fn against the memory store, then against postgres when available.
func forEachStore(t *testing.T, fn func(t *testing.T, repos database.Repositories)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, database.NewMemoryStore().Repositories)
	})
	t.Run("postgres", func(t *testing.T) {
		db := testutil.PrepareDB(t)
		fn(t, database.NewPostgresStore(db).Repositories)
	})
}

func TestSeed(t *testing.T) {
	forEachStore(t, func(t *testing.T, repos database.Repositories) {
		ctx := context.Background()

		res, err := database.Seed(ctx, repos)
		require.NoError(t, err)
		assert.Len(t, res.Users, 4)
		assert.Len(t, res.Courses, 3)
		assert.Len(t, res.Classes, 2)
		assert.Len(t, res.Reports, 2)

		// idempotent
		res, err = database.Seed(ctx, repos)
		require.NoError(t, err)
		assert.Empty(t, res.Users)

		usr, err := repos.Users.GetUserByEmail(ctx, "programleader@luct.ac.ls")
		require.NoError(t, err)
		assert.Equal(t, user.RoleProgramLeader, usr.Role)
		assert.NoError(t, usr.CheckPassword("password123"))
	})
}

func TestUserRepository(t *testing.T) {
	forEachStore(t, func(t *testing.T, repos database.Repositories) {
		ctx := context.Background()
		john := testutil.CreateUser(t, repos.Users, "John Doe", "lecturer@luct.ac.ls", "password123", user.RoleLecturer)

		_, err := repos.Users.CreateUser(ctx, user.User{Name: "Other John", Email: "LECTURER@luct.ac.ls", PasswordHash: []byte("x"), Role: user.RoleStudent})
		assert.Equal(t, user.ErrEmailExists, err)

		got, err := repos.Users.GetUserByEmail(ctx, "Lecturer@Luct.ac.ls")
		require.NoError(t, err)
		assert.Equal(t, john.ID, got.ID)
		assert.NoError(t, got.CheckPassword("password123"))

		_, err = repos.Users.GetUserByID(ctx, 999)
		assert.Equal(t, user.ErrNotFound, err)

		got.Name = "John D."
		got.UpdatedAt = time.Now().UTC()
		updated, err := repos.Users.UpdateUser(ctx, got)
		require.NoError(t, err)
		assert.Equal(t, "John D.", updated.Name)
		assert.WithinDuration(t, john.CreatedAt, updated.CreatedAt, time.Millisecond)

		_, err = repos.Users.UpdateUser(ctx, user.User{ID: 999, Name: "Ghost", Email: "ghost@luct.ac.ls", Role: user.RoleStudent})
		assert.Equal(t, user.ErrNotFound, err)
	})
}

func TestCatalogRepository(t *testing.T) {
	forEachStore(t, func(t *testing.T, repos database.Repositories) {
		ctx := context.Background()
		leader := testutil.CreateUser(t, repos.Users, "Mike Johnson", "programleader@luct.ac.ls", "", user.RoleProgramLeader)
		lecturer := testutil.CreateUser(t, repos.Users, "John Doe", "lecturer@luct.ac.ls", "", user.RoleLecturer)

		se := testutil.CreateCourse(t, repos.Catalog, "SE2110", "Software Engineering", nil)
		web := testutil.CreateCourse(t, repos.Catalog, "DIWA2110", "Web Application Development", &leader)
		assert.Equal(t, null.StringFrom("Mike Johnson"), web.ProgramLeaderName)
		assert.False(t, se.ProgramLeaderName.Valid)

		_, err := repos.Catalog.CreateCourse(ctx, catalog.Course{CourseCode: "SE2110", CourseName: "Again"})
		assert.Equal(t, catalog.ErrCourseExists, err)

		courses, err := repos.Catalog.QueryCourses(ctx)
		require.NoError(t, err)
		require.Len(t, courses, 2)
		assert.Equal(t, "DIWA2110", courses[0].CourseCode)

		it := testutil.CreateClass(t, repos.Catalog, "IT-2023-A", 30, &lecturer, &web)
		orphan := testutil.CreateClass(t, repos.Catalog, "Orphan", 10, nil, nil)
		assert.Equal(t, null.StringFrom("John Doe"), it.LecturerName)
		assert.Equal(t, null.StringFrom("DIWA2110"), it.CourseCode)
		assert.Equal(t, null.StringFrom("10:00:00"), it.ScheduledTime)
		assert.False(t, orphan.CourseName.Valid)

		classes, err := repos.Catalog.QueryClasses(ctx, catalog.ClassFilter{})
		require.NoError(t, err)
		assert.Len(t, classes, 2)

		classes, err = repos.Catalog.QueryClasses(ctx, catalog.ClassFilter{LecturerID: lecturer.ID})
		require.NoError(t, err)
		require.Len(t, classes, 1)
		assert.Equal(t, it.ID, classes[0].ID)

		classes, err = repos.Catalog.QueryClasses(ctx, catalog.ClassFilter{CourseID: se.ID})
		require.NoError(t, err)
		assert.Empty(t, classes)

		_, err = repos.Catalog.GetClassByID(ctx, 999)
		assert.Equal(t, catalog.ErrClassNotFound, err)
		_, err = repos.Catalog.GetCourseByID(ctx, 999)
		assert.Equal(t, catalog.ErrCourseNotFound, err)
	})
}

func TestReportRepository(t *testing.T) {
	forEachStore(t, func(t *testing.T, repos database.Repositories) {
		ctx := context.Background()
		seed := testutil.Seed(t, repos)
		lecturer, principal := seed.Users[0], seed.Users[1]
		r1, r2 := seed.Reports[0], seed.Reports[1]

		_, err := repos.Reports.CreateReport(ctx, report.Report{
			LecturerID: lecturer.ID, ClassID: seed.Classes[0].ID, CourseID: 999, WeekOfReporting: 1,
			DateOfLecture: "2023-10-01", TopicTaught: "x", LearningOutcomes: "y", Status: report.StatusPending,
		})
		assert.Equal(t, report.ErrUnknownCourse, err)

		v, err := repos.Reports.GetReport(ctx, r1.ID)
		require.NoError(t, err)
		assert.Equal(t, "2023-10-15", v.DateOfLecture)
		assert.Equal(t, "John Doe", v.LecturerName)
		assert.Equal(t, "IT-2023-A", v.ClassName)
		assert.Equal(t, 30, v.TotalRegisteredStudents)
		assert.Equal(t, "Web Application Development", v.CourseName)
		assert.Equal(t, "More practical examples needed", v.Recommendations)

		_, err = repos.Reports.GetReport(ctx, 999)
		assert.Equal(t, report.ErrNotFound, err)

		ids := func(views []report.View) []int {
			out := make([]int, 0, len(views))
			for _, v := range views {
				out = append(out, v.ID)
			}
			return out
		}
		page := core.NewPage(1, 10, 10, 100)

		tests := []struct {
			name      string
			filter    report.QueryFilter
			ordering  []core.DBOrdering
			page      core.Page
			want      []int
			wantTotal int
		}{
			{name: "all, newest first", page: page, want: []int{r2.ID, r1.ID}, wantTotal: 2},
			{name: "search topic", filter: report.QueryFilter{Search: "sql"}, page: page, want: []int{r2.ID}, wantTotal: 1},
			{name: "search course code", filter: report.QueryFilter{Search: "diwa"}, page: page, want: []int{r1.ID}, wantTotal: 1},
			{name: "search lecturer", filter: report.QueryFilter{Search: "doe"}, page: page, want: []int{r2.ID, r1.ID}, wantTotal: 2},
			{name: "search wildcards are literal", filter: report.QueryFilter{Search: "%"}, page: page, want: []int{}, wantTotal: 0},
			{name: "search underscore is literal", filter: report.QueryFilter{Search: "_"}, page: page, want: []int{}, wantTotal: 0},
			{name: "by date asc", ordering: core.ParseOrdering("date_of_lecture"), page: page, want: []int{r2.ID, r1.ID}, wantTotal: 2},
			{name: "by date desc", ordering: core.ParseOrdering("-date_of_lecture"), page: page, want: []int{r1.ID, r2.ID}, wantTotal: 2},
			{name: "second page", page: core.NewPage(2, 1, 10, 100), want: []int{r1.ID}, wantTotal: 2},
			{name: "past the end", page: core.NewPage(3, 1, 10, 100), want: []int{}, wantTotal: 2},
			{name: "status", filter: report.QueryFilter{Status: report.StatusApproved}, page: page, want: []int{}, wantTotal: 0},
			{name: "week", filter: report.QueryFilter{Week: 6}, page: page, want: []int{r2.ID, r1.ID}, wantTotal: 2},
			{name: "lecturer", filter: report.QueryFilter{LecturerID: principal.ID}, page: page, want: []int{}, wantTotal: 0},
			{name: "course", filter: report.QueryFilter{CourseID: seed.Courses[1].ID}, page: page, want: []int{r2.ID}, wantTotal: 1},
			{name: "class", filter: report.QueryFilter{ClassID: seed.Classes[0].ID}, page: page, want: []int{r1.ID}, wantTotal: 1},
			{
				name: "date range", filter: report.QueryFilter{StartDate: "2023-10-15", EndDate: "2023-10-15"}, page: page,
				want: []int{r1.ID}, wantTotal: 1,
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				views, total, err := repos.Reports.QueryReports(ctx, tt.filter, tt.ordering, tt.page)
				require.NoError(t, err)
				assert.Equal(t, tt.want, ids(views))
				assert.Equal(t, tt.wantTotal, total)
			})
		}

		views, err := repos.Reports.ExportReports(ctx, report.QueryFilter{})
		require.NoError(t, err)
		assert.Equal(t, []int{r1.ID, r2.ID}, ids(views))

		err = repos.Reports.UpdateReportStatus(ctx, r2.ID, report.StatusApproved, null.StringFrom("Good"), principal.ID, time.Now().UTC())
		require.NoError(t, err)
		err = repos.Reports.UpdateReportStatus(ctx, 999, report.StatusApproved, null.String{}, principal.ID, time.Now().UTC())
		assert.Equal(t, report.ErrNotFound, err)

		v, err = repos.Reports.GetReport(ctx, r2.ID)
		require.NoError(t, err)
		assert.Equal(t, report.StatusApproved, v.Status)
		assert.Equal(t, null.StringFrom("Good"), v.Feedback)
		assert.Equal(t, null.StringFrom("Jane Smith"), v.FeedbackByName)

		counts, err := repos.Reports.CountReportsByStatus(ctx, report.QueryFilter{})
		require.NoError(t, err)
		assert.Equal(t, map[string]int{report.StatusPending: 1, report.StatusApproved: 1}, counts)

		counts, err = repos.Reports.CountReportsByStatus(ctx, report.QueryFilter{LecturerID: principal.ID})
		require.NoError(t, err)
		assert.Empty(t, counts)
	})
}

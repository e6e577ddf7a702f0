package inmemdb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/luct/core"
	"github.com/trezcool/luct/core/report"
)

type reportRepository struct {
	db *DB
}

var _ report.Repository = (*reportRepository)(nil) // interface compliance check

func NewReportRepository(db *DB) report.Repository {
	return &reportRepository{db: db}
}

func (repo *reportRepository) CreateReport(_ context.Context, r report.Report) (report.Report, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.courses[r.CourseID]; !ok {
		return report.Report{}, report.ErrUnknownCourse
	}
	repo.db.reportSeq++
	r.ID = repo.db.reportSeq
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
		r.UpdatedAt = r.CreatedAt
	}
	repo.db.reports[r.ID] = &r
	return r, nil
}

func (repo *reportRepository) GetReport(_ context.Context, id int) (report.View, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	r, ok := repo.db.reports[id]
	if !ok {
		return report.View{}, report.ErrNotFound
	}
	return repo.view(*r), nil
}

func (repo *reportRepository) QueryReports(
	_ context.Context,
	filter report.QueryFilter,
	ordering []core.DBOrdering,
	page core.Page,
) ([]report.View, int, error) {
	repo.db.mu.RLock()
	views := repo.filter(filter)
	repo.db.mu.RUnlock()

	sortViews(views, ordering)

	total := len(views)
	start := page.Offset()
	if start > total {
		start = total
	}
	end := total
	if page.Limit() > 0 && start+page.Limit() < total {
		end = start + page.Limit()
	}
	return views[start:end], total, nil
}

func (repo *reportRepository) ExportReports(_ context.Context, filter report.QueryFilter) ([]report.View, error) {
	repo.db.mu.RLock()
	views := repo.filter(filter)
	repo.db.mu.RUnlock()

	sortViews(views, []core.DBOrdering{{Field: "date_of_lecture"}})
	return views, nil
}

func (repo *reportRepository) UpdateReportStatus(
	_ context.Context,
	id int,
	status string,
	feedback null.String,
	reviewerID int,
	at time.Time,
) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	r, ok := repo.db.reports[id]
	if !ok {
		return report.ErrNotFound
	}
	r.Status = status
	r.Feedback = feedback
	r.FeedbackBy = null.IntFrom(reviewerID)
	r.UpdatedAt = at
	return nil
}

func (repo *reportRepository) CountReportsByStatus(_ context.Context, filter report.QueryFilter) (map[string]int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	counts := make(map[string]int)
	for _, v := range repo.filter(filter) {
		counts[v.Status]++
	}
	return counts, nil
}

// filter returns the matching views, unordered. Caller holds the lock.
func (repo *reportRepository) filter(f report.QueryFilter) []report.View {
	views := make([]report.View, 0, len(repo.db.reports))
	for _, r := range repo.db.reports {
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.Week != 0 && r.WeekOfReporting != f.Week {
			continue
		}
		if f.LecturerID != 0 && r.LecturerID != f.LecturerID {
			continue
		}
		if f.ClassID != 0 && r.ClassID != f.ClassID {
			continue
		}
		if f.CourseID != 0 && r.CourseID != f.CourseID {
			continue
		}
		// YYYY-MM-DD strings sort chronologically
		if f.HasDateRange() && (r.DateOfLecture < f.StartDate || r.DateOfLecture > f.EndDate) {
			continue
		}

		v := repo.view(*r)
		if f.Search != "" &&
			!containsFold(v.CourseName, f.Search) &&
			!containsFold(v.CourseCode, f.Search) &&
			!containsFold(v.LecturerName, f.Search) &&
			!containsFold(v.TopicTaught, f.Search) {
			continue
		}
		views = append(views, v)
	}
	return views
}

// view joins the report with its lecturer, class, course & reviewer. Caller holds the lock.
func (repo *reportRepository) view(r report.Report) report.View {
	v := report.View{Report: r}
	if u, ok := repo.db.users[r.LecturerID]; ok {
		v.LecturerName = u.Name
	}
	if c, ok := repo.db.classes[r.ClassID]; ok {
		v.ClassName = c.ClassName
		v.FacultyName = c.FacultyName
		v.TotalRegisteredStudents = c.TotalRegisteredStudents
	}
	if c, ok := repo.db.courses[r.CourseID]; ok {
		v.CourseCode = c.CourseCode
		v.CourseName = c.CourseName
	}
	if r.FeedbackBy.Valid {
		if u, ok := repo.db.users[int(r.FeedbackBy.Int)]; ok {
			v.FeedbackByName = null.StringFrom(u.Name)
		}
	}
	return v
}

// sortViews orders by the known fields, falling back to report.DefaultOrdering; ties go to the highest id.
func sortViews(views []report.View, ordering []core.DBOrdering) {
	known := ordering[:0:0]
	for _, ord := range ordering {
		if _, ok := report.SortColumns[ord.Field]; ok {
			known = append(known, ord)
		}
	}
	if len(known) == 0 {
		known = report.DefaultOrdering
	}

	sort.SliceStable(views, func(i, j int) bool {
		for _, ord := range known {
			c := compareViews(views[i], views[j], ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return views[i].ID > views[j].ID
	})
}

func compareViews(a, b report.View, field string) int {
	switch field {
	case "created_at":
		return compareTimes(a.CreatedAt, b.CreatedAt)
	case "date_of_lecture":
		return strings.Compare(a.DateOfLecture, b.DateOfLecture)
	case "week_of_reporting":
		return compareInts(a.WeekOfReporting, b.WeekOfReporting)
	case "status":
		return strings.Compare(a.Status, b.Status)
	}
	return 0
}

package sqlxrepos

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/luct/core"
	"github.com/trezcool/luct/core/report"
)

const (
	fromReports = `
		FROM reports r
		JOIN users u ON u.id = r.lecturer_id
		JOIN classes cl ON cl.id = r.class_id
		JOIN courses co ON co.id = r.course_id
		LEFT JOIN users fb ON fb.id = r.feedback_by`

	selectReports = `
		SELECT r.id, r.lecturer_id, r.class_id, r.course_id, r.week_of_reporting,
			to_char(r.date_of_lecture, 'YYYY-MM-DD') AS date_of_lecture,
			r.actual_students_present, r.topic_taught, r.learning_outcomes, r.recommendations,
			r.status, r.feedback, r.feedback_by, r.created_at, r.updated_at,
			u.name AS lecturer_name, cl.class_name, cl.faculty_name, cl.total_registered_students,
			co.course_code, co.course_name, fb.name AS feedback_by_name` + fromReports

	reportsCourseFK = "reports_course_id_fkey"
)

type reportRepository struct {
	db sqlx.ExtContext
}

var _ report.Repository = (*reportRepository)(nil) // interface compliance check

func NewReportRepository(db sqlx.ExtContext) report.Repository {
	return &reportRepository{db: db}
}

// likeEscaper makes search text match literally in ILIKE patterns.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// where builds the WHERE clause of filter, with "?" bindvars.
func where(filter report.QueryFilter) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	add := func(cond string, vals ...interface{}) {
		conds = append(conds, cond)
		args = append(args, vals...)
	}

	if filter.Search != "" {
		val := "%" + likeEscaper.Replace(filter.Search) + "%"
		add(`(co.course_name ILIKE ? ESCAPE '\' OR co.course_code ILIKE ? ESCAPE '\'
			OR u.name ILIKE ? ESCAPE '\' OR r.topic_taught ILIKE ? ESCAPE '\')`, val, val, val, val)
	}
	if filter.Status != "" {
		add("r.status = ?", filter.Status)
	}
	if filter.Week != 0 {
		add("r.week_of_reporting = ?", filter.Week)
	}
	if filter.LecturerID != 0 {
		add("r.lecturer_id = ?", filter.LecturerID)
	}
	if filter.ClassID != 0 {
		add("r.class_id = ?", filter.ClassID)
	}
	if filter.CourseID != 0 {
		add("r.course_id = ?", filter.CourseID)
	}
	if filter.HasDateRange() {
		add("r.date_of_lecture BETWEEN ?::date AND ?::date", filter.StartDate, filter.EndDate)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (repo *reportRepository) CreateReport(ctx context.Context, r report.Report) (report.Report, error) {
	q := `INSERT INTO reports (lecturer_id, class_id, course_id, week_of_reporting, date_of_lecture,
			actual_students_present, topic_taught, learning_outcomes, recommendations, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::date, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	err := sqlx.GetContext(ctx, repo.db, &r.ID, q,
		r.LecturerID, r.ClassID, r.CourseID, r.WeekOfReporting, r.DateOfLecture,
		r.ActualStudentsPresent, r.TopicTaught, r.LearningOutcomes, r.Recommendations, r.Status, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		if code, constraint := pqErrorCode(err); code == codeForeignKeyViolation && constraint == reportsCourseFK {
			return report.Report{}, report.ErrUnknownCourse
		}
		return report.Report{}, errors.Wrap(err, "inserting report")
	}
	return r, nil
}

func (repo *reportRepository) GetReport(ctx context.Context, id int) (report.View, error) {
	var v report.View
	if err := sqlx.GetContext(ctx, repo.db, &v, selectReports+` WHERE r.id = $1`, id); err != nil {
		return report.View{}, trapNoRowsErr(err, report.ErrNotFound, "selecting report by id")
	}
	return v, nil
}

func (repo *reportRepository) QueryReports(
	ctx context.Context,
	filter report.QueryFilter,
	ordering []core.DBOrdering,
	page core.Page,
) ([]report.View, int, error) {
	cond, args := where(filter)

	var total int
	if err := sqlx.GetContext(ctx, repo.db, &total, sqlx.Rebind(sqlx.DOLLAR, `SELECT COUNT(*)`+fromReports+cond), args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting reports")
	}

	q := selectReports + cond +
		` ORDER BY ` + core.OrderBy(ordering, report.SortColumns, core.DBOrdering{Field: "r.created_at"}) + `, r.id DESC` +
		` LIMIT ? OFFSET ?`
	args = append(args, page.Limit(), page.Offset())

	var views []report.View
	if err := sqlx.SelectContext(ctx, repo.db, &views, sqlx.Rebind(sqlx.DOLLAR, q), args...); err != nil {
		return nil, 0, errors.Wrap(err, "selecting reports")
	}
	return views, total, nil
}

func (repo *reportRepository) ExportReports(ctx context.Context, filter report.QueryFilter) ([]report.View, error) {
	cond, args := where(filter)
	q := selectReports + cond + ` ORDER BY r.date_of_lecture DESC, r.id DESC`

	var views []report.View
	if err := sqlx.SelectContext(ctx, repo.db, &views, sqlx.Rebind(sqlx.DOLLAR, q), args...); err != nil {
		return nil, errors.Wrap(err, "selecting reports for export")
	}
	return views, nil
}

func (repo *reportRepository) UpdateReportStatus(
	ctx context.Context,
	id int,
	status string,
	feedback null.String,
	reviewerID int,
	at time.Time,
) error {
	q := `UPDATE reports SET status = $2, feedback = $3, feedback_by = $4, updated_at = $5 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, q, id, status, feedback, reviewerID, at)
	if err != nil {
		return errors.Wrap(err, "updating report status")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "updating report status")
	}
	if n == 0 {
		return report.ErrNotFound
	}
	return nil
}

func (repo *reportRepository) CountReportsByStatus(ctx context.Context, filter report.QueryFilter) (map[string]int, error) {
	cond, args := where(filter)
	q := `SELECT r.status, COUNT(*) AS n` + fromReports + cond + ` GROUP BY r.status`

	var rows []struct {
		Status string `db:"status"`
		N      int    `db:"n"`
	}
	if err := sqlx.SelectContext(ctx, repo.db, &rows, sqlx.Rebind(sqlx.DOLLAR, q), args...); err != nil {
		return nil, errors.Wrap(err, "counting reports by status")
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.N
	}
	return counts, nil
}

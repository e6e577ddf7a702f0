package report

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/luct/core"
	"github.com/trezcool/luct/core/user"
)

// Statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

var AllStatuses = []string{StatusPending, StatusApproved, StatusRejected}

func IsValidStatus(status string) bool {
	for _, s := range AllStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Report is a lecturer's weekly submission for one class session.
type Report struct {
	ID                    int         `json:"id" db:"id"`
	LecturerID            int         `json:"lecturer_id" db:"lecturer_id"`
	ClassID               int         `json:"class_id" db:"class_id"`
	CourseID              int         `json:"course_id" db:"course_id"`
	WeekOfReporting       int         `json:"week_of_reporting" db:"week_of_reporting"`
	DateOfLecture         string      `json:"date_of_lecture" db:"date_of_lecture"` // YYYY-MM-DD
	ActualStudentsPresent int         `json:"actual_students_present" db:"actual_students_present"`
	TopicTaught           string      `json:"topic_taught" db:"topic_taught"`
	LearningOutcomes      string      `json:"learning_outcomes" db:"learning_outcomes"`
	Recommendations       string      `json:"recommendations" db:"recommendations"`
	Status                string      `json:"status" db:"status"`
	Feedback              null.String `json:"feedback" db:"feedback"`
	FeedbackBy            null.Int    `json:"feedback_by" db:"feedback_by"`
	CreatedAt             time.Time   `json:"created_at" db:"created_at"` // UTC
	UpdatedAt             time.Time   `json:"updated_at" db:"updated_at"` // UTC
}

// View is a Report joined with its author, class, course and reviewer.
type View struct {
	Report
	LecturerName            string      `json:"lecturer_name" db:"lecturer_name"`
	ClassName               string      `json:"class_name" db:"class_name"`
	FacultyName             string      `json:"faculty_name" db:"faculty_name"`
	TotalRegisteredStudents int         `json:"total_registered_students" db:"total_registered_students"`
	CourseCode              string      `json:"course_code" db:"course_code"`
	CourseName              string      `json:"course_name" db:"course_name"`
	FeedbackByName          null.String `json:"feedback_by_name" db:"feedback_by_name"`
}

// Viewer is the authenticated caller of a report operation.
type Viewer struct {
	ID   int
	Role string
}

func ViewerOf(usr user.User) Viewer {
	return Viewer{ID: usr.ID, Role: usr.Role}
}

// scope returns the lecturer the viewer is restricted to, 0 if unrestricted.
func (v Viewer) scope() int {
	if v.Role == user.RoleLecturer {
		return v.ID
	}
	return 0
}

func (v Viewer) canSee(r Report) bool {
	lid := v.scope()
	return lid == 0 || lid == r.LecturerID
}

// NewReport contains information needed to create a new Report.
type NewReport struct {
	ClassID               int    `json:"class_id" validate:"required,min=1"`
	CourseID              int    `json:"course_id" validate:"required,min=1"`
	WeekOfReporting       int    `json:"week_of_reporting" validate:"required,min=1"`
	DateOfLecture         string `json:"date_of_lecture" validate:"required,ymd"`
	ActualStudentsPresent *int   `json:"actual_students_present" validate:"required,min=0"`
	TopicTaught           string `json:"topic_taught" validate:"required"`
	LearningOutcomes      string `json:"learning_outcomes" validate:"required"`
	Recommendations       string `json:"recommendations"`
}

// StatusUpdate is what a reviewer submits on a Report.
type StatusUpdate struct {
	Status   string  `json:"status" validate:"required,status"`
	Feedback *string `json:"feedback"`
}

type QueryFilter struct {
	Search     string `query:"search"`
	Status     string `query:"status"`
	Week       int    `query:"week"`
	LecturerID int    `query:"lecturer_id"`
	ClassID    int    `query:"class_id"`
	CourseID   int    `query:"course_id"`

	// date_of_lecture range, inclusive; only applied when both are set
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
	qf.StartDate = core.CleanString(qf.StartDate)
	qf.EndDate = core.CleanString(qf.EndDate)
}

// HasDateRange reports whether the date range filter applies.
func (qf *QueryFilter) HasDateRange() bool {
	return qf.StartDate != "" && qf.EndDate != ""
}

// Page is one page of Report views.
type Page struct {
	Reports    []View          `json:"reports"`
	Pagination core.Pagination `json:"pagination"`
}

// Stats counts the visible reports per status.
type Stats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// ReviewMailData is rendered by the "report_reviewed" email templates.
type ReviewMailData struct {
	ReportID     int
	LecturerName string
	ReviewerName string
	Week         int
	CourseCode   string
	ClassName    string
	Status       string
	Feedback     string
}

// SortColumns maps the sortable fields of a Report to their SQL columns.
var SortColumns = map[string]string{
	"created_at":        "r.created_at",
	"date_of_lecture":   "r.date_of_lecture",
	"week_of_reporting": "r.week_of_reporting",
	"status":            "r.status",
}

// DefaultOrdering is newest first.
var DefaultOrdering = []core.DBOrdering{{Field: "created_at", Ascending: false}}

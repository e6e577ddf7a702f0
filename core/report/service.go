package report

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/luct/core"
	"github.com/trezcool/luct/core/catalog"
	"github.com/trezcool/luct/core/user"
)

var (
	// errors
	ErrNotFound      = core.NewNotFoundError("Report")
	ErrUnknownCourse = errors.New("Course not found")
)

type (
	// Repository is the Report Store.
	Repository interface {
		// CreateReport fails with ErrUnknownCourse when the course reference is dangling.
		CreateReport(ctx context.Context, r Report) (Report, error)
		// GetReport returns the View of the report, ErrNotFound if none.
		GetReport(ctx context.Context, id int) (View, error)
		// QueryReports returns one page of views matching filter, and the total count of matching views.
		// QueryFilter.Search does a case-insensitive match on course name, course code, lecturer name or topic.
		QueryReports(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering, page core.Page) ([]View, int, error)
		// ExportReports returns all views matching filter, by date_of_lecture DESC.
		ExportReports(ctx context.Context, filter QueryFilter) ([]View, error)
		// UpdateReportStatus overwrites status, feedback & feedback_by. ErrNotFound if no row matched.
		UpdateReportStatus(ctx context.Context, id int, status string, feedback null.String, reviewerID int, at time.Time) error
		CountReportsByStatus(ctx context.Context, filter QueryFilter) (map[string]int, error)
	}

	// Service is the Report Lifecycle Service.
	Service interface {
		// Create returns the created report and non-blocking warnings about its content.
		Create(ctx context.Context, author Viewer, nr NewReport) (View, []string, error)
		Query(ctx context.Context, viewer Viewer, filter QueryFilter, ordering []core.DBOrdering, page core.Page) (Page, error)
		Get(ctx context.Context, viewer Viewer, id int) (View, error)
		UpdateStatus(ctx context.Context, reviewer Viewer, id int, su StatusUpdate) (View, error)
		Stats(ctx context.Context, viewer Viewer) (Stats, error)
		// Export returns every visible report in the filter's date range, ready for an Exporter.
		Export(ctx context.Context, viewer Viewer, filter QueryFilter) ([]View, error)
	}

	service struct {
		repo     Repository
		classes  catalog.Repository
		users    user.Repository
		mailSvc  core.EmailService
		validate *validator.Validate
		conf     *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(
	repo Repository,
	classes catalog.Repository,
	users user.Repository,
	mailSvc core.EmailService,
	validate *validator.Validate,
	conf *core.Config,
) Service {
	return &service{
		repo:     repo,
		classes:  classes,
		users:    users,
		mailSvc:  mailSvc,
		validate: validate,
		conf:     conf,
	}
}

func (svc *service) Create(ctx context.Context, author Viewer, nr NewReport) (View, []string, error) {
	if author.Role != user.RoleLecturer {
		return View{}, nil, core.ErrForbidden
	}
	if err := nr.Validate(svc.validate); err != nil {
		return View{}, nil, err
	}

	class, err := svc.classes.GetClassByID(ctx, nr.ClassID)
	if err != nil {
		return View{}, nil, err
	}

	var warnings []string
	if present := *nr.ActualStudentsPresent; present > class.TotalRegisteredStudents {
		warnings = append(warnings, fmt.Sprintf(
			"Students present (%d) exceeds registered students (%d)", present, class.TotalRegisteredStudents,
		))
	}

	now := time.Now().UTC()
	r, err := svc.repo.CreateReport(ctx, Report{
		LecturerID:            author.ID,
		ClassID:               nr.ClassID,
		CourseID:              nr.CourseID,
		WeekOfReporting:       nr.WeekOfReporting,
		DateOfLecture:         nr.DateOfLecture,
		ActualStudentsPresent: *nr.ActualStudentsPresent,
		TopicTaught:           nr.TopicTaught,
		LearningOutcomes:      nr.LearningOutcomes,
		Recommendations:       nr.Recommendations,
		Status:                StatusPending,
		CreatedAt:             now,
		UpdatedAt:             now,
	})
	if err != nil {
		if err == ErrUnknownCourse {
			return View{}, nil, core.NewValidationError(err, core.FieldError{Field: "course_id", Error: err.Error()})
		}
		return View{}, nil, err
	}

	v, err := svc.repo.GetReport(ctx, r.ID)
	return v, warnings, err
}

func (svc *service) Query(ctx context.Context, viewer Viewer, filter QueryFilter, ordering []core.DBOrdering, page core.Page) (Page, error) {
	filter.Clean()
	if err := validateDateRange(filter); err != nil {
		return Page{}, err
	}
	if lid := viewer.scope(); lid != 0 {
		filter.LecturerID = lid
	}

	views, total, err := svc.repo.QueryReports(ctx, filter, ordering, page)
	if err != nil {
		return Page{}, err
	}
	if views == nil {
		views = []View{}
	}
	return Page{Reports: views, Pagination: core.NewPagination(page, total)}, nil
}

// Get applies the same visibility as Query: lecturers only see their own reports.
func (svc *service) Get(ctx context.Context, viewer Viewer, id int) (View, error) {
	v, err := svc.repo.GetReport(ctx, id)
	if err != nil {
		return View{}, err
	}
	if !viewer.canSee(v.Report) {
		return View{}, ErrNotFound
	}
	return v, nil
}

func (svc *service) UpdateStatus(ctx context.Context, reviewer Viewer, id int, su StatusUpdate) (View, error) {
	if !(reviewer.Role == user.RolePrincipalLecturer || reviewer.Role == user.RoleProgramLeader) {
		return View{}, core.ErrForbidden
	}
	if err := su.Validate(svc.validate); err != nil {
		return View{}, err
	}

	feedback := null.StringFromPtr(su.Feedback)
	if err := svc.repo.UpdateReportStatus(ctx, id, su.Status, feedback, reviewer.ID, time.Now().UTC()); err != nil {
		return View{}, err
	}

	v, err := svc.repo.GetReport(ctx, id)
	if err != nil {
		return View{}, err
	}
	if svc.conf.NotifyOnReview {
		svc.notifyAuthor(ctx, v)
	}
	return v, nil
}

func (svc *service) Stats(ctx context.Context, viewer Viewer) (Stats, error) {
	counts, err := svc.repo.CountReportsByStatus(ctx, QueryFilter{LecturerID: viewer.scope()})
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{
		Pending:  counts[StatusPending],
		Approved: counts[StatusApproved],
		Rejected: counts[StatusRejected],
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}

func (svc *service) Export(ctx context.Context, viewer Viewer, filter QueryFilter) ([]View, error) {
	filter.Clean()
	if err := validateDateRange(filter); err != nil {
		return nil, err
	}
	filter.LecturerID = viewer.scope()
	return svc.repo.ExportReports(ctx, filter)
}

// notifyAuthor mails the review outcome to the report's author; lookup failures are not the reviewer's problem.
func (svc *service) notifyAuthor(ctx context.Context, v View) {
	if svc.mailSvc == nil {
		return
	}
	author, err := svc.users.GetUserByID(ctx, v.LecturerID)
	if err != nil || author.Email == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: author.Name, Address: author.Email}},
		Subject:      fmt.Sprintf("Your week %d report for %s was %s", v.WeekOfReporting, v.CourseCode, v.Status),
		TemplateName: "report_reviewed",
		TemplateData: ReviewMailData{
			ReportID:     v.ID,
			LecturerName: v.LecturerName,
			ReviewerName: v.FeedbackByName.String,
			Week:         v.WeekOfReporting,
			CourseCode:   v.CourseCode,
			ClassName:    v.ClassName,
			Status:       v.Status,
			Feedback:     v.Feedback.String,
		},
	})
}

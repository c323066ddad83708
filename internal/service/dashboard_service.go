package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kursverwaltung/dashboard-api/internal/dto"
	"github.com/kursverwaltung/dashboard-api/internal/models"
	appErrors "github.com/kursverwaltung/dashboard-api/pkg/errors"
	"github.com/kursverwaltung/dashboard-api/pkg/export"
)

const overviewCacheKey = "dash:overview"

type snapshotProvider interface {
	Snapshot(ctx context.Context) (*models.Snapshot, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL    time.Duration
	RecentLimit int
}

// DashboardService composes the dashboard overview from record store snapshots.
type DashboardService struct {
	store     snapshotProvider
	cache     *CacheService
	logger    *zap.Logger
	validator *validator.Validate
	now       func() time.Time
	cfg       DashboardServiceConfig
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Store     snapshotProvider
	Cache     *CacheService
	Logger    *zap.Logger
	Validator *validator.Validate
	Config    DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = 5
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	return &DashboardService{
		store:     params.Store,
		cache:     params.Cache,
		logger:    logger,
		validator: validate,
		now:       time.Now,
		cfg:       cfg,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
	}
}

// Overview returns the aggregated dashboard payload and indicates cache
// utilisation. A record store failure is logged and mapped to the empty-state
// overview rather than propagated: the worst case is a dashboard of zeros.
func (s *DashboardService) Overview(ctx context.Context) (*dto.DashboardOverview, bool, error) {
	if summary, hit, err := s.tryCache(ctx); err != nil {
		return nil, false, err
	} else if hit {
		return summary, true, nil
	}

	if s.store == nil {
		return nil, false, appErrors.Clone(appErrors.ErrInternal, "record store unavailable")
	}

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		s.logger.Error("dashboard snapshot fetch failed", zap.Error(err))
		return emptyOverview(), false, nil
	}

	summary := s.compose(snap)
	s.persistCache(ctx, summary)
	return summary, false, nil
}

// Export renders the overview as a downloadable document. It returns the
// payload, content type, and suggested filename.
func (s *DashboardService) Export(ctx context.Context, req dto.ExportRequest) ([]byte, string, string, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export format, expected csv or pdf")
	}

	summary, _, err := s.Overview(ctx)
	if err != nil {
		return nil, "", "", err
	}

	dataset := overviewDataset(summary)
	stamp := s.now().UTC().Format("2006-01-02")

	switch req.Format {
	case "csv":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render csv export")
		}
		return payload, "text/csv", fmt.Sprintf("dashboard-%s.csv", stamp), nil
	default:
		payload, err := s.pdf.Render(dataset, "Kursverwaltung Dashboard")
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render pdf export")
		}
		return payload, "application/pdf", fmt.Sprintf("dashboard-%s.pdf", stamp), nil
	}
}

func (s *DashboardService) tryCache(ctx context.Context) (*dto.DashboardOverview, bool, error) {
	if s.cache == nil {
		return nil, false, nil
	}
	var cached dto.DashboardOverview
	hit, err := s.cache.Get(ctx, overviewCacheKey, &cached)
	if err != nil {
		return nil, false, err
	}
	if hit {
		return &cached, true, nil
	}
	return nil, false, nil
}

func (s *DashboardService) persistCache(ctx context.Context, value *dto.DashboardOverview) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, overviewCacheKey, value, s.cfg.CacheTTL); err != nil && s.logger != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
}

func (s *DashboardService) compose(snap *models.Snapshot) *dto.DashboardOverview {
	courses := courseIndex(snap.Courses)
	participants := participantIndex(snap.Participants)
	paid, unpaid := paidCounts(snap.Enrollments)

	recent := recentEnrollments(snap.Enrollments, s.cfg.RecentLimit)
	rows := make([]dto.RecentEnrollmentRow, 0, len(recent))
	for _, enrollment := range recent {
		rows = append(rows, dto.RecentEnrollmentRow{
			EnrollmentID:     enrollment.ID,
			Participant:      participantLabel(enrollment.ParticipantRef, participants),
			Course:           courseLabel(enrollment.CourseRef, courses),
			RegistrationDate: enrollment.RegistrationDate,
			Paid:             enrollment.Paid,
		})
	}

	return &dto.DashboardOverview{
		State: dto.DashboardStateLoaded,
		Totals: dto.CollectionTotals{
			Instructors:  len(snap.Instructors),
			Rooms:        len(snap.Rooms),
			Participants: len(snap.Participants),
			Courses:      len(snap.Courses),
			Enrollments:  len(snap.Enrollments),
		},
		Kpis: dto.DashboardKpis{
			TotalRevenue:      totalRevenue(snap.Enrollments, courses),
			PaidEnrollments:   paid,
			UnpaidEnrollments: unpaid,
			ActiveCourses:     len(activeCourses(snap.Courses, s.now())),
		},
		Charts: dto.DashboardCharts{
			CoursesPerInstructor: coursesPerInstructor(snap.Instructors, snap.Courses),
			PaymentStatus:        dto.PaymentStatusChart{Paid: paid, Unpaid: unpaid},
		},
		RecentEnrollments: rows,
	}
}

// emptyOverview is the fallback after a fetch failure: every derived metric
// rendered as zero/empty, matching the pre-load placeholder state.
func emptyOverview() *dto.DashboardOverview {
	return &dto.DashboardOverview{
		State:             dto.DashboardStateError,
		RecentEnrollments: []dto.RecentEnrollmentRow{},
	}
}

func overviewDataset(summary *dto.DashboardOverview) export.Dataset {
	rows := make([][]string, 0, len(summary.RecentEnrollments)+1)
	rows = append(rows, []string{
		"KPI",
		fmt.Sprintf("revenue=%.2f", summary.Kpis.TotalRevenue),
		fmt.Sprintf("paid=%d unpaid=%d", summary.Kpis.PaidEnrollments, summary.Kpis.UnpaidEnrollments),
		strconv.Itoa(summary.Kpis.ActiveCourses) + " active courses",
		"",
	})
	for _, row := range summary.RecentEnrollments {
		paid := "no"
		if row.Paid {
			paid = "yes"
		}
		rows = append(rows, []string{row.EnrollmentID, row.Participant, row.Course, row.RegistrationDate, paid})
	}
	return export.Dataset{
		Headers: []string{"ID", "Participant", "Course", "Registered", "Paid"},
		Rows:    rows,
	}
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kursverwaltung/dashboard-api/internal/dto"
	"github.com/kursverwaltung/dashboard-api/internal/models"
	appErrors "github.com/kursverwaltung/dashboard-api/pkg/errors"
)

type fakeStore struct {
	snapshot *models.Snapshot
	err      error
	calls    int
}

func (f *fakeStore) Snapshot(context.Context) (*models.Snapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot, nil
}

type stubCacheRepo struct {
	entries map[string][]byte
}

func newStubCacheRepo() *stubCacheRepo {
	return &stubCacheRepo{entries: map[string][]byte{}}
}

func (s *stubCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := s.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *stubCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.entries[key] = raw
	return nil
}

func (s *stubCacheRepo) Delete(_ context.Context, key string) error {
	delete(s.entries, key)
	return nil
}

func testSnapshot() *models.Snapshot {
	return &models.Snapshot{
		Instructors: []models.Instructor{
			{ID: "ins-1", Name: "Anna Schmidt"},
			{ID: "ins-2", Name: "Jonas Weber"},
		},
		Rooms: []models.Room{{ID: "room-1", Name: "Raum 101"}},
		Participants: []models.Participant{
			{ID: "par-1", Name: "Lena Hartmann"},
			{ID: "par-2", Name: "Omar Yilmaz"},
		},
		Courses: []models.Course{
			{ID: "crs-a", Title: "Go Grundlagen", Price: 100, EndDate: "2026-12-31", InstructorRef: "ins-1"},
			{ID: "crs-b", Title: "SQL Aufbaukurs", Price: 50, EndDate: "2026-01-01", InstructorRef: "ins-1"},
		},
		Enrollments: []models.Enrollment{
			{ID: "enr-1", CourseRef: "crs-a", ParticipantRef: "par-1", RegistrationDate: "2026-08-20", Paid: true},
			{ID: "enr-2", CourseRef: "crs-a", ParticipantRef: "par-2", RegistrationDate: "2026-08-21", Paid: false},
			{ID: "enr-3", CourseRef: "crs-b", ParticipantRef: "par-missing", RegistrationDate: "2026-08-18", Paid: true},
		},
	}
}

func TestDashboardServiceOverviewComposesAndCaches(t *testing.T) {
	store := &fakeStore{snapshot: testSnapshot()}
	cacheSvc := NewCacheService(newStubCacheRepo(), nil, time.Minute, zap.NewNop(), true)

	svc := NewDashboardService(DashboardServiceParams{
		Store:  store,
		Cache:  cacheSvc,
		Logger: zap.NewNop(),
	})
	svc.now = func() time.Time { return time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC) }

	ctx := context.Background()
	result, cacheHit, err := svc.Overview(ctx)
	require.NoError(t, err)
	assert.False(t, cacheHit)

	assert.Equal(t, dto.DashboardStateLoaded, result.State)
	assert.Equal(t, 2, result.Totals.Instructors)
	assert.Equal(t, 1, result.Totals.Rooms)
	assert.Equal(t, 2, result.Totals.Participants)
	assert.Equal(t, 2, result.Totals.Courses)
	assert.Equal(t, 3, result.Totals.Enrollments)

	assert.Equal(t, 250.0, result.Kpis.TotalRevenue)
	assert.Equal(t, 2, result.Kpis.PaidEnrollments)
	assert.Equal(t, 1, result.Kpis.UnpaidEnrollments)
	assert.Equal(t, 1, result.Kpis.ActiveCourses)

	require.Len(t, result.Charts.CoursesPerInstructor, 1)
	assert.Equal(t, "Anna", result.Charts.CoursesPerInstructor[0].Label)
	assert.Equal(t, 2, result.Charts.CoursesPerInstructor[0].Count)
	assert.Equal(t, 2, result.Charts.PaymentStatus.Paid)
	assert.Equal(t, 1, result.Charts.PaymentStatus.Unpaid)

	require.Len(t, result.RecentEnrollments, 3)
	assert.Equal(t, "enr-2", result.RecentEnrollments[0].EnrollmentID)
	assert.Equal(t, "Omar Yilmaz", result.RecentEnrollments[0].Participant)
	assert.Equal(t, "Go Grundlagen", result.RecentEnrollments[0].Course)
	assert.Equal(t, "—", result.RecentEnrollments[2].Participant)

	resultCached, cacheHit2, err := svc.Overview(ctx)
	require.NoError(t, err)
	assert.True(t, cacheHit2)
	assert.Equal(t, result, resultCached)
	assert.Equal(t, 1, store.calls)
}

func TestDashboardServiceOverviewEmptyCollections(t *testing.T) {
	store := &fakeStore{snapshot: &models.Snapshot{}}
	svc := NewDashboardService(DashboardServiceParams{Store: store, Logger: zap.NewNop()})

	result, _, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dto.DashboardStateLoaded, result.State)
	assert.Equal(t, 0.0, result.Kpis.TotalRevenue)
	assert.Equal(t, 0, result.Kpis.PaidEnrollments+result.Kpis.UnpaidEnrollments)
	assert.Empty(t, result.Charts.CoursesPerInstructor)
	assert.Empty(t, result.RecentEnrollments)
}

func TestDashboardServiceOverviewFetchFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	svc := NewDashboardService(DashboardServiceParams{Store: store, Logger: zap.NewNop()})

	result, cacheHit, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.False(t, cacheHit)
	assert.Equal(t, dto.DashboardStateError, result.State)
	assert.Equal(t, dto.CollectionTotals{}, result.Totals)
	assert.Equal(t, dto.DashboardKpis{}, result.Kpis)
	assert.Empty(t, result.RecentEnrollments)
}

func TestDashboardServiceRecentLimit(t *testing.T) {
	snap := &models.Snapshot{}
	for i := 0; i < 8; i++ {
		snap.Enrollments = append(snap.Enrollments, models.Enrollment{
			ID:               string(rune('a' + i)),
			RegistrationDate: time.Date(2026, 8, i+1, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
		})
	}
	svc := NewDashboardService(DashboardServiceParams{Store: &fakeStore{snapshot: snap}, Logger: zap.NewNop()})

	result, _, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.RecentEnrollments, 5)
}

func TestDashboardServiceExportCSV(t *testing.T) {
	svc := NewDashboardService(DashboardServiceParams{Store: &fakeStore{snapshot: testSnapshot()}, Logger: zap.NewNop()})
	svc.now = func() time.Time { return time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC) }

	payload, contentType, filename, err := svc.Export(context.Background(), dto.ExportRequest{Format: "csv"})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Equal(t, "dashboard-2026-08-26.csv", filename)

	body := string(payload)
	assert.True(t, strings.HasPrefix(body, "ID,Participant,Course,Registered,Paid"))
	assert.Contains(t, body, "Go Grundlagen")
}

func TestDashboardServiceExportPDF(t *testing.T) {
	svc := NewDashboardService(DashboardServiceParams{Store: &fakeStore{snapshot: testSnapshot()}, Logger: zap.NewNop()})

	payload, contentType, _, err := svc.Export(context.Background(), dto.ExportRequest{Format: "pdf"})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestDashboardServiceExportRejectsUnknownFormat(t *testing.T) {
	svc := NewDashboardService(DashboardServiceParams{Store: &fakeStore{snapshot: testSnapshot()}, Logger: zap.NewNop()})

	_, _, _, err := svc.Export(context.Background(), dto.ExportRequest{Format: "xlsx"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

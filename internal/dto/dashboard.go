package dto

// Dashboard view states. A fresh mount starts empty ("loading" lives on the
// client); the API reports either a fully loaded overview or the empty-state
// fallback after a record store failure.
const (
	DashboardStateLoaded = "loaded"
	DashboardStateError  = "error"
)

// DashboardOverview is the aggregated payload behind the admin dashboard.
type DashboardOverview struct {
	State             string                `json:"state"`
	Totals            CollectionTotals      `json:"totals"`
	Kpis              DashboardKpis         `json:"kpis"`
	Charts            DashboardCharts       `json:"charts"`
	RecentEnrollments []RecentEnrollmentRow `json:"recentEnrollments"`
}

// CollectionTotals carries the hero metrics, one per collection.
type CollectionTotals struct {
	Instructors  int `json:"instructors"`
	Rooms        int `json:"rooms"`
	Participants int `json:"participants"`
	Courses      int `json:"courses"`
	Enrollments  int `json:"enrollments"`
}

// DashboardKpis holds the KPI card values.
type DashboardKpis struct {
	TotalRevenue      float64 `json:"totalRevenue"`
	PaidEnrollments   int     `json:"paidEnrollments"`
	UnpaidEnrollments int     `json:"unpaidEnrollments"`
	ActiveCourses     int     `json:"activeCourses"`
}

// DashboardCharts feeds the two dashboard charts as plain labeled data;
// the presentation layer owns all visual formatting.
type DashboardCharts struct {
	CoursesPerInstructor []InstructorCourseCount `json:"coursesPerInstructor"`
	PaymentStatus        PaymentStatusChart      `json:"paymentStatus"`
}

// InstructorCourseCount is one bar of the per-instructor chart. Instructors
// without courses are never included.
type InstructorCourseCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// PaymentStatusChart partitions enrollments by payment flag.
type PaymentStatusChart struct {
	Paid   int `json:"paid"`
	Unpaid int `json:"unpaid"`
}

// RecentEnrollmentRow is one row of the recent-activity table.
type RecentEnrollmentRow struct {
	EnrollmentID     string `json:"enrollmentId"`
	Participant      string `json:"participant"`
	Course           string `json:"course"`
	RegistrationDate string `json:"registrationDate"`
	Paid             bool   `json:"paid"`
}

// ExportRequest captures query parameters of the export endpoint.
type ExportRequest struct {
	Format string `validate:"required,oneof=csv pdf"`
}

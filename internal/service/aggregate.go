package service

import (
	"sort"
	"strings"
	"time"

	"github.com/kursverwaltung/dashboard-api/internal/dto"
	"github.com/kursverwaltung/dashboard-api/internal/models"
)

// Placeholder labels for unresolved references. The dashboard never fails on
// bad references; it renders a neutral value instead.
const (
	unresolvedLabel        = "—"
	instructorLabelUnknown = "N/A"
)

// courseEndDateLayouts accepted for the course end date. A value matching
// none of them counts as absent, so the course is never active.
var courseEndDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func courseIndex(courses []models.Course) map[string]models.Course {
	index := make(map[string]models.Course, len(courses))
	for _, course := range courses {
		index[course.ID] = course
	}
	return index
}

func participantIndex(participants []models.Participant) map[string]models.Participant {
	index := make(map[string]models.Participant, len(participants))
	for _, participant := range participants {
		index[participant.ID] = participant
	}
	return index
}

// totalRevenue sums the price of each enrollment's course. Enrollments whose
// course reference does not resolve contribute 0.
func totalRevenue(enrollments []models.Enrollment, courses map[string]models.Course) float64 {
	var total float64
	for _, enrollment := range enrollments {
		id := models.ExtractRefID(enrollment.CourseRef)
		if id == "" {
			continue
		}
		if course, ok := courses[id]; ok {
			total += course.Price
		}
	}
	return total
}

// paidCounts partitions enrollments by payment flag. The unpaid count is
// derived from the total so paid+unpaid always equals the enrollment count,
// even over inconsistent data.
func paidCounts(enrollments []models.Enrollment) (paid, unpaid int) {
	for _, enrollment := range enrollments {
		if enrollment.Paid {
			paid++
		}
	}
	return paid, len(enrollments) - paid
}

// activeCourses keeps courses whose end date is present, parseable, and
// strictly after now. Courses without an end date are never active.
func activeCourses(courses []models.Course, now time.Time) []models.Course {
	var active []models.Course
	for _, course := range courses {
		end, ok := parseEndDate(course.EndDate)
		if ok && end.After(now) {
			active = append(active, course)
		}
	}
	return active
}

func parseEndDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range courseEndDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// coursesPerInstructor counts courses per instructor, labelled by the first
// whitespace-delimited token of the instructor name. Instructors without a
// single course are omitted. Output follows instructor input order.
func coursesPerInstructor(instructors []models.Instructor, courses []models.Course) []dto.InstructorCourseCount {
	counts := make(map[string]int, len(instructors))
	for _, course := range courses {
		id := models.ExtractRefID(course.InstructorRef)
		if id != "" {
			counts[id]++
		}
	}

	var result []dto.InstructorCourseCount
	for _, instructor := range instructors {
		count := counts[instructor.ID]
		if count == 0 {
			continue
		}
		result = append(result, dto.InstructorCourseCount{
			Label: instructorLabel(instructor.Name),
			Count: count,
		})
	}
	return result
}

func instructorLabel(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return instructorLabelUnknown
	}
	return fields[0]
}

// recentEnrollments returns the newest enrollments first, at most limit. The
// registration date is a sortable ISO-8601 string, so ordering is plain
// lexicographic; a missing date sorts as the empty string, i.e. last. Equal
// dates keep their input order.
func recentEnrollments(enrollments []models.Enrollment, limit int) []models.Enrollment {
	if limit <= 0 {
		return nil
	}
	sorted := make([]models.Enrollment, len(enrollments))
	copy(sorted, enrollments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RegistrationDate > sorted[j].RegistrationDate
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// participantLabel resolves a participant reference to the display name, or
// the placeholder when the reference does not resolve.
func participantLabel(ref string, participants map[string]models.Participant) string {
	id := models.ExtractRefID(ref)
	if id != "" {
		if participant, ok := participants[id]; ok {
			return participant.Name
		}
	}
	return unresolvedLabel
}

// courseLabel resolves a course reference to the course title, or the
// placeholder when the reference does not resolve.
func courseLabel(ref string, courses map[string]models.Course) string {
	id := models.ExtractRefID(ref)
	if id != "" {
		if course, ok := courses[id]; ok {
			return course.Title
		}
	}
	return unresolvedLabel
}

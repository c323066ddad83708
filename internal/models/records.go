package models

// Records as delivered by the remote Kursverwaltung record store. All five
// collections are read-only here: the dashboard never creates, updates, or
// deletes an entity.

// Instructor teaches courses.
type Instructor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Room is a physical room. It is counted on the dashboard but otherwise
// unused by the aggregation.
type Room struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// Participant can enrol into courses.
type Participant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Course carries a price and an optional end date. InstructorRef is either a
// bare instructor id or a link whose last path segment is the id.
type Course struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Price         float64 `json:"price"`
	EndDate       string  `json:"endDate"`
	InstructorRef string  `json:"instructor"`
}

// Enrollment ties a participant to a course. RegistrationDate is an ISO-8601
// date string and may be empty.
type Enrollment struct {
	ID               string `json:"id"`
	CourseRef        string `json:"course"`
	ParticipantRef   string `json:"participant"`
	RegistrationDate string `json:"registrationDate"`
	Paid             bool   `json:"paid"`
}

// Snapshot bundles the five collections loaded in one batch. Aggregation only
// ever runs over a complete snapshot, never over a partially loaded one.
type Snapshot struct {
	Instructors  []Instructor
	Rooms        []Room
	Participants []Participant
	Courses      []Course
	Enrollments  []Enrollment
}

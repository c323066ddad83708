// Command stubstore is a development stand-in for the remote record store.
// It serves fixture data for the five Kursverwaltung collections so the
// dashboard API can run without the real service.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type instructor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type room struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type participant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type course struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Price         float64 `json:"price"`
	EndDate       string  `json:"endDate"`
	InstructorRef string  `json:"instructor"`
}

type enrollment struct {
	ID               string `json:"id"`
	CourseRef        string `json:"course"`
	ParticipantRef   string `json:"participant"`
	RegistrationDate string `json:"registrationDate"`
	Paid             bool   `json:"paid"`
}

func main() {
	var (
		port    int
		baseURL string
	)
	flag.IntVar(&port, "port", 8090, "listen port")
	flag.StringVar(&baseURL, "base-url", "http://localhost:8090", "base URL used in reference links")
	flag.Parse()

	instructors := []instructor{
		{ID: uuid.NewString(), Name: "Anna Schmidt"},
		{ID: uuid.NewString(), Name: "Jonas Weber"},
		{ID: uuid.NewString(), Name: "Miriam Fuchs"},
	}
	rooms := []room{
		{ID: uuid.NewString(), Name: "Raum 101", Capacity: 24},
		{ID: uuid.NewString(), Name: "Raum 204", Capacity: 12},
	}
	participants := []participant{
		{ID: uuid.NewString(), Name: "Lena Hartmann", Email: "lena@example.org"},
		{ID: uuid.NewString(), Name: "Omar Yilmaz", Email: "omar@example.org"},
		{ID: uuid.NewString(), Name: "Petra King", Email: "petra@example.org"},
	}

	nextMonth := time.Now().AddDate(0, 1, 0).Format("2006-01-02")
	lastMonth := time.Now().AddDate(0, -1, 0).Format("2006-01-02")

	// References are emitted as links so the API exercises its extractor.
	courses := []course{
		{ID: uuid.NewString(), Title: "Go Grundlagen", Price: 249, EndDate: nextMonth},
		{ID: uuid.NewString(), Title: "SQL Aufbaukurs", Price: 199, EndDate: lastMonth},
		{ID: uuid.NewString(), Title: "Projektmanagement", Price: 349},
	}
	courses[0].InstructorRef = fmt.Sprintf("%s/instructors/%s", baseURL, instructors[0].ID)
	courses[1].InstructorRef = fmt.Sprintf("%s/instructors/%s", baseURL, instructors[0].ID)
	courses[2].InstructorRef = fmt.Sprintf("%s/instructors/%s", baseURL, instructors[1].ID)

	enrollments := []enrollment{
		{ID: uuid.NewString(), CourseRef: courseLink(baseURL, courses[0]), ParticipantRef: participantLink(baseURL, participants[0]), RegistrationDate: "2026-08-20", Paid: true},
		{ID: uuid.NewString(), CourseRef: courseLink(baseURL, courses[0]), ParticipantRef: participantLink(baseURL, participants[1]), RegistrationDate: "2026-08-21", Paid: false},
		{ID: uuid.NewString(), CourseRef: courseLink(baseURL, courses[1]), ParticipantRef: participantLink(baseURL, participants[2]), RegistrationDate: "2026-08-18", Paid: true},
		{ID: uuid.NewString(), CourseRef: courseLink(baseURL, courses[2]), ParticipantRef: participantLink(baseURL, participants[0]), RegistrationDate: "2026-08-25", Paid: true},
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/instructors", func(c *gin.Context) { c.JSON(http.StatusOK, instructors) })
	r.GET("/rooms", func(c *gin.Context) { c.JSON(http.StatusOK, rooms) })
	r.GET("/participants", func(c *gin.Context) { c.JSON(http.StatusOK, participants) })
	r.GET("/courses", func(c *gin.Context) { c.JSON(http.StatusOK, courses) })
	r.GET("/enrollments", func(c *gin.Context) { c.JSON(http.StatusOK, enrollments) })

	addr := fmt.Sprintf(":%d", port)
	log.Printf("stub record store listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("stub record store failed: %v", err)
	}
}

func courseLink(baseURL string, c course) string {
	return fmt.Sprintf("%s/courses/%s", baseURL, c.ID)
}

func participantLink(baseURL string, p participant) string {
	return fmt.Sprintf("%s/participants/%s", baseURL, p.ID)
}

// Package recordstore talks to the remote record service that owns the five
// Kursverwaltung collections. The dashboard only ever reads from it.
package recordstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kursverwaltung/dashboard-api/internal/models"
	"github.com/kursverwaltung/dashboard-api/pkg/config"
	appErrors "github.com/kursverwaltung/dashboard-api/pkg/errors"
)

// fetchObserver receives per-collection fetch timings.
type fetchObserver interface {
	ObserveStoreFetch(collection string, success bool, duration time.Duration)
}

// Client is an HTTP client for the record store.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zap.Logger
	metrics fetchObserver
}

// ClientParams groups constructor dependencies.
type ClientParams struct {
	Config  config.RecordStoreConfig
	Logger  *zap.Logger
	Metrics fetchObserver
}

// NewClient constructs a record store client with sane defaults.
func NewClient(params ClientParams) *Client {
	timeout := params.Config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(params.Config.BaseURL, "/"),
		token:   params.Config.Token,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
		metrics: params.Metrics,
	}
}

// Instructors lists all instructors.
func (c *Client) Instructors(ctx context.Context) ([]models.Instructor, error) {
	var out []models.Instructor
	if err := c.list(ctx, "instructors", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Rooms lists all rooms.
func (c *Client) Rooms(ctx context.Context) ([]models.Room, error) {
	var out []models.Room
	if err := c.list(ctx, "rooms", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Participants lists all participants.
func (c *Client) Participants(ctx context.Context) ([]models.Participant, error) {
	var out []models.Participant
	if err := c.list(ctx, "participants", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Courses lists all courses.
func (c *Client) Courses(ctx context.Context) ([]models.Course, error) {
	var out []models.Course
	if err := c.list(ctx, "courses", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Enrollments lists all enrollments.
func (c *Client) Enrollments(ctx context.Context) ([]models.Enrollment, error) {
	var out []models.Enrollment
	if err := c.list(ctx, "enrollments", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Snapshot fetches all five collections concurrently. The batch either
// completes as a whole or fails as a whole: one failed request cancels the
// rest and no partial snapshot is returned.
func (c *Client) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	snap := &models.Snapshot{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := c.Instructors(ctx)
		if err != nil {
			return err
		}
		snap.Instructors = items
		return nil
	})
	g.Go(func() error {
		items, err := c.Rooms(ctx)
		if err != nil {
			return err
		}
		snap.Rooms = items
		return nil
	})
	g.Go(func() error {
		items, err := c.Participants(ctx)
		if err != nil {
			return err
		}
		snap.Participants = items
		return nil
	})
	g.Go(func() error {
		items, err := c.Courses(ctx)
		if err != nil {
			return err
		}
		snap.Courses = items
		return nil
	})
	g.Go(func() error {
		items, err := c.Enrollments(ctx)
		if err != nil {
			return err
		}
		snap.Enrollments = items
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (c *Client) list(ctx context.Context, collection string, dest interface{}) error {
	start := time.Now()
	err := c.get(ctx, "/"+collection, dest)
	if c.metrics != nil {
		c.metrics.ObserveStoreFetch(collection, err == nil, time.Since(start))
	}
	if err != nil {
		c.logger.Warn("record store fetch failed",
			zap.String("collection", collection),
			zap.Error(err))
	}
	return err
}

func (c *Client) get(ctx context.Context, path string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "build record store request")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "record store request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return appErrors.Wrap(
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
			appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "record store returned an error")
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "decode record store response")
	}
	return nil
}

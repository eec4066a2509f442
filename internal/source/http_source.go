package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/username/skema-widget/internal/auth"
	"github.com/username/skema-widget/internal/schedule"
	"github.com/username/skema-widget/pkg/dateutil"
	"go.uber.org/zap"
)

const (
	defaultTimeout = 30 * time.Second
	defaultRetries = 3
)

// HTTPSource reads scraped weeks from the scraper service
type HTTPSource struct {
	baseURL string
	client  *retryablehttp.Client
	logger  *zap.Logger
}

type weekResponse struct {
	Week string         `json:"week"`
	Days []schedule.Day `json:"days"`
}

// NewHTTPSource creates a new HTTPSource
func NewHTTPSource(baseURL string, timeout time.Duration, retries int, logger *zap.Logger) *HTTPSource {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if retries < 0 {
		retries = defaultRetries
	}

	cl := retryablehttp.NewClient()
	cl.RetryMax = retries
	cl.RetryWaitMin = 500 * time.Millisecond
	cl.RetryWaitMax = 5 * time.Second
	cl.HTTPClient.Timeout = timeout
	cl.Logger = leveledLogger{logger.Sugar()}

	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  cl,
		logger:  logger,
	}
}

// FetchWeek fetches GET {base}/schools/{school}/weeks/{YYYY-Www}
func (s *HTTPSource) FetchWeek(ctx context.Context, session auth.Session, date time.Time) ([]schedule.Day, error) {
	if session.SchoolID == "" {
		return nil, auth.ErrNoSchool
	}

	week := dateutil.WeekKey(date)
	endpoint := fmt.Sprintf("%s/schools/%s/weeks/%s", s.baseURL, url.PathEscape(session.SchoolID), week)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}

	s.logger.Debug("Fetching week from scraper",
		zap.String("url", endpoint),
		zap.String("week", week))

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch week: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrWeekNotFound, week)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scraper returned status %d", resp.StatusCode)
	}

	var body weekResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to parse week response: %w", err)
	}
	if err := validateWeek(body.Days); err != nil {
		return nil, fmt.Errorf("invalid week %s: %w", week, err)
	}

	s.logger.Info("Week fetched from scraper",
		zap.String("school_id", session.SchoolID),
		zap.String("week", week))

	return body.Days, nil
}

// leveledLogger adapts zap to retryablehttp.LeveledLogger
type leveledLogger struct {
	s *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, keysAndValues...)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Infow(msg, keysAndValues...)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.s.Warnw(msg, keysAndValues...)
}

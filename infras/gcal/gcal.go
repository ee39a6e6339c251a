// Package gcal talks to Google Calendar on behalf of the single connected operator account.
package gcal

//go:generate go run go.uber.org/mock/mockgen -source=./gcal.go -destination=./mocks/gcal_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"realty/config"
	"realty/infras/metrics"
	"realty/infras/otel"
	"realty/shared/constant"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

const (
	conferenceTypeMeet = "hangoutsMeet"
	entryPointVideo    = "video"
	sendUpdatesAll     = "all"

	reasonRateLimit = "rateLimitExceeded"
	maxAttempts     = 3
	retryBackoff    = 2 * time.Second
)

var (
	ErrMissingRefreshToken = errors.New("token response has no refresh token")
	Scopes                 = []string{calendar.CalendarEventsScope, oauth2api.UserinfoEmailScope}
)

// EventRequest describes a meeting. ID doubles as the idempotency key of the insert.
type EventRequest struct {
	ID            string
	Summary       string
	Description   string
	Start         time.Time
	End           time.Time
	TimeZone      string
	AttendeeName  string
	AttendeeEmail string
}

type Event struct {
	ID       string
	HTMLLink string
	MeetLink string
	Status   string
}

type Client interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	AccountEmail(ctx context.Context, refreshToken string) (string, error)
	CreateEvent(ctx context.Context, refreshToken string, req EventRequest) (Event, error)
	DeleteEvent(ctx context.Context, refreshToken, eventID string) error
}

type clientImpl struct {
	oauthCfg   *oauth2.Config
	calendarID string
	endpoint   string
	limiter    *rate.Limiter
	otel       otel.Otel
}

func New(cfg *config.Config, otl otel.Otel) Client {
	gcfg := cfg.External.Google

	endpoint := google.Endpoint
	if gcfg.AuthURL != "" {
		endpoint.AuthURL = gcfg.AuthURL
	}

	if gcfg.TokenURL != "" {
		endpoint.TokenURL = gcfg.TokenURL
	}

	calendarID := gcfg.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}

	rps := gcfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}

	return &clientImpl{
		oauthCfg: &oauth2.Config{
			ClientID:     gcfg.ClientID,
			ClientSecret: gcfg.ClientSecret,
			RedirectURL:  gcfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       Scopes,
		},
		calendarID: calendarID,
		endpoint:   gcfg.APIEndpoint,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		otel:       otl,
	}
}

func (c *clientImpl) AuthCodeURL(state string) string {
	return c.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

func (c *clientImpl) Exchange(ctx context.Context, code string) (token *oauth2.Token, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelCalendarScopeName, constant.OtelCalendarScopeName+".Exchange")
	defer scope.End()
	defer scope.TraceIfError(err)

	start := time.Now()
	token, err = c.oauthCfg.Exchange(ctx, code)
	metrics.ObserveExternal(metrics.ServiceGoogleCalendar, "exchange", err, time.Since(start))

	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	if token.RefreshToken == "" {
		return nil, ErrMissingRefreshToken
	}

	return token, nil
}

func (c *clientImpl) AccountEmail(ctx context.Context, refreshToken string) (email string, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelCalendarScopeName, constant.OtelCalendarScopeName+".AccountEmail")
	defer scope.End()
	defer scope.TraceIfError(err)

	svc, err := oauth2api.NewService(ctx, c.options(ctx, refreshToken)...)
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to create userinfo service: %w", err)
	}

	var info *oauth2api.Userinfo

	err = c.call(ctx, "userinfo", func() error {
		info, err = svc.Userinfo.Get().Context(ctx).Do()

		return err
	})
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to get account info: %w", err)
	}

	return info.Email, nil
}

// CreateEvent inserts the event with a deterministic id. A conflict means an earlier attempt
// already created it, in which case the stored event is returned.
func (c *clientImpl) CreateEvent(ctx context.Context, refreshToken string, req EventRequest) (event Event, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelCalendarScopeName, constant.OtelCalendarScopeName+".CreateEvent")
	defer scope.End()
	defer scope.TraceIfError(err)

	svc, err := c.service(ctx, refreshToken)
	if err != nil {
		return event, err
	}

	eventID := EventID(req.ID)
	scope.SetAttribute("event.id", eventID)

	var created *calendar.Event

	err = c.call(ctx, "events.insert", func() error {
		created, err = svc.Events.Insert(c.calendarID, newGoogleEvent(eventID, req)).
			ConferenceDataVersion(1).
			SendUpdates(sendUpdatesAll).
			Context(ctx).
			Do()

		return err
	})
	if hasCode(err, http.StatusConflict) {
		log.Info().Str("event_id", eventID).Msg("calendar event already exists, fetching it")

		err = c.call(ctx, "events.get", func() error {
			created, err = svc.Events.Get(c.calendarID, eventID).Context(ctx).Do()

			return err
		})
	}

	if err != nil {
		return event, fmt.Errorf("failed to create calendar event: %w", err)
	}

	return newEvent(created), nil
}

// DeleteEvent treats an event that is already gone as deleted.
func (c *clientImpl) DeleteEvent(ctx context.Context, refreshToken, eventID string) (err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelCalendarScopeName, constant.OtelCalendarScopeName+".DeleteEvent")
	defer scope.End()
	defer scope.TraceIfError(err)

	svc, err := c.service(ctx, refreshToken)
	if err != nil {
		return err
	}

	err = c.call(ctx, "events.delete", func() error {
		return svc.Events.Delete(c.calendarID, eventID).SendUpdates(sendUpdatesAll).Context(ctx).Do()
	})
	if err == nil || hasCode(err, http.StatusNotFound) || hasCode(err, http.StatusGone) {
		return nil
	}

	return fmt.Errorf("failed to delete calendar event: %w", err)
}

func (c *clientImpl) service(ctx context.Context, refreshToken string) (*calendar.Service, error) {
	svc, err := calendar.NewService(ctx, c.options(ctx, refreshToken)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return svc, nil
}

// options mints access tokens on demand from the stored refresh token.
func (c *clientImpl) options(ctx context.Context, refreshToken string) []option.ClientOption {
	source := c.oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	opts := []option.ClientOption{option.WithHTTPClient(oauth2.NewClient(ctx, source))}

	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}

	return opts
}

// call waits for the limiter, records metrics and retries rate limited responses.
func (c *clientImpl) call(ctx context.Context, operation string, fn func() error) error {
	var err error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		start := time.Now()
		err = fn()
		metrics.ObserveExternal(metrics.ServiceGoogleCalendar, operation, err, time.Since(start))

		if !hasReason(err, reasonRateLimit) {
			return err
		}

		log.Warn().Str("operation", operation).Int("attempt", attempt).Msg("google api rate limited, backing off")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryBackoff * time.Duration(attempt)):
		}
	}

	return err
}

// EventID maps an uuid to the base32hex alphabet accepted by Calendar event ids.
func EventID(id string) string {
	return strings.ToLower(strings.ReplaceAll(id, "-", constant.Empty))
}

func newGoogleEvent(eventID string, req EventRequest) *calendar.Event {
	event := &calendar.Event{
		Id:          eventID,
		Summary:     req.Summary,
		Description: req.Description,
		Start:       &calendar.EventDateTime{DateTime: req.Start.Format(time.RFC3339), TimeZone: req.TimeZone},
		End:         &calendar.EventDateTime{DateTime: req.End.Format(time.RFC3339), TimeZone: req.TimeZone},
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId:             req.ID,
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{Type: conferenceTypeMeet},
			},
		},
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "email", Minutes: 24 * 60},
				{Method: "popup", Minutes: 30},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}

	if req.AttendeeEmail != "" {
		event.Attendees = []*calendar.EventAttendee{{Email: req.AttendeeEmail, DisplayName: req.AttendeeName}}
	}

	return event
}

func newEvent(e *calendar.Event) Event {
	event := Event{
		ID:       e.Id,
		HTMLLink: e.HtmlLink,
		MeetLink: e.HangoutLink,
		Status:   e.Status,
	}

	if event.MeetLink == "" && e.ConferenceData != nil {
		for _, entry := range e.ConferenceData.EntryPoints {
			if entry.EntryPointType == entryPointVideo {
				event.MeetLink = entry.Uri

				break
			}
		}
	}

	return event
}

func hasCode(err error, code int) bool {
	var gErr *googleapi.Error

	return errors.As(err, &gErr) && gErr.Code == code
}

func hasReason(err error, reason string) bool {
	var gErr *googleapi.Error
	if !errors.As(err, &gErr) {
		return false
	}

	for _, item := range gErr.Errors {
		if item.Reason == reason {
			return true
		}
	}

	return false
}

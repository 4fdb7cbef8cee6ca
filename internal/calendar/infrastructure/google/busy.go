package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	schedulingDomain "github.com/felixgeelhaar/cadence/internal/scheduling/domain"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	defaultCalendarID = "primary"
	tokenURL          = "https://oauth2.googleapis.com/token"
	authURL           = "https://accounts.google.com/o/oauth2/auth"
)

// ErrNoToken is returned when no refresh token is configured.
var ErrNoToken = errors.New("google: refresh token is required")

// TokenSourceProvider supplies OAuth2 credentials for a user.
type TokenSourceProvider interface {
	TokenSource(ctx context.Context, userID uuid.UUID) (oauth2.TokenSource, error)
}

// RefreshTokenProvider serves a single long-lived refresh token to every
// caller. Access tokens are refreshed and reused until they expire.
type RefreshTokenProvider struct {
	source oauth2.TokenSource
}

// NewRefreshTokenProvider builds a provider from OAuth client credentials.
func NewRefreshTokenProvider(clientID, clientSecret, refreshToken string) (*RefreshTokenProvider, error) {
	if refreshToken == "" {
		return nil, ErrNoToken
	}
	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: tokenURL,
		},
		Scopes: []string{calendar.CalendarReadonlyScope},
	}
	base := cfg.TokenSource(context.Background(), &oauth2.Token{RefreshToken: refreshToken})
	return &RefreshTokenProvider{source: oauth2.ReuseTokenSource(nil, base)}, nil
}

func (p *RefreshTokenProvider) TokenSource(context.Context, uuid.UUID) (oauth2.TokenSource, error) {
	return p.source, nil
}

// BusyProvider reads busy time from the Google Calendar FreeBusy API.
type BusyProvider struct {
	tokens     TokenSourceProvider
	logger     *slog.Logger
	endpoint   string
	calendarID string
}

// NewBusyProvider creates a provider querying the primary calendar.
func NewBusyProvider(tokens TokenSourceProvider, logger *slog.Logger) *BusyProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &BusyProvider{
		tokens:     tokens,
		logger:     logger,
		calendarID: defaultCalendarID,
	}
}

// WithCalendarID sets the calendar to query.
func (p *BusyProvider) WithCalendarID(calendarID string) *BusyProvider {
	if calendarID != "" {
		p.calendarID = calendarID
	}
	return p
}

// WithEndpoint overrides the API base URL.
func (p *BusyProvider) WithEndpoint(endpoint string) *BusyProvider {
	if endpoint != "" && !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	p.endpoint = endpoint
	return p
}

var _ schedulingDomain.BusyTimeProvider = (*BusyProvider)(nil)

// BusyIntervals implements schedulingDomain.BusyTimeProvider.
func (p *BusyProvider) BusyIntervals(ctx context.Context, userID uuid.UUID, rng schedulingDomain.Interval) ([]schedulingDomain.Interval, error) {
	svc, err := p.service(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp, err := svc.Freebusy.Query(&calendar.FreeBusyRequest{
		TimeMin: rng.Start.UTC().Format(time.RFC3339),
		TimeMax: rng.End.UTC().Format(time.RFC3339),
		Items:   []*calendar.FreeBusyRequestItem{{Id: p.calendarID}},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("freebusy query: %w", err)
	}

	cal, ok := resp.Calendars[p.calendarID]
	if !ok {
		return nil, fmt.Errorf("freebusy: calendar %q missing from response", p.calendarID)
	}
	if len(cal.Errors) > 0 {
		return nil, fmt.Errorf("freebusy: calendar %q: %s", p.calendarID, cal.Errors[0].Reason)
	}

	busy := make([]schedulingDomain.Interval, 0, len(cal.Busy))
	for _, period := range cal.Busy {
		start, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			p.logger.Warn("skipping busy period with bad start", "value", period.Start, "error", err)
			continue
		}
		end, err := time.Parse(time.RFC3339, period.End)
		if err != nil {
			p.logger.Warn("skipping busy period with bad end", "value", period.End, "error", err)
			continue
		}
		busy = append(busy, schedulingDomain.NewInterval(start, end))
	}

	p.logger.Debug("fetched google busy time",
		"user_id", userID,
		"calendar_id", p.calendarID,
		"periods", len(busy),
	)
	return busy, nil
}

func (p *BusyProvider) service(ctx context.Context, userID uuid.UUID) (*calendar.Service, error) {
	ts, err := p.tokens.TokenSource(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("token source: %w", err)
	}
	opts := []option.ClientOption{option.WithHTTPClient(oauth2.NewClient(ctx, ts))}
	if p.endpoint != "" {
		opts = append(opts, option.WithEndpoint(p.endpoint))
	}
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("calendar service: %w", err)
	}
	return svc, nil
}

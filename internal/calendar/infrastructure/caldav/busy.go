package caldav

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	schedulingDomain "github.com/felixgeelhaar/cadence/internal/scheduling/domain"
	"github.com/google/uuid"
)

// Common CalDAV server URLs.
const (
	AppleCalDAVURL    = "https://caldav.icloud.com"
	FastmailCalDAVURL = "https://caldav.fastmail.com"
)

// ErrNoCalendars is returned when the account has no calendar collections.
var ErrNoCalendars = errors.New("caldav: no calendars found")

// BusyProvider reads busy time from a CalDAV calendar (Apple Calendar,
// Fastmail, Nextcloud, etc.).
type BusyProvider struct {
	baseURL      string
	username     string
	password     string // app-specific password for Apple
	calendarPath string // specific calendar path, or empty for the first one
	httpClient   *http.Client
	logger       *slog.Logger
}

// NewBusyProvider creates a CalDAV busy-time provider.
func NewBusyProvider(baseURL, username, password string, logger *slog.Logger) *BusyProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &BusyProvider{
		baseURL:    baseURL,
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// WithCalendarPath sets the calendar collection to query.
func (p *BusyProvider) WithCalendarPath(path string) *BusyProvider {
	p.calendarPath = path
	return p
}

// WithHTTPClient replaces the underlying HTTP client.
func (p *BusyProvider) WithHTTPClient(client *http.Client) *BusyProvider {
	if client != nil {
		p.httpClient = client
	}
	return p
}

var _ schedulingDomain.BusyTimeProvider = (*BusyProvider)(nil)

// BusyIntervals implements schedulingDomain.BusyTimeProvider.
func (p *BusyProvider) BusyIntervals(ctx context.Context, userID uuid.UUID, rng schedulingDomain.Interval) ([]schedulingDomain.Interval, error) {
	client, err := caldav.NewClient(webdav.HTTPClientWithBasicAuth(p.httpClient, p.username, p.password), p.baseURL)
	if err != nil {
		return nil, fmt.Errorf("create caldav client: %w", err)
	}

	calPath, err := p.findCalendarPath(ctx, client)
	if err != nil {
		return nil, err
	}

	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name:  ical.CompCalendar,
			Props: []string{ical.PropVersion},
			Comps: []caldav.CalendarCompRequest{{
				Name: ical.CompEvent,
				Props: []string{
					ical.PropUID, ical.PropDateTimeStart, ical.PropDateTimeEnd, ical.PropDuration,
					ical.PropStatus, ical.PropTransparency, ical.PropRecurrenceRule,
				},
			}},
		},
		CompFilter: caldav.CompFilter{
			Name: ical.CompCalendar,
			Comps: []caldav.CompFilter{{
				Name:  ical.CompEvent,
				Start: rng.Start,
				End:   rng.End,
			}},
		},
	}

	objects, err := client.QueryCalendar(ctx, calPath, query)
	if err != nil {
		return nil, fmt.Errorf("query calendar: %w", err)
	}

	busy := busyFromObjects(objects, rng, p.logger)
	p.logger.Debug("fetched caldav busy time",
		"user_id", userID,
		"calendar", calPath,
		"objects", len(objects),
		"periods", len(busy),
	)
	return busy, nil
}

func (p *BusyProvider) findCalendarPath(ctx context.Context, client *caldav.Client) (string, error) {
	if p.calendarPath != "" {
		return p.calendarPath, nil
	}

	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("find principal: %w", err)
	}
	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return "", fmt.Errorf("find calendar home set: %w", err)
	}
	cals, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return "", fmt.Errorf("find calendars: %w", err)
	}
	if len(cals) == 0 {
		return "", ErrNoCalendars
	}
	return cals[0].Path, nil
}

// busyFromObjects extracts the opaque, non-cancelled events of each object
// that overlap rng. Recurring events are expanded inside rng.
func busyFromObjects(objects []caldav.CalendarObject, rng schedulingDomain.Interval, logger *slog.Logger) []schedulingDomain.Interval {
	loc := rng.Start.Location()
	var busy []schedulingDomain.Interval
	for _, obj := range objects {
		if obj.Data == nil {
			continue
		}
		for _, child := range obj.Data.Children {
			if child.Name != ical.CompEvent || !blocksTime(child) {
				continue
			}
			event := &ical.Event{Component: child}
			intervals, err := eventIntervals(event, rng, loc)
			if err != nil {
				logger.Warn("skipping unreadable calendar event", "path", obj.Path, "error", err)
				continue
			}
			busy = append(busy, intervals...)
		}
	}
	return busy
}

func blocksTime(c *ical.Component) bool {
	if prop := c.Props.Get(ical.PropTransparency); prop != nil && strings.EqualFold(prop.Value, "TRANSPARENT") {
		return false
	}
	if prop := c.Props.Get(ical.PropStatus); prop != nil && strings.EqualFold(prop.Value, "CANCELLED") {
		return false
	}
	return true
}

func eventIntervals(event *ical.Event, rng schedulingDomain.Interval, loc *time.Location) ([]schedulingDomain.Interval, error) {
	start, err := event.DateTimeStart(loc)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	end, err := event.DateTimeEnd(loc)
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}
	length := end.Sub(start)
	if length <= 0 {
		return nil, nil
	}

	set, err := event.RecurrenceSet(loc)
	if err != nil {
		return nil, fmt.Errorf("recurrence: %w", err)
	}

	starts := []time.Time{start}
	if set != nil {
		// Occurrences that began before rng can still run into it.
		starts = set.Between(rng.Start.Add(-length), rng.End, true)
	}

	var out []schedulingDomain.Interval
	for _, s := range starts {
		iv := schedulingDomain.NewInterval(s, s.Add(length))
		if iv.Overlaps(rng) {
			out = append(out, iv)
		}
	}
	return out, nil
}

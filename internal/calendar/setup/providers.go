package setup

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/cadence/internal/calendar/domain"
	"github.com/felixgeelhaar/cadence/internal/calendar/infrastructure/cache"
	"github.com/felixgeelhaar/cadence/internal/calendar/infrastructure/caldav"
	googleCal "github.com/felixgeelhaar/cadence/internal/calendar/infrastructure/google"
	schedulingDomain "github.com/felixgeelhaar/cadence/internal/scheduling/domain"
	"github.com/redis/go-redis/v9"
)

// ErrIncompleteConfig is returned when a provider is selected without the
// settings it needs.
var ErrIncompleteConfig = errors.New("calendar provider configuration is incomplete")

// GoogleConfig holds Google Calendar credentials.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	CalendarID   string
}

// CalDAVConfig holds CalDAV credentials.
type CalDAVConfig struct {
	URL          string
	Username     string
	Password     string
	CalendarPath string
}

// ProviderConfig selects and configures the busy-time provider.
type ProviderConfig struct {
	Provider domain.ProviderType
	Google   GoogleConfig
	CalDAV   CalDAVConfig
	Redis    *redis.Client
	CacheTTL time.Duration
	Logger   *slog.Logger
}

// NewBusyTimeProvider builds the configured provider. It returns nil for
// ProviderNone, which leaves every working hour free.
func NewBusyTimeProvider(config ProviderConfig) (schedulingDomain.BusyTimeProvider, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var provider schedulingDomain.BusyTimeProvider
	switch config.Provider {
	case domain.ProviderNone, "":
		logger.Debug("calendar disabled")
		return nil, nil

	case domain.ProviderGoogle:
		tokens, err := googleCal.NewRefreshTokenProvider(config.Google.ClientID, config.Google.ClientSecret, config.Google.RefreshToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIncompleteConfig, err)
		}
		provider = googleCal.NewBusyProvider(tokens, logger).WithCalendarID(config.Google.CalendarID)

	case domain.ProviderApple, domain.ProviderCalDAV:
		baseURL := config.CalDAV.URL
		if baseURL == "" && config.Provider == domain.ProviderApple {
			baseURL = caldav.AppleCalDAVURL
		}
		if baseURL == "" || config.CalDAV.Username == "" {
			return nil, fmt.Errorf("%w: %s needs a URL and username", ErrIncompleteConfig, config.Provider)
		}
		provider = caldav.NewBusyProvider(baseURL, config.CalDAV.Username, config.CalDAV.Password, logger).
			WithCalendarPath(config.CalDAV.CalendarPath)

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownProvider, config.Provider)
	}

	logger.Debug("registered calendar provider", "provider", config.Provider.DisplayName())
	if config.Redis != nil && config.CacheTTL > 0 {
		return cache.NewBusyCache(provider, config.Redis, config.CacheTTL, logger), nil
	}
	return provider, nil
}

package timezone

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
)

const lastKnownGoodKey = "system_timezone"

// Source reads the configured system timezone, e.g. from the settings table.
type Source interface {
	GetSystemTimezone(ctx context.Context) (string, error)
}

// Zone is the timezone to use for one computation.
type Zone struct {
	Location *time.Location
	Name     string
	Fallback bool
	Reason   string
}

// Provider resolves the system timezone. When the source fails it falls back
// to the last zone it loaded successfully, then to the configured default,
// and logs that the fallback happened.
type Provider struct {
	source      Source
	defaultZone *time.Location
	lastGood    *cache.Cache
}

func NewProvider(source Source, defaultZone string) (*Provider, error) {
	loc, err := time.LoadLocation(defaultZone)
	if err != nil {
		return nil, fmt.Errorf("invalid default timezone %q: %w", defaultZone, err)
	}
	return &Provider{
		source:      source,
		defaultZone: loc,
		lastGood:    cache.New(cache.NoExpiration, 0),
	}, nil
}

// Current returns the zone every date-boundary decision must use right now.
func (p *Provider) Current(ctx context.Context) Zone {
	name, err := p.source.GetSystemTimezone(ctx)
	if err == nil {
		loc, loadErr := time.LoadLocation(name)
		if loadErr == nil {
			p.remember(loc)
			return Zone{Location: loc, Name: loc.String()}
		}
		err = fmt.Errorf("invalid system timezone %q: %w", name, loadErr)
	}

	if cached, found := p.lastGood.Get(lastKnownGoodKey); found {
		loc := cached.(*time.Location)
		slog.Warn("Timezone provider failed, using last known good zone",
			"zone", loc.String(),
			"error", err)
		return Zone{Location: loc, Name: loc.String(), Fallback: true, Reason: "last_known_good"}
	}

	slog.Warn("Timezone provider failed, using default zone",
		"zone", p.defaultZone.String(),
		"error", err)
	return Zone{Location: p.defaultZone, Name: p.defaultZone.String(), Fallback: true, Reason: "default"}
}

// Refresh reloads the zone and logs when it differs from the previous one.
func (p *Provider) Refresh(ctx context.Context) error {
	var previous string
	if cached, found := p.lastGood.Get(lastKnownGoodKey); found {
		previous = cached.(*time.Location).String()
	}

	zone := p.Current(ctx)
	if zone.Fallback {
		return fmt.Errorf("system timezone unavailable, serving %s (%s)", zone.Name, zone.Reason)
	}
	if previous != "" && previous != zone.Name {
		slog.Info("System timezone changed", "from", previous, "to", zone.Name)
	}
	return nil
}

func (p *Provider) remember(loc *time.Location) {
	p.lastGood.Set(lastKnownGoodKey, loc, cache.NoExpiration)
}

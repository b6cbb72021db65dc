package timezone

import (
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"fair/config"
)

var location atomic.Pointer[time.Location]

func init() {
	name := config.Get().App.Timezone

	if err := Load(name); err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("falling back to UTC")
	}
}

// Load switches the fair location. An empty name selects UTC. On error the
// location is reset to UTC.
func Load(name string) error {
	if name == "" {
		location.Store(time.UTC)

		return nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		location.Store(time.UTC)

		return errors.Wrapf(err, "unknown timezone %q", name)
	}

	location.Store(loc)

	return nil
}

// Location returns the fair location.
func Location() *time.Location {
	if loc := location.Load(); loc != nil {
		return loc
	}

	return time.UTC
}

func Now() time.Time {
	return time.Now().In(Location())
}

func In(t time.Time) time.Time {
	return t.In(Location())
}

func Format(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}

	return In(t).Format(layout)
}

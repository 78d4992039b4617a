package clock

import (
	"time"

	"go.uber.org/fx"
)

// Module provides the system clock.
var Module = fx.Provide(NewSystemClock)

// Clock supplies the current time. Every aging computation takes an
// explicit as-of date derived from a Clock, never from time.Now directly,
// so batch runs stay deterministic and testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

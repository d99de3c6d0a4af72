package limits

import "time"

// Clock abstracts wall-clock reads so tests can drive virtual time
// instead of sleeping.
type Clock interface {
	Now() time.Time
}

// systemClock reads the real wall clock.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

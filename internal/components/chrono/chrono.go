package chrono

import (
	"time"
)

// TimeAPI is the interface that anything depending on the system clock should use.
type TimeAPI interface {
	// Now returns the current time in the reference location.
	Now() time.Time
	// Location returns the reference location, day boundaries are computed in it.
	Location() *time.Location
}

// StandardTime is the standard implementation of TimeAPI using the standard library.
type StandardTime struct {
	location *time.Location
}

// NewStandardTime loads the named location, an empty name means UTC.
func NewStandardTime(name string) (StandardTime, error) {
	location, err := LoadLocation(name)
	if err != nil {
		return StandardTime{}, err
	}
	return StandardTime{location: location}, nil
}

func (s StandardTime) Now() time.Time {
	return time.Now().In(s.location)
}

func (s StandardTime) Location() *time.Location {
	return s.location
}

// FixedTime is a TimeAPI that always returns the same instant, tests may
// change At between calls.
type FixedTime struct {
	At  time.Time
	Loc *time.Location
}

func (f *FixedTime) Now() time.Time {
	return f.At.In(f.Location())
}

func (f *FixedTime) Location() *time.Location {
	if f.Loc == nil {
		return time.UTC
	}
	return f.Loc
}

// LoadLocation is time.LoadLocation except that the empty string means UTC instead of Local,
// servers running the bot should not depend on the host's timezone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}

// DateString formats the calendar date of t in loc as YYYY-MM-DD.
func DateString(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.DateOnly)
}

// IsMidnight returns true when t is within the first minute of a day in loc.
func IsMidnight(t time.Time, loc *time.Location) bool {
	local := t.In(loc)
	return local.Hour() == 0 && local.Minute() == 0
}

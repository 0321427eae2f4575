package panel

import (
	"fmt"
	"time"

	"github.com/mazen160/go-random"
)

// EvasionPolicy decides how the engine presents itself to the panels and how
// long it waits between accounts to avoid being throttled. It is camouflage,
// nothing about a login's outcome depends on it.
type EvasionPolicy interface {
	// UserAgent is called once per account.
	UserAgent() string
	// Delay is the pause after an account has been processed.
	Delay() time.Duration
}

var (
	uaBrowsers = []string{"Chrome", "Firefox", "Safari", "Edge", "Opera"}
	uaSystems  = []string{"Windows NT 10.0", "Macintosh", "X11"}
	uaPlatform = map[string]string{
		"Windows NT 10.0": "Win64; x64",
		"Macintosh":       "Intel Mac OS X 10_15_7",
		"X11":             "Linux x86_64",
	}
)

// RandomEvasion draws a delay uniformly from [MinDelay, MaxDelay) and a user
// agent from small fixed pools of browsers, versions and operating systems.
type RandomEvasion struct {
	MinDelay time.Duration
	MaxDelay time.Duration
}

// DefaultEvasion waits between one and nine seconds.
func DefaultEvasion() RandomEvasion {
	return RandomEvasion{
		MinDelay: time.Second,
		MaxDelay: 9 * time.Second,
	}
}

func intRange(min, max int) int {
	if max <= min {
		return min
	}
	n, err := random.IntRange(min, max)
	if err != nil {
		return min
	}
	return n
}

func choice(values []string) string {
	v, err := random.Choice(values)
	if err != nil {
		return values[0]
	}
	return v
}

func (r RandomEvasion) UserAgent() string {
	browser := choice(uaBrowsers)
	version := intRange(1, 101)
	system := choice(uaSystems)
	return fmt.Sprintf(
		"Mozilla/5.0 (%s; %s) AppleWebKit/537.36 (KHTML, like Gecko) %s/%d.0.0.0 Safari/537.36",
		system, uaPlatform[system], browser, version,
	)
}

func (r RandomEvasion) Delay() time.Duration {
	ms := intRange(int(r.MinDelay.Milliseconds()), int(r.MaxDelay.Milliseconds()))
	return time.Duration(ms) * time.Millisecond
}

// FixedEvasion always presents the same user agent and pause.
type FixedEvasion struct {
	Agent string
	Pause time.Duration
}

func (f FixedEvasion) UserAgent() string {
	return f.Agent
}

func (f FixedEvasion) Delay() time.Duration {
	return f.Pause
}

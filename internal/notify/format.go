package notify

import (
	"fmt"
	"strings"
	"time"

	"loginbot/internal/panel"
)

const timeLayout = "2006-01-02 15:04:05"

// Mask keeps the first two and last two characters of a username and hides
// the rest. Usernames shorter than four characters are hidden entirely.
func Mask(username string) string {
	runes := []rune(username)
	if len(runes) < 4 {
		return "****"
	}
	return string(runes[:2]) + "****" + string(runes[len(runes)-2:])
}

// Formatter renders the operator facing messages.
type Formatter struct {
	// Display is the extra timezone login times are shown in next to UTC.
	Display *time.Location
}

func (f Formatter) display() *time.Location {
	if f.Display == nil {
		return time.UTC
	}
	return f.Display
}

// AccountLine is the message sent right after an account was processed.
func (f Formatter) AccountLine(res panel.Result) string {
	user := Mask(res.Username)
	if res.Success() {
		return fmt.Sprintf(
			"Account %s (%s) logged in successfully at %s %s (UTC %s).",
			user, res.Type,
			res.At.In(f.display()).Format(timeLayout), f.display().String(),
			res.At.UTC().Format(timeLayout),
		)
	}
	return fmt.Sprintf("Account %s (%s) failed: %s.", user, res.Type, res.Message)
}

// Batch locates a slice of accounts within the whole list.
type Batch struct {
	Index int
	Start int
	End   int
	Total int
}

// Summary is sent once a slice of accounts has been processed.
func (f Formatter) Summary(batch Batch, results []panel.Result) string {
	var failed []panel.Result
	for _, res := range results {
		if !res.Success() {
			failed = append(failed, res)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Batch %d: accounts %d~%d/%d\n", batch.Index+1, batch.Start+1, batch.End, batch.Total)
	fmt.Fprintf(&b, "Successful logins: %d\n", len(results)-len(failed))
	fmt.Fprintf(&b, "Failed logins: %d\n", len(failed))
	if len(failed) > 0 {
		b.WriteString("\nFailed accounts:\n")
		for _, res := range failed {
			fmt.Fprintf(&b, "- %s (%s): %s\n", Mask(res.Username), res.Type, res.Message)
		}
	}
	return b.String()
}

func (f Formatter) Progress(batch Batch) string {
	return fmt.Sprintf(
		"Processed accounts: %d/%d, batch %d runs on the next trigger.",
		batch.End, batch.Total, batch.Index+2,
	)
}

func (f Formatter) Complete() string {
	return "All accounts processed! The next pass starts from the beginning."
}

func (f Formatter) DayReset() string {
	return "[System] Batch index reset, ready for a new day of batch processing."
}

func (f Formatter) ConfigWarning() string {
	return "[Warning] Configuration error, check ACCOUNTS_JSON and TELEGRAM_JSON."
}

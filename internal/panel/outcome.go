package panel

import (
	"errors"
	"time"
)

var ErrCsrfNotFound = errors.New("csrf token not found on login page")

// Outcome classifies a single login attempt.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	// the login redirected to the dashboard but the dashboard did not look logged in
	OutcomeVerificationFailure
	OutcomeAuthenticationFailure
	OutcomeUnknownFailure
	// transport errors, missing csrf tokens and anything else that stopped the flow early
	OutcomeNetworkOrParseFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeVerificationFailure:
		return "verification_failure"
	case OutcomeAuthenticationFailure:
		return "authentication_failure"
	case OutcomeUnknownFailure:
		return "unknown_failure"
	case OutcomeNetworkOrParseFailure:
		return "network_or_parse_failure"
	default:
		return "invalid"
	}
}

// Result is the outcome of one account's login, it never carries the password.
type Result struct {
	Username string
	Type     string
	Outcome  Outcome
	// Message is a short human readable reason.
	Message string
	// Err is set for OutcomeNetworkOrParseFailure.
	Err error
	At  time.Time
}

func (r Result) Success() bool {
	return r.Outcome == OutcomeSuccess
}

func newResult(acct Account, at time.Time, outcome Outcome, err error) Result {
	res := Result{
		Username: acct.Username,
		Type:     acct.Type,
		Outcome:  outcome,
		Err:      err,
		At:       at,
	}
	switch outcome {
	case OutcomeSuccess:
		res.Message = "logged in"
	case OutcomeVerificationFailure:
		res.Message = "no logout link found after login, the login may have failed"
	case OutcomeAuthenticationFailure:
		res.Message = "invalid username or password"
	case OutcomeUnknownFailure:
		res.Message = "login failed for an unknown reason, check the username and password"
	case OutcomeNetworkOrParseFailure:
		res.Message = "error during login: " + err.Error()
	}
	return res
}

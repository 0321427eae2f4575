package panel

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"loginbot/internal/components/assert"
	"loginbot/internal/components/chrono"
	"loginbot/internal/components/telemetry"
	"loginbot/internal/cookies"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	report_engine_login     = "engine.login"
	report_engine_login_all = "engine.login-all"
)

var tracer = telemetry.Tracer("loginbot.panel")

type Options struct {
	Signals PageSignals
	Evasion EvasionPolicy
	URLs    URLResolver
	Time    chrono.TimeAPI
	// Timeout applies to each request, defaults to 30 seconds.
	Timeout time.Duration
	// CloudflareBypass wraps the transport with browser-like TLS and headers.
	CloudflareBypass bool
}

// Engine emulates the browser login flow of the panels, one account at a time.
type Engine struct {
	signals          PageSignals
	evasion          EvasionPolicy
	urls             URLResolver
	time             chrono.TimeAPI
	timeout          time.Duration
	cloudflareBypass bool

	tel telemetry.API
}

func NewEngine(tel telemetry.API, opts Options) *Engine {
	assert.NotNil(tel)
	assert.NotNil(opts.Time)

	if opts.Signals == nil {
		opts.Signals = DefaultSignals()
	}
	if opts.Evasion == nil {
		opts.Evasion = DefaultEvasion()
	}
	if opts.URLs == nil {
		opts.URLs = PanelResolver{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	return &Engine{
		signals:          opts.Signals,
		evasion:          opts.Evasion,
		urls:             opts.URLs,
		time:             opts.Time,
		timeout:          opts.Timeout,
		cloudflareBypass: opts.CloudflareBypass,
		tel:              telemetry.NewScopedAPI("panel", tel),
	}
}

// every account gets a fresh client so no state leaks between sessions,
// cookies are propagated by hand and redirects are never followed.
func (e *Engine) newHttpClient() *resty.Client {
	client := resty.New()
	client.SetCookieJar(nil)
	client.SetTimeout(e.timeout)
	client.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}))
	if e.cloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}
	telemetry.InstrumentResty(client, e.tel)
	return client
}

func redirectsToRoot(res *resty.Response) bool {
	status := res.StatusCode()
	if status < 300 || status > 399 {
		return false
	}
	location, err := url.Parse(res.Header().Get("Location"))
	if err != nil || location.Path != "/" {
		return false
	}
	if location.Host == "" {
		return true
	}
	return res.RawResponse != nil &&
		res.RawResponse.Request != nil &&
		res.RawResponse.Request.URL.Host == location.Host
}

func (e *Engine) login(ctx context.Context, acct Account) (Outcome, error) {
	loginUrl, err := e.urls.LoginURL(acct)
	if err != nil {
		return OutcomeNetworkOrParseFailure, err
	}
	userAgent := e.evasion.UserAgent()
	client := e.newHttpClient()

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.String("login_url", loginUrl))

	loginPage, err := client.R().
		SetContext(ctx).
		SetHeader("User-Agent", userAgent).
		Get(loginUrl)
	if err != nil {
		return OutcomeNetworkOrParseFailure, fmt.Errorf("fetch login page: %w", err)
	}
	csrfToken, ok := e.signals.CsrfToken(loginPage.String())
	if !ok {
		return OutcomeNetworkOrParseFailure, ErrCsrfNotFound
	}
	initialCookies := cookies.Header(loginPage.Cookies())

	submit := client.R().
		SetContext(ctx).
		SetHeader("User-Agent", userAgent).
		SetHeader("Referer", loginUrl).
		SetFormData(map[string]string{
			"username":            acct.Username,
			"password":            acct.Password,
			"csrfmiddlewaretoken": csrfToken,
			"next":                "/",
		})
	if initialCookies != "" {
		submit.SetHeader("Cookie", initialCookies)
	}
	loginRes, err := submit.Post(loginUrl)
	if err != nil {
		return OutcomeNetworkOrParseFailure, fmt.Errorf("submit login form: %w", err)
	}
	span.SetAttributes(attribute.Int("login_status", loginRes.StatusCode()))

	if redirectsToRoot(loginRes) {
		allCookies := cookies.Merge(initialCookies, cookies.Header(loginRes.Cookies()))
		dashboard := client.R().
			SetContext(ctx).
			SetHeader("User-Agent", userAgent)
		if allCookies != "" {
			dashboard.SetHeader("Cookie", allCookies)
		}
		dashboardRes, err := dashboard.Get(RootURL(loginUrl))
		if err != nil {
			return OutcomeNetworkOrParseFailure, fmt.Errorf("fetch dashboard: %w", err)
		}
		if e.signals.HasLogoutMarker(dashboardRes.String()) {
			return OutcomeSuccess, nil
		}
		return OutcomeVerificationFailure, nil
	}

	if e.signals.HasInvalidCredentialsMarker(loginRes.String()) {
		return OutcomeAuthenticationFailure, nil
	}
	return OutcomeUnknownFailure, nil
}

// Login runs the full flow for one account, failures are folded into the result.
func (e *Engine) Login(ctx context.Context, acct Account) Result {
	ctx, span := tracer.Start(ctx, "engine:Login", trace.WithAttributes(
		attribute.String("account_type", acct.Type),
	))
	defer span.End()

	outcome, err := e.login(ctx, acct)
	res := newResult(acct, e.time.Now(), outcome, err)

	span.SetAttributes(attribute.String("outcome", outcome.String()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, res.Message)
		e.tel.ReportWarning(report_engine_login, acct.Type, err)
	} else if !res.Success() {
		span.SetStatus(codes.Error, res.Message)
	}
	return res
}

func (e *Engine) pause(ctx context.Context) error {
	delay := e.evasion.Delay()
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// LoginAll logs into each account in order, calling onResult as soon as an
// account is done and pausing for the evasion delay after it.
//
// It stops early only when ctx is cancelled, the results gathered so far are
// returned. An account whose login was cut off by the cancellation gets no result.
func (e *Engine) LoginAll(ctx context.Context, accounts []Account, onResult func(ctx context.Context, res Result)) []Result {
	results := make([]Result, 0, len(accounts))
	for _, acct := range accounts {
		if ctx.Err() != nil {
			break
		}
		res := e.Login(ctx, acct)
		if res.Err != nil && ctx.Err() != nil {
			// the attempt was cut short, it is neither a success nor a failure
			e.tel.ReportWarning(report_engine_login_all, fmt.Errorf("interrupted during %s: %w", acct.Type, ctx.Err()))
			break
		}
		results = append(results, res)
		if onResult != nil {
			onResult(ctx, res)
		}
		err := e.pause(ctx)
		if err != nil {
			e.tel.ReportWarning(report_engine_login_all, fmt.Errorf("interrupted: %w", err))
			break
		}
	}
	return results
}

// client.go contains the construction of the scraping client and its shared
// http plumbing, the operations live in session.go, agenda.go and birthdays.go.

package myclinic

import (
	"fmt"
	"myclinic-backend/internal/components/assert"
	"myclinic-backend/internal/components/chrono"
	"myclinic-backend/internal/components/telemetry"
	"myclinic-backend/lib/restyutil"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/singleflight"
)

const (
	report_client_login          = "client.login"
	report_client_reauthenticate = "client.reauthenticate"
	report_client_refresh_csrf   = "client.refresh-csrf"
	report_agenda_list           = "agenda.list"
	report_agenda_detail         = "agenda.detail"
	report_agenda_items          = "agenda.items"
	report_birthdays_page        = "birthdays.page"
	report_birthdays_parse       = "birthdays.parse"
)

const (
	pathSignIn         = "/users/sign_in"
	pathHome           = "/"
	pathSchedules      = "/schedules/entries"
	pathEventDetail    = "/schedules/%d/event_detail"
	pathBirthdayReport = "/report/customers_birthdays"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/141.0.0.0 Safari/537.36"

var tracer = otel.Tracer("myclinic-backend/scrapers/myclinic")
var meter = otel.Meter("myclinic-backend/scrapers/myclinic")
var loginCounter, _ = meter.Int64Counter("myclinic.logins")
var reauthCounter, _ = meter.Int64Counter("myclinic.reauthentications")

const DefaultDetailConcurrency = 8

type Options struct {
	// BaseUrl is the root of the tenant's site, ex. https://myclinic.bemp.app
	BaseUrl string
	// Subdomain selects the organization on the login form.
	Subdomain string
	// SalonId is the location the birthday report is filtered to.
	SalonId string
	// DetailConcurrency bounds the in-flight event detail requests of a single
	// agenda call, <= 0 means one request per entry at once.
	DetailConcurrency int
	// Timeout of every outbound request, 30 seconds when zero.
	Timeout time.Duration
	// CloudflareBypass wraps the transport with browser-like TLS settings.
	CloudflareBypass bool
	// Output receives raw http exchanges when not nil.
	Output restyutil.InstrumentOutput
}

type credentials struct {
	identity string
	secret   string
}

type sessionState struct {
	cookie      string
	csrfToken   string
	credentials *credentials
}

// Client is an authenticated scraping session against a single myclinic
// tenant. It is safe for concurrent use.
type Client struct {
	baseUrl *url.URL
	http    *resty.Client
	opts    Options
	tel     telemetry.API
	time    chrono.API

	mutex sync.RWMutex
	state sessionState

	// loginMutex serializes login handshakes, relogins coalesces implicit
	// logins from stored credentials.
	loginMutex sync.Mutex
	relogins   singleflight.Group
}

func NewClient(opts Options, clock chrono.API, tel telemetry.API) (*Client, error) {
	assert.NotNil("clock", clock)
	assert.NotNil("telemetry", tel)
	assert.NotEmptyStr("base url", opts.BaseUrl)

	tel = telemetry.NewScopedAPI("myclinic_scraper", tel)

	opts.BaseUrl = strings.TrimSuffix(opts.BaseUrl, "/")
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if baseUrl.Scheme == "" || baseUrl.Host == "" {
		return nil, fmt.Errorf("base url must be absolute: %q", opts.BaseUrl)
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(opts.BaseUrl)
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	httpClient.SetHeaders(map[string]string{
		"User-Agent":      userAgent,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7",
		"Accept-Language": "en-US,en;q=0.9",
	})
	// the session cookie is handled by hand, redirects are observed instead of
	// followed so that login responses keep their Set-Cookie header.
	httpClient.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}))
	httpClient.SetCookieJar(nil)
	httpClient.SetTimeout(opts.Timeout)

	telemetry.InstrumentResty(httpClient, tel, opts.Output)

	return &Client{
		baseUrl: baseUrl,
		http:    httpClient,
		opts:    opts,
		tel:     tel,
		time:    clock,
	}, nil
}

func (c *Client) snapshot() sessionState {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.state
}

func (c *Client) csrfToken() string {
	return c.snapshot().csrfToken
}

func (c *Client) setCsrfToken(token string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.state.csrfToken = token
}

func (c *Client) referer(path string) string {
	return c.opts.BaseUrl + path
}

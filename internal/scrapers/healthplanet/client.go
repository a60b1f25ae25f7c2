// client.go contains the http plumbing shared by the OAuth hand-off and the innerscan api.

package healthplanet

import (
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"
	"healthplanet-notify/internal/components/assert"
	"healthplanet-notify/internal/components/telemetry"
	"healthplanet-notify/pkg/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseUrl     = "https://www.healthplanet.jp"
	DefaultRedirectUri = "https://www.healthplanet.jp/success.html"

	endpoint_login     = "/login_oauth.do"
	endpoint_auth      = "/oauth/auth"
	endpoint_approval  = "/oauth/approval.do"
	endpoint_token     = "/oauth/token"
	endpoint_innerscan = "/status/innerscan.json"

	default_scope         = "innerscan"
	default_response_type = "code"
	default_grant_type    = "authorization_code"

	user_agent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
)

type ClientOptions struct {
	// BaseUrl defaults to DefaultBaseUrl.
	BaseUrl     string
	Credentials Credentials
	// EmulateBrowser wraps the transport so the TLS handshake and headers look like a browser's.
	EmulateBrowser bool
	// RateLimit defaults to 2 requests per second.
	RateLimit rate.Limit
	// Timeout is the per request timeout, it defaults to 30 seconds.
	Timeout time.Duration
	// Dump receives every request/response pair when set, for inspecting the scraped pages.
	Dump restyutil.Output
}

// Client talks to Health Planet, it holds no session state between calls.
type Client struct {
	baseUrl     *url.URL
	credentials Credentials
	options     ClientOptions
	limiter     *rate.Limiter
	api         *resty.Client

	tel telemetry.API
}

func NewClient(options ClientOptions, tel telemetry.API) (*Client, error) {
	assert.NotNil("tel", tel)
	tel = telemetry.NewScopedAPI("healthplanet", tel)

	if options.BaseUrl == "" {
		options.BaseUrl = DefaultBaseUrl
	}
	if options.Credentials.RedirectUri == "" {
		options.Credentials.RedirectUri = DefaultRedirectUri
	}
	if options.RateLimit == 0 {
		options.RateLimit = 2
	}
	if options.Timeout == 0 {
		options.Timeout = time.Second * 30
	}

	baseUrl, err := url.Parse(options.BaseUrl)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if baseUrl.Scheme == "" || baseUrl.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", options.BaseUrl)
	}

	c := &Client{
		baseUrl:     baseUrl,
		credentials: options.Credentials,
		options:     options,
		// max burst >= 1 just means that no requests will be dropped
		limiter: rate.NewLimiter(options.RateLimit, 1),
		tel:     tel,
	}
	c.api = c.newHttpClient("api")
	return c, nil
}

func (c *Client) newHttpClient(name string) *resty.Client {
	httpClient := resty.New()
	httpClient.SetBaseURL(c.baseUrl.String())
	httpClient.SetTimeout(c.options.Timeout)
	httpClient.SetHeader("user-agent", user_agent)
	// resty installs a jar by default, only sessions are allowed to keep cookies
	httpClient.SetCookieJar(nil)
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(c.baseUrl.Hostname()))
	if c.options.EmulateBrowser {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}

	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return c.limiter.Wait(req.Context())
	})
	telemetry.InstrumentResty(httpClient, c.tel)
	restyutil.Dump(httpClient, name, c.options.Dump)

	return httpClient
}

// newSession returns an http client with a fresh cookie jar, the jar is what carries the login
// between the steps of the OAuth hand-off.
func (c *Client) newSession() (*resty.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	session := c.newHttpClient("session")
	session.SetCookieJar(jar)
	return session, nil
}

func checkStatus(endpoint string, res *resty.Response) error {
	if res.IsError() {
		return &StatusError{
			Endpoint:   endpoint,
			StatusCode: res.StatusCode(),
			Status:     res.Status(),
		}
	}
	return nil
}

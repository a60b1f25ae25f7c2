package healthplanet

import (
	"context"
	"encoding/json"
	"fmt"
	"healthplanet-notify/pkg/htmlutil"
)

const report_client_authenticate = "client.authenticate"

var (
	oauthTokenField = htmlutil.Field{
		Name:     "oauth_token",
		Selector: "input[name=oauth_token]",
		Attr:     "value",
	}
	authCodeField = htmlutil.Field{
		Name:     "code",
		Selector: "textarea#code",
	}
)

// Authenticate replays the browser OAuth hand-off and returns an access token.
//
//  1. GET /oauth/auth, redirects lead to the login landing page
//  2. POST /login_oauth.do with the user's credentials
//  3. read the hidden oauth_token input off the resulting page
//  4. POST /oauth/approval.do to approve the client
//  5. read the authorization code out of the textarea#code element
//  6. POST /oauth/token to exchange the code for an access token
//
// The cookie session used by steps 1-4 is discarded when this returns.
func (c *Client) Authenticate(ctx context.Context) (Token, error) {
	authError := func(err error) (Token, error) {
		c.tel.ReportBroken(report_client_authenticate, err)
		return Token{}, fmt.Errorf("healthplanet: authenticate: %w", err)
	}

	session, err := c.newSession()
	if err != nil {
		return authError(fmt.Errorf("create session: %w", err))
	}

	res, err := session.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"client_id":     c.credentials.ClientId,
			"redirect_uri":  c.credentials.RedirectUri,
			"scope":         default_scope,
			"response_type": default_response_type,
		}).
		Get(endpoint_auth)
	if err != nil {
		return authError(fmt.Errorf("auth request: %w", err))
	}
	if err := checkStatus(endpoint_auth, res); err != nil {
		return authError(err)
	}
	landingUrl := res.RawResponse.Request.URL.String()
	c.tel.ReportDebug(report_client_authenticate, "landing url", landingUrl)

	res, err = session.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"loginId": c.credentials.UserId,
			"passwd":  c.credentials.Password,
			"send":    "1",
			"url":     landingUrl,
		}).
		Post(endpoint_login)
	if err != nil {
		return authError(fmt.Errorf("login request: %w", err))
	}
	if err := checkStatus(endpoint_login, res); err != nil {
		return authError(err)
	}

	oauthToken, err := htmlutil.Extract(res.Body(), oauthTokenField)
	if err != nil {
		return authError(&ParseError{Step: "login", Err: err})
	}

	res, err = session.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"approval":    "true",
			"oauth_token": oauthToken,
		}).
		Post(endpoint_approval)
	if err != nil {
		return authError(fmt.Errorf("approval request: %w", err))
	}
	if err := checkStatus(endpoint_approval, res); err != nil {
		return authError(err)
	}

	code, err := htmlutil.Extract(res.Body(), authCodeField)
	if err != nil {
		return authError(&ParseError{Step: "approval", Err: err})
	}

	token, err := c.exchangeCode(ctx, code)
	if err != nil {
		return authError(err)
	}
	return token, nil
}

func (c *Client) exchangeCode(ctx context.Context, code string) (Token, error) {
	res, err := c.api.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"client_id":     c.credentials.ClientId,
			"client_secret": c.credentials.ClientSecret,
			"redirect_uri":  c.credentials.RedirectUri,
			"code":          code,
			"grant_type":    default_grant_type,
		}).
		Post(endpoint_token)
	if err != nil {
		return Token{}, fmt.Errorf("token request: %w", err)
	}
	if err := checkStatus(endpoint_token, res); err != nil {
		return Token{}, err
	}

	var token Token
	err = json.Unmarshal(res.Body(), &token)
	if err != nil {
		return Token{}, fmt.Errorf("unmarshal token response: %w", err)
	}
	if token.AccessToken == "" {
		return Token{}, &MissingFieldError{Endpoint: endpoint_token, Field: "access_token"}
	}
	return token, nil
}

package healthplanet

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"healthplanet-notify/internal/components/telemetry"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const (
	fakeOAuthToken = "oauth-token-1"
	fakeCode       = "auth-code-1"
	fakeAccess     = "access-token-1"
)

// fakeHealthPlanet imitates the pages and endpoints the client goes through.
type fakeHealthPlanet struct {
	loginPage    string
	approvalPage string
	tokenBody    string
	innerscan    string

	mutex    sync.Mutex
	hits     map[string]int
	requests map[string]*http.Request
	forms    map[string]map[string]string
}

func newFakeHealthPlanet() *fakeHealthPlanet {
	return &fakeHealthPlanet{
		loginPage: fmt.Sprintf(
			`<html><form><input type="hidden" name="oauth_token" value="%s"></form></html>`,
			fakeOAuthToken,
		),
		approvalPage: fmt.Sprintf(`<html><textarea id="code">%s</textarea></html>`, fakeCode),
		tokenBody:    fmt.Sprintf(`{"access_token": "%s", "expires_in": 2592000, "refresh_token": "r"}`, fakeAccess),
		innerscan: `{
			"birth_date": "19900101",
			"height": "170",
			"sex": "male",
			"data": [
				{"date": "202001010800", "keydata": "70.00", "model": "01000117", "tag": "6021"},
				{"date": "202001010800", "keydata": "20.00", "model": "01000117", "tag": "6022"}
			]
		}`,
		hits:     map[string]int{},
		requests: map[string]*http.Request{},
		forms:    map[string]map[string]string{},
	}
}

func (f *fakeHealthPlanet) record(r *http.Request) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	_ = r.ParseForm()
	form := map[string]string{}
	for k := range r.PostForm {
		form[k] = r.PostForm.Get(k)
	}
	f.hits[r.URL.Path]++
	f.requests[r.URL.Path] = r
	f.forms[r.URL.Path] = form
}

func (f *fakeHealthPlanet) hitCount(path string) int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.hits[path]
}

func (f *fakeHealthPlanet) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(endpoint_auth, func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "session-1", Path: "/"})
		http.Redirect(w, r, "/login.do?back=oauth", http.StatusFound)
	})
	mux.HandleFunc("/login.do", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		w.Write([]byte("<html>login</html>"))
	})
	mux.HandleFunc(endpoint_login, func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		w.Write([]byte(f.loginPage))
	})
	mux.HandleFunc(endpoint_approval, func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		cookie, err := r.Cookie("JSESSIONID")
		if err != nil || cookie.Value != "session-1" {
			http.Error(w, "not logged in", http.StatusUnauthorized)
			return
		}
		w.Write([]byte(f.approvalPage))
	})
	mux.HandleFunc(endpoint_token, func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		w.Header().Set("content-type", "application/json")
		w.Write([]byte(f.tokenBody))
	})
	mux.HandleFunc(endpoint_innerscan, func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		if r.URL.Query().Get("access_token") != fakeAccess {
			http.Error(w, "bad token", http.StatusUnauthorized)
			return
		}
		w.Header().Set("content-type", "application/json")
		w.Write([]byte(f.innerscan))
	})
	return mux
}

func (f *fakeHealthPlanet) start(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(f.handler())
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, baseUrl string, tel telemetry.API) *Client {
	t.Helper()
	client, err := NewClient(ClientOptions{
		BaseUrl: baseUrl,
		Credentials: Credentials{
			ClientId:     "client-id",
			ClientSecret: "client-secret",
			UserId:       "user",
			Password:     "pass",
		},
		RateLimit: rate.Inf,
	}, tel)
	require.NoError(t, err)
	return client
}

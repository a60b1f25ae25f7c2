package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"healthplanet-notify/internal/report"
	"healthplanet-notify/internal/scrapers/healthplanet"

	"github.com/stretchr/testify/require"
)

func envOf(values map[string]string) LookupEnv {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

var completeEnv = map[string]string{
	"HEALTHPLANET_CLIENT_ID":     "id",
	"HEALTHPLANET_CLIENT_SECRET": "secret",
	"HEALTHPLANET_USER_ID":       "user",
	"HEALTHPLANET_USER_PASSWORD": "pass",
	"SLACK_POST_URL":             "https://hooks.slack.example/T/B/X",
	"SLACK_CHANNEL":              "#health",
}

func TestLoadFromEnvOnly(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.json5"), envOf(completeEnv))
	require.NoError(t, err)

	require.Equal(t, "id", cfg.HealthPlanet.Credentials.ClientId)
	require.Equal(t, healthplanet.DefaultRedirectUri, cfg.HealthPlanet.Credentials.RedirectUri)
	require.Equal(t, healthplanet.DefaultBaseUrl, cfg.HealthPlanet.BaseUrl)
	require.Equal(t, 24*time.Hour, cfg.Lookback())
	require.Equal(t, report.VariantGrouped, cfg.Variant())
	require.Equal(t, "0 8 * * *", cfg.Schedule)
	require.Equal(t, 2*time.Minute, cfg.RunTimeout())
	require.False(t, cfg.Report.SkipEmpty)

	tags, err := cfg.Tags()
	require.NoError(t, err)
	require.Equal(t, healthplanet.DefaultTags, tags)
}

func TestLoadMissingRequired(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "config.json5"), envOf(map[string]string{
		"HEALTHPLANET_CLIENT_ID": "id",
	}))
	require.Error(t, err)

	msg := err.Error()
	for _, name := range []string{
		"HEALTHPLANET_CLIENT_SECRET",
		"HEALTHPLANET_USER_ID",
		"HEALTHPLANET_USER_PASSWORD",
		"SLACK_POST_URL",
		"SLACK_CHANNEL",
	} {
		require.True(t, strings.Contains(msg, name), "expected %s in %q", name, msg)
	}
	require.False(t, strings.Contains(msg, "HEALTHPLANET_CLIENT_ID"))
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")
	err := os.WriteFile(path, []byte(`{
		// file values
		"healthplanet": {
			"credentials": { "client_id": "from-file", "user_id": "file-user" },
			"lookback_days": 2,
			"tags": ["6021", "6022", "6023"],
		},
		"report": { "variant": "weight" },
		"slack": { "channel": "#file" },
	}`), 0600)
	require.NoError(t, err)

	env := map[string]string{}
	for k, v := range completeEnv {
		env[k] = v
	}
	delete(env, "HEALTHPLANET_USER_ID")

	cfg, err := Load(path, envOf(env))
	require.NoError(t, err)
	require.Equal(t, "id", cfg.HealthPlanet.Credentials.ClientId)
	require.Equal(t, "file-user", cfg.HealthPlanet.Credentials.UserId)
	require.Equal(t, "#health", cfg.Slack.Channel)
	require.Equal(t, 48*time.Hour, cfg.Lookback())
	require.Equal(t, report.VariantWeight, cfg.Variant())

	tags, err := cfg.Tags()
	require.NoError(t, err)
	require.Equal(t, []healthplanet.Tag{healthplanet.TagWeight, healthplanet.TagFatPercentage, healthplanet.TagMuscleMass}, tags)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	env := map[string]string{}
	for k, v := range completeEnv {
		env[k] = v
	}
	env["HEALTHPLANET_TAGS"] = "6021,nope"
	env["REPORT_VARIANT"] = "fancy"

	_, err := Load(filepath.Join(t.TempDir(), "config.json5"), envOf(env))
	require.ErrorContains(t, err, "nope")
	require.ErrorContains(t, err, "fancy")

	env["HEALTHPLANET_TAGS"] = ""
	env["REPORT_VARIANT"] = ""
	env["HEALTHPLANET_LOOKBACK_DAYS"] = "two"
	_, err = Load(filepath.Join(t.TempDir(), "config.json5"), envOf(env))
	require.ErrorContains(t, err, "HEALTHPLANET_LOOKBACK_DAYS")
}

func TestLoadSkipEmpty(t *testing.T) {
	env := map[string]string{}
	for k, v := range completeEnv {
		env[k] = v
	}
	env["REPORT_SKIP_EMPTY"] = "true"

	cfg, err := Load(filepath.Join(t.TempDir(), "config.json5"), envOf(env))
	require.NoError(t, err)
	require.True(t, cfg.Report.SkipEmpty)

	env["REPORT_SKIP_EMPTY"] = "sometimes"
	_, err = Load(filepath.Join(t.TempDir(), "config.json5"), envOf(env))
	require.ErrorContains(t, err, "REPORT_SKIP_EMPTY")
}

func TestValidateMail(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.json5"), envOf(completeEnv))
	require.NoError(t, err)

	cfg.Mail.Addr = "smtp.example.com:587"
	require.ErrorContains(t, cfg.Validate(), "mail.from")

	cfg.Mail.From = "bot@example.com"
	cfg.Mail.To = []string{"me@example.com"}
	require.NoError(t, cfg.Validate())
}

func TestClientOptions(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.json5"), envOf(completeEnv))
	require.NoError(t, err)

	opts := cfg.ClientOptions()
	require.Equal(t, "secret", opts.Credentials.ClientSecret)
	require.Equal(t, healthplanet.DefaultBaseUrl, opts.BaseUrl)
}

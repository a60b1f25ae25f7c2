// Package config builds the single configuration object handed to every component at startup.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"healthplanet-notify/internal/components/telemetry"
	"healthplanet-notify/internal/report"
	"healthplanet-notify/internal/scrapers/healthplanet"
	"healthplanet-notify/pkg/configutil"

	"dario.cat/mergo"
)

type Credentials struct {
	ClientId     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	UserId       string `json:"user_id"`
	Password     string `json:"password"`
	RedirectUri  string `json:"redirect_uri"`
}

type HealthPlanetConfig struct {
	BaseUrl        string      `json:"base_url"`
	Credentials    Credentials `json:"credentials"`
	EmulateBrowser bool        `json:"emulate_browser"`
	LookbackDays   int         `json:"lookback_days"`
	Tags           []string    `json:"tags"`
}

type ReportConfig struct {
	Variant string `json:"variant"`
	// SkipEmpty skips posting when there is nothing in the lookback window.
	SkipEmpty bool `json:"skip_empty"`
}

type SlackConfig struct {
	WebhookUrl string `json:"webhook_url"`
	Channel    string `json:"channel"`
}

// MailConfig is optional, mail is only sent when Addr is set.
type MailConfig struct {
	Addr     string   `json:"addr"`
	Username string   `json:"username"`
	Password string   `json:"password"`
	From     string   `json:"from"`
	To       []string `json:"to"`
	Subject  string   `json:"subject"`
}

type Config struct {
	HealthPlanet HealthPlanetConfig `json:"healthplanet"`
	Report       ReportConfig       `json:"report"`
	Slack        SlackConfig        `json:"slack"`
	Mail         MailConfig         `json:"mail"`
	// Schedule is the cron spec used by `serve`.
	Schedule          string           `json:"schedule"`
	RunTimeoutSeconds int              `json:"run_timeout_seconds"`
	Telemetry         telemetry.Config `json:"telemetry"`
}

var defaults = Config{
	HealthPlanet: HealthPlanetConfig{
		BaseUrl: healthplanet.DefaultBaseUrl,
		Credentials: Credentials{
			RedirectUri: healthplanet.DefaultRedirectUri,
		},
		LookbackDays: 1,
		Tags:         []string{string(healthplanet.TagWeight), string(healthplanet.TagFatPercentage)},
	},
	Report: ReportConfig{
		Variant: string(report.VariantGrouped),
	},
	Schedule:          "0 8 * * *",
	RunTimeoutSeconds: 120,
}

// LookupEnv has the signature of os.LookupEnv.
type LookupEnv func(key string) (string, bool)

// fromEnv builds the subset of Config that can be set through environment variables.
func fromEnv(lookup LookupEnv) (Config, error) {
	get := func(key string) string {
		value, _ := lookup(key)
		return value
	}

	var cfg Config
	cfg.HealthPlanet.BaseUrl = get("HEALTHPLANET_BASE_URL")
	cfg.HealthPlanet.Credentials = Credentials{
		ClientId:     get("HEALTHPLANET_CLIENT_ID"),
		ClientSecret: get("HEALTHPLANET_CLIENT_SECRET"),
		UserId:       get("HEALTHPLANET_USER_ID"),
		Password:     get("HEALTHPLANET_USER_PASSWORD"),
		RedirectUri:  get("HEALTHPLANET_REDIRECT_URI"),
	}
	if tags := get("HEALTHPLANET_TAGS"); tags != "" {
		cfg.HealthPlanet.Tags = strings.Split(tags, ",")
	}
	if days := get("HEALTHPLANET_LOOKBACK_DAYS"); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil {
			return cfg, fmt.Errorf("HEALTHPLANET_LOOKBACK_DAYS: %w", err)
		}
		cfg.HealthPlanet.LookbackDays = n
	}
	cfg.Report.Variant = get("REPORT_VARIANT")
	if skip := get("REPORT_SKIP_EMPTY"); skip != "" {
		b, err := strconv.ParseBool(skip)
		if err != nil {
			return cfg, fmt.Errorf("REPORT_SKIP_EMPTY: %w", err)
		}
		cfg.Report.SkipEmpty = b
	}
	cfg.Slack = SlackConfig{
		WebhookUrl: get("SLACK_POST_URL"),
		Channel:    get("SLACK_CHANNEL"),
	}
	cfg.Schedule = get("SCHEDULE")
	return cfg, nil
}

// Load reads `name` (and its .local variant) if present, applies environment variables on top of
// it, fills in defaults and validates the result.
func Load(name string, lookup LookupEnv) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](name)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	env, err := fromEnv(lookup)
	if err != nil {
		return Config{}, err
	}
	err = mergo.Merge(&cfg, env, mergo.WithOverride)
	if err != nil {
		return Config{}, err
	}
	err = mergo.Merge(&cfg, defaults)
	if err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

// LoadFromEnv is Load using the process environment.
func LoadFromEnv(name string) (Config, error) {
	return Load(name, os.LookupEnv)
}

// Validate reports every missing or malformed field at once.
func (c Config) Validate() error {
	var errs []error
	required := []struct {
		name  string
		value string
	}{
		{"healthplanet.credentials.client_id (HEALTHPLANET_CLIENT_ID)", c.HealthPlanet.Credentials.ClientId},
		{"healthplanet.credentials.client_secret (HEALTHPLANET_CLIENT_SECRET)", c.HealthPlanet.Credentials.ClientSecret},
		{"healthplanet.credentials.user_id (HEALTHPLANET_USER_ID)", c.HealthPlanet.Credentials.UserId},
		{"healthplanet.credentials.password (HEALTHPLANET_USER_PASSWORD)", c.HealthPlanet.Credentials.Password},
		{"slack.webhook_url (SLACK_POST_URL)", c.Slack.WebhookUrl},
		{"slack.channel (SLACK_CHANNEL)", c.Slack.Channel},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.name))
		}
	}

	if c.HealthPlanet.LookbackDays < 1 {
		errs = append(errs, fmt.Errorf("healthplanet.lookback_days must be at least 1, got %d", c.HealthPlanet.LookbackDays))
	}
	if _, err := c.Tags(); err != nil {
		errs = append(errs, err)
	}
	if _, err := report.ParseVariant(c.Report.Variant); err != nil {
		errs = append(errs, err)
	}
	if c.Mail.Addr != "" && (c.Mail.From == "" || len(c.Mail.To) == 0) {
		errs = append(errs, fmt.Errorf("mail.from and mail.to are required when mail.addr is set"))
	}

	return errors.Join(errs...)
}

func (c Config) Tags() ([]healthplanet.Tag, error) {
	tags := make([]healthplanet.Tag, len(c.HealthPlanet.Tags))
	for i, s := range c.HealthPlanet.Tags {
		tag, err := healthplanet.ParseTag(s)
		if err != nil {
			return nil, fmt.Errorf("healthplanet.tags: %w", err)
		}
		tags[i] = tag
	}
	return tags, nil
}

func (c Config) Variant() report.Variant {
	variant, _ := report.ParseVariant(c.Report.Variant)
	return variant
}

func (c Config) Lookback() time.Duration {
	return time.Duration(c.HealthPlanet.LookbackDays) * 24 * time.Hour
}

func (c Config) RunTimeout() time.Duration {
	return time.Duration(c.RunTimeoutSeconds) * time.Second
}

// ClientOptions converts the healthplanet section into options for the scraper client.
func (c Config) ClientOptions() healthplanet.ClientOptions {
	creds := c.HealthPlanet.Credentials
	return healthplanet.ClientOptions{
		BaseUrl:        c.HealthPlanet.BaseUrl,
		EmulateBrowser: c.HealthPlanet.EmulateBrowser,
		Credentials: healthplanet.Credentials{
			ClientId:     creds.ClientId,
			ClientSecret: creds.ClientSecret,
			UserId:       creds.UserId,
			Password:     creds.Password,
			RedirectUri:  creds.RedirectUri,
		},
	}
}

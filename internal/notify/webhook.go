package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
	"healthplanet-notify/internal/components/assert"
	"healthplanet-notify/internal/components/telemetry"

	"github.com/go-resty/resty/v2"
)

const report_webhook_notify = "webhook.notify"

// webhookPayload is the exact body posted, nothing else is sent.
type webhookPayload struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

// Webhook posts messages to a Slack compatible incoming webhook.
type Webhook struct {
	url  string
	http *resty.Client
	tel  telemetry.API
}

func NewWebhook(url string, tel telemetry.API) Webhook {
	assert.NotEmpty("webhook url", url)
	assert.NotNil("tel", tel)
	tel = telemetry.NewScopedAPI("notify", tel)

	httpClient := resty.New()
	httpClient.SetTimeout(time.Second * 30)
	httpClient.SetCookieJar(nil)
	telemetry.InstrumentResty(httpClient, tel)

	return Webhook{url: url, http: httpClient, tel: tel}
}

func (w Webhook) Notify(ctx context.Context, msg Message) error {
	body, err := json.Marshal(webhookPayload{
		Channel: msg.Channel,
		Text:    msg.Text,
	})
	if err != nil {
		w.tel.ReportBroken(report_webhook_notify, fmt.Errorf("json marshal: %w", err))
		return err
	}
	w.tel.ReportDebug(report_webhook_notify, string(body))

	res, err := w.http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetBody(body).
		Post(w.url)
	if err != nil {
		w.tel.ReportBroken(report_webhook_notify, fmt.Errorf("post: %w", err), msg.Channel)
		return fmt.Errorf("notify: webhook: %w", err)
	}
	if res.IsError() {
		err := fmt.Errorf("notify: webhook: unexpected status %s: %s", res.Status(), res.String())
		w.tel.ReportBroken(report_webhook_notify, err, msg.Channel)
		return err
	}

	slog.InfoContext(ctx, "message posted", "channel", msg.Channel)
	return nil
}

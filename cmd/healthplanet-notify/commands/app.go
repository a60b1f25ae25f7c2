package commands

import (
	"healthplanet-notify/internal/components/chrono"
	"healthplanet-notify/internal/components/telemetry"
	"healthplanet-notify/internal/config"
	"healthplanet-notify/internal/metrics"
	"healthplanet-notify/internal/notify"
	"healthplanet-notify/internal/pipeline"
	"healthplanet-notify/internal/scrapers/healthplanet"
	"healthplanet-notify/pkg/restyutil"
)

// newNotifier returns the webhook notifier, fanned out to mail when mail is configured.
func newNotifier(cfg config.Config, tel telemetry.API) notify.Notifier {
	webhook := notify.NewWebhook(cfg.Slack.WebhookUrl, tel)
	if cfg.Mail.Addr == "" {
		return webhook
	}
	return notify.Multi{
		webhook,
		notify.NewMail(notify.MailOptions{
			Addr:     cfg.Mail.Addr,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
			To:       cfg.Mail.To,
			Subject:  cfg.Mail.Subject,
		}, tel),
	}
}

func newPipeline(cfg config.Config, m *metrics.Metrics, tel telemetry.API) (pipeline.Pipeline, error) {
	options := cfg.ClientOptions()
	if dumpHttpDir != "" {
		out, err := restyutil.NewFilesystemOutput(dumpHttpDir)
		if err != nil {
			return pipeline.Pipeline{}, err
		}
		options.Dump = out
	}

	client, err := healthplanet.NewClient(options, tel)
	if err != nil {
		return pipeline.Pipeline{}, err
	}
	tags, err := cfg.Tags()
	if err != nil {
		return pipeline.Pipeline{}, err
	}

	return pipeline.New(
		client,
		newNotifier(cfg, tel),
		chrono.NewStandardTime(),
		pipeline.Options{
			Channel:   cfg.Slack.Channel,
			Variant:   cfg.Variant(),
			Lookback:  cfg.Lookback(),
			Tags:      tags,
			SkipEmpty: cfg.Report.SkipEmpty,
			Metrics:   m,
		},
		tel,
	), nil
}

// Package pipeline strings the stages of a run together: authenticate, fetch, format, notify.
package pipeline

import (
	"context"
	"fmt"
	"time"
	"healthplanet-notify/internal/components/assert"
	"healthplanet-notify/internal/components/chrono"
	"healthplanet-notify/internal/components/telemetry"
	"healthplanet-notify/internal/metrics"
	"healthplanet-notify/internal/notify"
	"healthplanet-notify/internal/report"
	"healthplanet-notify/internal/scrapers/healthplanet"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("healthplanet-notify/pipeline")

const (
	report_pipeline_run   = "pipeline.run"
	report_pipeline_stage = "pipeline.stage"
)

// Source is where measurements come from, implemented by *healthplanet.Client.
type Source interface {
	Authenticate(ctx context.Context) (healthplanet.Token, error)
	Innerscan(ctx context.Context, token healthplanet.Token, query healthplanet.InnerscanQuery) (healthplanet.InnerscanResponse, error)
}

type Options struct {
	Channel  string
	Variant  report.Variant
	Lookback time.Duration
	Tags     []healthplanet.Tag
	// SkipEmpty drops the notification when the report has no lines, by default the empty text is posted.
	SkipEmpty bool
	// Metrics is optional.
	Metrics *metrics.Metrics
}

type Pipeline struct {
	source   Source
	notifier notify.Notifier
	time     chrono.TimeAPI
	options  Options

	tel telemetry.API
}

func New(
	source Source,
	notifier notify.Notifier,
	clock chrono.TimeAPI,
	options Options,
	tel telemetry.API,
) Pipeline {
	assert.NotNil("source", source)
	assert.NotNil("notifier", notifier)
	assert.NotNil("clock", clock)
	assert.NotNil("tel", tel)

	if options.Lookback == 0 {
		options.Lookback = 24 * time.Hour
	}
	return Pipeline{
		source:   source,
		notifier: notifier,
		time:     clock,
		options:  options,
		tel:      telemetry.NewScopedAPI("pipeline", tel),
	}
}

// stage runs fn inside a span and wraps its error in a StageError.
func (p Pipeline) stage(ctx context.Context, stage Stage, fn func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, string(stage))
	defer span.End()

	err := fn(ctx)
	if err == nil {
		return nil
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, fmt.Sprintf("%s failed", stage))

	stageErr := &StageError{Stage: stage, Err: err}
	if stageErr.Recovered() {
		p.tel.ReportWarning(report_pipeline_stage, stageErr)
	} else {
		p.tel.ReportBroken(report_pipeline_stage, stageErr)
	}
	return stageErr
}

// Collect authenticates, fetches the lookback window and formats the result.
func (p Pipeline) Collect(ctx context.Context) ([]healthplanet.Measurement, report.Report, error) {
	var token healthplanet.Token
	err := p.stage(ctx, StageAuthenticate, func(ctx context.Context) error {
		var err error
		token, err = p.source.Authenticate(ctx)
		return err
	})
	if err != nil {
		return nil, report.Report{}, err
	}

	var measurements []healthplanet.Measurement
	err = p.stage(ctx, StageFetch, func(ctx context.Context) error {
		res, err := p.source.Innerscan(ctx, token, healthplanet.InnerscanQuery{
			From: p.time.Now().Add(-p.options.Lookback),
			Tags: p.options.Tags,
		})
		measurements = res.Data
		return err
	})
	if err != nil {
		return nil, report.Report{}, err
	}

	var rendered report.Report
	err = p.stage(ctx, StageFormat, func(ctx context.Context) error {
		rendered = report.Format(p.options.Variant, measurements)
		return nil
	})
	if err != nil {
		return nil, report.Report{}, err
	}

	return measurements, rendered, nil
}

// Run is a single invocation of the whole pipeline. Every stage but notify propagates its error,
// a failed notification is logged and Run returns nil.
func (p Pipeline) Run(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "run")
	defer span.End()

	measurements, rendered, err := p.Collect(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "collect failed")
		p.observeRun(metrics.OutcomeFailed)
		return err
	}
	span.SetAttributes(attribute.Int("measurements", len(measurements)))
	if p.options.Metrics != nil {
		p.options.Metrics.ObserveMeasurements(measurements)
	}

	if rendered.Empty() {
		if p.options.SkipEmpty {
			p.tel.ReportWarning(report_pipeline_run, "no measurements in window, nothing to post", p.options.Lookback.String())
			p.observeRun(metrics.OutcomeEmpty)
			return nil
		}
		p.tel.ReportDebug(report_pipeline_run, "no measurements in window, posting empty report", p.options.Lookback.String())
	}

	err = p.stage(ctx, StageNotify, func(ctx context.Context) error {
		return p.notifier.Notify(ctx, notify.Message{
			Channel: p.options.Channel,
			Text:    rendered.String(),
		})
	})
	if err != nil {
		p.observeRun(metrics.OutcomeNotifyFailed)
		return nil
	}

	p.observeRun(metrics.OutcomeSuccess)
	return nil
}

func (p Pipeline) observeRun(outcome string) {
	p.tel.ReportDebug(report_pipeline_run, outcome)
	if p.options.Metrics != nil {
		p.options.Metrics.ObserveRun(outcome)
	}
}

package telemetry

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// InitSlog installs a text handler writing to stderr on the default slog logger, debug level when verbose.
func InitSlog(verbose bool) {
	slog.SetDefault(newTextLogger(os.Stderr, verbose))
}

func newTextLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// SlogAPI implements API on top of log/slog, the zero value logs to slog.Default().
type SlogAPI struct {
	Logger *slog.Logger
}

func (s SlogAPI) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// paramAttrs turns report params into key/value pairs, errors are keyed `err` so they can be grepped for.
func paramAttrs(attrs []any, params []any) []any {
	for i, p := range params {
		if err, ok := p.(error); ok {
			attrs = append(attrs, slog.String("err", err.Error()))
			continue
		}
		attrs = append(attrs, slog.Any(fmt.Sprintf("params.%d", i), p))
	}
	return attrs
}

func (s SlogAPI) ReportBroken(id string, params ...any) {
	s.logger().Error("broken component", paramAttrs([]any{slog.String("id", id)}, params)...)
}

func (s SlogAPI) ReportWarning(id string, params ...any) {
	s.logger().Warn("warning", paramAttrs([]any{slog.String("id", id)}, params)...)
}

func (s SlogAPI) ReportDebug(message string, params ...any) {
	s.logger().Debug(message, paramAttrs(nil, params)...)
}

func (s SlogAPI) ReportCount(id string, count int64) {
	s.logger().Info("count", "id", id, "n", count)
}

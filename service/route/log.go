package route

import (
	"context"
	"log/slog"

	"github.com/viant/flowbridge/internal/logging"
)

const SchemeLog = "log"

// LogComponent writes exchanges to the context logger.
//
// Options: showProperties, showHeaders (default true), showBody (default
// true) and level (debug, info, warn, error).
type LogComponent struct{}

func (l *LogComponent) CreateEndpoint(c *Context, uri, remaining string, params Params) (Endpoint, error) {
	endpoint := &logEndpoint{uri: uri, category: remaining, logger: c.logger}
	var err error
	if endpoint.showProperties, err = params.Bool("showProperties", false); err != nil {
		return nil, err
	}
	if endpoint.showHeaders, err = params.Bool("showHeaders", true); err != nil {
		return nil, err
	}
	if endpoint.showBody, err = params.Bool("showBody", true); err != nil {
		return nil, err
	}
	endpoint.level = logging.ParseLevel(params.String("level", "info"))
	return endpoint, nil
}

type logEndpoint struct {
	uri            string
	category       string
	logger         *slog.Logger
	level          slog.Level
	showProperties bool
	showHeaders    bool
	showBody       bool
}

func (e *logEndpoint) URI() string { return e.uri }

func (e *logEndpoint) CreateProducer() (Processor, error) {
	return ProcessorFunc(func(ctx context.Context, exchange *Exchange) error {
		attrs := []slog.Attr{slog.String("category", e.category), logging.ExchangeID(exchange.ID)}
		if e.showProperties {
			attrs = append(attrs, slog.Any("properties", exchange.Properties.Map()))
		}
		if e.showHeaders {
			attrs = append(attrs, slog.Any("headers", exchange.In.Headers.Map()))
		}
		if e.showBody {
			attrs = append(attrs, slog.Any("body", exchange.In.Body))
		}
		e.logger.LogAttrs(ctx, e.level, "exchange", attrs...)
		return nil
	}), nil
}

func (e *logEndpoint) CreateConsumer(Processor) (Consumer, error) {
	return nil, errUnsupportedConsumer(e.uri)
}

package route

import (
	"context"

	"github.com/viant/flowbridge/internal/logging"
	"github.com/viant/flowbridge/tracing"
)

// ProducerTemplate sends exchanges to endpoints.
type ProducerTemplate struct {
	context *Context
}

// Send delivers exchange to uri and returns it once processed.
func (t *ProducerTemplate) Send(ctx context.Context, uri string, exchange *Exchange) (result *Exchange, err error) {
	ctx, span := tracing.StartSpan(ctx, "route.send "+uri, tracing.KindProducer)
	defer func() { tracing.EndSpan(span, err) }()
	if exchange == nil {
		exchange = NewExchange()
	}
	if exchange.In == nil {
		exchange.In = NewMessage(nil)
	}
	producer, err := t.context.producer(uri)
	if err != nil {
		return exchange, err
	}
	if err = producer.Process(ctx, exchange); err != nil {
		exchange.Error = err.Error()
		t.context.logger.Warn("exchange failed", logging.ExchangeID(exchange.ID), logging.Endpoint(uri), logging.Error(err))
		return exchange, err
	}
	return exchange, nil
}

// SendBody sends a new exchange carrying body.
func (t *ProducerTemplate) SendBody(ctx context.Context, uri string, body interface{}) (*Exchange, error) {
	exchange := NewExchange()
	exchange.In.Body = body
	return t.Send(ctx, uri, exchange)
}

// SendBodyAndHeaders sends a new exchange carrying body and headers.
func (t *ProducerTemplate) SendBodyAndHeaders(ctx context.Context, uri string, body interface{}, headers map[string]interface{}) (*Exchange, error) {
	exchange := NewExchange()
	exchange.In.Body = body
	for name, value := range headers {
		exchange.In.SetHeader(name, value)
	}
	return t.Send(ctx, uri, exchange)
}

// RequestBody sends body and returns the reply body.
func (t *ProducerTemplate) RequestBody(ctx context.Context, uri string, body interface{}) (interface{}, error) {
	exchange, err := t.SendBody(ctx, uri, body)
	if err != nil {
		return nil, err
	}
	return exchange.Result().Body, nil
}

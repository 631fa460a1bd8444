package route

import (
	"github.com/viant/flowbridge/internal/idgen"
)

// Exchange property names maintained by the route framework.
const (
	// PropertyMessageHistory lists the endpoint URIs an exchange was sent to.
	PropertyMessageHistory = "MessageHistory"
	// PropertyFromEndpoint is the URI of the endpoint that created the exchange.
	PropertyFromEndpoint = "FromEndpoint"
)

// Message is the payload of an exchange.
type Message struct {
	Headers *Values     `json:"headers"`
	Body    interface{} `json:"body,omitempty"`
}

// NewMessage creates a message with body.
func NewMessage(body interface{}) *Message {
	return &Message{Headers: NewValues(), Body: body}
}

// SetHeader sets a header and returns the message.
func (m *Message) SetHeader(name string, value interface{}) *Message {
	if m.Headers == nil {
		m.Headers = NewValues()
	}
	m.Headers.Set(name, value)
	return m
}

// Header returns a header value.
func (m *Message) Header(name string) (interface{}, bool) {
	if m == nil {
		return nil, false
	}
	return m.Headers.Get(name)
}

// Clone returns a copy with its own headers.
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}
	return &Message{Headers: m.Headers.Clone(), Body: m.Body}
}

// Exchange carries a message, its optional reply and properties through a
// route.
type Exchange struct {
	ID         string   `json:"id"`
	Properties *Values  `json:"properties"`
	In         *Message `json:"in"`
	Out        *Message `json:"out,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// NewExchange creates an exchange with an empty in message.
func NewExchange() *Exchange {
	return &Exchange{ID: idgen.New(), Properties: NewValues(), In: NewMessage(nil)}
}

// SetProperty sets a property and returns the exchange.
func (e *Exchange) SetProperty(name string, value interface{}) *Exchange {
	if e.Properties == nil {
		e.Properties = NewValues()
	}
	e.Properties.Set(name, value)
	return e
}

// Property returns a property value.
func (e *Exchange) Property(name string) (interface{}, bool) {
	return e.Properties.Get(name)
}

// Result returns the reply when present, otherwise the in message.
func (e *Exchange) Result() *Message {
	if e.Out != nil {
		return e.Out
	}
	return e.In
}

// Clone returns a copy with its own properties and messages.
func (e *Exchange) Clone() *Exchange {
	return &Exchange{
		ID:         e.ID,
		Properties: e.Properties.Clone(),
		In:         e.In.Clone(),
		Out:        e.Out.Clone(),
		Error:      e.Error,
	}
}

// advance makes the reply of the previous step the input of the next one.
func (e *Exchange) advance() {
	if e.Out != nil {
		e.In = e.Out
		e.Out = nil
	}
}

func (e *Exchange) recordHistory(uri string) {
	var history []string
	if value, ok := e.Property(PropertyMessageHistory); ok {
		switch actual := value.(type) {
		case []string:
			history = actual
		case []interface{}:
			for _, item := range actual {
				if text, ok := item.(string); ok {
					history = append(history, text)
				}
			}
		}
	}
	e.SetProperty(PropertyMessageHistory, append(history, uri))
}

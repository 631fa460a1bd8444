package bridge

import (
	"fmt"

	"github.com/viant/flowbridge/service/route"
)

// PrepareVariables builds the process variables carried by exchange.
//
// Properties allowed by the property rule are copied first, skipping the
// properties the route framework maintains. A map body is merged by its
// string keys; any other non-nil body is stored as VariableBody. Headers
// allowed by the header rule are copied last and overwrite earlier values.
func PrepareVariables(exchange *route.Exchange, endpoint *Endpoint) map[string]interface{} {
	variables := map[string]interface{}{}
	if exchange == nil {
		return variables
	}
	if rule := endpoint.CopyVariablesFromProperties; rule.Enabled() {
		exchange.Properties.Range(func(name string, value interface{}) bool {
			if isInternalProperty(name) || !rule.Allows(name) {
				return true
			}
			variables[name] = value
			return true
		})
	}
	message := exchange.Result()
	if message == nil {
		return variables
	}
	copyBody(variables, message.Body, endpoint.CopyBodyToBodyAsString)
	if rule := endpoint.CopyVariablesFromHeader; rule.Enabled() {
		message.Headers.Range(func(name string, value interface{}) bool {
			if rule.Allows(name) {
				variables[name] = value
			}
			return true
		})
	}
	return variables
}

func copyBody(variables map[string]interface{}, body interface{}, asString bool) {
	switch actual := body.(type) {
	case nil:
	case map[string]interface{}:
		for name, value := range actual {
			variables[name] = value
		}
	case map[string]string:
		for name, value := range actual {
			variables[name] = value
		}
	case []byte:
		if asString {
			variables[VariableBody] = string(actual)
			return
		}
		variables[VariableBody] = actual
	default:
		if asString {
			variables[VariableBody] = fmt.Sprint(actual)
			return
		}
		variables[VariableBody] = actual
	}
}

func isInternalProperty(name string) bool {
	return name == route.PropertyMessageHistory || name == route.PropertyFromEndpoint
}

// prepareExchange builds the exchange handed to a route consuming a service
// task. Variables become properties, the body as a map, or VariableBody
// becomes the body; with no option set they become properties.
func prepareExchange(endpoint *Endpoint, variables map[string]interface{}) *route.Exchange {
	exchange := route.NewExchange()
	toProperties := endpoint.CopyVariablesToProperties ||
		!(endpoint.CopyVariablesToBodyAsMap || endpoint.CopyCamelBodyToBody)
	if toProperties {
		for name, value := range variables {
			exchange.SetProperty(name, value)
		}
	}
	switch {
	case endpoint.CopyVariablesToBodyAsMap:
		body := make(map[string]interface{}, len(variables))
		for name, value := range variables {
			body[name] = value
		}
		exchange.In.Body = body
	case endpoint.CopyCamelBodyToBody:
		exchange.In.Body = variables[VariableBody]
	}
	return exchange
}

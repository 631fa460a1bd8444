// Package flowbridge provides an embeddable process engine bridged to a
// message route framework.
//
// The engine runs process definitions declared in YAML or drawn in the
// visual editor (editor JSON) and comes with pluggable service layers:
//
//   - runtime: deployment, process instances, executions and variables
//   - tasks: user task queries and completion
//   - routes: direct, queue, log and mock endpoints
//   - bridge: the flow endpoint copying exchange properties, headers
//     and body into process variables
//
// End-users typically interact with the engine via the Service façade:
//
//	srv, _ := flowbridge.New()
//	rt := srv.Runtime()
//	_, _ = rt.LoadDefinition(ctx, "order.yaml")
//	_ = srv.Routes().AddRoutes(route.From("direct:orders").To("flow:order?copyVariablesFromProperties=true"))
//	_ = rt.Start(ctx)
package flowbridge

// Package bridge binds route exchanges to process instances.
//
// The flow component resolves endpoints such as
//
//	flow:order?copyVariablesFromProperties=true
//	flow:order:payment?copyVariablesFromHeader=(orderId|amount)
//
// A producer on flow:<key> starts the latest definition of <key>; a producer
// on flow:<key>:<activity> signals the execution waiting in <activity>. A
// route consuming flow:<key>:<activity> is invoked by service tasks of type
// "route". Exchange properties, headers and the body become process
// variables according to the copy options of the endpoint.
package bridge

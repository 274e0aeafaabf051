// Package testutil contains helper builders used across tests to reduce
// boilerplate when constructing conversation history and server-sent event
// bodies. They are not intended for production usage.
package testutil

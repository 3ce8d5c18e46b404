// Package audit records permission configuration mutations as timestamped
// structured events.
//
// The package plugs into the permissions service through Hook, which turns
// mutation events into audit records:
//
//	storage, err := audit.NewFileStorage("permissions-audit.log")
//	writer := audit.NewAsyncWriter(storage, logger, audit.AsyncOptions{})
//	svc.Subscribe(audit.Hook(writer, audit.WithActor("config-service")))
//
// Storage failures are logged and swallowed so the decision engine never
// blocks on, or depends on, the sink. Memory storage is provided for tests
// and FileStorage appends JSON lines for external log shipping.
package audit

// Package errs defines the error types returned to API clients.
//
// Every error that leaves a handler is eventually rendered as an HTTPError
// by the global error handler, so clients always receive the same JSON
// shape:
//
//	{ "code": "...", "message": "...", "status": 500, "override": false, "errors": [], "action": null }
//
// DataAccessError is the storage-side failure kind: it is what the query
// facade returns when PostgreSQL is unreachable, a query times out or the
// driver fails in a way the client cannot fix.
package errs

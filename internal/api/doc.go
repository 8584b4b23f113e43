// Package api implements the HTTP REST API and live WebSocket feed for the
// Wayne Industries security platform.
//
// This package provides:
//   - Login, logout and profile endpoints backed by signed session tokens
//   - CRUD for resources and users, area status control and access-log reads
//   - Dashboard statistics and a Prometheus metrics endpoint
//   - A WebSocket hub that streams committed access-log entries
//   - Middleware stack (request ID, logging, recovery, CORS, role guard)
//
// # Authorization
//
// Routes are grouped by the minimum role they need: any authenticated
// user, gerente or above, or admin. The guard rejects before the handler
// runs; rejections are logged and counted but are not access-log entries.
//
// # Errors
//
// Every error body has the shape
//
//	{"status": 404, "code": "not_found", "message": "...", "error": "..."}
//
// where message and error carry the same user-facing text.
package api

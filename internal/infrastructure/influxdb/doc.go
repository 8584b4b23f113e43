// Package influxdb provides InfluxDB connectivity for the security platform.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, point builders for security events and health monitoring.
//
// # Purpose
//
// The SQLite access log is the system of record. This package keeps a
// retention-managed copy of:
//   - Access events (one point per access-log entry)
//   - Area status changes
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // integration switched off
//	}
//	defer client.Close()
//
//	client.WriteAccessEvent(entry.ID, entry.Actor, entry.Action,
//	    string(entry.Outcome), entry.IP, entry.CreatedAt)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// Writes on a nil or closed client are silently dropped.
//
// # Error Handling
//
// Write operations are non-blocking; batch errors are reported through the
// SetOnError callback. Connection and health check errors are returned
// directly.
package influxdb

// Package mqtt publishes security events to an MQTT broker.
//
// When enabled, every committed access-log entry is published to
// wayne/security/access/{outcome} and area status changes are published
// retained to wayne/security/area/{id}/status, so alarm panels and door
// controllers can react without polling the HTTP API.
//
// # Security Considerations
//
//   - Use TLS in production (cfg.Broker.TLS=true)
//   - Credentials are validated against the broker ACL
//   - Payloads never contain password hashes or tokens
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.PublishJSON(mqtt.Topics{}.AreaStatus(1), status, true)
package mqtt

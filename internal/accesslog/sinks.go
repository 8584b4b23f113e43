package accesslog

import (
	"context"
	"time"

	"github.com/wayneindustries/security-core/internal/infrastructure/mqtt"
)

// JSONPublisher is the part of the MQTT client a sink needs.
type JSONPublisher interface {
	PublishJSON(topic string, v any, retained bool) error
}

// EventWriter is the part of the InfluxDB client a sink needs.
type EventWriter interface {
	WriteAccessEvent(entryID int64, actor, action, outcome, ip string, at time.Time)
}

// MQTTSink publishes entries to wayne/security/access/{outcome}.
type MQTTSink struct {
	pub    JSONPublisher
	topics mqtt.Topics
}

// NewMQTTSink creates a sink over pub.
func NewMQTTSink(pub JSONPublisher) *MQTTSink {
	return &MQTTSink{pub: pub}
}

// Name implements Sink.
func (s *MQTTSink) Name() string { return "mqtt" }

// Deliver implements Sink. Events are not retained.
func (s *MQTTSink) Deliver(_ context.Context, e Entry) error {
	return s.pub.PublishJSON(s.topics.AccessEvent(string(e.Outcome)), e, false)
}

// InfluxSink copies entries into the access_events measurement.
type InfluxSink struct {
	w EventWriter
}

// NewInfluxSink creates a sink over w.
func NewInfluxSink(w EventWriter) *InfluxSink {
	return &InfluxSink{w: w}
}

// Name implements Sink.
func (s *InfluxSink) Name() string { return "influxdb" }

// Deliver implements Sink. The write is batched, so errors surface through
// the client's error callback rather than here.
func (s *InfluxSink) Deliver(_ context.Context, e Entry) error {
	s.w.WriteAccessEvent(e.ID, e.Actor, e.Action, string(e.Outcome), e.IP, e.CreatedAt)
	return nil
}

// Package area tracks the security state of physical zones.
//
// An area is normal, alerta or bloqueado. Changing it writes an access-log
// entry in the same transaction. Once committed, the new state is also
// published as a retained MQTT message so panels joining later see the
// current value, and written to InfluxDB for history. Both are best-effort.
package area

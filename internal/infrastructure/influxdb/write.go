package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	MeasurementAccessEvents = "access_events"
	MeasurementAreaStatus   = "area_status"
)

// areaStatusLevel maps area statuses to a numeric severity so dashboards
// can graph them.
var areaStatusLevel = map[string]int{
	"normal":    0,
	"alerta":    1,
	"bloqueado": 2,
}

// AccessEventPoint builds the point for one access-log entry.
// Actor and action are tags; the entry id is a field so repeated writes
// of the same entry overwrite rather than duplicate.
func AccessEventPoint(entryID int64, actor, action, outcome, ip string, at time.Time) *write.Point {
	return write.NewPoint(
		MeasurementAccessEvents,
		map[string]string{
			"actor":   actor,
			"action":  action,
			"outcome": outcome,
		},
		map[string]interface{}{
			"entry_id": entryID,
			"ip":       ip,
			"count":    1,
		},
		at,
	)
}

// AreaStatusPoint builds the point recording an area's new status.
func AreaStatusPoint(areaID int64, name, status string, at time.Time) *write.Point {
	return write.NewPoint(
		MeasurementAreaStatus,
		map[string]string{
			"area": name,
		},
		map[string]interface{}{
			"area_id": areaID,
			"status":  status,
			"level":   areaStatusLevel[status],
		},
		at,
	)
}

// WriteAccessEvent records an access-log entry. The write is non-blocking;
// points are batched and sent asynchronously.
func (c *Client) WriteAccessEvent(entryID int64, actor, action, outcome, ip string, at time.Time) {
	c.writePoint(AccessEventPoint(entryID, actor, action, outcome, ip, at))
}

// WriteAreaStatus records an area status change.
func (c *Client) WriteAreaStatus(areaID int64, name, status string, at time.Time) {
	c.writePoint(AreaStatusPoint(areaID, name, status, at))
}

// WritePoint writes a custom point timestamped now.
//
// Example:
//
//	client.WritePoint("login_latency",
//	    map[string]string{"outcome": "sucesso"},
//	    map[string]interface{}{"ms": 12.5})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	c.writePoint(write.NewPoint(measurement, tags, fields, time.Now()))
}

func (c *Client) writePoint(p *write.Point) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(p)
}

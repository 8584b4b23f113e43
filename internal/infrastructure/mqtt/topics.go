package mqtt

import "fmt"

// TopicPrefix is the root of every topic the platform publishes.
const TopicPrefix = "wayne/security"

// Topics builds platform topic names.
//
//	topics := mqtt.Topics{}
//	topics.AccessEvent("negado") // wayne/security/access/negado
//	topics.AreaStatus(3)         // wayne/security/area/3/status
type Topics struct{}

// AccessEvent is where committed access-log entries are published, split
// by outcome so alarms can subscribe to denials only.
func (Topics) AccessEvent(outcome string) string {
	return fmt.Sprintf("%s/access/%s", TopicPrefix, outcome)
}

// AreaStatus carries the retained current status of one security area.
func (Topics) AreaStatus(areaID int64) string {
	return fmt.Sprintf("%s/area/%d/status", TopicPrefix, areaID)
}

// SystemStatus carries the retained online/offline status and the LWT.
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/system/status", TopicPrefix)
}

package area

import "time"

// Status is the security state of an area.
type Status string

const (
	StatusNormal Status = "normal"
	StatusAlert  Status = "alerta"
	StatusLocked Status = "bloqueado"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusNormal, StatusAlert, StatusLocked:
		return true
	}
	return false
}

// Area is one physical zone.
type Area struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nome"`
	Sector    string    `json:"setor"`
	Status    Status    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatusEvent is the retained MQTT payload for an area.
type StatusEvent struct {
	AreaID    int64     `json:"area_id"`
	Name      string    `json:"nome"`
	Status    Status    `json:"status"`
	ChangedBy string    `json:"changed_by"`
	UpdatedAt time.Time `json:"updated_at"`
}

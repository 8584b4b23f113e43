package resource

import "time"

// Status is the operational state of a resource.
type Status string

const (
	StatusActive      Status = "ativo"
	StatusMaintenance Status = "manutencao"
	StatusInactive    Status = "inativo"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusMaintenance, StatusInactive:
		return true
	}
	return false
}

// Resource is one tracked asset.
type Resource struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nome"`
	Category  string    `json:"categoria"`
	Status    Status    `json:"status"`
	Location  string    `json:"localizacao"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filter narrows List. Empty fields match everything.
type Filter struct {
	Category string
	Status   Status
}

// CreateInput is the payload for a new resource. Status defaults to ativo.
type CreateInput struct {
	Name     string `json:"nome"`
	Category string `json:"categoria"`
	Status   Status `json:"status"`
	Location string `json:"localizacao"`
}

// UpdateInput patches a resource. Nil fields are left unchanged.
type UpdateInput struct {
	Name     *string `json:"nome"`
	Category *string `json:"categoria"`
	Status   *Status `json:"status"`
	Location *string `json:"localizacao"`
}

// CategoryCount is the number of resources in one category.
type CategoryCount struct {
	Category string `json:"categoria"`
	Total    int    `json:"total"`
}

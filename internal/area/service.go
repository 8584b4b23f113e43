package area

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/wayneindustries/security-core/internal/accesslog"
	"github.com/wayneindustries/security-core/internal/infrastructure/database"
	"github.com/wayneindustries/security-core/internal/infrastructure/logging"
	"github.com/wayneindustries/security-core/internal/infrastructure/mqtt"
)

// StatusPublisher is the part of the MQTT client the service needs.
type StatusPublisher interface {
	PublishJSON(topic string, v any, retained bool) error
}

// StatusWriter is the part of the InfluxDB client the service needs.
type StatusWriter interface {
	WriteAreaStatus(areaID int64, name, status string, at time.Time)
}

// Service lists areas and changes their status.
type Service struct {
	repo   *Repository
	log    *accesslog.Repository
	logger *logging.Logger

	publisher StatusPublisher
	writer    StatusWriter
	topics    mqtt.Topics
}

// NewService creates an area service. Publisher and writer are optional.
func NewService(db *database.DB, log *accesslog.Repository, logger *logging.Logger) *Service {
	return &Service{
		repo:   NewRepository(db),
		log:    log,
		logger: logger.Component("area"),
	}
}

// SetPublisher registers the MQTT client for retained status messages.
func (s *Service) SetPublisher(p StatusPublisher) {
	s.publisher = p
}

// SetWriter registers the InfluxDB client for status history.
func (s *Service) SetWriter(w StatusWriter) {
	s.writer = w
}

// List returns every area ordered by ID.
func (s *Service) List(ctx context.Context) ([]Area, error) {
	return s.repo.List(ctx)
}

// Count returns the number of areas.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// UpdateStatus sets the status of area id. An empty status resets the
// area to normal.
func (s *Service) UpdateStatus(ctx context.Context, actor accesslog.Actor, id int64, status Status) (*Area, error) {
	if status == "" {
		status = StatusNormal
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	var updated *Area
	err := s.log.Audited(ctx, func(tx *sql.Tx) (*accesslog.Entry, error) {
		repo := s.repo.WithTx(tx)
		a, err := repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		at, err := repo.SetStatus(ctx, id, status)
		if err != nil {
			return nil, err
		}
		a.Status, a.UpdatedAt = status, at
		updated = a
		return actor.Success(accesslog.ActionChangeArea,
			fmt.Sprintf("Área '%s' → %s", a.Name, status)), nil
	})
	if err != nil {
		return nil, err
	}

	s.announce(updated, actor.Username)
	return updated, nil
}

func (s *Service) announce(a *Area, changedBy string) {
	if s.publisher != nil {
		ev := StatusEvent{
			AreaID:    a.ID,
			Name:      a.Name,
			Status:    a.Status,
			ChangedBy: changedBy,
			UpdatedAt: a.UpdatedAt,
		}
		if err := s.publisher.PublishJSON(s.topics.AreaStatus(a.ID), ev, true); err != nil {
			s.logger.Warn("publishing area status failed", "area_id", a.ID, "error", err)
		}
	}
	if s.writer != nil {
		s.writer.WriteAreaStatus(a.ID, a.Name, string(a.Status), a.UpdatedAt)
	}
}

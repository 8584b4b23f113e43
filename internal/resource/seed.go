package resource

import (
	"context"
	"fmt"

	"github.com/wayneindustries/security-core/internal/infrastructure/logging"
)

// defaultResources are inserted on first boot.
var defaultResources = []Resource{
	{Name: "Batmóvel MK-7", Category: "Veiculo", Status: StatusActive, Location: "Garagem B-1"},
	{Name: "Batwing Prototype", Category: "Aeronave", Status: StatusMaintenance, Location: "Hangar Alpha"},
	{Name: "Servidor Mainframe", Category: "TI", Status: StatusActive, Location: "Data Center - Subsolo"},
	{Name: "Traje de Combate v3", Category: "Equipamento", Status: StatusActive, Location: "Armaria Principal"},
	{Name: "Gerador de Backup", Category: "Infraestrutura", Status: StatusActive, Location: "Sala de Energia"},
	{Name: "Sistema de Cameras", Category: "Seguranca", Status: StatusActive, Location: "Sala de Controle"},
	{Name: "Helicoptero WI-1", Category: "Aeronave", Status: StatusInactive, Location: "Hangar Beta"},
	{Name: "Kit Medico Avancado", Category: "Equipamento", Status: StatusActive, Location: "Enfermaria"},
}

// Seed inserts the default resources if the table is empty and returns
// how many were created. Seeding is bootstrap, not a user action, so it
// writes no access-log entries.
func Seed(ctx context.Context, repo *Repository, logger *logging.Logger) (int, error) {
	n, err := repo.Count(ctx, "")
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Info("resources exist, skipping resource seed")
		return 0, nil
	}

	for _, r := range defaultResources {
		res := r
		if err := repo.Create(ctx, &res); err != nil {
			return 0, fmt.Errorf("seeding resource %q: %w", r.Name, err)
		}
	}
	logger.Info("default resources created", "count", len(defaultResources))
	return len(defaultResources), nil
}

package area

import (
	"context"
	"fmt"

	"github.com/wayneindustries/security-core/internal/infrastructure/logging"
)

var defaultAreas = []Area{
	{Name: "Batcaverna", Sector: "Subsolo", Status: StatusNormal},
	{Name: "Laboratorio P&D", Sector: "Andar 12", Status: StatusNormal},
	{Name: "Data Center", Sector: "Subsolo", Status: StatusNormal},
	{Name: "Armaria Principal", Sector: "Andar B2", Status: StatusNormal},
	{Name: "Sala de Controle", Sector: "Andar 1", Status: StatusNormal},
	{Name: "Hangar Alpha", Sector: "Cobertura", Status: StatusNormal},
}

// Seed inserts the default areas if the table is empty and returns how
// many were created.
func Seed(ctx context.Context, repo *Repository, logger *logging.Logger) (int, error) {
	n, err := repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Info("areas exist, skipping area seed")
		return 0, nil
	}

	for _, a := range defaultAreas {
		area := a
		if err := repo.Create(ctx, &area); err != nil {
			return 0, fmt.Errorf("seeding area %q: %w", a.Name, err)
		}
	}
	logger.Info("default areas created", "count", len(defaultAreas))
	return len(defaultAreas), nil
}

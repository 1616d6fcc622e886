package seeders

import (
	"context"

	"github.com/telascatalogo/telas/app/models"
	"github.com/telascatalogo/telas/app/repositories"
	"github.com/telascatalogo/telas/pkg/logger"
	"gorm.io/gorm"
)

func init() {
	Register("fabrics", SeedFabrics)
}

// SampleFabrics is the starter catalog inserted into an empty store.
func SampleFabrics() []models.FabricFields {
	return []models.FabricFields{
		{
			Name:          "Algodón Premium",
			Description:   "Algodón 100% natural, suave y transpirable. Perfecto para ropa de verano.",
			PricePerMeter: models.Price(450),
			Category:      "Algodón",
			Color:         "Blanco",
			Material:      "Algodón 100%",
			Width:         150,
			ImageURL:      "https://images.pexels.com/photos/6292842/pexels-photo-6292842.jpeg",
			Stock:         25,
			Featured:      true,
		},
		{
			Name:          "Seda Elegante",
			Description:   "Seda natural de alta calidad con brillo sutil. Ideal para ocasiones especiales.",
			PricePerMeter: models.Price(1200),
			Category:      "Seda",
			Color:         "Dorado",
			Material:      "Seda Natural",
			Width:         140,
			ImageURL:      "https://images.pexels.com/photos/6292843/pexels-photo-6292843.jpeg",
			Stock:         15,
			Featured:      true,
		},
		{
			Name:          "Lino Veraniego",
			Description:   "Lino fresco y ligero, perfecto para el clima cálido.",
			PricePerMeter: models.Price(650),
			Category:      "Lino",
			Color:         "Beige",
			Material:      "Lino 100%",
			Width:         145,
			ImageURL:      "https://images.pexels.com/photos/6292844/pexels-photo-6292844.jpeg",
			Stock:         30,
		},
	}
}

// SeedFabrics inserts SampleFabrics when the catalog is empty.
func SeedFabrics(ctx context.Context, db *gorm.DB) error {
	n, err := repositories.NewFabricRepository(db).SeedIfEmpty(ctx, SampleFabrics())
	if err != nil {
		return err
	}
	if n > 0 {
		logger.WithCtx(ctx).Info("seeder: sample fabrics inserted", "count", n)
	}
	return nil
}

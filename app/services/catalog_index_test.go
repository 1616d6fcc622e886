package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/telascatalogo/telas/app/models"
	"github.com/telascatalogo/telas/app/services"
)

func sampleCatalog() []models.Fabric {
	return []models.Fabric{
		{ID: 1, Name: "Algodón Premium", Description: "Suave y transpirable", Category: "Algodón", Featured: true, Stock: 25},
		{ID: 2, Name: "Seda Elegante", Description: "Brillo sutil", Category: "Seda", Featured: true, Stock: 15},
		{ID: 3, Name: "Lino Veraniego", Description: "Fresco para el verano", Category: "Lino", Stock: 0},
		{ID: 4, Name: "Pañuelo", Description: "Estampado de seda", Category: "Accesorios"},
	}
}

func ids(fs []models.Fabric) []uint {
	out := make([]uint, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.ID)
	}
	return out
}

func TestFilterFabrics(t *testing.T) {
	all := sampleCatalog()

	cases := []struct {
		name     string
		term     string
		category string
		want     []uint
	}{
		{"no filters", "", services.AllCategories, []uint{1, 2, 3, 4}},
		{"empty category means all", "", "", []uint{1, 2, 3, 4}},
		{"case-insensitive across fields", "SEDA", services.AllCategories, []uint{2, 4}},
		{"matches description", "verano", services.AllCategories, []uint{3}},
		{"matches category", "algodón", services.AllCategories, []uint{1}},
		{"category only", "", "Seda", []uint{2}},
		{"term and category", "seda", "Accesorios", []uint{4}},
		{"no match", "lana", services.AllCategories, []uint{}},
		{"category is exact", "", "seda", []uint{}},
		{"term is trimmed", "  lino ", services.AllCategories, []uint{3}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(services.FilterFabrics(all, tc.term, tc.category)))
		})
	}

	assert.Equal(t, sampleCatalog(), all, "input must not be mutated")
}

func TestCategories(t *testing.T) {
	all := append(sampleCatalog(), models.Fabric{ID: 5, Category: "Seda"})
	assert.Equal(t, []string{"Algodón", "Seda", "Lino", "Accesorios"}, services.Categories(all))
	assert.Empty(t, services.Categories(nil))
}

func TestFeaturedAndStock(t *testing.T) {
	all := sampleCatalog()
	assert.Equal(t, []uint{1, 2}, ids(services.Featured(all)))
	assert.True(t, services.InStock(all[0]))
	assert.False(t, services.InStock(all[2]))
}

package services

import (
	"strings"

	"github.com/telascatalogo/telas/app/models"
	"github.com/telascatalogo/telas/pkg/collection"
)

// AllCategories disables the category filter.
const AllCategories = "all"

// FilterFabrics narrows all by a free-text term and a category. The term
// matches name, description or category case-insensitively; an empty term
// matches everything. The category must match exactly unless it is
// AllCategories or empty. Input order is preserved.
func FilterFabrics(all []models.Fabric, searchTerm, category string) []models.Fabric {
	term := strings.ToLower(strings.TrimSpace(searchTerm))
	category = strings.TrimSpace(category)

	return collection.Filter(all, func(f models.Fabric) bool {
		if term != "" &&
			!strings.Contains(strings.ToLower(f.Name), term) &&
			!strings.Contains(strings.ToLower(f.Description), term) &&
			!strings.Contains(strings.ToLower(f.Category), term) {
			return false
		}
		return category == "" || category == AllCategories || f.Category == category
	})
}

// Categories returns the distinct categories of all in first-seen order.
func Categories(all []models.Fabric) []string {
	unique := collection.UniqueBy(all, func(f models.Fabric) string { return f.Category })
	return collection.Map(unique, func(f models.Fabric) string { return f.Category })
}

// Featured returns the featured fabrics of all.
func Featured(all []models.Fabric) []models.Fabric {
	return collection.Filter(all, func(f models.Fabric) bool { return f.Featured })
}

// InStock reports whether f can be added to a cart.
func InStock(f models.Fabric) bool { return f.Stock > 0 }

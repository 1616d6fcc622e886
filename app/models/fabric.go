package models

import (
	"strings"
	"time"

	"github.com/telascatalogo/telas/pkg/validate"
)

// DefaultWidth is the bolt width, in centimetres, assumed when none is given.
const DefaultWidth = 150

// Fabric is a catalog entry sold by the meter.
type Fabric struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"       json:"id"`
	Name          string    `gorm:"size:255;not null"              json:"name"`
	Description   string    `gorm:"type:text"                      json:"description"`
	PricePerMeter float64   `gorm:"not null"                       json:"price_per_meter"`
	Category      string    `gorm:"size:100;not null;index"        json:"category"`
	Color         string    `gorm:"size:100;not null;default:''"   json:"color"`
	Material      string    `gorm:"size:100;not null;default:''"   json:"material"`
	Width         int       `gorm:"not null;default:150"           json:"width"`
	ImageURL      string    `gorm:"size:1024;not null;default:''"  json:"image_url"`
	Stock         int       `gorm:"not null;default:0"             json:"stock"`
	Featured      bool      `gorm:"not null;default:false;index"   json:"featured"`
	CreatedAt     time.Time `gorm:"autoCreateTime:false;not null"  json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime:false;not null"  json:"updated_at"`
}

// Fields returns the mutable part of f, ready to be staged for an edit.
func (f Fabric) Fields() FabricFields {
	price := f.PricePerMeter
	return FabricFields{
		Name:          f.Name,
		Description:   f.Description,
		PricePerMeter: &price,
		Category:      f.Category,
		Color:         f.Color,
		Material:      f.Material,
		Width:         f.Width,
		ImageURL:      f.ImageURL,
		Stock:         f.Stock,
		Featured:      f.Featured,
	}
}

// FabricFields is the write payload for creating or replacing a Fabric.
// PricePerMeter is a pointer so an absent price is distinguishable from 0.
type FabricFields struct {
	Name          string   `json:"name"          validate:"required,max=255"`
	Description   string   `json:"description"`
	PricePerMeter *float64 `json:"pricePerMeter" validate:"required,finite,gte=0"`
	Category      string   `json:"category"      validate:"required,max=100"`
	Color         string   `json:"color"         validate:"max=100"`
	Material      string   `json:"material"      validate:"max=100"`
	Width         int      `json:"width"         validate:"gte=0"`
	ImageURL      string   `json:"imageUrl"      validate:"max=1024"`
	Stock         int      `json:"stock"         validate:"gte=0"`
	Featured      bool     `json:"featured"`
}

// NewFabricFields returns an empty draft with the form defaults applied.
func NewFabricFields() FabricFields {
	return FabricFields{Width: DefaultWidth}
}

// Validate checks required fields and ranges. It never fills in defaults.
func (in FabricFields) Validate() error {
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// Apply copies in onto f, substituting defaults for optional zero values.
// id and the timestamps are left alone.
func (in FabricFields) Apply(f *Fabric) {
	f.Name = strings.TrimSpace(in.Name)
	f.Description = in.Description
	if in.PricePerMeter != nil {
		f.PricePerMeter = *in.PricePerMeter
	}
	f.Category = strings.TrimSpace(in.Category)
	f.Color = in.Color
	f.Material = in.Material
	f.Width = in.Width
	if f.Width == 0 {
		f.Width = DefaultWidth
	}
	f.ImageURL = in.ImageURL
	f.Stock = in.Stock
	f.Featured = in.Featured
}

// Price is a convenience for building FabricFields literals.
func Price(v float64) *float64 { return &v }

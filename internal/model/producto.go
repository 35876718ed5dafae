package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Unidades de medida válidas para productos y presentaciones.
const (
	UnidadKg    = "kg"
	UnidadBulto = "bulto"
	UnidadPieza = "pieza"
)

// Producto tracks stock in its base unit (unidad_base). Sellable units are
// modeled as Presentacion rows, each convertible to base units via
// factor_a_base. StockActual never goes negative; the only writers are the
// sale engine and the manual adjustment operation, each paired 1:1 with a
// MovimientoInventario row.
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CategoriaID uuid.UUID `gorm:"type:uuid;not null;index"`
	Nombre      string    `gorm:"index;not null"`
	Descripcion *string
	UnidadBase  string `gorm:"type:varchar(10);not null"` // "kg" | "bulto" | "pieza"
	// StockActual se expresa en unidades base; decimal porque el kg suelto
	// admite fracciones.
	StockActual decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	StockMinimo decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	// PrecioCompra is the last known purchase cost per base unit, snapshotted
	// into each sale line so historical margin data survives future edits.
	PrecioCompra decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CodigoBarras *string         `gorm:"uniqueIndex"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Categoria      *Categoria     `gorm:"foreignKey:CategoriaID"`
	Presentaciones []Presentacion `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's default pluralization for Spanish names.
func (Producto) TableName() string { return "productos" }

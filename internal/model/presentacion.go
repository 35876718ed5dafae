package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Presentacion is a sellable unit of a Producto (e.g. "Kg suelto", "Bulto 25kg").
// FactorABase is the multiplicative bridge from presentation units to the
// product's base units; every downstream quantity calculation goes through it.
// At most one presentation per product may have EsDefault = true — enforced by
// clearing siblings inside the same write transaction, not by a DB constraint.
type Presentacion struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null;index"`
	Nombre     string    `gorm:"not null"`
	Unidad     string    `gorm:"type:varchar(10);not null"` // "kg" | "bulto" | "pieza"
	// FactorABase > 0: cuántas unidades base consume una unidad de esta
	// presentación.
	FactorABase    decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CodigoBarras   *string         `gorm:"uniqueIndex"`
	EsDefault      bool            `gorm:"not null;default:false"`
	Activo         bool            `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (Presentacion) TableName() string { return "presentaciones_producto" }

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovimientoEntrada = "entrada" // manual increment
	MovimientoSalida  = "salida"  // sale-driven decrement
	MovimientoAjuste  = "ajuste"  // absolute overwrite
)

// MovimientoInventario registra cada cambio de stock de un producto.
// Append-only: se crea en cada venta y cada ajuste manual, nunca se
// actualiza ni se borra.
type MovimientoInventario struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	PresentacionID *uuid.UUID `gorm:"type:uuid;index"`
	TipoMovimiento string     `gorm:"type:varchar(10);not null"` // "entrada" | "salida" | "ajuste"
	// CantidadBase siempre en unidades base del producto.
	CantidadBase decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Fecha        time.Time       `gorm:"index;not null"`
	Comentario   string

	Producto     *Producto     `gorm:"foreignKey:ProductoID"`
	Presentacion *Presentacion `gorm:"foreignKey:PresentacionID"`
}

func (MovimientoInventario) TableName() string { return "inventario_movimientos" }

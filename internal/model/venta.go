package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PagoEfectivo      = "efectivo"
	PagoTarjeta       = "tarjeta"
	PagoTransferencia = "transferencia"
)

// Venta is the sale header. Immutable once created: totals are recomputed
// server-side from the raw discount percentage and never trusted from the
// client, and Total always equals Subtotal - DescuentoMonto.
type Venta struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroTicket int       `gorm:"uniqueIndex;not null"`
	UsuarioID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Fecha        time.Time `gorm:"index;not null"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// DescuentoPorcentaje en [0,100]; DescuentoMonto = Subtotal * pct / 100.
	DescuentoPorcentaje decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DescuentoMonto      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total               decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MetodoPago          string          `gorm:"type:varchar(20);not null"` // "efectivo" | "tarjeta" | "transferencia"
	CreatedAt           time.Time

	Detalle []VentaDetalle `gorm:"foreignKey:VentaID"`
	Usuario *Usuario       `gorm:"foreignKey:UsuarioID"`
}

func (Venta) TableName() string { return "ventas" }

// VentaDetalle is one line of a sale. PrecioUnitario and PrecioCompra are
// point-in-time snapshots, intentionally denormalized so historical margin
// reports stay stable against future price and cost edits.
type VentaDetalle struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID `gorm:"type:uuid;not null;index"`
	PresentacionID uuid.UUID `gorm:"type:uuid;not null;index"`
	// CantidadPresentacion se expresa en unidades de la presentación vendida,
	// no en unidades base.
	CantidadPresentacion decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	PrecioUnitario       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PrecioCompra         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal             decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto     *Producto     `gorm:"foreignKey:ProductoID"`
	Presentacion *Presentacion `gorm:"foreignKey:PresentacionID"`
}

func (VentaDetalle) TableName() string { return "detalle_venta" }

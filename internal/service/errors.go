package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Business-rule errors surfaced to handlers. Handlers map these to HTTP
// statuses via errors.Is; messages are user-facing.
var (
	ErrUsuarioInvalido           = errors.New("usuario inválido o inactivo")
	ErrMetodoPagoInvalido        = errors.New("método de pago inválido")
	ErrCarritoVacio              = errors.New("la venta debe incluir al menos un artículo")
	ErrCantidadInvalida          = errors.New("cantidad inválida")
	ErrDescuentoInvalido         = errors.New("el descuento debe estar entre 0 y 100")
	ErrProductoNoEncontrado      = errors.New("producto no encontrado")
	ErrPresentacionNoEncontrada  = errors.New("presentación no encontrada")
	ErrCategoriaNoEncontrada     = errors.New("categoría no encontrada")
	ErrCategoriaDuplicada        = errors.New("ya existe una categoría con ese nombre")
	ErrFactorInvalido            = errors.New("el factor a base debe ser mayor que 0")
	ErrPrecioInvalido            = errors.New("el precio unitario no puede ser negativo")
	ErrCodigoBarrasDuplicado     = errors.New("el código de barras ya existe")
	ErrTieneVentasAsociadas      = errors.New("tiene ventas asociadas; puede desactivarla en su lugar")
	ErrTieneMovimientosAsociados = errors.New("tiene movimientos de inventario asociados; puede desactivarla en su lugar")
	ErrStockNegativo             = errors.New("el stock resultante no puede ser negativo")
	ErrVentaNoEncontrada         = errors.New("venta no encontrada")
)

// FaltanteStock describes one product whose aggregated base-unit demand
// exceeds its available stock.
type FaltanteStock struct {
	ProductoID uuid.UUID       `json:"producto_id"`
	Nombre     string          `json:"nombre"`
	Disponible decimal.Decimal `json:"disponible"`
	Requerido  decimal.Decimal `json:"requerido"`
}

// StockInsuficienteError rejects a whole checkout and reports every offending
// product, not just the first. No write occurs when it is returned.
type StockInsuficienteError struct {
	Faltantes []FaltanteStock
}

func (e *StockInsuficienteError) Error() string {
	nombres := make([]string, 0, len(e.Faltantes))
	for _, f := range e.Faltantes {
		nombres = append(nombres, f.Nombre)
	}
	return "stock insuficiente para: " + strings.Join(nombres, ", ")
}

// isDuplicateKey detects a unique-constraint violation regardless of whether
// the driver translated it to gorm.ErrDuplicatedKey.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key")
}

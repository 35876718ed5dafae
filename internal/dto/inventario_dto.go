package dto

import "github.com/shopspring/decimal"

// AjustarStockRequest is the body of POST /v1/inventario/ajustar.
// Cantidad is interpreted per tipo: entrada adds, salida subtracts, ajuste
// overwrites the stock with the absolute value given.
type AjustarStockRequest struct {
	ProductoID     string          `json:"producto_id"     validate:"required,uuid"`
	PresentacionID *string         `json:"presentacion_id" validate:"omitempty,uuid"`
	Cantidad       decimal.Decimal `json:"cantidad"        validate:"required"`
	Tipo           string          `json:"tipo"            validate:"required,oneof=entrada salida ajuste"`
	Razon          string          `json:"razon"`
}

type MovimientoResponse struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto,omitempty"`
	PresentacionID *string         `json:"presentacion_id"`
	Presentacion   string          `json:"presentacion,omitempty"`
	TipoMovimiento string          `json:"tipo_movimiento"`
	CantidadBase   decimal.Decimal `json:"cantidad_base"`
	Fecha          string          `json:"fecha"`
	Comentario     string          `json:"comentario"`
}

type AjustarStockResponse struct {
	ProductoID    string             `json:"producto_id"`
	StockAnterior decimal.Decimal    `json:"stock_anterior"`
	StockActual   decimal.Decimal    `json:"stock_actual"`
	Movimiento    MovimientoResponse `json:"movimiento"`
}

// MovimientoFilter is bound from query string of GET /v1/inventario/movimientos.
type MovimientoFilter struct {
	ProductoID string `form:"producto_id" validate:"omitempty,uuid"`
	Tipo       string `form:"tipo"        validate:"omitempty,oneof=entrada salida ajuste"`
	Limit      int    `form:"limit,default=100" validate:"min=1,max=500"`
	Offset     int    `form:"offset,default=0"  validate:"min=0"`
}

type MovimientoListResponse struct {
	Data   []MovimientoResponse `json:"data"`
	Total  int64                `json:"total"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
}

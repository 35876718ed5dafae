package dto

import "github.com/shopspring/decimal"

type CrearProductoRequest struct {
	Nombre       string          `json:"nombre"        validate:"required"`
	Descripcion  *string         `json:"descripcion"`
	CategoriaID  string          `json:"categoria_id"  validate:"required,uuid"`
	UnidadBase   string          `json:"unidad_base"   validate:"required,oneof=kg bulto pieza"`
	StockActual  decimal.Decimal `json:"stock_actual"  validate:"min=0"`
	StockMinimo  decimal.Decimal `json:"stock_minimo"  validate:"min=0"`
	PrecioCompra decimal.Decimal `json:"precio_compra" validate:"min=0"`
	CodigoBarras *string         `json:"codigo_barras"`
}

type ActualizarProductoRequest struct {
	Nombre       string          `json:"nombre"        validate:"required"`
	Descripcion  *string         `json:"descripcion"`
	CategoriaID  string          `json:"categoria_id"  validate:"required,uuid"`
	UnidadBase   string          `json:"unidad_base"   validate:"required,oneof=kg bulto pieza"`
	StockMinimo  decimal.Decimal `json:"stock_minimo"  validate:"min=0"`
	PrecioCompra decimal.Decimal `json:"precio_compra" validate:"min=0"`
	CodigoBarras *string         `json:"codigo_barras"`
}

type ProductoResponse struct {
	ID             string                 `json:"id"`
	Nombre         string                 `json:"nombre"`
	Descripcion    *string                `json:"descripcion"`
	CategoriaID    string                 `json:"categoria_id"`
	Categoria      string                 `json:"categoria,omitempty"`
	UnidadBase     string                 `json:"unidad_base"`
	StockActual    decimal.Decimal        `json:"stock_actual"`
	StockMinimo    decimal.Decimal        `json:"stock_minimo"`
	PrecioCompra   decimal.Decimal        `json:"precio_compra"`
	CodigoBarras   *string                `json:"codigo_barras"`
	Presentaciones []PresentacionResponse `json:"presentaciones,omitempty"`
}

// ProductoFilter is bound from query string of GET /v1/productos.
type ProductoFilter struct {
	Nombre      string `form:"nombre"`
	CategoriaID string `form:"categoria_id" validate:"omitempty,uuid"`
	Limit       int    `form:"limit,default=50"  validate:"min=1,max=200"`
	Offset      int    `form:"offset,default=0"  validate:"min=0"`
}

type ProductoListResponse struct {
	Data   []ProductoResponse `json:"data"`
	Total  int64              `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

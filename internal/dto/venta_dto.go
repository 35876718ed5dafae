package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ItemVentaRequest is one cart line: a presentation and a quantity expressed
// in presentation units.
type ItemVentaRequest struct {
	PresentacionID string          `json:"presentacion_id" validate:"required,uuid"`
	Cantidad       decimal.Decimal `json:"cantidad"        validate:"required,gt=0"`
}

type RegistrarVentaRequest struct {
	UsuarioID  string             `json:"usuario_id"  validate:"required,uuid"`
	MetodoPago string             `json:"metodo_pago" validate:"required,oneof=efectivo tarjeta transferencia"`
	Items      []ItemVentaRequest `json:"items"       validate:"required,min=1,dive"`
	// DescuentoPorcentaje defaults to 0; the engine re-validates the bound and
	// recomputes all derived amounts regardless of what the client sent.
	DescuentoPorcentaje decimal.Decimal `json:"descuento_porcentaje" validate:"min=0,max=100"`
}

// VentaFilter is bound from query string of GET /v1/ventas.
type VentaFilter struct {
	FechaInicio string `form:"fecha_inicio"` // YYYY-MM-DD
	FechaFin    string `form:"fecha_fin"`    // YYYY-MM-DD, inclusive
	Limit       int    `form:"limit,default=50"  validate:"min=1,max=200"`
	Offset      int    `form:"offset,default=0"  validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetalleVentaResponse struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	PresentacionID string          `json:"presentacion_id"`
	Presentacion   string          `json:"presentacion"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	CantidadBase   decimal.Decimal `json:"cantidad_base"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID                  string                 `json:"id"`
	NumeroTicket        int                    `json:"numero_ticket"`
	UsuarioID           string                 `json:"usuario_id"`
	Vendedor            string                 `json:"vendedor,omitempty"`
	Fecha               string                 `json:"fecha"`
	Detalle             []DetalleVentaResponse `json:"detalle"`
	Subtotal            decimal.Decimal        `json:"subtotal"`
	DescuentoPorcentaje decimal.Decimal        `json:"descuento_porcentaje"`
	DescuentoMonto      decimal.Decimal        `json:"descuento_monto"`
	Total               decimal.Decimal        `json:"total"`
	MetodoPago          string                 `json:"metodo_pago"`
}

type VentaListResponse struct {
	Data   []VentaResponse `json:"data"`
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// CatalogoPresentacionResponse is a sellable unit as shown by the cart builder.
type CatalogoPresentacionResponse struct {
	ID             string          `json:"id"`
	Nombre         string          `json:"nombre"`
	Unidad         string          `json:"unidad"`
	FactorABase    decimal.Decimal `json:"factor_a_base"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	CodigoBarras   *string         `json:"codigo_barras"`
	EsDefault      bool            `json:"es_default"`
}

// CatalogoProductoResponse feeds GET /v1/ventas/productos: products with
// positive stock and their active presentations, default-first.
type CatalogoProductoResponse struct {
	ID             string                         `json:"id"`
	Nombre         string                         `json:"nombre"`
	Categoria      string                         `json:"categoria"`
	UnidadBase     string                         `json:"unidad_base"`
	StockActual    decimal.Decimal                `json:"stock_actual"`
	Presentaciones []CatalogoPresentacionResponse `json:"presentaciones"`
}

package dto

import "github.com/shopspring/decimal"

type CrearPresentacionRequest struct {
	ProductoID     string          `json:"producto_id"     validate:"required,uuid"`
	Nombre         string          `json:"nombre"          validate:"required"`
	Unidad         string          `json:"unidad"          validate:"required,oneof=kg bulto pieza"`
	FactorABase    decimal.Decimal `json:"factor_a_base"   validate:"required,gt=0"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"min=0"`
	CodigoBarras   *string         `json:"codigo_barras"`
	EsDefault      bool            `json:"es_default"`
}

type ActualizarPresentacionRequest struct {
	Nombre         string          `json:"nombre"          validate:"required"`
	Unidad         string          `json:"unidad"          validate:"required,oneof=kg bulto pieza"`
	FactorABase    decimal.Decimal `json:"factor_a_base"   validate:"required,gt=0"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"min=0"`
	CodigoBarras   *string         `json:"codigo_barras"`
	EsDefault      bool            `json:"es_default"`
	// Activo deja desactivar una presentación sin borrarla; nil = sin cambio.
	Activo *bool `json:"activo"`
}

type PresentacionResponse struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto,omitempty"`
	Nombre         string          `json:"nombre"`
	Unidad         string          `json:"unidad"`
	FactorABase    decimal.Decimal `json:"factor_a_base"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	CodigoBarras   *string         `json:"codigo_barras"`
	EsDefault      bool            `json:"es_default"`
	Activo         bool            `json:"activo"`
}

// ConsultaPrecioResponse is the payload of the scan-code price check.
type ConsultaPrecioResponse struct {
	Producto        string          `json:"producto"`
	Presentacion    string          `json:"presentacion"`
	Unidad          string          `json:"unidad"`
	PrecioUnitario  decimal.Decimal `json:"precio_unitario"`
	FactorABase     decimal.Decimal `json:"factor_a_base"`
	StockDisponible decimal.Decimal `json:"stock_disponible"`
}

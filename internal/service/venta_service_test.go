package service_test

import (
	"context"
	"testing"

	"forrapos/internal/dto"
	"forrapos/internal/model"
	"forrapos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// escenario arma un producto "Alpiste" (base kg) con dos presentaciones:
// kg suelto (factor 1, $35) y bulto de 25 kg (factor 25, $850).
type escenario struct {
	svc              service.VentaService
	ventaRepo        *stubVentaRepo
	productoRepo     *stubProductoRepo
	presentacionRepo *stubPresentacionRepo
	movRepo          *stubMovimientoRepo

	usuario  *model.Usuario
	alpiste  *model.Producto
	presKg   *model.Presentacion
	presBulto *model.Presentacion
}

func nuevoEscenario(t *testing.T, stockInicial int64) *escenario {
	t.Helper()

	productoRepo := newStubProductoRepo()
	presentacionRepo := newStubPresentacionRepo()
	ventaRepo := newStubVentaRepo()
	movRepo := &stubMovimientoRepo{}
	usuarioRepo := newStubUsuarioRepo()

	usuario := &model.Usuario{ID: uuid.New(), Nombre: "Carla", Usuario: "carla", Rol: model.RolVendedor, Activo: true}
	usuarioRepo.usuarios[usuario.ID] = usuario

	alpiste := &model.Producto{
		ID:           uuid.New(),
		Nombre:       "Alpiste",
		UnidadBase:   model.UnidadKg,
		StockActual:  decimal.NewFromInt(stockInicial),
		StockMinimo:  decimal.NewFromInt(5),
		PrecioCompra: decimal.NewFromInt(20),
	}
	productoRepo.productos[alpiste.ID] = alpiste

	presKg := &model.Presentacion{
		ID: uuid.New(), ProductoID: alpiste.ID, Producto: alpiste,
		Nombre: "Kg suelto", Unidad: model.UnidadKg,
		FactorABase: decimal.NewFromInt(1), PrecioUnitario: decimal.NewFromInt(35),
		EsDefault: true, Activo: true,
	}
	presBulto := &model.Presentacion{
		ID: uuid.New(), ProductoID: alpiste.ID, Producto: alpiste,
		Nombre: "Bulto 25kg", Unidad: model.UnidadBulto,
		FactorABase: decimal.NewFromInt(25), PrecioUnitario: decimal.NewFromInt(850),
		Activo: true,
	}
	presentacionRepo.presentaciones[presKg.ID] = presKg
	presentacionRepo.presentaciones[presBulto.ID] = presBulto

	svc := service.NewVentaService(ventaRepo, presentacionRepo, productoRepo, movRepo, usuarioRepo, nil)
	return &escenario{
		svc: svc, ventaRepo: ventaRepo, productoRepo: productoRepo,
		presentacionRepo: presentacionRepo, movRepo: movRepo,
		usuario: usuario, alpiste: alpiste, presKg: presKg, presBulto: presBulto,
	}
}

func (e *escenario) carrito(items ...dto.ItemVentaRequest) dto.RegistrarVentaRequest {
	return dto.RegistrarVentaRequest{
		UsuarioID:  e.usuario.ID.String(),
		MetodoPago: model.PagoEfectivo,
		Items:      items,
	}
}

func TestRegistrarVenta_ConversionYAgregacionPorProducto(t *testing.T) {
	e := nuevoEscenario(t, 100)

	// 2 kg sueltos + 1 bulto de 25 kg = 27 kg de demanda sobre el mismo producto
	resp, err := e.svc.RegistrarVenta(context.Background(), e.carrito(
		dto.ItemVentaRequest{PresentacionID: e.presKg.ID.String(), Cantidad: decimal.NewFromInt(2)},
		dto.ItemVentaRequest{PresentacionID: e.presBulto.ID.String(), Cantidad: decimal.NewFromInt(1)},
	))
	require.NoError(t, err)

	// Precios en unidades de presentación: 2×35 + 1×850 = 920
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(920)), "subtotal = %s", resp.Subtotal)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(920)))
	assert.Equal(t, 1, resp.NumeroTicket)
	assert.Equal(t, "Carla", resp.Vendedor)

	// Stock descontado una sola vez, agregado: 100 - 27 = 73
	assert.True(t, e.alpiste.StockActual.Equal(decimal.NewFromInt(73)), "stock = %s", e.alpiste.StockActual)
	assert.Equal(t, 1, e.productoRepo.descuentos, "un único descuento agregado por producto")

	// Cantidades base por línea
	require.Len(t, resp.Detalle, 2)
	assert.True(t, resp.Detalle[0].CantidadBase.Equal(decimal.NewFromInt(2)))
	assert.True(t, resp.Detalle[1].CantidadBase.Equal(decimal.NewFromInt(25)))
}

func TestRegistrarVenta_MovimientosDeSalidaPorLinea(t *testing.T) {
	e := nuevoEscenario(t, 100)

	_, err := e.svc.RegistrarVenta(context.Background(), e.carrito(
		dto.ItemVentaRequest{PresentacionID: e.presKg.ID.String(), Cantidad: decimal.NewFromInt(2)},
		dto.ItemVentaRequest{PresentacionID: e.presBulto.ID.String(), Cantidad: decimal.NewFromInt(1)},
	))
	require.NoError(t, err)

	require.Len(t, e.movRepo.movimientos, 2)
	for _, m := range e.movRepo.movimientos {
		assert.Equal(t, model.MovimientoSalida, m.TipoMovimiento)
		assert.Equal(t, "Venta #1", m.Comentario)
		assert.Equal(t, e.alpiste.ID, m.ProductoID)
		require.NotNil(t, m.PresentacionID)
	}
	assert.True(t, e.movRepo.movimientos[0].CantidadBase.Equal(decimal.NewFromInt(2)))
	assert.True(t, e.movRepo.movimientos[1].CantidadBase.Equal(decimal.NewFromInt(25)))
}

func TestRegistrarVenta_StockInsuficienteAgregado(t *testing.T) {
	// 10 kg en stock: cada línea cabe por separado pero la demanda agregada
	// (27 kg) no — la venta entera se rechaza sin escribir nada.
	e := nuevoEscenario(t, 10)

	_, err := e.svc.RegistrarVenta(context.Background(), e.carrito(
		dto.ItemVentaRequest{PresentacionID: e.presKg.ID.String(), Cantidad: decimal.NewFromInt(2)},
		dto.ItemVentaRequest{PresentacionID: e.presBulto.ID.String(), Cantidad: decimal.NewFromInt(1)},
	))
	require.Error(t, err)

	var stockErr *service.StockInsuficienteError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Faltantes, 1)
	assert.Equal(t, "Alpiste", stockErr.Faltantes[0].Nombre)
	assert.True(t, stockErr.Faltantes[0].Disponible.Equal(decimal.NewFromInt(10)))
	assert.True(t, stockErr.Faltantes[0].Requerido.Equal(decimal.NewFromInt(27)))

	// Cero escrituras
	assert.Empty(t, e.ventaRepo.ventas)
	assert.Empty(t, e.movRepo.movimientos)
	assert.True(t, e.alpiste.StockActual.Equal(decimal.NewFromInt(10)))
}

func TestRegistrarVenta_ReportaTodosLosFaltantes(t *testing.T) {
	e := nuevoEscenario(t, 10)

	// Segundo producto también corto de stock: ambos deben aparecer en el error
	maiz := &model.Producto{
		ID: uuid.New(), Nombre: "Maíz partido", UnidadBase: model.UnidadKg,
		StockActual: decimal.NewFromInt(1), StockMinimo: decimal.NewFromInt(2),
	}
	e.productoRepo.productos[maiz.ID] = maiz
	presMaiz := &model.Presentacion{
		ID: uuid.New(), ProductoID: maiz.ID, Producto: maiz,
		Nombre: "Kg maíz", Unidad: model.UnidadKg,
		FactorABase: decimal.NewFromInt(1), PrecioUnitario: decimal.NewFromInt(30),
		Activo: true,
	}
	e.presentacionRepo.presentaciones[presMaiz.ID] = presMaiz

	_, err := e.svc.RegistrarVenta(context.Background(), e.carrito(
		dto.ItemVentaRequest{PresentacionID: e.presBulto.ID.String(), Cantidad: decimal.NewFromInt(1)},
		dto.ItemVentaRequest{PresentacionID: presMaiz.ID.String(), Cantidad: decimal.NewFromInt(5)},
	))
	var stockErr *service.StockInsuficienteError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Faltantes, 2, "se reportan todos los productos cortos, no solo el primero")

	assert.True(t, e.alpiste.StockActual.Equal(decimal.NewFromInt(10)))
	assert.True(t, maiz.StockActual.Equal(decimal.NewFromInt(1)))
	assert.Empty(t, e.ventaRepo.ventas)
}

func TestRegistrarVenta_DescuentoPorcentual(t *testing.T) {
	e := nuevoEscenario(t, 100)

	req := e.carrito(
		dto.ItemVentaRequest{PresentacionID: e.presKg.ID.String(), Cantidad: decimal.NewFromInt(2)},
		dto.ItemVentaRequest{PresentacionID: e.presBulto.ID.String(), Cantidad: decimal.NewFromInt(1)},
	)
	req.DescuentoPorcentaje = decimal.NewFromInt(10)

	resp, err := e.svc.RegistrarVenta(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(920)))
	assert.True(t, resp.DescuentoMonto.Equal(decimal.NewFromInt(92)), "descuento = %s", resp.DescuentoMonto)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(828)), "total = %s", resp.Total)
}

func TestRegistrarVenta_DescuentoFueraDeRango(t *testing.T) {
	e := nuevoEscenario(t, 100)

	req := e.carrito(dto.ItemVentaRequest{PresentacionID: e.presKg.ID.String(), Cantidad: decimal.NewFromInt(1)})
	req.DescuentoPorcentaje = decimal.NewFromInt(101)

	_, err := e.svc.RegistrarVenta(context.Background(), req)
	assert.ErrorIs(t, err, service.ErrDescuentoInvalido)
	assert.Empty(t, e.ventaRepo.ventas)
}

func TestRegistrarVenta_CarritoVacio(t *testing.T) {
	e := nuevoEscenario(t, 100)
	_, err := e.svc.RegistrarVenta(context.Background(), e.carrito())
	assert.ErrorIs(t, err, service.ErrCarritoVacio)
}

func TestRegistrarVenta_CantidadNoPositiva(t *testing.T) {
	e := nuevoEscenario(t, 100)
	_, err := e.svc.RegistrarVenta(context.Background(), e.carrito(
		dto.ItemVentaRequest{PresentacionID: e.presKg.ID.String(), Cantidad: decimal.Zero},
	))
	assert.ErrorIs(t, err, service.ErrCantidadInvalida)
}

func TestRegistrarVenta_UsuarioInactivo(t *testing.T) {
	e := nuevoEscenario(t, 100)
	e.usuario.Activo = false

	_, err := e.svc.RegistrarVenta(context.Background(), e.carrito(
		dto.ItemVentaRequest{PresentacionID: e.presKg.ID.String(), Cantidad: decimal.NewFromInt(1)},
	))
	assert.ErrorIs(t, err, service.ErrUsuarioInvalido)
}

func TestRegistrarVenta_MetodoPagoInvalido(t *testing.T) {
	e := nuevoEscenario(t, 100)

	req := e.carrito(dto.ItemVentaRequest{PresentacionID: e.presKg.ID.String(), Cantidad: decimal.NewFromInt(1)})
	req.MetodoPago = "cheque"

	_, err := e.svc.RegistrarVenta(context.Background(), req)
	assert.ErrorIs(t, err, service.ErrMetodoPagoInvalido)
}

func TestRegistrarVenta_PresentacionInexistente(t *testing.T) {
	e := nuevoEscenario(t, 100)
	_, err := e.svc.RegistrarVenta(context.Background(), e.carrito(
		dto.ItemVentaRequest{PresentacionID: uuid.NewString(), Cantidad: decimal.NewFromInt(1)},
	))
	assert.ErrorIs(t, err, service.ErrPresentacionNoEncontrada)
	assert.Empty(t, e.ventaRepo.ventas)
}

func TestRegistrarVenta_FactorUnoEquivaleABase(t *testing.T) {
	// Vender 3 kg sueltos (factor 1) consume exactamente 3 unidades base.
	e := nuevoEscenario(t, 100)

	resp, err := e.svc.RegistrarVenta(context.Background(), e.carrito(
		dto.ItemVentaRequest{PresentacionID: e.presKg.ID.String(), Cantidad: decimal.NewFromInt(3)},
	))
	require.NoError(t, err)
	assert.True(t, resp.Detalle[0].CantidadBase.Equal(decimal.NewFromInt(3)))
	assert.True(t, e.alpiste.StockActual.Equal(decimal.NewFromInt(97)))
}

func TestRegistrarVenta_CantidadFraccionaria(t *testing.T) {
	// 2.5 kg sueltos: las cantidades no enteras son normales vendiendo a granel
	e := nuevoEscenario(t, 100)

	resp, err := e.svc.RegistrarVenta(context.Background(), e.carrito(
		dto.ItemVentaRequest{PresentacionID: e.presKg.ID.String(), Cantidad: decimal.RequireFromString("2.5")},
	))
	require.NoError(t, err)
	assert.True(t, resp.Subtotal.Equal(decimal.RequireFromString("87.5")))
	assert.True(t, e.alpiste.StockActual.Equal(decimal.RequireFromString("97.5")))
}

func TestRegistrarVenta_TicketsConsecutivos(t *testing.T) {
	e := nuevoEscenario(t, 100)

	for i := 1; i <= 3; i++ {
		resp, err := e.svc.RegistrarVenta(context.Background(), e.carrito(
			dto.ItemVentaRequest{PresentacionID: e.presKg.ID.String(), Cantidad: decimal.NewFromInt(1)},
		))
		require.NoError(t, err)
		assert.Equal(t, i, resp.NumeroTicket)
	}
}

func TestListarCatalogo_SoloConStock(t *testing.T) {
	e := nuevoEscenario(t, 100)

	agotado := &model.Producto{
		ID: uuid.New(), Nombre: "Maíz partido", UnidadBase: model.UnidadKg,
		StockActual: decimal.Zero,
	}
	e.productoRepo.productos[agotado.ID] = agotado

	catalogo, err := e.svc.ListarCatalogo(context.Background())
	require.NoError(t, err)
	require.Len(t, catalogo, 1)
	assert.Equal(t, "Alpiste", catalogo[0].Nombre)
}

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

func nuevoEntornoProductos(t *testing.T) (service.ProductoService, *stubProductoRepo, *stubMovimientoRepo, *model.Categoria) {
	t.Helper()

	productoRepo := newStubProductoRepo()
	categoriaRepo := newStubCategoriaRepo()
	movRepo := &stubMovimientoRepo{}

	categoria := &model.Categoria{ID: uuid.New(), Nombre: "Forrajes"}
	categoriaRepo.categorias[categoria.ID] = categoria

	svc := service.NewProductoService(productoRepo, categoriaRepo, movRepo)
	return svc, productoRepo, movRepo, categoria
}

func TestCrearProducto_ConStockInicial(t *testing.T) {
	svc, _, movRepo, categoria := nuevoEntornoProductos(t)

	resp, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Nombre:      "Alpiste",
		CategoriaID: categoria.ID.String(),
		UnidadBase:  model.UnidadKg,
		StockActual: decimal.NewFromInt(100),
		StockMinimo: decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	assert.Equal(t, "Forrajes", resp.Categoria)

	// El stock inicial queda asentado como entrada, sin excepciones al 1:1
	require.Len(t, movRepo.movimientos, 1)
	assert.Equal(t, model.MovimientoEntrada, movRepo.movimientos[0].TipoMovimiento)
	assert.True(t, movRepo.movimientos[0].CantidadBase.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "Ingreso inicial", movRepo.movimientos[0].Comentario)
}

func TestCrearProducto_SinStockNoGeneraMovimiento(t *testing.T) {
	svc, _, movRepo, categoria := nuevoEntornoProductos(t)

	_, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Nombre:      "Maíz partido",
		CategoriaID: categoria.ID.String(),
		UnidadBase:  model.UnidadKg,
	})
	require.NoError(t, err)
	assert.Empty(t, movRepo.movimientos)
}

func TestCrearProducto_CategoriaInexistente(t *testing.T) {
	svc, _, _, _ := nuevoEntornoProductos(t)

	_, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Nombre:      "Alpiste",
		CategoriaID: uuid.NewString(),
		UnidadBase:  model.UnidadKg,
	})
	assert.ErrorIs(t, err, service.ErrCategoriaNoEncontrada)
}

func TestActualizarProducto_NoTocaStock(t *testing.T) {
	svc, productoRepo, _, categoria := nuevoEntornoProductos(t)

	creado, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Nombre:      "Alpiste",
		CategoriaID: categoria.ID.String(),
		UnidadBase:  model.UnidadKg,
		StockActual: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	id := uuid.MustParse(creado.ID)
	_, err = svc.Actualizar(context.Background(), id, dto.ActualizarProductoRequest{
		Nombre:       "Alpiste premium",
		CategoriaID:  categoria.ID.String(),
		UnidadBase:   model.UnidadKg,
		StockMinimo:  decimal.NewFromInt(10),
		PrecioCompra: decimal.NewFromInt(25),
	})
	require.NoError(t, err)

	p := productoRepo.productos[id]
	assert.Equal(t, "Alpiste premium", p.Nombre)
	assert.True(t, p.StockActual.Equal(decimal.NewFromInt(100)), "el stock no cambia por edición")
}

func TestEliminarProducto_BloqueadoPorReferencias(t *testing.T) {
	svc, productoRepo, _, categoria := nuevoEntornoProductos(t)

	creado, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Nombre:      "Alpiste",
		CategoriaID: categoria.ID.String(),
		UnidadBase:  model.UnidadKg,
	})
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	productoRepo.refVentas[id] = 2
	assert.ErrorIs(t, svc.Eliminar(context.Background(), id), service.ErrTieneVentasAsociadas)

	productoRepo.refVentas[id] = 0
	productoRepo.refMovimientos[id] = 1
	assert.ErrorIs(t, svc.Eliminar(context.Background(), id), service.ErrTieneMovimientosAsociados)

	productoRepo.refMovimientos[id] = 0
	require.NoError(t, svc.Eliminar(context.Background(), id))
	assert.NotContains(t, productoRepo.productos, id)
}

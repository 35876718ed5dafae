package service

import (
	"context"
	"fmt"
	"time"

	"forrapos/internal/dto"
	"forrapos/internal/model"
	"forrapos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	repo           repository.ProductoRepository
	categoriaRepo  repository.CategoriaRepository
	movimientoRepo repository.MovimientoRepository
}

func NewProductoService(
	repo repository.ProductoRepository,
	categoriaRepo repository.CategoriaRepository,
	movimientoRepo repository.MovimientoRepository,
) ProductoService {
	return &productoService{repo: repo, categoriaRepo: categoriaRepo, movimientoRepo: movimientoRepo}
}

// Crear da de alta un producto. Si nace con stock, ese stock queda asentado
// como un movimiento de entrada "Ingreso inicial": todo cambio de stock tiene
// su movimiento, sin excepciones.
func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	categoriaID, err := uuid.Parse(req.CategoriaID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCategoriaNoEncontrada, req.CategoriaID)
	}
	categoria, err := s.categoriaRepo.FindByID(ctx, categoriaID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCategoriaNoEncontrada, req.CategoriaID)
	}
	if req.StockActual.IsNegative() || req.StockMinimo.IsNegative() {
		return nil, fmt.Errorf("%w: el stock no puede ser negativo", ErrCantidadInvalida)
	}

	producto := &model.Producto{
		CategoriaID:  categoriaID,
		Nombre:       req.Nombre,
		Descripcion:  req.Descripcion,
		UnidadBase:   req.UnidadBase,
		StockActual:  req.StockActual,
		StockMinimo:  req.StockMinimo,
		PrecioCompra: req.PrecioCompra,
		CodigoBarras: normalizarCodigo(req.CodigoBarras),
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, producto); err != nil {
			return err
		}
		if producto.StockActual.IsPositive() {
			return s.movimientoRepo.CreateTx(tx, &model.MovimientoInventario{
				ProductoID:     producto.ID,
				TipoMovimiento: model.MovimientoEntrada,
				CantidadBase:   producto.StockActual,
				Fecha:          time.Now(),
				Comentario:     "Ingreso inicial",
			})
		}
		return nil
	})
	if txErr != nil {
		if isDuplicateKey(txErr) {
			return nil, ErrCodigoBarrasDuplicado
		}
		return nil, txErr
	}

	resp := productoToResponse(producto)
	resp.Categoria = categoria.Nombre
	return resp, nil
}

func (s *productoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProductoNoEncontrado, id)
	}
	return productoToResponse(producto), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		data = append(data, *productoToResponse(&productos[i]))
	}
	return &dto.ProductoListResponse{Data: data, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

// Actualizar edita los datos del producto. El stock no se toca por aquí:
// solo ventas y ajustes de inventario mueven stock.
func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProductoNoEncontrado, id)
	}
	categoriaID, err := uuid.Parse(req.CategoriaID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCategoriaNoEncontrada, req.CategoriaID)
	}
	if _, err := s.categoriaRepo.FindByID(ctx, categoriaID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCategoriaNoEncontrada, req.CategoriaID)
	}
	if req.StockMinimo.IsNegative() {
		return nil, fmt.Errorf("%w: el stock mínimo no puede ser negativo", ErrCantidadInvalida)
	}

	producto.Nombre = req.Nombre
	producto.Descripcion = req.Descripcion
	producto.CategoriaID = categoriaID
	producto.UnidadBase = req.UnidadBase
	producto.StockMinimo = req.StockMinimo
	producto.PrecioCompra = req.PrecioCompra
	producto.CodigoBarras = normalizarCodigo(req.CodigoBarras)

	if err := s.repo.Update(ctx, producto); err != nil {
		if isDuplicateKey(err) {
			return nil, ErrCodigoBarrasDuplicado
		}
		return nil, err
	}
	return productoToResponse(producto), nil
}

func (s *productoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("%w: %s", ErrProductoNoEncontrado, id)
	}
	ventas, movimientos, err := s.repo.CountReferencias(ctx, id)
	if err != nil {
		return err
	}
	if ventas > 0 {
		return ErrTieneVentasAsociadas
	}
	if movimientos > 0 {
		return ErrTieneMovimientosAsociados
	}
	return s.repo.Delete(ctx, id)
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	resp := &dto.ProductoResponse{
		ID:           p.ID.String(),
		Nombre:       p.Nombre,
		Descripcion:  p.Descripcion,
		CategoriaID:  p.CategoriaID.String(),
		UnidadBase:   p.UnidadBase,
		StockActual:  p.StockActual,
		StockMinimo:  p.StockMinimo,
		PrecioCompra: p.PrecioCompra,
		CodigoBarras: p.CodigoBarras,
	}
	if p.Categoria != nil {
		resp.Categoria = p.Categoria.Nombre
	}
	for i := range p.Presentaciones {
		resp.Presentaciones = append(resp.Presentaciones, *presentacionToResponse(&p.Presentaciones[i]))
	}
	return resp
}

package service

import (
	"context"
	"fmt"
	"time"

	"forrapos/internal/dto"
	"forrapos/internal/model"
	"forrapos/internal/repository"
	"forrapos/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InventarioService interface {
	AjustarStock(ctx context.Context, req dto.AjustarStockRequest) (*dto.AjustarStockResponse, error)
	ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error)
}

type inventarioService struct {
	productoRepo     repository.ProductoRepository
	presentacionRepo repository.PresentacionRepository
	movimientoRepo   repository.MovimientoRepository
	dispatcher       *worker.Dispatcher
}

func NewInventarioService(
	productoRepo repository.ProductoRepository,
	presentacionRepo repository.PresentacionRepository,
	movimientoRepo repository.MovimientoRepository,
	dispatcher *worker.Dispatcher,
) InventarioService {
	return &inventarioService{
		productoRepo:     productoRepo,
		presentacionRepo: presentacionRepo,
		movimientoRepo:   movimientoRepo,
		dispatcher:       dispatcher,
	}
}

// AjustarStock applies a manual inventory movement. Cantidad is read in base
// units and interpreted per tipo: entrada adds, salida subtracts, ajuste
// overwrites with the absolute value. The stock write and its movimiento are
// one transaction, keeping the audit trail 1:1 with stock mutations.
func (s *inventarioService) AjustarStock(ctx context.Context, req dto.AjustarStockRequest) (*dto.AjustarStockResponse, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProductoNoEncontrado, req.ProductoID)
	}
	producto, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProductoNoEncontrado, req.ProductoID)
	}

	// Optional presentation context: must exist and belong to the product
	var presentacionID *uuid.UUID
	var presentacionNombre string
	if req.PresentacionID != nil {
		pid, err := uuid.Parse(*req.PresentacionID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrPresentacionNoEncontrada, *req.PresentacionID)
		}
		pres, err := s.presentacionRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrPresentacionNoEncontrada, *req.PresentacionID)
		}
		if pres.ProductoID != productoID {
			return nil, fmt.Errorf("%w: la presentación no pertenece al producto", ErrPresentacionNoEncontrada)
		}
		presentacionID = &pid
		presentacionNombre = pres.Nombre
	}

	anterior := producto.StockActual
	var nuevo decimal.Decimal
	switch req.Tipo {
	case model.MovimientoEntrada:
		if !req.Cantidad.IsPositive() {
			return nil, fmt.Errorf("%w: una entrada requiere cantidad mayor que 0", ErrCantidadInvalida)
		}
		nuevo = anterior.Add(req.Cantidad)
	case model.MovimientoSalida:
		if !req.Cantidad.IsPositive() {
			return nil, fmt.Errorf("%w: una salida requiere cantidad mayor que 0", ErrCantidadInvalida)
		}
		nuevo = anterior.Sub(req.Cantidad)
	case model.MovimientoAjuste:
		if req.Cantidad.IsNegative() {
			return nil, fmt.Errorf("%w: un ajuste no puede fijar stock negativo", ErrCantidadInvalida)
		}
		nuevo = req.Cantidad
	default:
		return nil, fmt.Errorf("tipo de movimiento desconocido: %s", req.Tipo)
	}

	if nuevo.IsNegative() {
		return nil, fmt.Errorf("%w: stock resultante %s", ErrStockNegativo, nuevo)
	}

	comentario := req.Razon
	if comentario == "" {
		comentario = "Ajuste manual de inventario"
	}

	// The movimiento records the magnitude of the change in base units; for
	// ajuste that is |nuevo - anterior|, the tipo carries the direction intent.
	cantidadBase := req.Cantidad
	if req.Tipo == model.MovimientoAjuste {
		cantidadBase = nuevo.Sub(anterior).Abs()
	}

	mov := &model.MovimientoInventario{
		ProductoID:     productoID,
		PresentacionID: presentacionID,
		TipoMovimiento: req.Tipo,
		CantidadBase:   cantidadBase,
		Fecha:          time.Now(),
		Comentario:     comentario,
	}

	txErr := runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		if err := s.productoRepo.ActualizarStockTx(tx, productoID, nuevo); err != nil {
			return err
		}
		return s.movimientoRepo.CreateTx(tx, mov)
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.dispatcher != nil && nuevo.LessThanOrEqual(producto.StockMinimo) {
		_ = s.dispatcher.EnqueueAlertaStock(ctx, worker.AlertaStockPayload{
			ProductoID:  productoID.String(),
			Nombre:      producto.Nombre,
			StockActual: nuevo.String(),
			StockMinimo: producto.StockMinimo.String(),
		})
	}

	resp := &dto.AjustarStockResponse{
		ProductoID:    productoID.String(),
		StockAnterior: anterior,
		StockActual:   nuevo,
		Movimiento: dto.MovimientoResponse{
			ID:             mov.ID.String(),
			ProductoID:     productoID.String(),
			Producto:       producto.Nombre,
			PresentacionID: req.PresentacionID,
			Presentacion:   presentacionNombre,
			TipoMovimiento: mov.TipoMovimiento,
			CantidadBase:   mov.CantidadBase,
			Fecha:          mov.Fecha.Format(time.RFC3339),
			Comentario:     mov.Comentario,
		},
	}
	return resp, nil
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error) {
	if filter.Limit < 1 {
		filter.Limit = 100
	}
	movimientos, total, err := s.movimientoRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovimientoResponse, 0, len(movimientos))
	for i := range movimientos {
		data = append(data, movimientoToResponse(&movimientos[i]))
	}
	return &dto.MovimientoListResponse{
		Data:   data,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

func movimientoToResponse(m *model.MovimientoInventario) dto.MovimientoResponse {
	resp := dto.MovimientoResponse{
		ID:             m.ID.String(),
		ProductoID:     m.ProductoID.String(),
		TipoMovimiento: m.TipoMovimiento,
		CantidadBase:   m.CantidadBase,
		Fecha:          m.Fecha.Format(time.RFC3339),
		Comentario:     m.Comentario,
	}
	if m.PresentacionID != nil {
		id := m.PresentacionID.String()
		resp.PresentacionID = &id
	}
	if m.Producto != nil {
		resp.Producto = m.Producto.Nombre
	}
	if m.Presentacion != nil {
		resp.Presentacion = m.Presentacion.Nombre
	}
	return resp
}

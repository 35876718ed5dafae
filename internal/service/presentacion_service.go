package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"forrapos/internal/dto"
	"forrapos/internal/model"
	"forrapos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	precioCachePrefix = "forrapos:precio:"
	precioCacheTTL    = 5 * time.Minute
)

type PresentacionService interface {
	Crear(ctx context.Context, req dto.CrearPresentacionRequest) (*dto.PresentacionResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPresentacionRequest) (*dto.PresentacionResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	ListarPorProducto(ctx context.Context, productoID uuid.UUID) ([]dto.PresentacionResponse, error)
	// ConsultarPrecio resolves an active presentation by scan code, serving
	// from Redis when the entry is warm.
	ConsultarPrecio(ctx context.Context, codigoBarras string) (*dto.ConsultaPrecioResponse, error)
}

type presentacionService struct {
	repo         repository.PresentacionRepository
	productoRepo repository.ProductoRepository
	rdb          *redis.Client
}

func NewPresentacionService(
	repo repository.PresentacionRepository,
	productoRepo repository.ProductoRepository,
	rdb *redis.Client,
) PresentacionService {
	return &presentacionService{repo: repo, productoRepo: productoRepo, rdb: rdb}
}

// Crear registra una presentación nueva. Si EsDefault viene en true, las
// hermanas pierden el default dentro de la misma transacción (clear-then-set),
// de modo que nunca existen dos defaults simultáneos para un producto.
func (s *presentacionService) Crear(ctx context.Context, req dto.CrearPresentacionRequest) (*dto.PresentacionResponse, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProductoNoEncontrado, req.ProductoID)
	}
	producto, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProductoNoEncontrado, req.ProductoID)
	}
	if !req.FactorABase.IsPositive() {
		return nil, ErrFactorInvalido
	}
	if req.PrecioUnitario.IsNegative() {
		return nil, ErrPrecioInvalido
	}

	pres := &model.Presentacion{
		ProductoID:     productoID,
		Nombre:         req.Nombre,
		Unidad:         req.Unidad,
		FactorABase:    req.FactorABase,
		PrecioUnitario: req.PrecioUnitario,
		CodigoBarras:   normalizarCodigo(req.CodigoBarras),
		EsDefault:      req.EsDefault,
		Activo:         true,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, pres); err != nil {
			return err
		}
		if pres.EsDefault {
			return s.repo.ClearDefaultTx(tx, productoID, pres.ID)
		}
		return nil
	})
	if txErr != nil {
		if isDuplicateKey(txErr) {
			return nil, ErrCodigoBarrasDuplicado
		}
		return nil, txErr
	}

	resp := presentacionToResponse(pres)
	resp.Producto = producto.Nombre
	return resp, nil
}

func (s *presentacionService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPresentacionRequest) (*dto.PresentacionResponse, error) {
	pres, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPresentacionNoEncontrada, id)
	}
	if !req.FactorABase.IsPositive() {
		return nil, ErrFactorInvalido
	}
	if req.PrecioUnitario.IsNegative() {
		return nil, ErrPrecioInvalido
	}

	codigoAnterior := pres.CodigoBarras

	pres.Nombre = req.Nombre
	pres.Unidad = req.Unidad
	pres.FactorABase = req.FactorABase
	pres.PrecioUnitario = req.PrecioUnitario
	pres.CodigoBarras = normalizarCodigo(req.CodigoBarras)
	pres.EsDefault = req.EsDefault
	if req.Activo != nil {
		pres.Activo = *req.Activo
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if pres.EsDefault {
			// Clear first, then persist: siblings lose es_default before this
			// row gains it, inside one transaction.
			if err := s.repo.ClearDefaultTx(tx, pres.ProductoID, pres.ID); err != nil {
				return err
			}
		}
		return s.repo.UpdateTx(tx, pres)
	})
	if txErr != nil {
		if isDuplicateKey(txErr) {
			return nil, ErrCodigoBarrasDuplicado
		}
		return nil, txErr
	}

	s.invalidarPrecio(ctx, codigoAnterior, pres.CodigoBarras)

	resp := presentacionToResponse(pres)
	if pres.Producto != nil {
		resp.Producto = pres.Producto.Nombre
	}
	return resp, nil
}

// Eliminar borra una presentación solo si ningún detalle de venta ni
// movimiento la referencia; con historial se desactiva en su lugar, vía
// Actualizar con activo=false.
func (s *presentacionService) Eliminar(ctx context.Context, id uuid.UUID) error {
	pres, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrPresentacionNoEncontrada, id)
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
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidarPrecio(ctx, pres.CodigoBarras, nil)
	return nil
}

func (s *presentacionService) ListarPorProducto(ctx context.Context, productoID uuid.UUID) ([]dto.PresentacionResponse, error) {
	if _, err := s.productoRepo.FindByID(ctx, productoID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProductoNoEncontrado, productoID)
	}
	presentaciones, err := s.repo.ListByProducto(ctx, productoID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.PresentacionResponse, 0, len(presentaciones))
	for i := range presentaciones {
		result = append(result, *presentacionToResponse(&presentaciones[i]))
	}
	return result, nil
}

func (s *presentacionService) ConsultarPrecio(ctx context.Context, codigoBarras string) (*dto.ConsultaPrecioResponse, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, precioCachePrefix+codigoBarras).Result()
		if err == nil {
			var resp dto.ConsultaPrecioResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return &resp, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("cache de precios no disponible")
		}
	}

	pres, err := s.repo.FindByCodigoBarras(ctx, codigoBarras)
	if err != nil {
		return nil, fmt.Errorf("%w: código %s", ErrPresentacionNoEncontrada, codigoBarras)
	}

	resp := &dto.ConsultaPrecioResponse{
		Presentacion:   pres.Nombre,
		Unidad:         pres.Unidad,
		PrecioUnitario: pres.PrecioUnitario,
		FactorABase:    pres.FactorABase,
	}
	if pres.Producto != nil {
		resp.Producto = pres.Producto.Nombre
		resp.StockDisponible = pres.Producto.StockActual
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, precioCachePrefix+codigoBarras, raw, precioCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("no se pudo cachear el precio")
			}
		}
	}
	return resp, nil
}

// invalidarPrecio drops the cached price entries for the old and the new scan
// code after a presentation mutation. Best effort.
func (s *presentacionService) invalidarPrecio(ctx context.Context, codigos ...*string) {
	if s.rdb == nil {
		return
	}
	for _, c := range codigos {
		if c == nil || *c == "" {
			continue
		}
		if err := s.rdb.Del(ctx, precioCachePrefix+*c).Err(); err != nil {
			log.Warn().Err(err).Str("codigo", *c).Msg("no se pudo invalidar el cache de precios")
		}
	}
}

// normalizarCodigo maps empty scan codes to NULL so the unique index ignores
// presentations without one.
func normalizarCodigo(codigo *string) *string {
	if codigo == nil || *codigo == "" {
		return nil
	}
	return codigo
}

func presentacionToResponse(p *model.Presentacion) *dto.PresentacionResponse {
	return &dto.PresentacionResponse{
		ID:             p.ID.String(),
		ProductoID:     p.ProductoID.String(),
		Nombre:         p.Nombre,
		Unidad:         p.Unidad,
		FactorABase:    p.FactorABase,
		PrecioUnitario: p.PrecioUnitario,
		CodigoBarras:   p.CodigoBarras,
		EsDefault:      p.EsDefault,
		Activo:         p.Activo,
	}
}

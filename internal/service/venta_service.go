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

type VentaService interface {
	RegistrarVenta(ctx context.Context, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	ListarVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
	ListarCatalogo(ctx context.Context) ([]dto.CatalogoProductoResponse, error)
}

type ventaService struct {
	repo             repository.VentaRepository
	presentacionRepo repository.PresentacionRepository
	productoRepo     repository.ProductoRepository
	movimientoRepo   repository.MovimientoRepository
	usuarioRepo      repository.UsuarioRepository
	dispatcher       *worker.Dispatcher
}

func NewVentaService(
	repo repository.VentaRepository,
	presentacionRepo repository.PresentacionRepository,
	productoRepo repository.ProductoRepository,
	movimientoRepo repository.MovimientoRepository,
	usuarioRepo repository.UsuarioRepository,
	dispatcher *worker.Dispatcher,
) VentaService {
	return &ventaService{
		repo:             repo,
		presentacionRepo: presentacionRepo,
		productoRepo:     productoRepo,
		movimientoRepo:   movimientoRepo,
		usuarioRepo:      usuarioRepo,
		dispatcher:       dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

var cien = decimal.NewFromInt(100)

// lineaResuelta carries one cart line after presentation resolution: the
// quantity converted to base units and the price/cost snapshot taken at
// sale time.
type lineaResuelta struct {
	presentacion *model.Presentacion
	producto     *model.Producto
	cantidad     decimal.Decimal
	cantidadBase decimal.Decimal
	precio       decimal.Decimal
	costo        decimal.Decimal
	subtotal     decimal.Decimal
}

// ── RegistrarVenta ────────────────────────────────────────────────────────────
// The whole checkout either commits or leaves no trace:
//  1. Resolve every presentation (one batched lookup, joined to its product)
//  2. Convert each quantity to base units and aggregate demand per product —
//     a cart may hit the same product through several presentations
//  3. Price lines in presentation units, snapshot the product purchase cost
//  4. Check aggregated demand against current stock, reporting every shortfall
//  5. BEGIN TX: ticket number, venta + detalle, conditional stock decrements,
//     one movimiento salida per line
//  6. COMMIT, then (async, best effort) enqueue low-stock alerts

func (s *ventaService) RegistrarVenta(ctx context.Context, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	// 1. Operator must exist and be active
	usuarioID, err := uuid.Parse(req.UsuarioID)
	if err != nil {
		return nil, fmt.Errorf("%w: usuario_id mal formado", ErrUsuarioInvalido)
	}
	usuario, err := s.usuarioRepo.FindByID(ctx, usuarioID)
	if err != nil || !usuario.Activo {
		return nil, ErrUsuarioInvalido
	}

	switch req.MetodoPago {
	case model.PagoEfectivo, model.PagoTarjeta, model.PagoTransferencia:
	default:
		return nil, ErrMetodoPagoInvalido
	}

	if len(req.Items) == 0 {
		return nil, ErrCarritoVacio
	}

	// Bound enforced here regardless of what the HTTP layer validated
	pct := req.DescuentoPorcentaje
	if pct.IsNegative() || pct.GreaterThan(cien) {
		return nil, ErrDescuentoInvalido
	}

	// 2. Resolve presentations in one batched lookup
	ids := make([]uuid.UUID, 0, len(req.Items))
	seen := make(map[uuid.UUID]bool, len(req.Items))
	for _, item := range req.Items {
		if !item.Cantidad.IsPositive() {
			return nil, fmt.Errorf("%w: la cantidad debe ser mayor que 0", ErrCantidadInvalida)
		}
		pid, err := uuid.Parse(item.PresentacionID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrPresentacionNoEncontrada, item.PresentacionID)
		}
		if !seen[pid] {
			seen[pid] = true
			ids = append(ids, pid)
		}
	}

	presentaciones, err := s.presentacionRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	presIdx := make(map[uuid.UUID]*model.Presentacion, len(presentaciones))
	for i := range presentaciones {
		presIdx[presentaciones[i].ID] = &presentaciones[i]
	}

	// 3. Convert quantities, aggregate per-product demand, price the lines
	var (
		lineas      []lineaResuelta
		subtotal    = decimal.Zero
		demanda     = make(map[uuid.UUID]decimal.Decimal)
		productoIDs []uuid.UUID // first-touch order, for deterministic reporting
	)
	for _, item := range req.Items {
		pid, _ := uuid.Parse(item.PresentacionID)
		pres, ok := presIdx[pid]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrPresentacionNoEncontrada, item.PresentacionID)
		}

		cantidadBase := item.Cantidad.Mul(pres.FactorABase)
		if _, visto := demanda[pres.ProductoID]; !visto {
			productoIDs = append(productoIDs, pres.ProductoID)
		}
		demanda[pres.ProductoID] = demanda[pres.ProductoID].Add(cantidadBase)

		// Line subtotal is priced in presentation units, not base units
		lineSubtotal := pres.PrecioUnitario.Mul(item.Cantidad)
		subtotal = subtotal.Add(lineSubtotal)

		costo := decimal.Zero
		if pres.Producto != nil {
			costo = pres.Producto.PrecioCompra
		}
		lineas = append(lineas, lineaResuelta{
			presentacion: pres,
			producto:     pres.Producto,
			cantidad:     item.Cantidad,
			cantidadBase: cantidadBase,
			precio:       pres.PrecioUnitario,
			costo:        costo,
			subtotal:     lineSubtotal,
		})
	}

	// 4. Batched stock fetch and aggregate sufficiency check
	productos, err := s.productoRepo.FindByIDs(ctx, productoIDs)
	if err != nil {
		return nil, err
	}
	prodIdx := make(map[uuid.UUID]*model.Producto, len(productos))
	for i := range productos {
		prodIdx[productos[i].ID] = &productos[i]
	}

	var faltantes []FaltanteStock
	for _, pid := range productoIDs {
		p, ok := prodIdx[pid]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrProductoNoEncontrado, pid)
		}
		if demanda[pid].GreaterThan(p.StockActual) {
			faltantes = append(faltantes, FaltanteStock{
				ProductoID: pid,
				Nombre:     p.Nombre,
				Disponible: p.StockActual,
				Requerido:  demanda[pid],
			})
		}
	}
	if len(faltantes) > 0 {
		return nil, &StockInsuficienteError{Faltantes: faltantes}
	}

	descuentoMonto := subtotal.Mul(pct).Div(cien)
	total := subtotal.Sub(descuentoMonto)

	// 5. ACID transaction: header + lines + decrements + movements
	var venta model.Venta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ticket, err := s.repo.NextTicketNumber(ctx, tx)
		if err != nil {
			return err
		}

		venta = model.Venta{
			NumeroTicket:        ticket,
			UsuarioID:           usuarioID,
			Fecha:               time.Now(),
			Subtotal:            subtotal,
			DescuentoPorcentaje: pct,
			DescuentoMonto:      descuentoMonto,
			Total:               total,
			MetodoPago:          req.MetodoPago,
		}
		for _, l := range lineas {
			venta.Detalle = append(venta.Detalle, model.VentaDetalle{
				ProductoID:           l.presentacion.ProductoID,
				PresentacionID:       l.presentacion.ID,
				CantidadPresentacion: l.cantidad,
				PrecioUnitario:       l.precio,
				PrecioCompra:         l.costo,
				Subtotal:             l.subtotal,
			})
		}
		if err := s.repo.Create(ctx, tx, &venta); err != nil {
			return err
		}

		// Conditional decrement: the WHERE stock_actual >= ? guard makes the
		// pre-flight check authoritative even under concurrent checkouts —
		// a lost race rolls back the whole sale instead of going negative.
		for _, pid := range productoIDs {
			ok, err := s.productoRepo.DescontarStockTx(tx, pid, demanda[pid])
			if err != nil {
				return err
			}
			if !ok {
				p := prodIdx[pid]
				return &StockInsuficienteError{Faltantes: []FaltanteStock{{
					ProductoID: pid,
					Nombre:     p.Nombre,
					Disponible: p.StockActual,
					Requerido:  demanda[pid],
				}}}
			}
		}

		for _, l := range lineas {
			presID := l.presentacion.ID
			mov := &model.MovimientoInventario{
				ProductoID:     l.presentacion.ProductoID,
				PresentacionID: &presID,
				TipoMovimiento: model.MovimientoSalida,
				CantidadBase:   l.cantidadBase,
				Fecha:          venta.Fecha,
				Comentario:     fmt.Sprintf("Venta #%d", venta.NumeroTicket),
			}
			if err := s.movimientoRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// 6. Low-stock alerts — fire & forget, never fails the sale
	if s.dispatcher != nil {
		for _, pid := range productoIDs {
			p := prodIdx[pid]
			restante := p.StockActual.Sub(demanda[pid])
			if restante.LessThanOrEqual(p.StockMinimo) {
				_ = s.dispatcher.EnqueueAlertaStock(ctx, worker.AlertaStockPayload{
					ProductoID:  pid.String(),
					Nombre:      p.Nombre,
					StockActual: restante.String(),
					StockMinimo: p.StockMinimo.String(),
				})
			}
		}
	}

	resp := s.ventaToResponse(&venta, lineas)
	resp.Vendedor = usuario.Nombre
	return resp, nil
}

// ventaToResponse builds the client payload from the freshly committed sale
// and the resolved lines (which still carry product/presentation names).
func (s *ventaService) ventaToResponse(v *model.Venta, lineas []lineaResuelta) *dto.VentaResponse {
	detalle := make([]dto.DetalleVentaResponse, 0, len(lineas))
	for _, l := range lineas {
		nombreProd := ""
		if l.producto != nil {
			nombreProd = l.producto.Nombre
		}
		detalle = append(detalle, dto.DetalleVentaResponse{
			ProductoID:     l.presentacion.ProductoID.String(),
			Producto:       nombreProd,
			PresentacionID: l.presentacion.ID.String(),
			Presentacion:   l.presentacion.Nombre,
			Cantidad:       l.cantidad,
			CantidadBase:   l.cantidadBase,
			PrecioUnitario: l.precio,
			Subtotal:       l.subtotal,
		})
	}
	return &dto.VentaResponse{
		ID:                  v.ID.String(),
		NumeroTicket:        v.NumeroTicket,
		UsuarioID:           v.UsuarioID.String(),
		Fecha:               v.Fecha.Format(time.RFC3339),
		Detalle:             detalle,
		Subtotal:            v.Subtotal,
		DescuentoPorcentaje: v.DescuentoPorcentaje,
		DescuentoMonto:      v.DescuentoMonto,
		Total:               v.Total,
		MetodoPago:          v.MetodoPago,
	}
}

// ObtenerVenta carga una venta con sus líneas para reimprimir el ticket.
func (s *ventaService) ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrVentaNoEncontrada, id)
	}
	return ventaModelToResponse(venta), nil
}

// ListarVentas returns a date-ranged, paginated list of sales, newest first.
func (s *ventaService) ListarVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		data = append(data, *ventaModelToResponse(&ventas[i]))
	}
	return &dto.VentaListResponse{
		Data:   data,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

// ventaModelToResponse maps a preloaded Venta (Detalle.Producto,
// Detalle.Presentacion, Usuario) to its response DTO.
func ventaModelToResponse(v *model.Venta) *dto.VentaResponse {
	detalle := make([]dto.DetalleVentaResponse, 0, len(v.Detalle))
	for _, d := range v.Detalle {
		nombreProd, nombrePres := "", ""
		factor := decimal.NewFromInt(1)
		if d.Producto != nil {
			nombreProd = d.Producto.Nombre
		}
		if d.Presentacion != nil {
			nombrePres = d.Presentacion.Nombre
			factor = d.Presentacion.FactorABase
		}
		detalle = append(detalle, dto.DetalleVentaResponse{
			ProductoID:     d.ProductoID.String(),
			Producto:       nombreProd,
			PresentacionID: d.PresentacionID.String(),
			Presentacion:   nombrePres,
			Cantidad:       d.CantidadPresentacion,
			CantidadBase:   d.CantidadPresentacion.Mul(factor),
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
		})
	}
	vendedor := ""
	if v.Usuario != nil {
		vendedor = v.Usuario.Nombre
	}
	return &dto.VentaResponse{
		ID:                  v.ID.String(),
		NumeroTicket:        v.NumeroTicket,
		UsuarioID:           v.UsuarioID.String(),
		Vendedor:            vendedor,
		Fecha:               v.Fecha.Format(time.RFC3339),
		Detalle:             detalle,
		Subtotal:            v.Subtotal,
		DescuentoPorcentaje: v.DescuentoPorcentaje,
		DescuentoMonto:      v.DescuentoMonto,
		Total:               v.Total,
		MetodoPago:          v.MetodoPago,
	}
}

// ListarCatalogo feeds the checkout cart builder: products with positive
// stock and their active presentations, default-first then by name.
func (s *ventaService) ListarCatalogo(ctx context.Context) ([]dto.CatalogoProductoResponse, error) {
	productos, err := s.productoRepo.ListCatalogo(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CatalogoProductoResponse, 0, len(productos))
	for _, p := range productos {
		presentaciones := make([]dto.CatalogoPresentacionResponse, 0, len(p.Presentaciones))
		for _, pres := range p.Presentaciones {
			presentaciones = append(presentaciones, dto.CatalogoPresentacionResponse{
				ID:             pres.ID.String(),
				Nombre:         pres.Nombre,
				Unidad:         pres.Unidad,
				FactorABase:    pres.FactorABase,
				PrecioUnitario: pres.PrecioUnitario,
				CodigoBarras:   pres.CodigoBarras,
				EsDefault:      pres.EsDefault,
			})
		}
		categoria := ""
		if p.Categoria != nil {
			categoria = p.Categoria.Nombre
		}
		result = append(result, dto.CatalogoProductoResponse{
			ID:             p.ID.String(),
			Nombre:         p.Nombre,
			Categoria:      categoria,
			UnidadBase:     p.UnidadBase,
			StockActual:    p.StockActual,
			Presentaciones: presentaciones,
		})
	}
	return result, nil
}

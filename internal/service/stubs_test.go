package service_test

import (
	"context"
	"errors"

	"forrapos/internal/dto"
	"forrapos/internal/model"
	"forrapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errNotFound = errors.New("not found")

// ── stubProductoRepo ──────────────────────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
	// referencias simula los conteos de detalle_venta / movimientos por producto
	refVentas      map[uuid.UUID]int64
	refMovimientos map[uuid.UUID]int64
	descuentos     int // llamadas a DescontarStockTx
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{
		productos:      make(map[uuid.UUID]*model.Producto),
		refVentas:      make(map[uuid.UUID]int64),
		refMovimientos: make(map[uuid.UUID]int64),
	}
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, errNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Producto, error) {
	var out []model.Producto
	for _, id := range ids {
		if p, ok := r.productos[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) ListCatalogo(_ context.Context) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.StockActual.IsPositive() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.productos, id)
	return nil
}

func (r *stubProductoRepo) CountReferencias(_ context.Context, id uuid.UUID) (int64, int64, error) {
	return r.refVentas[id], r.refMovimientos[id], nil
}

func (r *stubProductoRepo) CreateTx(_ *gorm.DB, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) DescontarStockTx(_ *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) (bool, error) {
	r.descuentos++
	p, ok := r.productos[id]
	if !ok {
		return false, nil
	}
	if p.StockActual.LessThan(cantidad) {
		return false, nil
	}
	p.StockActual = p.StockActual.Sub(cantidad)
	return true, nil
}

func (r *stubProductoRepo) ActualizarStockTx(_ *gorm.DB, id uuid.UUID, nuevo decimal.Decimal) error {
	p, ok := r.productos[id]
	if !ok {
		return errNotFound
	}
	p.StockActual = nuevo
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── stubPresentacionRepo ──────────────────────────────────────────────────────

type stubPresentacionRepo struct {
	presentaciones map[uuid.UUID]*model.Presentacion
	refVentas      map[uuid.UUID]int64
	refMovimientos map[uuid.UUID]int64
}

func newStubPresentacionRepo() *stubPresentacionRepo {
	return &stubPresentacionRepo{
		presentaciones: make(map[uuid.UUID]*model.Presentacion),
		refVentas:      make(map[uuid.UUID]int64),
		refMovimientos: make(map[uuid.UUID]int64),
	}
}

func (r *stubPresentacionRepo) CreateTx(_ *gorm.DB, p *model.Presentacion) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.presentaciones[p.ID] = p
	return nil
}

func (r *stubPresentacionRepo) UpdateTx(_ *gorm.DB, p *model.Presentacion) error {
	r.presentaciones[p.ID] = p
	return nil
}

func (r *stubPresentacionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Presentacion, error) {
	p, ok := r.presentaciones[id]
	if !ok {
		return nil, errNotFound
	}
	return p, nil
}

func (r *stubPresentacionRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Presentacion, error) {
	var out []model.Presentacion
	for _, id := range ids {
		if p, ok := r.presentaciones[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPresentacionRepo) FindByCodigoBarras(_ context.Context, codigo string) (*model.Presentacion, error) {
	for _, p := range r.presentaciones {
		if p.Activo && p.CodigoBarras != nil && *p.CodigoBarras == codigo {
			return p, nil
		}
	}
	return nil, errNotFound
}

func (r *stubPresentacionRepo) ListByProducto(_ context.Context, productoID uuid.UUID) ([]model.Presentacion, error) {
	var out []model.Presentacion
	for _, p := range r.presentaciones {
		if p.ProductoID == productoID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPresentacionRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.presentaciones, id)
	return nil
}

func (r *stubPresentacionRepo) ClearDefaultTx(_ *gorm.DB, productoID uuid.UUID, exceptID uuid.UUID) error {
	for _, p := range r.presentaciones {
		if p.ProductoID == productoID && p.ID != exceptID {
			p.EsDefault = false
		}
	}
	return nil
}

func (r *stubPresentacionRepo) CountReferencias(_ context.Context, id uuid.UUID) (int64, int64, error) {
	return r.refVentas[id], r.refMovimientos[id], nil
}

func (r *stubPresentacionRepo) DB() *gorm.DB { return nil }

var _ repository.PresentacionRepository = (*stubPresentacionRepo)(nil)

// ── stubVentaRepo ─────────────────────────────────────────────────────────────

type stubVentaRepo struct {
	ventas    map[uuid.UUID]*model.Venta
	ticketSeq int
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.ventas[v.ID] = v
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, errNotFound
	}
	return v, nil
}

func (r *stubVentaRepo) NextTicketNumber(_ context.Context, _ *gorm.DB) (int, error) {
	r.ticketSeq++
	return r.ticketSeq, nil
}

func (r *stubVentaRepo) List(_ context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// ── stubMovimientoRepo ────────────────────────────────────────────────────────

type stubMovimientoRepo struct {
	movimientos []model.MovimientoInventario
}

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoInventario) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoRepo) List(_ context.Context, filter dto.MovimientoFilter) ([]model.MovimientoInventario, int64, error) {
	var out []model.MovimientoInventario
	for _, m := range r.movimientos {
		if filter.ProductoID != "" && m.ProductoID.String() != filter.ProductoID {
			continue
		}
		if filter.Tipo != "" && m.TipoMovimiento != filter.Tipo {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

var _ repository.MovimientoRepository = (*stubMovimientoRepo)(nil)

// ── stubUsuarioRepo ───────────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	for _, existing := range r.usuarios {
		if existing.Usuario == u.Usuario {
			return errors.New(`duplicate key value violates unique constraint "uni_usuarios_usuario"`)
		}
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, errNotFound
	}
	return u, nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Usuario == username {
			return u, nil
		}
	}
	return nil, errNotFound
}

func (r *stubUsuarioRepo) List(_ context.Context, incluirInactivos bool) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if !incluirInactivos && !u.Activo {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

// ── stubCategoriaRepo ─────────────────────────────────────────────────────────

type stubCategoriaRepo struct {
	categorias map[uuid.UUID]*model.Categoria
}

func newStubCategoriaRepo() *stubCategoriaRepo {
	return &stubCategoriaRepo{categorias: make(map[uuid.UUID]*model.Categoria)}
}

func (r *stubCategoriaRepo) Create(_ context.Context, c *model.Categoria) error {
	for _, existing := range r.categorias {
		if existing.Nombre == c.Nombre {
			return errors.New(`duplicate key value violates unique constraint "uni_categorias_nombre"`)
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.categorias[c.ID] = c
	return nil
}

func (r *stubCategoriaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Categoria, error) {
	c, ok := r.categorias[id]
	if !ok {
		return nil, errNotFound
	}
	return c, nil
}

func (r *stubCategoriaRepo) List(_ context.Context) ([]model.Categoria, error) {
	var out []model.Categoria
	for _, c := range r.categorias {
		out = append(out, *c)
	}
	return out, nil
}

var _ repository.CategoriaRepository = (*stubCategoriaRepo)(nil)

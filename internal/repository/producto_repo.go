package repository

import (
	"context"

	"forrapos/internal/dto"
	"forrapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type ProductoRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	// FindByIDs resolves every distinct product touched by a cart in one
	// batched lookup.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	// ListCatalogo returns products with positive stock, preloading categoria
	// and active presentations ordered default-first then by name.
	ListCatalogo(ctx context.Context) ([]model.Producto, error)
	Update(ctx context.Context, p *model.Producto) error
	Delete(ctx context.Context, id uuid.UUID) error
	// CountReferencias counts sale lines and inventory movements pointing at
	// the product — deletion is blocked while either is non-zero.
	CountReferencias(ctx context.Context, id uuid.UUID) (ventas int64, movimientos int64, err error)

	// Used inside transactions — callers must pass the tx instance.

	CreateTx(tx *gorm.DB, p *model.Producto) error
	// DescontarStockTx decrements stock conditionally: the update only fires
	// when stock_actual >= cantidad, in one statement, so two concurrent
	// checkouts can never both decrement past zero. Returns false (and no
	// error) when the guard rejected the decrement.
	DescontarStockTx(tx *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) (bool, error)
	// ActualizarStockTx overwrites stock_actual with an absolute value.
	ActualizarStockTx(tx *gorm.DB, id uuid.UUID, nuevo decimal.Decimal) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Preload("Categoria").Preload("Presentaciones").First(&p, id).Error
	return &p, err
}

func (r *productoRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&productos).Error
	return productos, err
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{})
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if filter.CategoriaID != "" {
		q = q.Where("categoria_id = ?", filter.CategoriaID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Categoria").Preload("Presentaciones").
		Order("nombre ASC").Limit(filter.Limit).Offset(filter.Offset).
		Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) ListCatalogo(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("stock_actual > 0").
		Preload("Categoria").
		Preload("Presentaciones", func(db *gorm.DB) *gorm.DB {
			return db.Where("activo = true").Order("es_default DESC, nombre ASC")
		}).
		Order("nombre ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Producto{}, id).Error
}

func (r *productoRepo) CountReferencias(ctx context.Context, id uuid.UUID) (int64, int64, error) {
	var ventas, movimientos int64
	if err := r.db.WithContext(ctx).Model(&model.VentaDetalle{}).
		Where("producto_id = ?", id).Count(&ventas).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&model.MovimientoInventario{}).
		Where("producto_id = ?", id).Count(&movimientos).Error; err != nil {
		return 0, 0, err
	}
	return ventas, movimientos, nil
}

func (r *productoRepo) CreateTx(tx *gorm.DB, p *model.Producto) error {
	return tx.Create(p).Error
}

func (r *productoRepo) DescontarStockTx(tx *gorm.DB, id uuid.UUID, cantidad decimal.Decimal) (bool, error) {
	res := tx.Model(&model.Producto{}).
		Where("id = ? AND stock_actual >= ?", id, cantidad).
		Update("stock_actual", gorm.Expr("stock_actual - ?", cantidad))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *productoRepo) ActualizarStockTx(tx *gorm.DB, id uuid.UUID, nuevo decimal.Decimal) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).
		Update("stock_actual", nuevo).Error
}

func (r *productoRepo) DB() *gorm.DB { return r.db }

package repository

import (
	"context"

	"forrapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PresentacionRepository interface {
	CreateTx(tx *gorm.DB, p *model.Presentacion) error
	UpdateTx(tx *gorm.DB, p *model.Presentacion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Presentacion, error)
	// FindByIDs resolves every presentation referenced by a cart in one
	// batched lookup, each joined to its owning product.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Presentacion, error)
	FindByCodigoBarras(ctx context.Context, codigo string) (*model.Presentacion, error)
	ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.Presentacion, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ClearDefaultTx clears es_default on every sibling presentation of the
	// product except the given one (clear-then-set discipline).
	ClearDefaultTx(tx *gorm.DB, productoID uuid.UUID, exceptID uuid.UUID) error
	// CountReferencias counts sale lines and movements pointing at the
	// presentation; deletion is blocked while either is non-zero.
	CountReferencias(ctx context.Context, id uuid.UUID) (ventas int64, movimientos int64, err error)
	DB() *gorm.DB
}

type presentacionRepo struct{ db *gorm.DB }

func NewPresentacionRepository(db *gorm.DB) PresentacionRepository {
	return &presentacionRepo{db: db}
}

func (r *presentacionRepo) CreateTx(tx *gorm.DB, p *model.Presentacion) error {
	return tx.Create(p).Error
}

func (r *presentacionRepo) UpdateTx(tx *gorm.DB, p *model.Presentacion) error {
	return tx.Save(p).Error
}

func (r *presentacionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Presentacion, error) {
	var p model.Presentacion
	err := r.db.WithContext(ctx).Preload("Producto").First(&p, id).Error
	return &p, err
}

func (r *presentacionRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Presentacion, error) {
	var presentaciones []model.Presentacion
	err := r.db.WithContext(ctx).Preload("Producto").Where("id IN ?", ids).Find(&presentaciones).Error
	return presentaciones, err
}

func (r *presentacionRepo) FindByCodigoBarras(ctx context.Context, codigo string) (*model.Presentacion, error) {
	var p model.Presentacion
	err := r.db.WithContext(ctx).Preload("Producto").
		Where("codigo_barras = ? AND activo = true", codigo).First(&p).Error
	return &p, err
}

func (r *presentacionRepo) ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.Presentacion, error) {
	var presentaciones []model.Presentacion
	err := r.db.WithContext(ctx).
		Where("producto_id = ?", productoID).
		Order("es_default DESC, nombre ASC").
		Find(&presentaciones).Error
	return presentaciones, err
}

func (r *presentacionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Presentacion{}, id).Error
}

func (r *presentacionRepo) ClearDefaultTx(tx *gorm.DB, productoID uuid.UUID, exceptID uuid.UUID) error {
	return tx.Model(&model.Presentacion{}).
		Where("producto_id = ? AND id <> ?", productoID, exceptID).
		Update("es_default", false).Error
}

func (r *presentacionRepo) CountReferencias(ctx context.Context, id uuid.UUID) (int64, int64, error) {
	var ventas, movimientos int64
	if err := r.db.WithContext(ctx).Model(&model.VentaDetalle{}).
		Where("presentacion_id = ?", id).Count(&ventas).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&model.MovimientoInventario{}).
		Where("presentacion_id = ?", id).Count(&movimientos).Error; err != nil {
		return 0, 0, err
	}
	return ventas, movimientos, nil
}

func (r *presentacionRepo) DB() *gorm.DB { return r.db }

package infra

import (
	"fmt"

	"forrapos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// and applies the SQL pieces GORM cannot express (the ticket sequence).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return nil, fmt.Errorf("pgcrypto: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Categoria{},
		&model.Producto{},
		&model.Presentacion{},
		&model.Usuario{},
		&model.Venta{},
		&model.VentaDetalle{},
		&model.MovimientoInventario{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	// Ticket numbers come from a sequence so concurrent sales never collide.
	if err := db.Exec(`CREATE SEQUENCE IF NOT EXISTS ventas_numero_ticket_seq START 1`).Error; err != nil {
		return nil, fmt.Errorf("ticket sequence: %w", err)
	}

	return db, nil
}

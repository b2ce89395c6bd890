package db

import (
	"errors"
	"fmt"
	"log"

	"equipmaster/config"
	"equipmaster/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := Migrate(conn); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Println("Database connected")
	return conn, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.EquipmentType{},
		&models.Equipment{},
		&models.User{},
		&models.Assignment{},
		&models.MaintenanceLog{},
		&models.LogEntry{},
	); err != nil {
		return err
	}

	// At most one outstanding assignment per equipment. The issue
	// transaction checks this explicitly; the index is the backstop.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_one_active_per_equipment
	  ON %s (equipment_id)
	  WHERE returned_at IS NULL;
	`, models.AssignmentTable, models.AssignmentTable)).Error; err != nil {
		return err
	}

	return SeedEquipmentTypes(db)
}

var defaultEquipmentTypes = []models.EquipmentType{
	{Name: "Personal computer", MaintenanceIntervalDays: 180},
	{Name: "Monitor", MaintenanceIntervalDays: 730},
	{Name: "Laptop", MaintenanceIntervalDays: 180},
	{Name: "Printer", MaintenanceIntervalDays: 365},
	{Name: "MFP", MaintenanceIntervalDays: 365},
	{Name: "Server equipment", MaintenanceIntervalDays: 90},
	{Name: "Phone", MaintenanceIntervalDays: 365},
}

// SeedEquipmentTypes inserts the fixed type catalog, skipping names that
// already exist.
func SeedEquipmentTypes(db *gorm.DB) error {
	for _, et := range defaultEquipmentTypes {
		var existing models.EquipmentType
		err := db.Where("name = ?", et.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&et).Error; err != nil {
			return fmt.Errorf("seed equipment type %q: %w", et.Name, err)
		}
	}
	return nil
}

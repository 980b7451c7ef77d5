package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"sistema-gth/internal/database/models"
)

// NewConnection opens the backing datastore. Postgres is the production
// target; sqlite covers embedded single-host deployments and tests.
func NewConnection(driver, dsn string) (*gorm.DB, error) {
	if dsn == "" {
		log.Fatal("DSN is required")
	}

	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres", "":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB driver: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Employee{},
		&models.Contract{},
		&models.FamilyMember{},
		&models.AcademicRecord{},
		&models.WorkExperience{},
		&models.Publication{},
		&models.VacationPeriod{},
		&models.Benefit{},
		&models.MeritEntry{},
		&models.Evaluation{},
		&models.Settlement{},
	)
}

// SeedRoles inserts the three fixed clerk profiles when absent.
func SeedRoles(db *gorm.DB) error {
	roles := []models.Role{
		{RoleName: models.RoleAdmin, AccessLevel: 3, Permissions: "full"},
		{RoleName: models.RoleEditor, AccessLevel: 2, Permissions: "read,write"},
		{RoleName: models.RoleConsulta, AccessLevel: 1, Permissions: "read"},
	}
	for _, r := range roles {
		var existing models.Role
		err := db.Where("role_name = ?", r.RoleName).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&r).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}

package store

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/jimmy-wims/course-log/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store reads the host platform tables and the standard log store.
type Store struct {
	db *gorm.DB
}

func New(driver, dsn string) (*Store, error) {
	dialector, err := GetDialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// every connection to :memory: opens a separate empty database
	if strings.Contains(dsn, ":memory:") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	// Auto migrate
	if err := db.AutoMigrate(
		&models.LogEvent{},
		&models.User{},
		&models.Course{},
		&models.CourseModule{},
		&models.Context{},
		&models.Group{},
		&models.GroupMember{},
		&models.Role{},
		&models.RoleAssignment{},
		&models.Enrol{},
		&models.UserEnrolment{},
	); err != nil {
		return nil, err
	}

	store := &Store{db: db}

	// Seed default data
	if err := store.seedData(); err != nil {
		log.Printf("Warning: failed to seed data: %v", err)
	}

	return store, nil
}

// seedData creates the archetype roles, the system context and the site
// course when the tables are empty.
func (s *Store) seedData() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var roleCount int64
		tx.Model(&models.Role{}).Count(&roleCount)
		if roleCount == 0 {
			roles := []models.Role{
				{ShortName: models.RoleManager},
				{ShortName: models.RoleEditingTeacher},
				{ShortName: models.RoleTeacher},
				{ShortName: models.RoleStudent},
			}
			if err := tx.Create(&roles).Error; err != nil {
				return err
			}
			log.Printf("Created %d default roles", len(roles))
		}

		var contextCount int64
		tx.Model(&models.Context{}).
			Where("context_level = ?", models.ContextSystem).
			Count(&contextCount)
		if contextCount == 0 {
			if err := tx.Create(&models.Context{
				ContextLevel: models.ContextSystem,
				InstanceID:   0,
			}).Error; err != nil {
				return err
			}
		}

		var site models.Course
		err := tx.Where("id = ?", models.SiteID).First(&site).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			site = models.Course{ID: models.SiteID, ShortName: "site", FullName: "Site home", Visible: true}
			if err := tx.Create(&site).Error; err != nil {
				return err
			}
			if err := tx.Create(&models.Context{
				ContextLevel: models.ContextCourse,
				InstanceID:   models.SiteID,
			}).Error; err != nil {
				return err
			}
			log.Printf("Created site course (id %d)", models.SiteID)
		} else if err != nil {
			return err
		}
		return nil
	})
}

// Health checks the database connection
func (s *Store) Health() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB returns the underlying GORM database connection (for transactions)
func (s *Store) DB() *gorm.DB {
	return s.db
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	return err
}

// withContext is a small helper so every query honours request cancellation.
func (s *Store) withContext(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/joho/godotenv/autoload"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ballotbox/voting-backend/internal/config"
	"github.com/ballotbox/voting-backend/internal/models"
)

type Database struct {
	DB *gorm.DB
}

// New opens the Postgres connection, runs migrations and configures the
// connection pool.
func New(cfg *config.Config) (*Database, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode,
	)

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
		// Constraint violations must surface as gorm.ErrDuplicatedKey /
		// gorm.ErrForeignKeyViolated so the vote ledger can classify them.
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("✅ Database connected successfully")

	return &Database{DB: db}, nil
}

// Migrate creates/updates the schema, including the unique index on
// votes.user_id and the foreign keys to users and candidates.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Candidate{},
		&models.Vote{},
	); err != nil {
		return fmt.Errorf("error migrating schema: %w", err)
	}
	return nil
}

// SeedCandidates inserts a default slate when the candidates table is
// empty. Gated by config; production deployments seed via their own
// admin process instead.
func (d *Database) SeedCandidates() error {
	var count int64
	if err := d.DB.Model(&models.Candidate{}).Count(&count).Error; err != nil {
		return fmt.Errorf("error counting candidates: %w", err)
	}
	if count > 0 {
		return nil
	}

	candidates := []models.Candidate{
		{Name: "Alice Johnson", Party: "Unity Party", Description: "Focused on infrastructure and education reform."},
		{Name: "Brian Okafor", Party: "Progress Alliance", Description: "Running on healthcare access and clean energy."},
		{Name: "Carmen Ruiz", Party: "Independent", Description: "Community organizer campaigning on transparency."},
	}
	if err := d.DB.Create(&candidates).Error; err != nil {
		return fmt.Errorf("error seeding candidates: %w", err)
	}

	log.Printf("✅ Seeded %d default candidates", len(candidates))
	return nil
}

// Health checks the health of the database connection by pinging the database.
func (d *Database) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stats := make(map[string]string)

	sqlDB, err := d.DB.DB()
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db error: %v", err)
		return stats
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"

	dbStats := sqlDB.Stats()
	stats["open_connections"] = fmt.Sprintf("%d", dbStats.OpenConnections)
	stats["in_use"] = fmt.Sprintf("%d", dbStats.InUse)
	stats["idle"] = fmt.Sprintf("%d", dbStats.Idle)

	return stats
}

// Close closes the database connection.
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

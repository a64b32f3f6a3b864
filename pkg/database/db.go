package database

import (
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// GenerationUsage represents the generation_usage table: one row of
// counters per day and language. No form content is stored.
type GenerationUsage struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Date           string `gorm:"uniqueIndex:idx_date_lang;not null" json:"date"`
	Lang           string `gorm:"uniqueIndex:idx_date_lang;not null" json:"lang"`
	RequestCount   int    `gorm:"default:0" json:"request_count"`
	SuccessCount   int    `gorm:"default:0" json:"success_count"`
	FailureCount   int    `gorm:"default:0" json:"failure_count"`
	TotalPersonnel int    `gorm:"default:0" json:"total_personnel"`
	TotalShifts    int    `gorm:"default:0" json:"total_shifts"`
	TotalDays      int    `gorm:"default:0" json:"total_days"`
}

// TableName pins the table name used by the upsert expressions
func (GenerationUsage) TableName() string {
	return "generation_usages"
}

// Options selects the backing database. DSN wins over Path.
type Options struct {
	DSN  string // Postgres connection string
	Path string // SQLite file, ":memory:" for tests
}

// Open connects to the database and migrates the schema
func Open(opts Options) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if opts.DSN != "" {
		cfg.PrepareStmt = false
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  opts.DSN,
			PreferSimpleProtocol: true,
		}), cfg)
	} else {
		path := opts.Path
		if path == "" {
			path = "usage.db"
		}
		db, err = gorm.Open(sqlite.Open(path), cfg)
	}
	if err != nil {
		return nil, err
	}

	if opts.DSN == "" && opts.Path == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&GenerationUsage{}); err != nil {
		return nil, err
	}
	return db, nil
}

// Outcome is what one generation contributes to the daily counters
type Outcome struct {
	Lang      string
	Success   bool
	Personnel int
	Shifts    int
	Days      int
}

// RecordGeneration adds one generation to today's counters with a single upsert
func RecordGeneration(db *gorm.DB, at time.Time, o Outcome) error {
	success, failure := 0, 0
	if o.Success {
		success = 1
	} else {
		failure = 1
	}

	// OnConflict gives a single-query upsert on both Postgres and SQLite
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}, {Name: "lang"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count":   gorm.Expr("generation_usages.request_count + ?", 1),
			"success_count":   gorm.Expr("generation_usages.success_count + ?", success),
			"failure_count":   gorm.Expr("generation_usages.failure_count + ?", failure),
			"total_personnel": gorm.Expr("generation_usages.total_personnel + ?", o.Personnel),
			"total_shifts":    gorm.Expr("generation_usages.total_shifts + ?", o.Shifts),
			"total_days":      gorm.Expr("generation_usages.total_days + ?", o.Days),
		}),
	}).Create(&GenerationUsage{
		Date:           at.Format("2006-01-02"),
		Lang:           o.Lang,
		RequestCount:   1,
		SuccessCount:   success,
		FailureCount:   failure,
		TotalPersonnel: o.Personnel,
		TotalShifts:    o.Shifts,
		TotalDays:      o.Days,
	}).Error
}

// RecentUsage returns the counters of the latest days, newest first
func RecentUsage(db *gorm.DB, limit int) ([]GenerationUsage, error) {
	var usage []GenerationUsage
	err := db.Order("date desc").Order("lang").Limit(limit).Find(&usage).Error
	return usage, err
}

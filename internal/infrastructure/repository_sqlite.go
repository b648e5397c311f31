package infrastructure

import (
	"errors"
	"fmt"

	"github.com/yourusername/mediafire-dl-go/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const recordBatchSize = 100

// SQLiteRunRepository implements RunRepository using SQLite
type SQLiteRunRepository struct {
	db *gorm.DB
}

// NewSQLiteRunRepository creates a new SQLite repository
func NewSQLiteRunRepository(dbPath string) (*SQLiteRunRepository, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&domain.Run{}, &domain.JobRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteRunRepository{db: db}, nil
}

// CreateRun stores a run at start
func (r *SQLiteRunRepository) CreateRun(run *domain.Run) error {
	return r.db.Create(run).Error
}

// FinishRun saves the final run counts and its job records atomically
func (r *SQLiteRunRepository) FinishRun(run *domain.Run, records []*domain.JobRecord) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(run).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.CreateInBatches(records, recordBatchSize).Error
	})
}

// FindRuns returns runs newest first
func (r *SQLiteRunRepository) FindRuns(limit int) ([]*domain.Run, error) {
	var runs []*domain.Run
	query := r.db.Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&runs).Error
	return runs, err
}

// FindRunByID finds a run by ID
// Returns nil if not found
func (r *SQLiteRunRepository) FindRunByID(id string) (*domain.Run, error) {
	var run domain.Run
	err := r.db.First(&run, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}

// FindJobs returns the job records of a run in the order the transfers finished
func (r *SQLiteRunRepository) FindJobs(runID string, status domain.JobStatus) ([]*domain.JobRecord, error) {
	var records []*domain.JobRecord
	query := r.db.Where("run_id = ?", runID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("completed_at ASC, id ASC").Find(&records).Error
	return records, err
}

// GetStats returns aggregate history statistics
func (r *SQLiteRunRepository) GetStats() (*domain.HistoryStats, error) {
	stats := &domain.HistoryStats{}

	if err := r.db.Model(&domain.Run{}).Count(&stats.Runs).Error; err != nil {
		return nil, err
	}

	statusCounts := []struct {
		Status domain.JobStatus
		Count  int64
		Bytes  int64
	}{}

	if err := r.db.Model(&domain.JobRecord{}).
		Select("status, count(*) as count, coalesce(sum(size_bytes), 0) as bytes").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return nil, err
	}

	for _, sc := range statusCounts {
		stats.Jobs += sc.Count
		switch sc.Status {
		case domain.JobSucceeded:
			stats.Succeeded = sc.Count
			stats.Bytes = sc.Bytes
		case domain.JobFailed:
			stats.Failed = sc.Count
		}
	}

	return stats, nil
}

// Close closes the database connection
func (r *SQLiteRunRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

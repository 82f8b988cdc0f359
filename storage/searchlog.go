package storage

import (
	"context"
	"time"

	"gorm.io/gorm"

	"geekseek/models"
)

// SearchLogRepository speichert das Such-Protokoll in PostgreSQL.
type SearchLogRepository struct {
	DB *gorm.DB
}

// NewSearchLogRepository erstellt das Repository und migriert die Tabelle.
func NewSearchLogRepository(db *gorm.DB) (*SearchLogRepository, error) {
	if err := db.AutoMigrate(&models.SearchLog{}); err != nil {
		return nil, err
	}
	return &SearchLogRepository{DB: db}, nil
}

// Record legt einen Protokolleintrag an.
func (r *SearchLogRepository) Record(ctx context.Context, entry *models.SearchLog) error {
	return r.DB.WithContext(ctx).Create(entry).Error
}

// ListBetween liefert alle Einträge mit from <= created_at < to, älteste zuerst.
func (r *SearchLogRepository) ListBetween(ctx context.Context, from, to time.Time) ([]models.SearchLog, error) {
	var logs []models.SearchLog
	err := r.DB.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}

// DeleteBefore löscht alle Einträge vor cutoff und gibt die Anzahl zurück.
func (r *SearchLogRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.SearchLog{})
	return res.RowsAffected, res.Error
}

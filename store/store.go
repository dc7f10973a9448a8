// Package store archives finished battle reports in sqlite.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrNotFound = errors.New("store: battle report not found")

// BattleReport is one archived battle: who played, what the tracker
// resolved, and the analysis snapshot taken at the end.
type BattleReport struct {
	ID            uint   `gorm:"primarykey" json:"id"`
	SessionID     string `gorm:"index" json:"sessionId"`
	RoomID        string `json:"roomId"`
	SelfPlayer    string `json:"selfPlayer"`
	Opponent      string `json:"opponent"`
	Winner        string `json:"winner"`
	Turns         int    `json:"turns"`
	SelfTeam      string `json:"selfTeam"`     // comma-joined species names
	OpponentTeam  string `json:"opponentTeam"` // comma-joined species names
	FinalAnalysis string `gorm:"type:text" json:"finalAnalysis"`

	CreatedAt time.Time `json:"createdAt"`
}

type Repository interface {
	Create(ctx context.Context, report *BattleReport) error
	GetByID(ctx context.Context, id uint) (*BattleReport, error)
	ListRecent(ctx context.Context, limit int) ([]BattleReport, error)
	ListByOpponent(ctx context.Context, opponent string) ([]BattleReport, error)
	Delete(ctx context.Context, id uint) error
}

type repository struct {
	db *gorm.DB
}

// Open opens (creating if needed) the sqlite database at path and
// migrates the report schema.
func Open(path string) (Repository, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := db.AutoMigrate(&BattleReport{}); err != nil {
		return nil, fmt.Errorf("migrate store: %w", err)
	}
	return &repository{db: db}, nil
}

func (r *repository) Create(ctx context.Context, report *BattleReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *repository) GetByID(ctx context.Context, id uint) (*BattleReport, error) {
	var report BattleReport
	err := r.db.WithContext(ctx).First(&report, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *repository) ListRecent(ctx context.Context, limit int) ([]BattleReport, error) {
	if limit <= 0 {
		limit = 20
	}
	var reports []BattleReport
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&reports).Error
	return reports, err
}

func (r *repository) ListByOpponent(ctx context.Context, opponent string) ([]BattleReport, error) {
	var reports []BattleReport
	err := r.db.WithContext(ctx).
		Where("opponent = ?", opponent).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&BattleReport{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Package storage persists simulation results: run metadata, averaged
// book shapes and estimator probabilities. Simulation state itself is
// never persisted; every run starts from the canonical ladder.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SimulationRun records one completed driver or estimator invocation.
type SimulationRun struct {
	ID        uint   `gorm:"primaryKey"`
	Model     string `gorm:"index"` // "sfgk", "cst", or an estimator name
	Params    string // JSON-encoded run parameters
	Events    int    // shape samples or trials
	Skipped   int    // degenerate events skipped
	CreatedAt time.Time
}

// ShapePoint is one (distance, average quantity) pair of a run's shape.
type ShapePoint struct {
	ID       uint `gorm:"primaryKey"`
	RunID    uint `gorm:"index"`
	Distance int
	AvgQty   float64
}

// Estimate is an empirical probability produced by a Markov estimator.
type Estimate struct {
	ID          uint   `gorm:"primaryKey"`
	RunID       uint   `gorm:"index"`
	Name        string `gorm:"index"`
	Probability decimal.Decimal `gorm:"type:text"`
	Trials      int
}

// Storage wraps the results database.
type Storage struct {
	db *gorm.DB
}

// NewStorage opens (or creates) the SQLite results store at path.
func NewStorage(path string) (*Storage, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create DB directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&SimulationRun{}, &ShapePoint{}, &Estimate{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// SaveShapeRun persists a run and its averaged shape. Distances are
// assigned -band..band around the mid, matching the shape layout.
func (s *Storage) SaveShapeRun(model string, params any, events, skipped int, shape []float64) (*SimulationRun, error) {
	encoded, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode params: %w", err)
	}

	run := &SimulationRun{
		Model:   model,
		Params:  string(encoded),
		Events:  events,
		Skipped: skipped,
	}

	band := (len(shape) - 1) / 2
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return err
		}
		points := make([]ShapePoint, 0, len(shape))
		for i, q := range shape {
			points = append(points, ShapePoint{
				RunID:    run.ID,
				Distance: i - band,
				AvgQty:   q,
			})
		}
		return tx.Create(&points).Error
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

// SaveEstimate persists one estimator result.
func (s *Storage) SaveEstimate(name string, params any, trials int, probability float64) (*SimulationRun, error) {
	encoded, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode params: %w", err)
	}

	run := &SimulationRun{
		Model:  name,
		Params: string(encoded),
		Events: trials,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return err
		}
		est := &Estimate{
			RunID:       run.ID,
			Name:        name,
			Probability: decimal.NewFromFloat(probability),
			Trials:      trials,
		}
		return tx.Create(est).Error
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ShapeForRun loads the persisted shape points of a run, ordered by
// distance.
func (s *Storage) ShapeForRun(runID uint) ([]ShapePoint, error) {
	var points []ShapePoint
	err := s.db.Where("run_id = ?", runID).Order("distance").Find(&points).Error
	return points, err
}

// RecentRuns returns the latest runs, newest first.
func (s *Storage) RecentRuns(limit int) ([]SimulationRun, error) {
	var runs []SimulationRun
	err := s.db.Order("id desc").Limit(limit).Find(&runs).Error
	return runs, err
}

// EstimatesByName returns all persisted estimates with the given name.
func (s *Storage) EstimatesByName(name string) ([]Estimate, error) {
	var ests []Estimate
	err := s.db.Where("name = ?", name).Find(&ests).Error
	return ests, err
}

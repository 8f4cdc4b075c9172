package services

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sharpline/trend-engine/internal/engine"
	"github.com/sharpline/trend-engine/internal/models"
)

// CatalogService loads the trend catalogue from the relational store,
// validates each row at the ingest boundary, and owns the current engine
// snapshot. Reloading swaps in a fresh engine and rotates the snapshot key
// so downstream caches invalidate; in-flight readers keep the old snapshot.
type CatalogService struct {
	db     *gorm.DB
	logger *logrus.Logger

	mu          sync.RWMutex
	engine      *engine.Engine
	snapshotKey string
}

func NewCatalogService(db *gorm.DB, logger *logrus.Logger) *CatalogService {
	return &CatalogService{
		db:          db,
		logger:      logger,
		engine:      engine.New(nil),
		snapshotKey: uuid.NewString(),
	}
}

// Reload fetches every trend row, sanitizes it, and rebuilds the engine.
// The previous snapshot stays live until the swap completes.
func (s *CatalogService) Reload() error {
	var trends []models.TrendSummary
	if err := s.db.Order("id").Find(&trends).Error; err != nil {
		return fmt.Errorf("failed to load trend catalogue: %w", err)
	}

	sanitized := make([]models.TrendSummary, 0, len(trends))
	for _, t := range trends {
		sanitized = append(sanitized, s.sanitize(t))
	}

	s.mu.Lock()
	s.engine = engine.New(sanitized)
	s.snapshotKey = uuid.NewString()
	s.mu.Unlock()

	s.logger.WithField("trends", len(sanitized)).Info("Trend catalogue reloaded")
	return nil
}

// Engine returns the current engine snapshot and the key identifying it.
func (s *CatalogService) Engine() (*engine.Engine, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine, s.snapshotKey
}

// sanitize enforces the ingest-boundary rules: one malformed row degrades,
// never blocks the catalogue.
func (s *CatalogService) sanitize(t models.TrendSummary) models.TrendSummary {
	wins, losses := t.Record()
	if t.AllTimeRecord != "" && wins == 0 && losses == 0 && t.AllTimeRecord != "0-0" {
		s.logger.WithFields(logrus.Fields{
			"trend_id": t.ID,
			"record":   t.AllTimeRecord,
		}).Warn("Malformed all-time record, treating as 0-0")
		t.AllTimeRecord = "0-0"
	}

	// A sample size below the settled record makes the reconstruction bound
	// meaningless; clamp it up.
	if t.AllTimeSampleSize < wins+losses {
		s.logger.WithFields(logrus.Fields{
			"trend_id":    t.ID,
			"sample_size": t.AllTimeSampleSize,
			"settled":     wins + losses,
		}).Warn("Sample size below settled record, clamping up")
		t.AllTimeSampleSize = wins + losses
	}

	if !t.Sport.Valid() {
		s.logger.WithFields(logrus.Fields{
			"trend_id": t.ID,
			"sport":    t.Sport,
		}).Warn("Unknown sport tag, treating as all-sports")
		t.Sport = models.SportAll
	}

	if t.ConfidenceScore < 0 {
		t.ConfidenceScore = 0
	} else if t.ConfidenceScore > 100 {
		t.ConfidenceScore = 100
	}

	// Cross-check, not a gate: monthly entries that disagree with the
	// all-time record are reported and kept as-is.
	if len(t.MonthlyPerformance) > 0 {
		mWins, mLosses, _ := t.MonthlyPerformance.Totals()
		if mWins > wins || mLosses > losses {
			s.logger.WithFields(logrus.Fields{
				"trend_id":       t.ID,
				"all_time":       t.AllTimeRecord,
				"monthly_wins":   mWins,
				"monthly_losses": mLosses,
			}).Warn("Monthly performance exceeds all-time record")
		}
	}

	return t
}

// Migrate creates or updates the trends table schema.
func (s *CatalogService) Migrate() error {
	return s.db.AutoMigrate(&models.TrendSummary{})
}

// Upsert writes one trend row, keeping the provider payload for audit.
func (s *CatalogService) Upsert(t *models.TrendSummary) error {
	return s.db.Save(t).Error
}

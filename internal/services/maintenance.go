package services

import (
	"time"

	"github.com/collabdesk/collabdesk/internal/models"
	"github.com/collabdesk/collabdesk/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Retention windows for the nightly sweep. Deleting a stale denied request
// does not change semantics: resubmission simply creates a fresh pending row.
const (
	deniedRequestRetention = 30 * 24 * time.Hour
	closedReportRetention  = 90 * 24 * time.Hour
)

// MaintenanceService runs the nightly retention sweep over denied access
// requests and closed reports. Per-project log and report caps are enforced
// inline on append; this only clears rows nothing will read again.
type MaintenanceService struct {
	db   *gorm.DB
	cron *cron.Cron
}

func NewMaintenanceService(db *gorm.DB) *MaintenanceService {
	return &MaintenanceService{db: db}
}

// Start schedules the sweep daily at 03:00 server time and runs one sweep
// immediately.
func (s *MaintenanceService) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc("0 3 * * *", s.Sweep); err != nil {
		return err
	}
	s.cron.Start()

	go s.Sweep()
	return nil
}

// Stop halts the scheduler.
func (s *MaintenanceService) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Sweep deletes denied access requests and closed reports older than their
// retention windows.
func (s *MaintenanceService) Sweep() {
	requestCutoff := time.Now().Add(-deniedRequestRetention)
	result := s.db.Where("status = ? AND updated_at < ?", models.RequestDenied, requestCutoff).
		Delete(&models.AccessRequest{})
	if result.Error != nil {
		logger.Error().Err(result.Error).Msg("failed to sweep denied access requests")
	} else if result.RowsAffected > 0 {
		logger.Info().Int64("deleted", result.RowsAffected).Msg("swept stale denied access requests")
	}

	reportCutoff := time.Now().Add(-closedReportRetention)
	result = s.db.Where("status IN ? AND resolved_at < ?",
		[]string{models.ReportResolved, models.ReportDismissed}, reportCutoff).
		Delete(&models.Report{})
	if result.Error != nil {
		logger.Error().Err(result.Error).Msg("failed to sweep closed reports")
	} else if result.RowsAffected > 0 {
		logger.Info().Int64("deleted", result.RowsAffected).Msg("swept stale closed reports")
	}
}

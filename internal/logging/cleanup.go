package logging

import (
	"log/slog"
	"time"

	"github.com/cerrolargo/camineria-backend/internal/models"
	"gorm.io/gorm"
)

// StartCleanup runs a daily goroutine that prunes system_logs older than
// the retention window (LOG_RETENTION_DAYS).
func StartCleanup(db *gorm.DB, retention time.Duration, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				Prune(db, retention)
			case <-done:
				return
			}
		}
	}()
}

// Prune deletes log rows older than the retention window.
func Prune(db *gorm.DB, retention time.Duration) {
	cutoff := time.Now().Add(-retention)
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	if result.Error != nil {
		slog.Error("log cleanup failed", "error", result.Error)
	} else if result.RowsAffected > 0 {
		slog.Info("log cleanup completed", "deleted", result.RowsAffected, "retention", retention.String())
	}
}

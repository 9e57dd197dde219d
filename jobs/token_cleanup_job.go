package jobs

import (
	"log"
	"time"

	"github.com/finedmentor/fined_mentor/database"
	"github.com/finedmentor/fined_mentor/models"
)

// PurgeDeadTokens deletes tokens that expired more than a day ago and were
// never consumed. Consumed tokens stay around as an audit trail.
func PurgeDeadTokens() {
	cutoff := time.Now().Add(-24 * time.Hour)

	result := database.DB.
		Where("used_at IS NULL AND expires_at < ?", cutoff).
		Delete(&models.Token{})
	if result.Error != nil {
		log.Printf("🔥 Failed to purge dead tokens: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("Purged %d dead tokens", result.RowsAffected)
	}
}

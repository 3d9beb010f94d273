package audit

import (
	"context"
	"log"
	"time"

	"hostelhub/db"
	"hostelhub/models"
	"hostelhub/utils"
)

// Log appends an entry for an admin-sensitive action. Entries are
// write-only as far as the portal is concerned; failures must never
// block the action they describe.
func Log(ctx context.Context, action, actorID, actorEmail, targetID string) {
	entry := models.AuditEntry{
		ID:        utils.GetUUID(),
		Action:    action,
		ActorID:   actorID,
		ActorMail: actorEmail,
		TargetID:  targetID,
		Timestamp: time.Now(),
	}
	if _, err := db.AuditLogsCollection.InsertOne(ctx, entry); err != nil {
		log.Printf("audit write failed for %s: %v", action, err)
	}
}

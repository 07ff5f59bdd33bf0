package repository

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// Elapsed durations are stored as whole seconds; NULL means the ticket has
// never been served.

func elapsedSeconds(ticket *domain.Ticket) *int64 {
	if ticket.Elapsed == nil {
		return nil
	}
	seconds := int64(ticket.Elapsed.Seconds())
	return &seconds
}

func durationFromSeconds(seconds *int64) *time.Duration {
	if seconds == nil {
		return nil
	}
	d := time.Duration(*seconds) * time.Second
	return &d
}

// replyList keeps the replies column non-null for tickets without replies.
func replyList(replies []string) []string {
	if replies == nil {
		return []string{}
	}
	return replies
}

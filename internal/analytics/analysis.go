package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// Author markers carried on projection replies. The first agent-authored
// reply establishes the first-response timestamp.
const (
	AuthorAgent  = "agent"
	AuthorIssuer = "issuer"
)

// SLA status values. Computed once a ticket is resolved.
const (
	SLAMet    = "MET"
	SLAMissed = "MISSED"
)

// BucketPending marks records that have not been resolved yet.
const BucketPending = "PENDING"

// slaThresholdMinutes maps priority tiers to the maximum resolution time
// permitted, in minutes. Unmapped priorities fall back to the default.
var slaThresholdMinutes = map[domain.TicketPriority]int64{
	domain.TicketPriorityCritical: 60,
	domain.TicketPriorityUrgent:   240,
	domain.TicketPriorityHigh:     1440,
	domain.TicketPriorityLow:      10080,
}

const defaultSLAThresholdMinutes int64 = 4320

// TicketAnalysis is the denormalized analytics projection for one ticket.
// It is keyed by the ticket id and eventually consistent with the ticket
// itself: it is a read-optimized record, not the system of record for
// ticket status.
type TicketAnalysis struct {
	TicketID    string   `json:"ticket_id"`
	Question    string   `json:"question"`
	IssuerEmail string   `json:"issuer_email"`
	Replies     []string `json:"replies"`

	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
	ResolvedAt            *time.Time `json:"resolved_at,omitempty"`
	ResolutionTimeMinutes *int64     `json:"resolution_time_minutes,omitempty"`

	Status   domain.TicketStatus   `json:"status"`
	Priority domain.TicketPriority `json:"priority"`
	Category domain.TicketCategory `json:"category"`

	TotalReplies int        `json:"total_replies"`
	LastReplyAt  *time.Time `json:"last_reply_at,omitempty"`

	PeriodKey           string `json:"period_key"`
	TimeToResolveBucket string `json:"time_to_resolve_bucket"`
	IsHighPriority      bool   `json:"is_high_priority"`

	FirstResponseAt          *time.Time `json:"first_response_at,omitempty"`
	FirstResponseTimeMinutes *int64     `json:"first_response_time_minutes,omitempty"`
	SLAStatus                string     `json:"sla_status,omitempty"`
}

// NewTicketAnalysis builds the projection created alongside a routed ticket.
func NewTicketAnalysis(ticket *domain.Ticket, now time.Time) *TicketAnalysis {
	record := TicketAnalysis{
		TicketID:    ticket.ID,
		Question:    ticket.Content,
		IssuerEmail: ticket.IssuerEmail,
		CreatedAt:   now,
		UpdatedAt:   now,
		Status:      domain.TicketStatusOpen,
		Priority:    ticket.Priority,
		Category:    ticket.Category,
	}
	return Derive(record)
}

// AddReply appends a reply and updates reply bookkeeping. The author marker
// is "agent" or "issuer"; the first agent reply records the first-response
// timestamp exactly once.
func (r *TicketAnalysis) AddReply(reply, author string, now time.Time) {
	r.Replies = append(r.Replies, reply)
	r.LastReplyAt = &now
	r.UpdatedAt = now

	if strings.HasPrefix(author, AuthorAgent) && r.FirstResponseAt == nil {
		r.FirstResponseAt = &now
		minutes := minutesBetween(r.CreatedAt, now)
		r.FirstResponseTimeMinutes = &minutes
	}

	*r = *Derive(*r)
}

// MarkResolved records resolution time and computes the SLA verdict against
// the priority threshold table. Re-resolving recomputes the same fields.
func (r *TicketAnalysis) MarkResolved(now time.Time) {
	r.ResolvedAt = &now
	r.Status = domain.TicketStatusClosed
	minutes := minutesBetween(r.CreatedAt, now)
	r.ResolutionTimeMinutes = &minutes

	threshold, ok := slaThresholdMinutes[r.Priority]
	if !ok {
		threshold = defaultSLAThresholdMinutes
	}
	if minutes <= threshold {
		r.SLAStatus = SLAMet
	} else {
		r.SLAStatus = SLAMissed
	}

	*r = *Derive(*r)
}

// Derive recomputes every derived field from the record's base state. All
// mutation entry points funnel through it so the derivations cannot drift
// between call sites.
func Derive(r TicketAnalysis) *TicketAnalysis {
	r.TotalReplies = len(r.Replies)
	r.IsHighPriority = r.Priority == domain.TicketPriorityHigh || r.Priority == domain.TicketPriorityUrgent
	r.PeriodKey = periodKey(r.CreatedAt)
	r.TimeToResolveBucket = timeBucket(r.ResolutionTimeMinutes)
	return &r
}

func minutesBetween(start, end time.Time) int64 {
	return int64(end.Sub(start).Minutes())
}

// timeBucket classifies resolution time. Boundaries are inclusive on the
// upper edge: exactly 60 minutes is still "<1h".
func timeBucket(minutes *int64) string {
	if minutes == nil {
		return BucketPending
	}
	switch m := *minutes; {
	case m <= 60:
		return "<1h"
	case m <= 240:
		return "1-4h"
	case m <= 4320:
		return "1-3d"
	default:
		return ">3d"
	}
}

// periodKey renders the ISO year-week of the creation date, e.g. "2024-W45".
func periodKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

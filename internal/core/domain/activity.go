package domain

import "time"

// ActivityAction names a mutation recorded in a referral's activity trail.
type ActivityAction string

const (
	ActivityCreated       ActivityAction = "created"
	ActivityUpdated       ActivityAction = "updated"
	ActivityStatusChanged ActivityAction = "status_changed"
	ActivityResumeChanged ActivityAction = "resume_replaced"
	ActivityDeleted       ActivityAction = "deleted"
)

// ReferralActivity is one entry of the audit trail kept per referral.
type ReferralActivity struct {
	ReferralID string         `json:"referralId"`
	ActorID    string         `json:"actorId"`
	ActorRole  Role           `json:"actorRole"`
	Action     ActivityAction `json:"action"`
	Status     ReferralStatus `json:"status,omitempty"`
	Fields     []string       `json:"fields,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

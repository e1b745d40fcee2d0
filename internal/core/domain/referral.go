package domain

import "time"

// ReferralStatus represents the review state of a referral.
type ReferralStatus string

const (
	StatusPending  ReferralStatus = "Pending"
	StatusReviewed ReferralStatus = "Reviewed"
	StatusRejected ReferralStatus = "Rejected"
	StatusSelected ReferralStatus = "Selected"
)

// Statuses lists every status in display order.
var Statuses = []ReferralStatus{StatusPending, StatusReviewed, StatusRejected, StatusSelected}

// Valid reports whether s is a known status. Any valid status may follow any other.
func (s ReferralStatus) Valid() bool {
	switch s {
	case StatusPending, StatusReviewed, StatusRejected, StatusSelected:
		return true
	}
	return false
}

// Referral is a candidate submitted by an account and tracked through review.
type Referral struct {
	ID            string
	CandidateName string
	Email         string
	Phone         string
	JobTitle      string
	ResumeURL     string
	Status        ReferralStatus
	OwnerID       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ReferralFields are the candidate details supplied by the referring account.
type ReferralFields struct {
	CandidateName string `json:"candidateName" validate:"required,min=2,max=50,personname"`
	Email         string `json:"email"         validate:"required,email,emailallowed"`
	Phone         string `json:"phone"         validate:"required,phonedigits,phonepattern"`
	JobTitle      string `json:"jobTitle"      validate:"required,min=2,max=100"`
}

// ReferralPatch carries a partial update. Nil fields are left unchanged.
type ReferralPatch struct {
	CandidateName *string `json:"candidateName" validate:"omitnil,required,min=2,max=50,personname"`
	Email         *string `json:"email"         validate:"omitnil,required,email,emailallowed"`
	Phone         *string `json:"phone"         validate:"omitnil,required,phonedigits,phonepattern"`
	JobTitle      *string `json:"jobTitle"      validate:"omitnil,required,min=2,max=100"`
	Status        *string `json:"status"`
}

// ResumeFile is an uploaded resume awaiting transfer to the asset host.
type ResumeFile struct {
	Filename string
	Content  []byte
}

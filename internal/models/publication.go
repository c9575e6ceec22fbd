package models

import "fmt"

// PublicationStatus is the review lifecycle of a listing. It is the single
// source of truth; the legacy `published` / `approved` / `rejection_reason`
// fields the API still exposes are projections of it.
type PublicationStatus string

const (
	PublicationPending   PublicationStatus = "pending"
	PublicationPublished PublicationStatus = "published"
	PublicationRejected  PublicationStatus = "rejected"
)

func ParsePublicationStatus(s string) (PublicationStatus, error) {
	switch PublicationStatus(s) {
	case PublicationPending, PublicationPublished, PublicationRejected:
		return PublicationStatus(s), nil
	default:
		return "", fmt.Errorf("invalid publication status: %q", s)
	}
}

// Publication pairs the status with the rejection reason. The reason is
// only meaningful in the Rejected state; constructors keep the two in sync
// so "published with a rejection reason" is unrepresentable.
type Publication struct {
	Status PublicationStatus `json:"status"`
	Reason string            `json:"reason,omitempty"`
}

func PendingPublication() Publication {
	return Publication{Status: PublicationPending}
}

func PublishedPublication() Publication {
	return Publication{Status: PublicationPublished}
}

func RejectedPublication(reason string) Publication {
	return Publication{Status: PublicationRejected, Reason: reason}
}

// Published is the projection consumed by public queries.
func (p Publication) Published() bool {
	return p.Status == PublicationPublished
}

// RejectionReason projects the legacy field: empty unless Rejected.
func (p Publication) RejectionReason() string {
	if p.Status != PublicationRejected {
		return ""
	}
	return p.Reason
}

// Approved projects the legacy tri-state: nil while pending, true when
// published, false when rejected.
func (p Publication) Approved() *bool {
	switch p.Status {
	case PublicationPublished:
		t := true
		return &t
	case PublicationRejected:
		f := false
		return &f
	default:
		return nil
	}
}

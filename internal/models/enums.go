package models

import "fmt"

// ------------------------------------------------------------------------
// User roles
// ------------------------------------------------------------------------

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAgent UserRole = "agent"
	RoleAdmin UserRole = "admin"
)

// ParseUserRole converts strings ("user", "agent", "admin") to the enum.
func ParseUserRole(s string) (UserRole, error) {
	switch UserRole(s) {
	case RoleUser, RoleAgent, RoleAdmin:
		return UserRole(s), nil
	default:
		return "", fmt.Errorf("invalid role: %q", s)
	}
}

// ------------------------------------------------------------------------
// Market status of a listing – independent of the publication workflow.
// ------------------------------------------------------------------------

type MarketStatus string

const (
	StatusForSale MarketStatus = "for-sale"
	StatusForRent MarketStatus = "for-rent"
	StatusSold    MarketStatus = "sold"
	StatusRented  MarketStatus = "rented"
)

func ParseMarketStatus(s string) (MarketStatus, error) {
	switch MarketStatus(s) {
	case StatusForSale, StatusForRent, StatusSold, StatusRented:
		return MarketStatus(s), nil
	default:
		return "", fmt.Errorf("invalid market status: %q", s)
	}
}

// ------------------------------------------------------------------------
// Inquiry status
// ------------------------------------------------------------------------

type InquiryStatus string

const (
	InquiryPending   InquiryStatus = "pending"
	InquiryResponded InquiryStatus = "responded"
	InquiryClosed    InquiryStatus = "closed"
)

func ParseInquiryStatus(s string) (InquiryStatus, error) {
	switch InquiryStatus(s) {
	case InquiryPending, InquiryResponded, InquiryClosed:
		return InquiryStatus(s), nil
	default:
		return "", fmt.Errorf("invalid inquiry status: %q", s)
	}
}

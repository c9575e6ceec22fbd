package routes

const (
	Health = "/health"

	// Auth
	AuthRegister   = "/api/v1/auth/register"
	AuthLogin      = "/api/v1/auth/login"
	AuthAdminLogin = "/api/v1/auth/admin/login"
	AuthRefresh    = "/api/v1/auth/refresh"
	AuthLogout     = "/api/v1/auth/logout"

	// Verification
	VerifyEmailRequest = "/api/v1/auth/verify/email/request"
	VerifyEmail        = "/api/v1/auth/verify/email"
	VerifySMSRequest   = "/api/v1/auth/verify/sms/request"
	VerifySMS          = "/api/v1/auth/verify/sms"

	// Profile
	UsersMe = "/api/v1/users/me"

	// Listings (public)
	Properties         = "/api/v1/properties"
	PropertiesFeatured = "/api/v1/properties/featured"
	PropertiesMy       = "/api/v1/properties/my"
	PropertyByID       = "/api/v1/properties/{id}"

	// Favorites
	Favorites    = "/api/v1/favorites"
	FavoriteIDs  = "/api/v1/favorites/ids"
	FavoriteByID = "/api/v1/favorites/{id}"

	// Inquiries
	Inquiries   = "/api/v1/inquiries"
	InquiriesMy = "/api/v1/inquiries/my"
	InquiryByID = "/api/v1/inquiries/{id}"

	// Uploads
	UploadImages    = "/api/v1/uploads/images"
	UploadImageByID = "/api/v1/uploads/images/{publicID}"
	StaticUploads   = "/uploads/"

	// Admin
	AdminProperties        = "/api/v1/admin/properties"
	AdminPropertiesPending = "/api/v1/admin/properties/pending"
	AdminApproveProperty   = "/api/v1/admin/properties/{id}/approve"
	AdminRejectProperty    = "/api/v1/admin/properties/{id}/reject"
	AdminUnpublishProperty = "/api/v1/admin/properties/{id}/unpublish"
	AdminFeatureProperty   = "/api/v1/admin/properties/{id}/feature"
	AdminUnfeatureProperty = "/api/v1/admin/properties/{id}/unfeature"
	AdminInquiries         = "/api/v1/admin/inquiries"
	AdminInquiryStatus     = "/api/v1/admin/inquiries/{id}/status"
	AdminDashboard         = "/api/v1/admin/dashboard"
)

// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired     = "auth.required"
	KeyAuthInvalidToken = "auth.invalid_token"
	KeyAuthTokenExpired = "auth.token_expired"
	KeyAuthCodeSent     = "auth.code_sent"
	KeyAuthCodeInvalid  = "auth.code_invalid"
	KeyAuthUserNotFound = "auth.user_not_found"
	KeyAuthUserExists   = "auth.user_exists"
	KeyAuthLoginSuccess = "auth.login_success"

	// Users / KYC
	KeyUserNotFound    = "user.not_found"
	KeyUserKYCApproved = "user.kyc_approved"
	KeyUserKYCRejected = "user.kyc_rejected"
	KeyUserKYCRequired = "user.kyc_required"

	// Catalogs
	KeyCatalogCreated   = "catalog.created"
	KeyCatalogUpdated   = "catalog.updated"
	KeyCatalogNotFound  = "catalog.not_found"
	KeyCatalogSubmitted = "catalog.submitted"
	KeyCatalogApproved  = "catalog.approved"
	KeyCatalogRejected  = "catalog.rejected"

	// Listings
	KeyListingCreated   = "listing.created"
	KeyListingNotFound  = "listing.not_found"
	KeyListingSubmitted = "listing.submitted"
	KeyListingApproved  = "listing.approved"
	KeyListingCancelled = "listing.cancelled"
	KeyListingPurchased = "listing.purchased"

	// Bids
	KeyBidPlaced   = "bid.placed"
	KeyBidRejected = "bid.rejected"

	// Cashflows
	KeyCashflowCreated  = "cashflow.created"
	KeyCashflowNotFound = "cashflow.not_found"
	KeyCashflowPaid     = "cashflow.paid"

	// Admin
	KeyAdminAccessDenied = "admin.access_denied"

	// Validation
	KeyValidationInvalid = "validation.invalid"
)

package errors

// Error codes returned in the "error" field of JSON error responses.
// Format: CATEGORY_SPECIFIC_DETAIL
const (
	// validation
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"

	// resources
	ProductNotFound = "PRODUCT_NOT_FOUND"

	// internal
	InternalServerError = "INTERNAL_SERVER_ERROR"
	InternalStoreError  = "INTERNAL_STORE_ERROR"
)

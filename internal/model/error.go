package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeMissingField      = "MISSING_FIELD"
	ErrCodeShipmentNotFound  = "SHIPMENT_NOT_FOUND"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeReportNotFound    = "REPORT_NOT_FOUND"
	ErrCodeInvalidStatus     = "INVALID_STATUS"
	ErrCodeInvalidKind       = "INVALID_REPORT_KIND"
	ErrCodeInvalidDateRange  = "INVALID_DATE_RANGE"
	ErrCodeInvalidPrice      = "INVALID_PRICE"
	ErrCodeInvalidStock      = "INVALID_STOCK"
	ErrCodeDuplicateTracking = "DUPLICATE_TRACKING_CODE"
	ErrCodeTransitionDenied  = "TRANSITION_DENIED"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError carries a stable error code alongside a human-readable message.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrShipmentNotFound      = NewDomainError(ErrCodeShipmentNotFound, "Shipment not found")
	ErrProductNotFound       = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrReportNotFound        = NewDomainError(ErrCodeReportNotFound, "Report not found")
	ErrInvalidStatus         = NewDomainError(ErrCodeInvalidStatus, "Unknown shipment status")
	ErrInvalidReportKind     = NewDomainError(ErrCodeInvalidKind, "Unknown report kind")
	ErrInvalidDateRange      = NewDomainError(ErrCodeInvalidDateRange, "Invalid date range")
	ErrInvalidPrice          = NewDomainError(ErrCodeInvalidPrice, "Price must be zero or positive")
	ErrInvalidStock          = NewDomainError(ErrCodeInvalidStock, "Stock must be zero or positive")
	ErrDuplicateTrackingCode = NewDomainError(ErrCodeDuplicateTracking, "Tracking code already exists")
	ErrTransitionDenied      = NewDomainError(ErrCodeTransitionDenied, "Status transition not allowed")
)

package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// Checkout error codes
const (
	// ErrCodeEmptyCart is used when a commit targets a cart with no items
	ErrCodeEmptyCart = "ERR_EMPTY_CART"
	// ErrCodeNoStock is used when a product has no stock on hand
	ErrCodeNoStock = "ERR_NO_STOCK"
	// ErrCodeInsufficientStock is used when a quantity exceeds stock on hand
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	// ErrCodeInsufficientPayment is used when a cash payment tenders less than the total
	ErrCodeInsufficientPayment = "ERR_INSUFFICIENT_PAYMENT"
	// ErrCodeInvalidPaymentMethod is used when the payment method is unknown
	ErrCodeInvalidPaymentMethod = "ERR_INVALID_PAYMENT_METHOD"
	// ErrCodeSaleWriteFailed is used when the sale ledger write fails
	ErrCodeSaleWriteFailed = "ERR_SALE_WRITE_FAILED"
	// ErrCodeCustomerWriteFailed is used when the customer upsert fails during commit
	ErrCodeCustomerWriteFailed = "ERR_CUSTOMER_WRITE_FAILED"
	// ErrCodePartialStockAdjustment is used when the sale was recorded but some
	// stock decrements failed
	ErrCodePartialStockAdjustment = "ERR_PARTIAL_STOCK_ADJUSTMENT"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation: http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,

	// Checkout validation failures -> 422 Unprocessable Entity
	ErrCodeEmptyCart:            http.StatusUnprocessableEntity,
	ErrCodeNoStock:              http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock:    http.StatusUnprocessableEntity,
	ErrCodeInsufficientPayment:  http.StatusUnprocessableEntity,
	ErrCodeInvalidPaymentMethod: http.StatusBadRequest,

	// Checkout write failures. The sale write aborts the commit, so the
	// client sees a server-side failure; the partial stock case is
	// reported on a success payload instead and this mapping only covers
	// defensive fallthrough.
	ErrCodeSaleWriteFailed:        http.StatusBadGateway,
	ErrCodeCustomerWriteFailed:    http.StatusBadGateway,
	ErrCodePartialStockAdjustment: http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps domain error codes to the standardized format
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":                ErrCodeNotFound,
	"ALREADY_EXISTS":           ErrCodeAlreadyExists,
	"INVALID_INPUT":            ErrCodeInvalidInput,
	"INVALID_STATE":            ErrCodeInvalidState,
	"CONCURRENCY_CONFLICT":     ErrCodeConcurrencyConflict,
	"EMPTY_CART":               ErrCodeEmptyCart,
	"NO_STOCK":                 ErrCodeNoStock,
	"INSUFFICIENT_STOCK":       ErrCodeInsufficientStock,
	"INSUFFICIENT_PAYMENT":     ErrCodeInsufficientPayment,
	"INVALID_PAYMENT_METHOD":   ErrCodeInvalidPaymentMethod,
	"SALE_WRITE_FAILED":        ErrCodeSaleWriteFailed,
	"CUSTOMER_WRITE_FAILED":    ErrCodeCustomerWriteFailed,
	"PARTIAL_STOCK_ADJUSTMENT": ErrCodePartialStockAdjustment,
	"VALIDATION_ERROR":         ErrCodeValidation,
	"BAD_REQUEST":              ErrCodeBadRequest,
	"INTERNAL_ERROR":           ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the standardized
// format. Domain field validation codes (INVALID_NAME, INVALID_PRICE,
// INVALID_QUANTITY and friends) all collapse to ERR_INVALID_INPUT.
// Unknown codes are returned as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	if strings.HasPrefix(code, "INVALID_") {
		return ErrCodeInvalidInput
	}
	return code
}

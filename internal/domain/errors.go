package domain

import "errors"

var (
	ErrOwnerNotFound          = errors.New("owner not found")
	ErrGatewayNotConfigured   = errors.New("payment gateway is not configured")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrTrackingDispatchFailed = errors.New("tracking dispatch failed")

	ErrProductNotFound          = errors.New("product not found")
	ErrSaleNotFound             = errors.New("sale not found")
	ErrCustomerNotFound         = errors.New("customer not found")
	ErrCartNotFound             = errors.New("abandoned cart not found")
	ErrAppSettingsNotFound      = errors.New("app settings not found")
	ErrPlatformSettingsNotFound = errors.New("platform settings not found")

	ErrGatewayRejected   = errors.New("gateway rejected the request")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidCartStatus = errors.New("invalid cart status")
	ErrSlugExhausted     = errors.New("could not generate a unique slug")
	ErrTransactionClosed = errors.New("transaction already reached a terminal status")
)

// FailureKind is the discriminator callers switch on instead of matching error text.
type FailureKind string

const (
	KindOwnerNotFound        FailureKind = "OWNER_NOT_FOUND"
	KindGatewayNotConfigured FailureKind = "GATEWAY_NOT_CONFIGURED"
	KindTransactionNotFound  FailureKind = "TRANSACTION_NOT_FOUND"
	KindNotFound             FailureKind = "NOT_FOUND"
	KindInvalidInput         FailureKind = "INVALID_INPUT"
	KindGatewayRejected      FailureKind = "GATEWAY_REJECTED"
	KindConflict             FailureKind = "CONFLICT"
	KindInternal             FailureKind = "INTERNAL"
)

func KindOf(err error) FailureKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrOwnerNotFound):
		return KindOwnerNotFound
	case errors.Is(err, ErrGatewayNotConfigured):
		return KindGatewayNotConfigured
	case errors.Is(err, ErrTransactionNotFound):
		return KindTransactionNotFound
	case errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrSaleNotFound),
		errors.Is(err, ErrCustomerNotFound),
		errors.Is(err, ErrCartNotFound),
		errors.Is(err, ErrAppSettingsNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidCartStatus):
		return KindInvalidInput
	case errors.Is(err, ErrGatewayRejected):
		return KindGatewayRejected
	case errors.Is(err, ErrTransactionClosed):
		return KindConflict
	default:
		return KindInternal
	}
}

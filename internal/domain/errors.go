package domain

import "errors"

var (
	// Entry errors
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidEntryType   = errors.New("entry type must be CREDIT or DEBIT")
	ErrInvalidEntrySource = errors.New("invalid entry source")
	ErrEntryNotFound      = errors.New("entry not found")

	// External aggregates
	ErrPaymentNotFound = errors.New("payment not found")
	ErrPaymentNotPaid  = errors.New("payment has not been paid")
	ErrExpenseNotFound = errors.New("expense not found")
	ErrLeaseNotFound   = errors.New("lease not found")

	// Advance errors
	ErrAdvanceNotFound   = errors.New("advance payment not found")
	ErrAdvanceNotActive  = errors.New("advance payment is not active")
	ErrSameLease         = errors.New("cannot transfer advance to the same lease")
	ErrNothingToTransfer = errors.New("advance has no remaining balance to transfer")
	ErrAdvanceDisabled   = errors.New("advance payments are disabled")

	// Reporting
	ErrInvalidDateRange = errors.New("end date is before start date")
)

package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")

	// Validation errors. These are rejected before any mutation happens.
	ErrAmountNotPositive = errors.New("the amount must be positive")
	ErrDateNotSet        = errors.New("the date must be set")
	ErrKindInvalid       = errors.New("the transaction kind must be INCOME or EXPENSE")

	// Consistency errors. These indicate an invariant violation or a
	// caller ordering bug and abort the operation without partial state.
	ErrDuplicateIncome         = errors.New("a resource pool already exists for this income transaction")
	ErrDuplicateTransaction    = errors.New("a transaction with this external ID is already recorded for the tenant")
	ErrInsufficientPoolBalance = errors.New("the consumption exceeds the remaining amount of the resource pool")

	// ErrNoAvailableFunds is a business condition: the expense exceeds the
	// income tracked in resource pools. It is reported to the caller, the
	// allocation is never truncated silently.
	ErrNoAvailableFunds = errors.New("no tracked income is available to fund this expense")

	// Settings errors
	ErrStrategyNotSupported = errors.New("only the FIFO consumption strategy is supported")
	ErrThresholdsInvalid    = errors.New("health tier thresholds must be strictly decreasing and the lowest threshold must be at least 1 day")

	// ErrWatermarkFloor is returned when an edit would push the dirty
	// watermark further into the past than the configured floor allows.
	ErrWatermarkFloor = errors.New("the edit is older than the recalculation floor, an explicit full rebuild is required")
)

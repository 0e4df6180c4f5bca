package models

import (
	"errors"
	"fmt"
)

// ErrResourceNotFound is the base error for every missing-resource case so
// that callers can check with a single errors.Is.
var ErrResourceNotFound = errors.New("there is no")

var (
	ErrMonthNotFound        = fmt.Errorf("%w month with this ID", ErrResourceNotFound)
	ErrInstanceNotFound     = fmt.Errorf("%w instance with this ID in this month", ErrResourceNotFound)
	ErrOccurrenceNotFound   = fmt.Errorf("%w occurrence with this ID in this instance", ErrResourceNotFound)
	ErrTemplateNotFound     = fmt.Errorf("%w bill or income with this ID", ErrResourceNotFound)
	ErrCategoryNotFound     = fmt.Errorf("%w category with this ID", ErrResourceNotFound)
	ErrSourceNotFound       = fmt.Errorf("%w payment source with this ID", ErrResourceNotFound)
	ErrFamilyMemberNotFound = fmt.Errorf("%w family member with this ID", ErrResourceNotFound)
	ErrPlanNotFound         = fmt.Errorf("%w insurance plan with this ID", ErrResourceNotFound)
	ErrClaimNotFound        = fmt.Errorf("%w claim with this ID", ErrResourceNotFound)
	ErrSubmissionNotFound   = fmt.Errorf("%w submission with this ID on this claim", ErrResourceNotFound)
)

// Validation errors. These are always surfaced to the caller and never
// retried; a failed validation leaves the persisted month untouched.
var (
	ErrAmountInvalid        = errors.New("the amount is not a valid decimal number")
	ErrAmountPrecision      = errors.New("amounts support at most two decimal places")
	ErrAmountNotPositive    = errors.New("the amount must be larger than zero")
	ErrNameRequired         = errors.New("the name must be set")
	ErrBillingPeriodInvalid = errors.New("the billing period must be one of monthly, bi_weekly, weekly, semi_annually")
	ErrAnchorInvalid        = errors.New("the anchor does not match the billing period")
	ErrMonthInvalid         = errors.New("the month must be specified as YYYY-MM")
	ErrMonthExists          = errors.New("this month already exists")
	ErrMonthReadOnly        = errors.New("this month is read-only")
	ErrOccurrenceClosed     = errors.New("this occurrence is already closed")
	ErrOccurrenceNotClosed  = errors.New("this occurrence is not closed")
	ErrOccurrenceNotAdhoc   = errors.New("only ad-hoc occurrences and occurrences of manually tracked payoff bills can be removed")
	ErrSplitAmount          = errors.New("the paid amount of a split must be larger than zero and smaller than the expected amount")
	ErrInstanceNotLinked    = errors.New("this instance has no template to reset to")
	ErrInstanceNotPayoff    = errors.New("this instance is not a payoff bill")
	ErrInstanceIsPayoff     = errors.New("payoff bills are managed through payments and balance entry")
	ErrPayoffBalanceSign    = errors.New("a payoff balance must not be positive, debt is tracked as a negative balance")
	ErrClaimConverted       = errors.New("this claim has already been converted")
	ErrClaimNotExpected     = errors.New("only expected claims can be converted")
	ErrSubmissionResolved   = errors.New("this submission has already been resolved")
	ErrSubmissionStatus     = errors.New("the submission status is invalid")
	ErrBalanceMissing       = errors.New("no balance is entered for this payment source")
)

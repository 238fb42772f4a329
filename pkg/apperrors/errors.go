package apperrors

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict")
	ErrNoActiveMarkupSchema = errors.New("no active markup schema found and none provided")
	ErrMissingCostInput     = errors.New("provide either line_items or (base_cost and qty)")
	ErrDuplicateQuoteNumber = errors.New("duplicate quote number")
)

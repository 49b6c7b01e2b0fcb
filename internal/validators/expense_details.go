// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 sora-grayscale

package validators

import (
	"context"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/sora-grayscale/spliit-sub000/models"
)

// Field name constants used to specify which fields should be validated.
// These constants are passed to Validate to restrict validation to a subset
// of fields (field-level scoping).
const (
	// FieldTitle targets the expense title.
	FieldTitle = "title"

	// FieldNotes targets the free-form notes attached to an expense.
	FieldNotes = "notes"

	// FieldAmount targets the monetary amount, carried as a decimal string.
	FieldAmount = "amount"

	// FieldPaidFor targets the list of participants the expense is split over.
	FieldPaidFor = "paidFor"
)

const (
	maxTitleLen      = 200
	maxNotesLen      = 4000
	maxPaidForLength = 200
)

// amountPattern accepts plain decimal strings: no sign, no exponent, no
// thousands separators. The amount stays a string end to end; this only
// rejects values that could not round-trip through the application's
// arithmetic layer.
var amountPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// ExpenseDetailsValidator implements the Validator interface for
// [models.ExpenseDetails], in both value and pointer form.
type ExpenseDetailsValidator struct {
}

// NewExpenseDetailsValidator constructs a new ExpenseDetailsValidator and
// returns it as the Validator interface.
func NewExpenseDetailsValidator() Validator {
	return &ExpenseDetailsValidator{}
}

// Validate dispatches validation based on the dynamic type of obj.
// Returns ErrUnsupportedType if obj is not an ExpenseDetails value.
// Optional fields restrict validation to the named subset; when omitted,
// every field is validated.
func (v *ExpenseDetailsValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.ExpenseDetails:
		return v.validateDetails(value, fields...)
	case *models.ExpenseDetails:
		return v.validateDetails(*value, fields...)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, obj)
	}
}

func (v *ExpenseDetailsValidator) validateDetails(details models.ExpenseDetails, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldTitle, FieldNotes, FieldAmount, FieldPaidFor}
	}

	for _, field := range fields {
		var err error
		switch field {
		case FieldTitle:
			err = v.validateTitle(details.Title)
		case FieldNotes:
			err = v.validateNotes(details.Notes)
		case FieldAmount:
			err = v.validateAmount(details.Amount)
		case FieldPaidFor:
			err = v.validatePaidFor(details.PaidFor)
		default:
			err = fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func (v *ExpenseDetailsValidator) validateTitle(title string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return ErrTitleTooLong
	}
	return nil
}

func (v *ExpenseDetailsValidator) validateNotes(notes string) error {
	if utf8.RuneCountInString(notes) > maxNotesLen {
		return ErrNotesTooLong
	}
	return nil
}

// validateAmount accepts the empty string: the amount is optional and owned
// by the surrounding application.
func (v *ExpenseDetailsValidator) validateAmount(amount string) error {
	if amount == "" {
		return nil
	}
	if !amountPattern.MatchString(amount) {
		return fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	return nil
}

func (v *ExpenseDetailsValidator) validatePaidFor(paidFor []string) error {
	if len(paidFor) > maxPaidForLength {
		return ErrTooManyPaidFor
	}
	for _, participant := range paidFor {
		if participant == "" {
			return ErrEmptyPaidFor
		}
	}
	return nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 sora-grayscale

package models

// ExpenseDetails is the structured plaintext protected by group encryption.
// It is JSON-encoded before encryption and parsed back after decryption.
// Amount is kept as a string so that no precision is lost crossing the
// serialization boundary; the surrounding application owns arithmetic.
type ExpenseDetails struct {
	Title        string   `json:"title"`
	Notes        string   `json:"notes,omitempty"`
	CategoryID   string   `json:"categoryId,omitempty"`
	CurrencyCode string   `json:"currencyCode,omitempty"`
	Amount       string   `json:"amount,omitempty"`
	PaidBy       string   `json:"paidBy,omitempty"`
	PaidFor      []string `json:"paidFor,omitempty"`
}

// DecryptedField is what DecryptField hands back to the UI layer: either the
// real decrypted details, or a safe placeholder when decryption was not
// possible. Fallback is true in the placeholder case.
type DecryptedField struct {
	Details  ExpenseDetails
	Fallback bool
}

package domain

import "strings"

// ValidateReference ensures an entry points at exactly one source record.
func ValidateReference(entry Entry) error {
	if entry.CustomerID == 0 {
		return ErrInvalidCustomer
	}
	if strings.TrimSpace(entry.Type) == "" {
		return ErrInvalidType
	}
	if entry.Amount.IsNegative() {
		return ErrInvalidAmount
	}

	populated := 0
	if entry.RelatedBillID != nil && *entry.RelatedBillID != 0 {
		populated++
	}
	if entry.RelatedPaymentID != nil && *entry.RelatedPaymentID != 0 {
		populated++
	}
	if entry.RelatedDueSettlementID != nil && *entry.RelatedDueSettlementID != 0 {
		populated++
	}
	if entry.RelatedActionID != nil && *entry.RelatedActionID != 0 {
		populated++
	}
	if populated != 1 {
		return ErrInvalidReference
	}
	return nil
}

package domain

import (
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

func TestValidateReferenceRequiresExactlyOne(t *testing.T) {
	billID := snowflake.ID(1)
	paymentID := snowflake.ID(2)

	base := Entry{
		CustomerID: 10,
		Type:       TypeBillGenerated,
		Amount:     decimal.RequireFromString("100.00"),
	}

	none := base
	if err := ValidateReference(none); !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("expected invalid reference for zero refs, got %v", err)
	}

	one := base
	one.RelatedBillID = &billID
	if err := ValidateReference(one); err != nil {
		t.Fatalf("expected valid entry, got %v", err)
	}

	two := base
	two.RelatedBillID = &billID
	two.RelatedPaymentID = &paymentID
	if err := ValidateReference(two); !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("expected invalid reference for two refs, got %v", err)
	}
}

func TestValidateReferenceRejectsZeroReference(t *testing.T) {
	zero := snowflake.ID(0)
	entry := Entry{
		CustomerID:    10,
		Type:          TypeBillGenerated,
		Amount:        decimal.RequireFromString("100.00"),
		RelatedBillID: &zero,
	}
	if err := ValidateReference(entry); !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("expected invalid reference for zero-valued ref, got %v", err)
	}
}

func TestValidateReferenceFields(t *testing.T) {
	billID := snowflake.ID(1)

	missingCustomer := Entry{
		Type:          TypeBillGenerated,
		Amount:        decimal.RequireFromString("100.00"),
		RelatedBillID: &billID,
	}
	if err := ValidateReference(missingCustomer); !errors.Is(err, ErrInvalidCustomer) {
		t.Fatalf("expected invalid customer, got %v", err)
	}

	missingType := Entry{
		CustomerID:    10,
		Amount:        decimal.RequireFromString("100.00"),
		RelatedBillID: &billID,
	}
	if err := ValidateReference(missingType); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected invalid type, got %v", err)
	}

	negative := Entry{
		CustomerID:    10,
		Type:          TypePaymentReceived,
		Amount:        decimal.RequireFromString("-1.00"),
		RelatedBillID: &billID,
	}
	if err := ValidateReference(negative); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}

	zeroAmount := Entry{
		CustomerID:    10,
		Type:          TypeBoxPrefix + "ACTIVATED",
		Amount:        decimal.Zero,
		RelatedBillID: &billID,
	}
	if err := ValidateReference(zeroAmount); err != nil {
		t.Fatalf("expected zero amount to be valid, got %v", err)
	}
}

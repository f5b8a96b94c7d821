package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateDescription(t *testing.T) {
	t.Parallel()

	t.Run("valid description", func(t *testing.T) {
		if err := ValidateDescription("January rent"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("blank rejected", func(t *testing.T) {
		err := ValidateDescription("   ")
		if !errors.Is(err, ErrInvalidDescription) {
			t.Fatalf("expected ErrInvalidDescription, got %v", err)
		}
	})

	t.Run("too long", func(t *testing.T) {
		err := ValidateDescription(strings.Repeat("a", MaxDescriptionLength+1))
		if !errors.Is(err, ErrInvalidDescription) {
			t.Fatalf("expected ErrInvalidDescription, got %v", err)
		}
	})
}

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	if err := ValidateAmount(decimal.NewFromFloat(100.25)); err != nil {
		t.Fatalf("expected valid amount, got %v", err)
	}

	if err := ValidateAmount(decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	if err := ValidateAmount(decimal.NewFromFloat(0.001)); !errors.Is(err, ErrAmountTooSmall) {
		t.Fatalf("expected ErrAmountTooSmall, got %v", err)
	}

	tooLarge, _ := decimal.NewFromString("1000000000.01")
	if err := ValidateAmount(tooLarge); !errors.Is(err, ErrAmountTooLarge) {
		t.Fatalf("expected ErrAmountTooLarge, got %v", err)
	}
}

func TestValidateLength(t *testing.T) {
	t.Parallel()

	if err := ValidateLength("reference", "INV-1", MaxReferenceLength); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := ValidateLength("reference", strings.Repeat("x", MaxReferenceLength+1), MaxReferenceLength); !errors.Is(err, ErrFieldTooLong) {
		t.Fatalf("expected ErrFieldTooLong, got %v", err)
	}
}

func TestValidateDateRange(t *testing.T) {
	t.Parallel()

	if err := ValidateDateRange(day("2025-01-01"), day("2025-01-01")); err != nil {
		t.Fatalf("single-day range should be valid, got %v", err)
	}
	if err := ValidateDateRange(day("2025-01-02"), day("2025-01-01")); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}

func TestValidatePagination(t *testing.T) {
	t.Parallel()

	limit, offset, err := ValidatePagination(0, -5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if limit != 50 || offset != 0 {
		t.Fatalf("expected defaults (50,0), got (%d,%d)", limit, offset)
	}

	limit, _, _ = ValidatePagination(5000, 10)
	if limit != 1000 {
		t.Fatalf("expected limit capped at 1000, got %d", limit)
	}
}

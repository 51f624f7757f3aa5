package numbering

import (
	"strings"
	"testing"
	"time"
)

func TestNextFormat(t *testing.T) {
	g := New()
	at := time.Date(2023, 1, 15, 10, 30, 0, 0, time.UTC)

	got := g.Next(PrefixBill, at)
	if !strings.HasPrefix(got, "BILL-20230115") {
		t.Fatalf("expected BILL-20230115 prefix, got %q", got)
	}
	if len(got) != len("BILL-20230115")+suffixDigits {
		t.Fatalf("expected %d-digit suffix, got %q", suffixDigits, got)
	}
	suffix := got[len("BILL-20230115"):]
	for _, r := range suffix {
		if r < '0' || r > '9' {
			t.Fatalf("expected numeric suffix, got %q", got)
		}
	}
}

func TestNextUsesUTCDate(t *testing.T) {
	g := New()
	loc := time.FixedZone("UTC+9", 9*3600)
	at := time.Date(2023, 1, 16, 2, 0, 0, 0, loc) // Jan 15 in UTC

	got := g.Next(PrefixPayment, at)
	if !strings.HasPrefix(got, "PAY-20230115") {
		t.Fatalf("expected UTC date component, got %q", got)
	}
}

func TestNextVaries(t *testing.T) {
	g := New()
	at := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)

	seen := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		seen[g.Next(PrefixTransaction, at)] = struct{}{}
	}
	// 50 draws from a 10000-value space should essentially never all collide.
	if len(seen) < 2 {
		t.Fatalf("expected varied suffixes, got %d distinct of 50", len(seen))
	}
}

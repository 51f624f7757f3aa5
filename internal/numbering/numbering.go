// Package numbering produces human-readable document numbers for bills,
// payments and ledger transactions. Numbers mix a date component with a
// short random suffix; uniqueness is enforced by the database, not here.
// Callers insert with ON CONFLICT DO NOTHING and regenerate on a collision.
package numbering

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"
)

const (
	PrefixBill        = "BILL-"
	PrefixPayment     = "PAY-"
	PrefixTransaction = "TXN-"

	// MaxAttempts bounds the insert-retry loop before the operation is
	// surfaced as a conflict to the caller.
	MaxAttempts = 5

	suffixDigits = 4
	suffixMod    = 10000
)

// Generator builds candidate document numbers.
type Generator struct{}

// New constructs a Generator.
func New() *Generator {
	return &Generator{}
}

// Next returns a candidate number of the form <prefix><YYYYMMDD><NNNN>.
// The random component is large enough for approximately-unique, readable
// codes, not for cryptographic uniqueness.
func (g *Generator) Next(prefix string, at time.Time) string {
	return fmt.Sprintf("%s%s%04d", prefix, at.UTC().Format("20060102"), randomSuffix())
}

func randomSuffix() int {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Degrade to a clock-derived suffix; the DB still enforces uniqueness.
		return int(time.Now().UnixNano() % suffixMod)
	}
	return int(binary.BigEndian.Uint64(buf[:]) % suffixMod)
}

// Package events stores billing events in a transactional outbox.
package events

// Billing event types published by the mutating operations.
const (
	EventBillGenerated    = "bill.generated"
	EventPaymentReceived  = "payment.received"
	EventDueSettled       = "due.settled"
	EventBoxStatusChanged = "box.status_changed"
)

// BillPayload captures the minimal data needed by downstream consumers.
type BillPayload struct {
	BillID     string `json:"bill_id"`
	BillNumber string `json:"bill_number"`
	CustomerID string `json:"customer_id"`
	Amount     string `json:"amount"`
}

// PaymentPayload describes a recorded payment.
type PaymentPayload struct {
	PaymentID     string `json:"payment_id"`
	PaymentNumber string `json:"payment_number"`
	CustomerID    string `json:"customer_id"`
	BillID        string `json:"bill_id,omitempty"`
	Amount        string `json:"amount"`
}

// ToMap converts a payload into an outbox-friendly map.
func (p BillPayload) ToMap() map[string]any {
	return map[string]any{
		"bill_id":     p.BillID,
		"bill_number": p.BillNumber,
		"customer_id": p.CustomerID,
		"amount":      p.Amount,
	}
}

// ToMap converts a payload into an outbox-friendly map.
func (p PaymentPayload) ToMap() map[string]any {
	payload := map[string]any{
		"payment_id":     p.PaymentID,
		"payment_number": p.PaymentNumber,
		"customer_id":    p.CustomerID,
		"amount":         p.Amount,
	}
	if p.BillID != "" {
		payload["bill_id"] = p.BillID
	}
	return payload
}

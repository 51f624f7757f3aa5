package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	paymentdomain "github.com/smallbiznis/cablebill/internal/payment/domain"
)

type createPaymentRequest struct {
	CustomerID    string `json:"customer_id"`
	Amount        string `json:"amount"`
	PaymentMethod string `json:"payment_method"`
	PaymentSource string `json:"payment_source"`
	BillID        string `json:"bill_id"`
	Notes         string `json:"notes"`
}

// @Summary      Create Payment
// @Description  Record a payment, optionally applied against a bill
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body createPaymentRequest true "Create Payment Request"
// @Success      200  {object}  paymentdomain.Payment
// @Router       /v1/payments [post]
func (s *Server) CreatePayment(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		AbortWithError(c, newValidationError("amount", "invalid_amount", "amount must be a decimal"))
		return
	}

	resp, err := s.paymentSvc.Create(c.Request.Context(), paymentdomain.CreatePaymentRequest{
		CustomerID:    strings.TrimSpace(req.CustomerID),
		Amount:        amount,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		PaymentSource: strings.TrimSpace(req.PaymentSource),
		BillID:        strings.TrimSpace(req.BillID),
		Notes:         strings.TrimSpace(req.Notes),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID.String()
		s.auditSvc.Log(c.Request.Context(), "payment.create", "payment", &targetID, map[string]any{
			"payment_number": resp.PaymentNumber,
			"customer_id":    resp.CustomerID.String(),
			"amount":         resp.Amount.String(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Payment
// @Description  Get payment by ID
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Payment ID"
// @Success      200  {object}  paymentdomain.Payment
// @Router       /v1/payments/{id} [get]
func (s *Server) GetPaymentByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.paymentSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Customer Payments
// @Description  List payments recorded for a customer
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  []paymentdomain.Payment
// @Router       /v1/customers/{id}/payments [get]
func (s *Server) ListCustomerPayments(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.paymentSvc.ListByCustomer(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

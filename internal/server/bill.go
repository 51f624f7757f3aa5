package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	billdomain "github.com/smallbiznis/cablebill/internal/bill/domain"
	billrender "github.com/smallbiznis/cablebill/internal/bill/render"
)

type createBillRequest struct {
	CustomerID string   `json:"customer_id"`
	PlanIDs    []string `json:"plan_ids"`
	BillDate   string   `json:"bill_date"`
	PaidAmount string   `json:"paid_amount"`
	Notes      string   `json:"notes"`
}

// @Summary      Create Bill
// @Description  Generate a bill for a customer from a set of plans
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        request body createBillRequest true "Create Bill Request"
// @Success      200  {object}  billdomain.Bill
// @Router       /v1/bills [post]
func (s *Server) CreateBill(c *gin.Context) {
	var req createBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	billDate := time.Now().UTC()
	if raw := strings.TrimSpace(req.BillDate); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			AbortWithError(c, newValidationError("bill_date", "invalid_bill_date", "bill_date must be YYYY-MM-DD"))
			return
		}
		billDate = parsed
	}

	var paidAmount *decimal.Decimal
	if raw := strings.TrimSpace(req.PaidAmount); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			AbortWithError(c, newValidationError("paid_amount", "invalid_paid_amount", "paid_amount must be a decimal"))
			return
		}
		paidAmount = &parsed
	}

	resp, err := s.billSvc.Create(c.Request.Context(), billdomain.CreateBillRequest{
		CustomerID: strings.TrimSpace(req.CustomerID),
		PlanIDs:    req.PlanIDs,
		BillDate:   billDate,
		PaidAmount: paidAmount,
		Notes:      strings.TrimSpace(req.Notes),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID.String()
		s.auditSvc.Log(c.Request.Context(), "bill.create", "bill", &targetID, map[string]any{
			"bill_number": resp.BillNumber,
			"customer_id": resp.CustomerID.String(),
			"amount":      resp.Amount.String(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Mark Physical Bill Generated
// @Description  Record that a physical copy of the bill was produced
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Bill ID"
// @Success      200  {object}  billdomain.Bill
// @Router       /v1/bills/{id}/physical [post]
func (s *Server) MarkBillPhysicalGenerated(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.billSvc.MarkPhysicalGenerated(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID.String()
		s.auditSvc.Log(c.Request.Context(), "bill.physical_generated", "bill", &targetID, nil)
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Bill
// @Description  Get bill by ID
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Bill ID"
// @Success      200  {object}  billdomain.Bill
// @Router       /v1/bills/{id} [get]
func (s *Server) GetBillByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.billSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Bill Document
// @Description  Render the printable bill document
// @Tags         bills
// @Accept       json
// @Produce      html
// @Param        id   path      string  true  "Bill ID"
// @Success      200  {string}  string
// @Router       /v1/bills/{id}/document [get]
func (s *Server) GetBillDocument(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	bill, err := s.billSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	customer, err := s.customerSvc.GetByID(c.Request.Context(), bill.CustomerID.String())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var planIDs []string
	if len(bill.PlanIDs) > 0 {
		if err := json.Unmarshal(bill.PlanIDs, &planIDs); err != nil {
			AbortWithError(c, err)
			return
		}
	}

	lines := make([]billrender.PlanLineView, 0, len(planIDs))
	for _, planID := range planIDs {
		plan, err := s.planSvc.GetByID(c.Request.Context(), planID)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		lines = append(lines, billrender.PlanLineView{
			Name:   plan.Name,
			Months: plan.Months,
			Price:  plan.EffectivePrice(),
			Amount: plan.Amount(),
		})
	}

	html, err := s.billRenderer.RenderHTML(billrender.RenderInput{
		Bill: billrender.BillView{
			Number:     bill.BillNumber,
			Status:     string(bill.Status),
			BillDate:   bill.BillDate,
			DueDate:    &bill.DueDate,
			Amount:     bill.Amount,
			PaidAmount: bill.PaidAmount,
			Notes:      bill.Notes,
		},
		Customer: billrender.CustomerView{
			Name:      customer.Name,
			Address:   customer.Address,
			BoxNumber: customer.BoxNumber,
		},
		Lines: lines,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// @Summary      List Customer Bills
// @Description  List bills issued to a customer
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  []billdomain.Bill
// @Router       /v1/customers/{id}/bills [get]
func (s *Server) ListCustomerBills(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.billSvc.ListByCustomer(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

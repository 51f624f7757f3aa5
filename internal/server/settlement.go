package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	settlementdomain "github.com/smallbiznis/cablebill/internal/settlement/domain"
)

type createDueSettlementRequest struct {
	CustomerID    string `json:"customer_id"`
	BillID        string `json:"bill_id"`
	SettledAmount string `json:"settled_amount"`
	Notes         string `json:"notes"`
}

// @Summary      Create Due Settlement
// @Description  Write off part or all of a bill's outstanding debt
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        request body createDueSettlementRequest true "Create Due Settlement Request"
// @Success      200  {object}  settlementdomain.DueSettlement
// @Router       /v1/settlements [post]
func (s *Server) CreateDueSettlement(c *gin.Context) {
	var req createDueSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	settledAmount, err := decimal.NewFromString(strings.TrimSpace(req.SettledAmount))
	if err != nil {
		AbortWithError(c, newValidationError("settled_amount", "invalid_settled_amount", "settled_amount must be a decimal"))
		return
	}

	resp, err := s.settlementSvc.Create(c.Request.Context(), settlementdomain.CreateDueSettlementRequest{
		CustomerID:    strings.TrimSpace(req.CustomerID),
		BillID:        strings.TrimSpace(req.BillID),
		SettledAmount: settledAmount,
		Notes:         strings.TrimSpace(req.Notes),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID.String()
		s.auditSvc.Log(c.Request.Context(), "settlement.create", "due_settlement", &targetID, map[string]any{
			"bill_id":        resp.BillID.String(),
			"settled_amount": resp.SettledAmount.String(),
			"status":         string(resp.Status),
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Due Settlement
// @Description  Get due settlement by ID
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Settlement ID"
// @Success      200  {object}  settlementdomain.DueSettlement
// @Router       /v1/settlements/{id} [get]
func (s *Server) GetDueSettlementByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.settlementSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Bill Settlements
// @Description  List settlements applied to a bill
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Bill ID"
// @Success      200  {object}  []settlementdomain.DueSettlement
// @Router       /v1/bills/{id}/settlements [get]
func (s *Server) ListBillSettlements(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.settlementSvc.ListByBill(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

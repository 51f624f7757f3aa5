package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	boxdomain "github.com/smallbiznis/cablebill/internal/boxaction/domain"
)

type applyBoxActionRequest struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
	Notes  string `json:"notes"`
}

// @Summary      Apply Box Action
// @Description  Apply a service action to the customer's receiver box
// @Tags         box-actions
// @Accept       json
// @Produce      json
// @Param        id      path  string                true  "Customer ID"
// @Param        request body  applyBoxActionRequest true  "Apply Box Action Request"
// @Success      200  {object}  boxdomain.BoxActivation
// @Router       /v1/customers/{id}/box-actions [post]
func (s *Server) ApplyBoxAction(c *gin.Context) {
	var req applyBoxActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.boxSvc.Apply(c.Request.Context(), boxdomain.ApplyActionRequest{
		CustomerID: strings.TrimSpace(c.Param("id")),
		Action:     boxdomain.ActionType(strings.TrimSpace(req.Action)),
		Reason:     strings.TrimSpace(req.Reason),
		Notes:      strings.TrimSpace(req.Notes),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID.String()
		s.auditSvc.Log(c.Request.Context(), "box.action", "box_activation", &targetID, map[string]any{
			"customer_id": resp.CustomerID.String(),
			"action":      string(resp.Action),
			"new_status":  string(resp.NewStatus),
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Customer Box Actions
// @Description  List box service actions applied to a customer
// @Tags         box-actions
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  []boxdomain.BoxActivation
// @Router       /v1/customers/{id}/box-actions [get]
func (s *Server) ListCustomerBoxActions(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.boxSvc.ListByCustomer(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// @Summary      Get Transaction
// @Description  Get ledger transaction by ID
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Transaction ID"
// @Success      200  {object}  ledgerdomain.Transaction
// @Router       /v1/transactions/{id} [get]
func (s *Server) GetTransactionByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.ledgerSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Customer Transactions
// @Description  List ledger transactions recorded for a customer
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  []ledgerdomain.Transaction
// @Router       /v1/customers/{id}/transactions [get]
func (s *Server) ListCustomerTransactions(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.ledgerSvc.ListByCustomer(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

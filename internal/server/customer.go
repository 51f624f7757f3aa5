package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	customerdomain "github.com/smallbiznis/cablebill/internal/customer/domain"
)

type createCustomerRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	BoxNumber string `json:"box_number"`
}

// @Summary      Create Customer
// @Description  Register a new subscriber account
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body createCustomerRequest true "Create Customer Request"
// @Success      200  {object}  customerdomain.Customer
// @Router       /v1/customers [post]
func (s *Server) CreateCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.Create(c.Request.Context(), customerdomain.CreateCustomerRequest{
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Address:   strings.TrimSpace(req.Address),
		BoxNumber: strings.TrimSpace(req.BoxNumber),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID.String()
		s.auditSvc.Log(c.Request.Context(), "customer.create", "customer", &targetID, map[string]any{
			"name":  resp.Name,
			"email": resp.Email,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateCustomerRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// @Summary      Update Customer
// @Description  Update subscriber contact details
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id      path  string                true  "Customer ID"
// @Param        request body  updateCustomerRequest true  "Update Customer Request"
// @Success      200  {object}  customerdomain.Customer
// @Router       /v1/customers/{id} [patch]
func (s *Server) UpdateCustomer(c *gin.Context) {
	var req updateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.customerSvc.Update(c.Request.Context(), id, customerdomain.UpdateCustomerRequest{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID.String()
		s.auditSvc.Log(c.Request.Context(), "customer.update", "customer", &targetID, nil)
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Customers
// @Description  List subscriber accounts
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        name       query  string  false  "Name"
// @Param        email      query  string  false  "Email"
// @Param        page_size  query  int     false  "Page Size"
// @Param        offset     query  int     false  "Offset"
// @Success      200  {object}  customerdomain.ListCustomerResponse
// @Router       /v1/customers [get]
func (s *Server) ListCustomers(c *gin.Context) {
	var query struct {
		Name     string `form:"name"`
		Email    string `form:"email"`
		PageSize int32  `form:"page_size"`
		Offset   int32  `form:"offset"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.List(c.Request.Context(), customerdomain.ListCustomerRequest{
		Name:     strings.TrimSpace(query.Name),
		Email:    strings.TrimSpace(query.Email),
		PageSize: query.PageSize,
		Offset:   query.Offset,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Customer
// @Description  Get subscriber account by ID
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  customerdomain.Customer
// @Router       /v1/customers/{id} [get]
func (s *Server) GetCustomerByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.customerSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

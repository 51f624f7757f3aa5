package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// @Summary      List Plans
// @Description  List the plan catalog
// @Tags         plans
// @Accept       json
// @Produce      json
// @Param        include_inactive  query  bool  false  "Include inactive plans"
// @Success      200  {object}  []plandomain.Plan
// @Router       /v1/plans [get]
func (s *Server) ListPlans(c *gin.Context) {
	var query struct {
		IncludeInactive bool `form:"include_inactive"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.planSvc.List(c.Request.Context(), !query.IncludeInactive)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Plan
// @Description  Get plan by ID
// @Tags         plans
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Plan ID"
// @Success      200  {object}  plandomain.Plan
// @Router       /v1/plans/{id} [get]
func (s *Server) GetPlanByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.planSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

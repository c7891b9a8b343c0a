package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tabiplan/internal/models/request_models"
	"tabiplan/internal/services"
	"tabiplan/pkg/utils"
)

type PlansController struct {
	planService   services.PlanServiceInterface
	apiKeyService services.ApiKeyServiceInterface
}

func NewPlansController(planService services.PlanServiceInterface, apiKeyService services.ApiKeyServiceInterface) *PlansController {
	return &PlansController{
		planService:   planService,
		apiKeyService: apiKeyService,
	}
}

func (p *PlansController) GeneratePlan(c *gin.Context) {
	var req request_models.PlanGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid plan request: "+err.Error())
		return
	}

	plan, err := p.planService.GeneratePlan(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	// Agent requests carry the verified key id; successful generations count
	// against the key's daily limit.
	if keyID, ok := c.Get("api_key_id"); ok {
		if id, ok := keyID.(string); ok {
			_ = p.apiKeyService.RecordGeneration(c.Request.Context(), id)
		}
	}

	utils.RespondSuccess(c, plan, "Plan generated successfully")
}

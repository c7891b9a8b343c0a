package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tabiplan/internal/models/request_models"
	"tabiplan/internal/services"
	"tabiplan/pkg/utils"
)

type ApiKeysController struct {
	apiKeyService services.ApiKeyServiceInterface
}

func NewApiKeysController(apiKeyService services.ApiKeyServiceInterface) *ApiKeysController {
	return &ApiKeysController{
		apiKeyService: apiKeyService,
	}
}

// CreateApiKey mints an agent key. The raw key appears in this response
// only; afterwards the database holds nothing but the bcrypt hash.
func (a *ApiKeysController) CreateApiKey(c *gin.Context) {
	var req request_models.CreateApiKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid api key request: "+err.Error())
		return
	}

	rawKey, err := a.apiKeyService.CreateKey(c.Request.Context(), req.Name, req.PlanLimitPerDay)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, gin.H{"apiKey": rawKey}, "API key created successfully")
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tabiplan/internal/models/request_models"
	"tabiplan/internal/services"
	"tabiplan/pkg/utils"
)

type SpotsController struct {
	spotService services.SpotServiceInterface
}

func NewSpotsController(spotService services.SpotServiceInterface) *SpotsController {
	return &SpotsController{
		spotService: spotService,
	}
}

func (s *SpotsController) ListSpots(c *gin.Context) {
	var req request_models.ListSpotsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	spots, err := s.spotService.ListSpots(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, spots, "Spots fetched successfully")
}

func (s *SpotsController) GetSpotById(c *gin.Context) {
	spotId := c.Param("id")
	if spotId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Spot ID is required")
		return
	}

	spot, err := s.spotService.GetSpotByID(c.Request.Context(), spotId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, spot, "Spot fetched successfully")
}

func (s *SpotsController) CreateSpot(c *gin.Context) {
	var req request_models.SpotUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid spot request: "+err.Error())
		return
	}

	id, err := s.spotService.CreateSpot(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, gin.H{"id": id}, "Spot created successfully")
}

func (s *SpotsController) UpdateSpot(c *gin.Context) {
	spotId := c.Param("id")
	if spotId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Spot ID is required")
		return
	}

	var req request_models.SpotUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid spot request: "+err.Error())
		return
	}

	if err := s.spotService.UpdateSpot(c.Request.Context(), spotId, req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Spot updated successfully")
}

func (s *SpotsController) DeleteSpot(c *gin.Context) {
	spotId := c.Param("id")
	if spotId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Spot ID is required")
		return
	}

	if err := s.spotService.DeleteSpot(c.Request.Context(), spotId); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Spot deleted successfully")
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tabiplan/internal/models/request_models"
	"tabiplan/internal/services"
	"tabiplan/pkg/utils"
)

type AccountsController struct {
	accountService services.AccountServiceInterface
}

func NewAccountsController(accountService services.AccountServiceInterface) *AccountsController {
	return &AccountsController{
		accountService: accountService,
	}
}

func (a *AccountsController) Register(c *gin.Context) {
	var req request_models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid sign up request: "+err.Error())
		return
	}

	if err := a.accountService.Register(c.Request.Context(), req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, nil, "Account created successfully")
}

func (a *AccountsController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid login request: "+err.Error())
		return
	}

	token, err := a.accountService.Login(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"token": token}, "Login successful")
}

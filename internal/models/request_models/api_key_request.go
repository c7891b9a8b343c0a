package request_models

type CreateApiKeyRequest struct {
	Name            string `json:"name" binding:"required"`
	PlanLimitPerDay int    `json:"planLimitPerDay"`
}

package dto

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
	Mode    string `json:"mode"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

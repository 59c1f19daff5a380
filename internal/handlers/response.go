package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIError struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func RespondError(c *gin.Context, status int, errText, message string) {
	c.JSON(status, APIError{Error: errText, Message: message})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

package httpserver

import "github.com/gin-gonic/gin"

// envelope is the uniform response shape: {success, data, message}. Clients
// treat success:false and non-2xx statuses identically, so every handler
// funnels through these helpers.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, envelope{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, envelope{Success: false, Message: message})
}

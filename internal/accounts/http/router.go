package http

import "github.com/gin-gonic/gin"

// RegisterPublic mounts the credential routes, which never require a token.
func (h *Handler) RegisterPublic(rg gin.IRoutes) {
	rg.POST("/signup", h.Signup)
	rg.POST("/signin", h.Signin)
	rg.POST("/forget-password", h.ForgetPassword)
	rg.POST("/reset-password", h.ResetPassword)
}

func (h *Handler) Register(rg gin.IRoutes) {
	rg.POST("/update-user", h.UpdateUser)
	rg.POST("/settings", h.Settings)
	rg.POST("/user-data", h.UserData)
}

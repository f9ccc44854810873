package http

import (
	"github.com/gin-gonic/gin"

	"github.com/gymsuite/gymsuite-backend/internal/clubs/domain"
)

func (h *Handler) Register(rg gin.IRoutes) {
	rg.GET("/data-model", h.DataModel)
	rg.GET("/get-clubs", h.GetClubs)
	rg.POST("/update-data", h.UpdateData)
	rg.POST("/prev-data", h.PrevData)

	rg.POST("/sources", h.SetFields(domain.LeadSources))
	rg.POST("/strategic-focus", h.SetFields(domain.StrategicFocus))
	rg.POST("/objections", h.SetFields(domain.Objections))
	rg.POST("/complaints", h.SetFields(domain.Complaints))
}

package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apihttp "github.com/gymsuite/gymsuite-backend/internal/api/http"
	"github.com/gymsuite/gymsuite-backend/internal/auth"
	"github.com/gymsuite/gymsuite-backend/internal/clubs/domain"
)

const (
	msgValuesNotFound = "Values Not Found"
	msgRecordNotFound = "Record not found"
	msgNoPermission   = "Your don't have permissions"
	msgForbidden      = "token does not grant access to this account"
)

// DataModel returns the latest record of a club within the requested month.
func (h *Handler) DataModel(c *gin.Context) {
	var q dataModelQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apihttp.BadRequest(c, "invalid query: "+err.Error())
		return
	}
	club := firstNonEmpty(q.Club, q.ClubAlt)
	date := firstNonEmpty(q.DateTime, q.DateAlt)
	if club == "" || date == "" {
		apihttp.BadRequest(c, "club and dateTime are required")
		return
	}
	if !auth.EmailAllowed(c, q.Email) {
		apihttp.Error(c, http.StatusForbidden, msgForbidden)
		return
	}

	period, err := domain.ParsePeriod(date)
	if err != nil {
		apihttp.BadRequest(c, err.Error())
		return
	}

	rec, err := h.clubs.GetLatestForMonth(c.Request.Context(), q.Email, club, period)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"data": rec})
	case errors.Is(err, domain.ErrRecordNotFound):
		apihttp.BadRequest(c, msgValuesNotFound)
	default:
		apihttp.Internal(c, "data_model", err)
	}
}

// SetFields returns a handler overwriting one category triple of a record.
func (h *Handler) SetFields(group domain.FieldGroup) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body fieldsRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			apihttp.BadRequest(c, "invalid request body: "+err.Error())
			return
		}

		raw := body.Data
		if group == domain.LeadSources {
			raw = body.Sources
		}
		values, err := parseTriple(raw, group)
		if err != nil {
			apihttp.BadRequest(c, err.Error())
			return
		}

		id := int64(body.ID)
		if !h.ownsRecord(c, id) {
			return
		}

		rec, err := h.clubs.SetFields(c.Request.Context(), id, group, values)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"data": rec})
		case errors.Is(err, domain.ErrRecordNotFound):
			apihttp.Error(c, http.StatusNotFound, msgRecordNotFound)
		default:
			apihttp.Internal(c, string(group), err)
		}
	}
}

func (h *Handler) GetClubs(c *gin.Context) {
	var q getClubsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apihttp.BadRequest(c, "invalid query: "+err.Error())
		return
	}
	if !auth.EmailAllowed(c, q.Email) {
		apihttp.Error(c, http.StatusForbidden, msgForbidden)
		return
	}

	clubs, user, err := h.clubs.ListClubsForUser(c.Request.Context(), q.Email)
	if err != nil {
		apihttp.Internal(c, "get_clubs", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clubs": clubs, "user": user})
}

func (h *Handler) UpdateData(c *gin.Context) {
	var body updateDataRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apihttp.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if !auth.EmailAllowed(c, body.Email) {
		apihttp.Error(c, http.StatusForbidden, msgForbidden)
		return
	}

	rec, err := h.clubs.CreateRecord(c.Request.Context(), body.Email, *body.Data)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"data": rec})
	case errors.Is(err, domain.ErrForbidden):
		apihttp.Error(c, http.StatusInternalServerError, msgNoPermission)
	case errors.Is(err, domain.ErrInvalidRecord):
		apihttp.BadRequest(c, err.Error())
	default:
		apihttp.Internal(c, "update_data", err)
	}
}

// PrevData answers {data: null} when the record does not exist.
func (h *Handler) PrevData(c *gin.Context) {
	var body prevDataRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apihttp.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	rec, err := h.clubs.GetByID(c.Request.Context(), int64(body.ID))
	if err != nil {
		apihttp.Internal(c, "prev_data", err)
		return
	}
	if rec != nil && !auth.EmailAllowed(c, rec.UserEmail) {
		apihttp.Error(c, http.StatusForbidden, msgForbidden)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rec})
}

// ownsRecord rejects authenticated callers acting on another user's record.
// Unauthenticated requests and unknown ids pass through.
func (h *Handler) ownsRecord(c *gin.Context, id int64) bool {
	if auth.UserEmail(c) == "" {
		return true
	}

	rec, err := h.clubs.GetByID(c.Request.Context(), id)
	if err != nil {
		apihttp.Internal(c, "record_owner", err)
		return false
	}
	if rec != nil && !auth.EmailAllowed(c, rec.UserEmail) {
		apihttp.Error(c, http.StatusForbidden, msgForbidden)
		return false
	}
	return true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

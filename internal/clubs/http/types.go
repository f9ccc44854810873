package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/gymsuite/gymsuite-backend/internal/clubs/domain"
	"github.com/gymsuite/gymsuite-backend/internal/clubs/service"
)

type Handler struct {
	clubs *service.ClubService
}

func New(clubs *service.ClubService) *Handler {
	return &Handler{
		clubs: clubs,
	}
}

// recordID accepts a record id as a JSON number or a numeric string.
type recordID int64

func (id *recordID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("ID must be an integer")
	}
	*id = recordID(n)
	return nil
}

type dataModelQuery struct {
	Email    string `form:"email" binding:"required,email"`
	Club     string `form:"club"`
	ClubAlt  string `form:"Club"`
	DateTime string `form:"dateTime"`
	DateAlt  string `form:"Date_Time"`
}

type getClubsQuery struct {
	Email string `form:"email" binding:"required,email"`
}

// fieldsRequest carries the triple under "sources" for lead sources and
// under "data" for the other groups.
type fieldsRequest struct {
	ID      recordID        `json:"ID" binding:"required"`
	Sources json.RawMessage `json:"sources"`
	Data    json.RawMessage `json:"data"`
}

type updateDataRequest struct {
	Email string             `json:"email" binding:"required,email"`
	Data  *domain.ClubRecord `json:"data" binding:"required"`
}

type prevDataRequest struct {
	ID recordID `json:"ID" binding:"required"`
}

// parseTriple reads the three values of group from raw, which is either a
// JSON object or a JSON string holding one. Missing keys read as "".
func parseTriple(raw json.RawMessage, group domain.FieldGroup) ([3]string, error) {
	var out [3]string

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return out, fmt.Errorf("values are required")
	}

	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return out, fmt.Errorf("values must be a JSON object")
		}
		raw = json.RawMessage(inner)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return out, fmt.Errorf("values must be a JSON object")
	}

	for i, key := range group.PayloadKeys() {
		switch v := fields[key].(type) {
		case nil:
		case string:
			out[i] = v
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out, nil
}

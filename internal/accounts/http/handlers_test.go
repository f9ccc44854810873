package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymsuite/gymsuite-backend/internal/accounts/repository"
	"github.com/gymsuite/gymsuite-backend/internal/accounts/service"
	"github.com/gymsuite/gymsuite-backend/internal/auth"
)

func setupRouter(t *testing.T, tokenEmail string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	svc := service.NewAccountService(
		repository.NewRedisRepository(client),
		service.NewBcryptHasher(4),
		auth.NewTokenIssuer("test-secret", time.Hour),
		time.Hour,
	)

	r := gin.New()
	if tokenEmail != "" {
		r.Use(func(c *gin.Context) {
			c.Set(auth.CtxUserEmail, tokenEmail)
			c.Next()
		})
	}
	h := New(svc)
	h.RegisterPublic(r)
	h.Register(r)
	return r
}

func postJSON(r http.Handler, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestSignupSigninFlow(t *testing.T) {
	r := setupRouter(t, "")

	w, body := postJSON(r, "/signup", gin.H{"email": "ann@x.com", "name": "Ann", "password": "pw"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "User created successfully", body["message"])

	w, body = postJSON(r, "/signup", gin.H{"email": "ann@x.com", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User already exists", body["message"])

	w, body = postJSON(r, "/signin", gin.H{"email": "ann@x.com", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "Ann", body["name"])

	w, body = postJSON(r, "/signin", gin.H{"email": "ann@x.com", "password": "bad"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgInvalidPass, body["message"])

	w, body = postJSON(r, "/signin", gin.H{"email": "bob@x.com", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgUserNotFound, body["message"])
}

func TestSignupValidation(t *testing.T) {
	r := setupRouter(t, "")

	w, _ := postJSON(r, "/signup", gin.H{"email": "not-an-email", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = postJSON(r, "/signup", gin.H{"email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGoogleAccountCannotSignInWithPassword(t *testing.T) {
	r := setupRouter(t, "")

	w, _ := postJSON(r, "/signup", gin.H{"email": "g@x.com", "isGoogleUser": true})
	require.Equal(t, http.StatusCreated, w.Code)

	w, body := postJSON(r, "/signin", gin.H{"email": "g@x.com", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgGoogleAccount, body["message"])
}

func TestGoogleAccountHasNoPassword(t *testing.T) {
	r := setupRouter(t, "")

	w, _ := postJSON(r, "/signup", gin.H{"email": "g@x.com", "isGoogleUser": true})
	require.Equal(t, http.StatusCreated, w.Code)

	w, body := postJSON(r, "/forget-password", gin.H{"email": "g@x.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgGoogleAccount, body["message"])
	assert.NotContains(t, body, "resetToken")

	w, body = postJSON(r, "/reset-password", gin.H{"email": "g@x.com", "resetToken": "t", "newPassword": "pw"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgGoogleAccount, body["message"])

	w, body = postJSON(r, "/update-user", gin.H{"email": "g@x.com", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgGoogleAccount, body["message"])

	w, body = postJSON(r, "/update-user", gin.H{"email": "g@x.com", "logo": "l"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "l", body["data"].(map[string]any)["Logo"])
}

func TestPasswordResetFlow(t *testing.T) {
	r := setupRouter(t, "")
	postJSON(r, "/signup", gin.H{"email": "a@x.com", "password": "old"})

	w, body := postJSON(r, "/forget-password", gin.H{"email": "nobody@x.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgUserNotFound, body["message"])

	w, body = postJSON(r, "/forget-password", gin.H{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := body["resetToken"].(string)
	require.NotEmpty(t, token)

	w, body = postJSON(r, "/reset-password", gin.H{"email": "a@x.com", "resetToken": "wrong", "newPassword": "new"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgInvalidReset, body["message"])

	w, _ = postJSON(r, "/reset-password", gin.H{"email": "a@x.com", "resetToken": token, "newPassword": "new"})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = postJSON(r, "/reset-password", gin.H{"email": "a@x.com", "resetToken": token, "newPassword": "again"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = postJSON(r, "/signin", gin.H{"email": "a@x.com", "password": "new"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateUserAndUserData(t *testing.T) {
	r := setupRouter(t, "")
	postJSON(r, "/signup", gin.H{"email": "a@x.com", "name": "Ann", "password": "pw"})

	w, body := postJSON(r, "/update-user", gin.H{"email": "a@x.com", "business_name": "Iron Gym", "First_Name": "Ann"})
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Iron Gym", data["Business_name"])
	assert.NotContains(t, data, "password")

	w, _ = postJSON(r, "/update-user", gin.H{"email": "nobody@x.com", "logo": "l"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = postJSON(r, "/user-data", gin.H{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, w.Code)
	data = body["data"].(map[string]any)
	assert.Equal(t, "Ann", data["First_Name"])

	w, body = postJSON(r, "/user-data", gin.H{"email": "nobody@x.com"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, body["data"])
}

func TestSettingsHidesCRMPassword(t *testing.T) {
	r := setupRouter(t, "")
	postJSON(r, "/signup", gin.H{"email": "a@x.com", "password": "pw"})

	w, _ := postJSON(r, "/settings", gin.H{"email": "a@x.com", "CRM_API_Key": "k"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body := postJSON(r, "/settings", gin.H{
		"email": "a@x.com", "CRM_API_Key": "k", "CRM_Username": "u", "CRM_Password": "p",
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "k", data["CRM_API_Key"])
	assert.NotContains(t, data, "CRM_Password")
}

func TestTokenEmailMustMatchBody(t *testing.T) {
	r := setupRouter(t, "a@x.com")
	postJSON(r, "/signup", gin.H{"email": "b@x.com", "password": "pw"})

	w, _ := postJSON(r, "/user-data", gin.H{"email": "b@x.com"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = postJSON(r, "/update-user", gin.H{"email": "B@x.com", "logo": "l"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = postJSON(r, "/user-data", gin.H{"email": "A@x.com"})
	assert.Equal(t, http.StatusOK, w.Code)
}

package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gymsuite/gymsuite-backend/internal/accounts/domain"
	apihttp "github.com/gymsuite/gymsuite-backend/internal/api/http"
	"github.com/gymsuite/gymsuite-backend/internal/auth"
)

const (
	msgUserNotFound   = "User not found"
	msgGoogleAccount  = "Your account is connected to Google - use the Google button to login"
	msgInvalidPass    = "Invalid password"
	msgInvalidReset   = "Invalid or expired reset token"
	msgEmailForbidden = "token does not grant access to this account"
)

func (h *Handler) Signup(c *gin.Context) {
	var body signupRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apihttp.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	err := h.accounts.Signup(c.Request.Context(), domain.CreateUserRequest{
		Email:        body.Email,
		Name:         body.Name,
		Password:     body.Password,
		IsGoogleUser: body.IsGoogleUser,
		IDToken:      body.IDToken,
	})
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"message": "User created successfully"})
	case errors.Is(err, domain.ErrUserAlreadyExists):
		apihttp.BadRequest(c, "User already exists")
	case errors.Is(err, domain.ErrPasswordRequired), errors.Is(err, domain.ErrGoogleTokenInvalid):
		apihttp.BadRequest(c, err.Error())
	default:
		apihttp.Internal(c, "signup", err)
	}
}

func (h *Handler) Signin(c *gin.Context) {
	var body signinRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apihttp.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	res, err := h.accounts.Signin(c.Request.Context(), body.Email, body.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, res)
	case errors.Is(err, domain.ErrUserNotFound):
		apihttp.BadRequest(c, msgUserNotFound)
	case errors.Is(err, domain.ErrGoogleAccount):
		apihttp.BadRequest(c, msgGoogleAccount)
	case errors.Is(err, domain.ErrInvalidCredentials):
		apihttp.BadRequest(c, msgInvalidPass)
	default:
		apihttp.Internal(c, "signin", err)
	}
}

// ForgetPassword returns the reset token in the response body. Delivery by
// email is not wired yet.
func (h *Handler) ForgetPassword(c *gin.Context) {
	var body forgetPasswordRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apihttp.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	reset, err := h.accounts.RequestPasswordReset(c.Request.Context(), body.Email)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Password reset token generated", "resetToken": reset.Token})
	case errors.Is(err, domain.ErrUserNotFound):
		apihttp.BadRequest(c, msgUserNotFound)
	case errors.Is(err, domain.ErrGoogleAccount):
		apihttp.BadRequest(c, msgGoogleAccount)
	default:
		apihttp.Internal(c, "forget_password", err)
	}
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var body resetPasswordRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apihttp.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	err := h.accounts.CompletePasswordReset(c.Request.Context(), body.Email, body.ResetToken, body.NewPassword)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
	case errors.Is(err, domain.ErrUserNotFound):
		apihttp.BadRequest(c, msgUserNotFound)
	case errors.Is(err, domain.ErrInvalidResetToken):
		apihttp.BadRequest(c, msgInvalidReset)
	case errors.Is(err, domain.ErrGoogleAccount):
		apihttp.BadRequest(c, msgGoogleAccount)
	case errors.Is(err, domain.ErrPasswordRequired):
		apihttp.BadRequest(c, err.Error())
	default:
		apihttp.Internal(c, "reset_password", err)
	}
}

func (h *Handler) UpdateUser(c *gin.Context) {
	var body updateUserRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apihttp.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if !auth.EmailAllowed(c, body.Email) {
		apihttp.Error(c, http.StatusForbidden, msgEmailForbidden)
		return
	}

	user, err := h.accounts.UpdateProfile(c.Request.Context(), body.Email, domain.ProfileUpdate{
		ClubwiseURL:  body.ClubwiseURL,
		BusinessName: body.BusinessName,
		Logo:         body.Logo,
		FirstName:    body.FirstName,
		LastName:     body.LastName,
		Phone:        body.Phone,
		Password:     body.Password,
	})
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"data": user})
	case errors.Is(err, domain.ErrUserNotFound):
		apihttp.Error(c, http.StatusNotFound, msgUserNotFound)
	case errors.Is(err, domain.ErrPasswordRequired):
		apihttp.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrGoogleAccount):
		apihttp.BadRequest(c, msgGoogleAccount)
	default:
		apihttp.Internal(c, "update_user", err)
	}
}

func (h *Handler) Settings(c *gin.Context) {
	var body settingsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apihttp.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if !auth.EmailAllowed(c, body.Email) {
		apihttp.Error(c, http.StatusForbidden, msgEmailForbidden)
		return
	}

	user, err := h.accounts.UpdateCRMSettings(c.Request.Context(), body.Email, domain.CRMCredentials{
		APIKey:   body.CRMAPIKey,
		Username: body.CRMUsername,
		Password: body.CRMPassword,
	})
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"data": user})
	case errors.Is(err, domain.ErrUserNotFound):
		apihttp.Error(c, http.StatusNotFound, msgUserNotFound)
	default:
		apihttp.Internal(c, "settings", err)
	}
}

// UserData answers {data: null} when the account does not exist.
func (h *Handler) UserData(c *gin.Context) {
	var body userDataRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apihttp.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if !auth.EmailAllowed(c, body.Email) {
		apihttp.Error(c, http.StatusForbidden, msgEmailForbidden)
		return
	}

	user, err := h.accounts.GetUser(c.Request.Context(), body.Email)
	if err != nil {
		apihttp.Internal(c, "user_data", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user})
}

package http

import (
	"github.com/gymsuite/gymsuite-backend/internal/accounts/service"
)

type Handler struct {
	accounts *service.AccountService
}

func New(accounts *service.AccountService) *Handler {
	return &Handler{
		accounts: accounts,
	}
}

type signupRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Name         string `json:"name"`
	Password     string `json:"password"`
	IsGoogleUser bool   `json:"isGoogleUser"`
	IDToken      string `json:"idToken"`
}

type signinRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type forgetPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	ResetToken  string `json:"resetToken" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type updateUserRequest struct {
	Email        string  `json:"email" binding:"required,email"`
	ClubwiseURL  *string `json:"clubwise_URL"`
	BusinessName *string `json:"business_name"`
	Logo         *string `json:"logo"`
	FirstName    *string `json:"First_Name"`
	LastName     *string `json:"Last_Name"`
	Phone        *string `json:"phone"`
	Password     *string `json:"password"`
}

type settingsRequest struct {
	Email       string `json:"email" binding:"required,email"`
	CRMAPIKey   string `json:"CRM_API_Key" binding:"required"`
	CRMUsername string `json:"CRM_Username" binding:"required"`
	CRMPassword string `json:"CRM_Password" binding:"required"`
}

type userDataRequest struct {
	Email string `json:"email" binding:"required,email"`
}

package domain

import "time"

// User is an account record. The email is the natural key; UserID is an
// opaque id minted at signup and carried in issued tokens.
//
// Password, CRMPassword and the reset pair are never serialised to API
// responses.
type User struct {
	UserID       string `json:"userId" dynamodbav:"userId"`
	Email        string `json:"email" dynamodbav:"email"`
	Name         string `json:"name,omitempty" dynamodbav:"name,omitempty"`
	Password     string `json:"-" dynamodbav:"password,omitempty"`
	IsGoogleUser bool   `json:"isGoogleUser,omitempty" dynamodbav:"isGoogleUser,omitempty"`

	ResetToken       string `json:"-" dynamodbav:"resetToken,omitempty"`
	ResetTokenExpiry int64  `json:"-" dynamodbav:"resetTokenExpiry,omitempty"`

	ClubwiseURL  string `json:"Clubwise_URL,omitempty" dynamodbav:"Clubwise_URL,omitempty"`
	BusinessName string `json:"Business_name,omitempty" dynamodbav:"Business_name,omitempty"`
	Logo         string `json:"Logo,omitempty" dynamodbav:"Logo,omitempty"`
	FirstName    string `json:"First_Name,omitempty" dynamodbav:"First_Name,omitempty"`
	LastName     string `json:"Last_Name,omitempty" dynamodbav:"Last_Name,omitempty"`
	Phone        string `json:"phone,omitempty" dynamodbav:"phone,omitempty"`

	CRMAPIKey   string `json:"CRM_API_Key,omitempty" dynamodbav:"CRM_API_Key,omitempty"`
	CRMUsername string `json:"CRM_Username,omitempty" dynamodbav:"CRM_Username,omitempty"`
	CRMPassword string `json:"-" dynamodbav:"CRM_Password,omitempty"`
}

// HasPendingReset reports whether a reset window is open at now.
func (u *User) HasPendingReset(now time.Time) bool {
	return u.ResetToken != "" && u.ResetTokenExpiry >= now.UnixMilli()
}

type CreateUserRequest struct {
	Email        string
	Name         string
	Password     string
	IsGoogleUser bool
	IDToken      string
}

// ProfileUpdate carries the optional profile fields of an update. Nil
// fields are left untouched. PasswordHash is set by the service, never by
// callers of the HTTP layer.
type ProfileUpdate struct {
	ClubwiseURL  *string
	BusinessName *string
	Logo         *string
	FirstName    *string
	LastName     *string
	Phone        *string
	Password     *string
	PasswordHash *string
}

func (p ProfileUpdate) Empty() bool {
	return p.ClubwiseURL == nil && p.BusinessName == nil && p.Logo == nil &&
		p.FirstName == nil && p.LastName == nil && p.Phone == nil && p.PasswordHash == nil
}

type CRMCredentials struct {
	APIKey       string
	Username     string
	Password     string
	PasswordHash string
}

type SignInResult struct {
	Token string `json:"token"`
	Name  string `json:"name"`
}

type PasswordReset struct {
	Token  string
	Expiry time.Time
}

package entity

// AdminAuthRequest signs an admin in. The first admin is created on first sign-in.
type AdminAuthRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

package model

import "github.com/golang-jwt/jwt/v5"

// CreatorClaims are JWT claims for creator authentication
type CreatorClaims struct {
	CreatorID string `json:"creatorId"`
	jwt.RegisteredClaims
}

// RegisterRequest is the request body for creator sign-up
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest is the request body for creator login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned after register or login
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/bloodbank/app/models"
	"github.com/shashiranjanraj/bloodbank/app/services"
	"github.com/shashiranjanraj/bloodbank/config"
	"github.com/shashiranjanraj/bloodbank/pkg/bind"
	"github.com/shashiranjanraj/bloodbank/pkg/response"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(svc *services.Services) *AuthController {
	return &AuthController{auth: svc.Auth}
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresIn int64        `json:"expires_in"`
	User      *models.User `json:"user"`
}

// Register handles POST /api/auth/register.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := bind.JSON(w, r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	user, err := c.auth.Register(r.Context(), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, user)
}

// Login handles POST /api/auth/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := bind.JSON(w, r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	token, user, err := c.auth.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, tokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(config.JWTTTL().Seconds()),
		User:      user,
	})
}

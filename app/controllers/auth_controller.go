package controllers

import (
	"errors"
	"net/http"

	"github.com/telascatalogo/telas/app/models"
	"github.com/telascatalogo/telas/app/services"
	"github.com/telascatalogo/telas/pkg/auth"
	"github.com/telascatalogo/telas/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

type loginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginOutput struct {
	Token     string           `json:"token"`
	ExpiresIn int              `json:"expires_in"`
	User      models.AdminUser `json:"user"`
}

// Login exchanges admin credentials for a bearer token.
func (ac *AuthController) Login(c *ctx.Context) {
	var in loginInput
	if !c.BindJSON(&in) {
		return
	}

	token, admin, err := ac.service.Login(c.Context(), in.Username, in.Password)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Log().Info("auth: login rejected", "username", in.Username)
		c.Error(http.StatusUnauthorized, "Invalid credentials")
		return
	case err != nil:
		fail(c, err)
		return
	}
	c.Success(loginOutput{Token: token, ExpiresIn: int(auth.TokenTTL.Seconds()), User: admin})
}

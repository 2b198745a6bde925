package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/kashvi-shop/app/services"
	"github.com/shashiranjanraj/kashvi-shop/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Register handles POST /register.
func (a *AuthController) Register(c *ctx.Context) {
	var input services.Credentials
	if !c.BindJSON(&input) {
		return
	}

	if _, err := a.service.Register(c.Context(), input.Email, input.Password); err != nil {
		c.Fail(err)
		return
	}
	c.Message(http.StatusCreated, "User registered successfully")
}

// Login handles POST /login.
func (a *AuthController) Login(c *ctx.Context) {
	var input services.Credentials
	if !c.BindJSON(&input) {
		return
	}

	token, err := a.service.Login(c.Context(), input.Email, input.Password)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(map[string]string{"token": token})
}

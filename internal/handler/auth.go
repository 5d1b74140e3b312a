package handler

import (
	"net/http"

	"migapos/internal/dto"
	"migapos/internal/middleware"
	"migapos/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) CrearUsuario(c *gin.Context) {
	var req dto.CrearUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	resp, err := h.svc.CrearUsuario(c.Request.Context(), claims.TenantUUID(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) ListarUsuarios(c *gin.Context) {
	claims := middleware.GetClaims(c)
	resp, err := h.svc.ListarUsuarios(c.Request.Context(), claims.TenantUUID())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *AuthHandler) DesactivarUsuario(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	if err := h.svc.DesactivarUsuario(c.Request.Context(), claims.TenantUUID(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

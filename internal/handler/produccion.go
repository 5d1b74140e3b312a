package handler

import (
	"net/http"

	"migapos/internal/dto"
	"migapos/internal/middleware"
	"migapos/internal/service"

	"github.com/gin-gonic/gin"
)

type ProduccionHandler struct{ svc service.ProduccionService }

func NewProduccionHandler(svc service.ProduccionService) *ProduccionHandler {
	return &ProduccionHandler{svc: svc}
}

func (h *ProduccionHandler) Crear(c *gin.Context) {
	var req dto.CrearOrdenRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	resp, err := h.svc.Crear(c.Request.Context(), claims.TenantUUID(), claims.UserUUID(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProduccionHandler) Listar(c *gin.Context) {
	claims := middleware.GetClaims(c)
	ordenes, err := h.svc.Listar(c.Request.Context(), claims.TenantUUID())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OrdenListResponse{Data: ordenes})
}

func (h *ProduccionHandler) Detalle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Detalle(c.Request.Context(), claims.TenantUUID(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Completar ejecuta la orden: valida stock de todos los ingredientes, luego
// consume y suma la producción en una sola transacción.
func (h *ProduccionHandler) Completar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Completar(c.Request.Context(), claims.TenantUUID(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProduccionHandler) Cancelar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	if err := h.svc.Cancelar(c.Request.Context(), claims.TenantUUID(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

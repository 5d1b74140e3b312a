package handler

import (
	"net/http"
	"strconv"

	"migapos/internal/dto"
	"migapos/internal/middleware"
	"migapos/internal/service"

	"github.com/gin-gonic/gin"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler {
	return &VentasHandler{svc: svc}
}

func (h *VentasHandler) Crear(c *gin.Context) {
	var req dto.CrearVentaRequest
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

func (h *VentasHandler) Anular(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.AnularVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	resp, err := h.svc.Anular(c.Request.Context(), claims.TenantUUID(), id, req.Motivo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VentasHandler) Detalle(c *gin.Context) {
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

// Listar muestra todas las ventas del tenant a quien tenga sales.view_all;
// el resto solo ve las propias.
func (h *VentasHandler) Listar(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	claims := middleware.GetClaims(c)

	var (
		ventas []dto.VentaResponse
		err    error
	)
	if middleware.TienePermiso(claims.Rol, "sales.view_all") {
		ventas, err = h.svc.Recientes(c.Request.Context(), claims.TenantUUID(), limit)
	} else {
		ventas, err = h.svc.RecientesPropias(c.Request.Context(), claims.TenantUUID(), claims.UserUUID(), limit)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.VentaListResponse{Data: ventas})
}

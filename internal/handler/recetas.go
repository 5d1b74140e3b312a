package handler

import (
	"net/http"

	"migapos/internal/dto"
	"migapos/internal/middleware"
	"migapos/internal/service"

	"github.com/gin-gonic/gin"
)

type RecetasHandler struct{ svc service.RecetaService }

func NewRecetasHandler(svc service.RecetaService) *RecetasHandler {
	return &RecetasHandler{svc: svc}
}

// Crear registra una receta nueva y deja los campos de costo del producto
// destino al día.
func (h *RecetasHandler) Crear(c *gin.Context) {
	var req dto.UpsertRecetaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	resp, err := h.svc.Upsert(c.Request.Context(), claims.TenantUUID(), req, nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Actualizar reemplaza la receta completa, líneas incluidas.
func (h *RecetasHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpsertRecetaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	resp, err := h.svc.Upsert(c.Request.Context(), claims.TenantUUID(), req, &id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecetasHandler) Listar(c *gin.Context) {
	claims := middleware.GetClaims(c)
	recetas, err := h.svc.Listar(c.Request.Context(), claims.TenantUUID())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RecetaListResponse{Data: recetas})
}

func (h *RecetasHandler) Detalle(c *gin.Context) {
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

func (h *RecetasHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	if err := h.svc.Eliminar(c.Request.Context(), claims.TenantUUID(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Recalcular fuerza la propagación de costos desde un ingrediente, útil tras
// una carga masiva de precios.
func (h *RecetasHandler) Recalcular(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	n, err := h.svc.RecalcularPorIngrediente(c.Request.Context(), claims.TenantUUID(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RecalculoResponse{RecetasRecalculadas: n})
}

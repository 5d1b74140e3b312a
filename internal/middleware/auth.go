package middleware

import (
	"net/http"
	"strings"

	"migapos/internal/apierror"
	"migapos/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const ClaimsKey = "claims"

// JWTClaims are the custom claims embedded in every access token.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
	Rol      string `json:"rol"`
	jwt.RegisteredClaims
}

// UserUUID parses the user_id claim; uuid.Nil on a malformed token.
func (c *JWTClaims) UserUUID() uuid.UUID {
	id, _ := uuid.Parse(c.UserID)
	return id
}

// TenantUUID parses the tenant_id claim; uuid.Nil on a malformed token.
func (c *JWTClaims) TenantUUID() uuid.UUID {
	id, _ := uuid.Parse(c.TenantID)
	return id
}

// JWTAuth validates the Bearer token on every protected route.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticación requerida"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token inválido o expirado"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// Capability map: which roles may exercise each named permission. The role is
// the unit carried in the token; handlers and routes ask for capabilities.
var permisos = map[string][]string{
	"recipes.manage":  {model.RolAdmin},
	"recipes.view":    {model.RolAdmin, model.RolPanadero},
	"production.manage": {model.RolAdmin, model.RolPanadero},
	"production.view":   {model.RolAdmin, model.RolPanadero},

	"inventory.view":         {model.RolAdmin, model.RolCajero, model.RolPanadero},
	"inventory.create":       {model.RolAdmin},
	"inventory.edit":         {model.RolAdmin},
	"inventory.delete":       {model.RolAdmin},
	"inventory.adjust_stock": {model.RolAdmin},

	"sales.create":   {model.RolAdmin, model.RolCajero},
	"sales.annul":    {model.RolAdmin},
	"sales.view_all": {model.RolAdmin},
	"sales.view_own": {model.RolAdmin, model.RolCajero},

	"users.manage": {model.RolAdmin},
}

// TienePermiso reports whether the role carries the capability.
func TienePermiso(rol, permiso string) bool {
	for _, r := range permisos[permiso] {
		if r == rol {
			return true
		}
	}
	return false
}

// RequirePermission rejects requests whose JWT role lacks the capability.
func RequirePermission(permiso string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := c.MustGet(ClaimsKey).(*JWTClaims)
		if !ok || !TienePermiso(claims.Rol, permiso) {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permisos insuficientes"))
			return
		}
		c.Next()
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
func GetClaims(c *gin.Context) *JWTClaims {
	claims, _ := c.MustGet(ClaimsKey).(*JWTClaims)
	return claims
}

package handler

import (
	"errors"
	"net/http"
	"reflect"

	"migapos/internal/apierror"
	"migapos/internal/costing"
	"migapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails; the caller
// should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// parseID parses a :id path param; writes the 400 response on failure.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps domain errors to HTTP codes. Anything unrecognized is
// attached to the context for the ErrorHandler middleware to log and mask.
func respondError(c *gin.Context, err error) {
	var faltantes *service.StockInsuficienteError
	if errors.As(err, &faltantes) {
		c.JSON(http.StatusConflict, apierror.NewStock("Stock insuficiente", faltantes.Faltantes))
		return
	}

	switch {
	case errors.Is(err, service.ErrProductoNoEncontrado),
		errors.Is(err, service.ErrRecetaNoEncontrada),
		errors.Is(err, service.ErrOrdenNoEncontrada),
		errors.Is(err, service.ErrVentaNoEncontrada),
		errors.Is(err, service.ErrUsuarioNoEncontrado),
		errors.Is(err, service.ErrCategoriaNoEncontrada):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))

	case errors.Is(err, service.ErrOrdenNoPendiente),
		errors.Is(err, service.ErrVentaYaAnulada),
		errors.Is(err, service.ErrCajaYaAbierta),
		errors.Is(err, service.ErrCajaNoAbierta),
		errors.Is(err, service.ErrEmailEnUso):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))

	case errors.Is(err, service.ErrRecetaSinIngredientes),
		errors.Is(err, service.ErrRecetaIncompleta),
		errors.Is(err, service.ErrCantidadInvalida),
		errors.Is(err, service.ErrMargenInvalido),
		errors.Is(err, service.ErrTipoIngrediente),
		errors.Is(err, service.ErrTipoDestino),
		errors.Is(err, costing.ErrRendimientoInvalido):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))

	case errors.Is(err, service.ErrCredencialesInvalidas):
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))

	default:
		_ = c.Error(err)
	}
}

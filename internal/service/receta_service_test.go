package service

import (
	"context"
	"testing"

	"migapos/internal/costing"
	"migapos/internal/dto"
	"migapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tenant = uuid.New()

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

type recetaFixture struct {
	productos *stubProductoRepo
	recetas   *stubRecetaRepo
	svc       RecetaService

	harinaID uuid.UUID
	panID    uuid.UUID
}

func newRecetaFixture() *recetaFixture {
	productos := newStubProductoRepo()
	recetas := newStubRecetaRepo(productos)

	f := &recetaFixture{
		productos: productos,
		recetas:   recetas,
		svc:       NewRecetaService(recetas, productos),
	}
	f.harinaID = productos.agregar(model.Producto{
		TenantID:      tenant,
		Nombre:        "Harina",
		Tipo:          model.TipoIngrediente,
		CostoUnitario: d("500"),
		StockActual:   d("25"),
		UnidadMedida:  costing.UnidadKg,
		Activo:        true,
	})
	f.panID = productos.agregar(model.Producto{
		TenantID:     tenant,
		Nombre:       "Pan amasado",
		Tipo:         model.TipoProductoTerminado,
		PrecioVenta:  d("250"),
		UnidadMedida: costing.UnidadUnidades,
		Activo:       true,
	})
	return f
}

func (f *recetaFixture) upsertPan(t *testing.T) *dto.UpsertRecetaResponse {
	t.Helper()
	margen := d("30")
	resp, err := f.svc.Upsert(context.Background(), tenant, dto.UpsertRecetaRequest{
		ProductoID:  f.panID.String(),
		Nombre:      "Pan amasado",
		Rendimiento: d("10"),
		MargenDeseado: &margen,
		Ingredientes: []dto.IngredienteRecetaRequest{
			{IngredienteID: f.harinaID.String(), Cantidad: d("2.8")},
		},
	}, nil)
	require.NoError(t, err)
	return resp
}

func TestUpsertCalculaCostosYActualizaProducto(t *testing.T) {
	f := newRecetaFixture()

	resp := f.upsertPan(t)

	// 2.8 kg * 500 = 1400; 1400 / 10 = 140; 140 / (1 - 0.30) = 200
	assert.True(t, d("1400").Equal(resp.CostoTotal), "costo total: %s", resp.CostoTotal)
	assert.True(t, d("140").Equal(resp.CostoPorUnidad), "costo por unidad: %s", resp.CostoPorUnidad)
	assert.True(t, d("200").Equal(resp.PrecioSugerido), "precio sugerido: %s", resp.PrecioSugerido)

	pan := f.productos.productos[f.panID]
	assert.True(t, pan.TieneReceta)
	assert.True(t, d("140").Equal(pan.CostoReceta))
	assert.True(t, d("140").Equal(pan.CostoUnitario))
	assert.True(t, d("200").Equal(pan.PrecioSugerido))
	// Sin el flag explícito, el precio de venta vigente no se toca.
	assert.True(t, d("250").Equal(pan.PrecioVenta))
}

func TestUpsertConActualizarPrecioVenta(t *testing.T) {
	f := newRecetaFixture()

	margen := d("30")
	_, err := f.svc.Upsert(context.Background(), tenant, dto.UpsertRecetaRequest{
		ProductoID:            f.panID.String(),
		Nombre:                "Pan amasado",
		Rendimiento:           d("10"),
		MargenDeseado:         &margen,
		ActualizarPrecioVenta: true,
		Ingredientes: []dto.IngredienteRecetaRequest{
			{IngredienteID: f.harinaID.String(), Cantidad: d("2.8")},
		},
	}, nil)
	require.NoError(t, err)

	pan := f.productos.productos[f.panID]
	assert.True(t, d("200").Equal(pan.PrecioVenta))
}

func TestUpsertReemplazaLineasCompletas(t *testing.T) {
	f := newRecetaFixture()
	azucarID := f.productos.agregar(model.Producto{
		TenantID:      tenant,
		Nombre:        "Azúcar",
		Tipo:          model.TipoIngrediente,
		CostoUnitario: d("900"),
		UnidadMedida:  costing.UnidadKg,
		Activo:        true,
	})

	primera := f.upsertPan(t)
	recetaID := uuid.MustParse(primera.ID)

	_, err := f.svc.Upsert(context.Background(), tenant, dto.UpsertRecetaRequest{
		ProductoID:  f.panID.String(),
		Nombre:      "Pan amasado",
		Rendimiento: d("10"),
		Ingredientes: []dto.IngredienteRecetaRequest{
			{IngredienteID: azucarID.String(), Cantidad: d("1")},
		},
	}, &recetaID)
	require.NoError(t, err)

	lineas := f.recetas.lineas[recetaID]
	require.Len(t, lineas, 1)
	assert.Equal(t, azucarID, lineas[0].IngredienteID)
	assert.True(t, d("900").Equal(lineas[0].CostoLinea))
}

func TestUpsertValidaciones(t *testing.T) {
	f := newRecetaFixture()

	_, err := f.svc.Upsert(context.Background(), tenant, dto.UpsertRecetaRequest{
		ProductoID:   f.panID.String(),
		Nombre:       "Pan",
		Rendimiento:  d("0"),
		Ingredientes: []dto.IngredienteRecetaRequest{{IngredienteID: f.harinaID.String(), Cantidad: d("1")}},
	}, nil)
	assert.ErrorIs(t, err, costing.ErrRendimientoInvalido)

	_, err = f.svc.Upsert(context.Background(), tenant, dto.UpsertRecetaRequest{
		ProductoID:  f.panID.String(),
		Nombre:      "Pan",
		Rendimiento: d("10"),
	}, nil)
	assert.ErrorIs(t, err, ErrRecetaSinIngredientes)

	// Un producto terminado no puede aparecer como ingrediente.
	_, err = f.svc.Upsert(context.Background(), tenant, dto.UpsertRecetaRequest{
		ProductoID:   f.panID.String(),
		Nombre:       "Pan",
		Rendimiento:  d("10"),
		Ingredientes: []dto.IngredienteRecetaRequest{{IngredienteID: f.panID.String(), Cantidad: d("1")}},
	}, nil)
	assert.ErrorIs(t, err, ErrTipoIngrediente)

	// Un ingrediente puro no puede ser destino de receta.
	_, err = f.svc.Upsert(context.Background(), tenant, dto.UpsertRecetaRequest{
		ProductoID:   f.harinaID.String(),
		Nombre:       "Harina",
		Rendimiento:  d("10"),
		Ingredientes: []dto.IngredienteRecetaRequest{{IngredienteID: f.harinaID.String(), Cantidad: d("1")}},
	}, nil)
	assert.ErrorIs(t, err, ErrTipoDestino)
}

func TestRecalcularPorIngrediente(t *testing.T) {
	f := newRecetaFixture()
	resp := f.upsertPan(t)
	recetaID := uuid.MustParse(resp.ID)

	// Sube el costo de la harina 500 → 600.
	harina := f.productos.productos[f.harinaID]
	harina.CostoUnitario = d("600")
	f.productos.productos[f.harinaID] = harina

	n, err := f.svc.RecalcularPorIngrediente(context.Background(), tenant, f.harinaID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	receta := f.recetas.recetas[recetaID]
	assert.True(t, d("1680").Equal(receta.CostoTotal), "costo total: %s", receta.CostoTotal)
	assert.True(t, d("168").Equal(receta.CostoPorUnidad))

	pan := f.productos.productos[f.panID]
	assert.True(t, d("168").Equal(pan.CostoReceta))
	assert.True(t, d("168").Equal(pan.CostoUnitario))
	assert.True(t, d("240").Equal(pan.PrecioSugerido), "precio sugerido: %s", pan.PrecioSugerido)
	// La propagación jamás pisa el precio de venta vigente.
	assert.True(t, d("250").Equal(pan.PrecioVenta))
}

func TestRecalcularEsIdempotente(t *testing.T) {
	f := newRecetaFixture()
	resp := f.upsertPan(t)
	recetaID := uuid.MustParse(resp.ID)

	for i := 0; i < 2; i++ {
		n, err := f.svc.RecalcularPorIngrediente(context.Background(), tenant, f.harinaID)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	}

	receta := f.recetas.recetas[recetaID]
	assert.True(t, d("1400").Equal(receta.CostoTotal))
	assert.True(t, d("140").Equal(receta.CostoPorUnidad))
}

func TestRecalcularSinRecetasAfectadas(t *testing.T) {
	f := newRecetaFixture()

	n, err := f.svc.RecalcularPorIngrediente(context.Background(), tenant, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDetalleIncluyeCostoVivo(t *testing.T) {
	f := newRecetaFixture()
	resp := f.upsertPan(t)

	harina := f.productos.productos[f.harinaID]
	harina.CostoUnitario = d("600")
	f.productos.productos[f.harinaID] = harina

	detalle, err := f.svc.Detalle(context.Background(), tenant, uuid.MustParse(resp.ID))
	require.NoError(t, err)
	require.Len(t, detalle.Ingredientes, 1)

	linea := detalle.Ingredientes[0]
	// Snapshot de la línea intacto, costo vivo ya movido.
	assert.True(t, d("1400").Equal(linea.CostoLinea))
	assert.True(t, d("600").Equal(linea.CostoUnitarioActual))
}

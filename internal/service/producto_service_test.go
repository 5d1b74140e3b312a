package service

import (
	"context"
	"testing"

	"migapos/internal/costing"
	"migapos/internal/dto"
	"migapos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productoFixture struct {
	productos   *stubProductoRepo
	recetas     *stubRecetaRepo
	ventas      *stubVentaRepo
	movimientos *stubMovimientoRepo
	historial   *stubHistorialRepo
	svc         ProductoService
}

func newProductoFixture() *productoFixture {
	productos := newStubProductoRepo()
	recetas := newStubRecetaRepo(productos)
	ventas := newStubVentaRepo()
	movimientos := &stubMovimientoRepo{}
	historial := &stubHistorialRepo{}
	recetaSvc := NewRecetaService(recetas, productos)
	stockSvc := NewStockService(productos, movimientos)

	return &productoFixture{
		productos:   productos,
		recetas:     recetas,
		ventas:      ventas,
		movimientos: movimientos,
		historial:   historial,
		svc:         NewProductoService(productos, ventas, movimientos, historial, recetaSvc, stockSvc, nil),
	}
}

func (f *productoFixture) crearIngrediente(t *testing.T, nombre, costo, stock, unidad string) uuid.UUID {
	t.Helper()
	return f.productos.agregar(model.Producto{
		TenantID:      tenant,
		Nombre:        nombre,
		Tipo:          model.TipoIngrediente,
		CostoUnitario: d(costo),
		StockActual:   d(stock),
		UnidadMedida:  unidad,
		Activo:        true,
	})
}

func actualizarDesde(p model.Producto) dto.ActualizarProductoRequest {
	return dto.ActualizarProductoRequest{
		Nombre:        p.Nombre,
		Codigo:        p.Codigo,
		CostoUnitario: p.CostoUnitario,
		PrecioVenta:   p.PrecioVenta,
		StockMinimo:   p.StockMinimo,
		Tipo:          p.Tipo,
		UnidadMedida:  p.UnidadMedida,
	}
}

func TestActualizarCostoDisparaPropagacion(t *testing.T) {
	f := newProductoFixture()
	harinaID := f.crearIngrediente(t, "Harina", "500", "25", costing.UnidadKg)
	panID := f.productos.agregar(model.Producto{
		TenantID:     tenant,
		Nombre:       "Pan amasado",
		Tipo:         model.TipoProductoTerminado,
		PrecioVenta:  d("250"),
		UnidadMedida: costing.UnidadUnidades,
		Activo:       true,
	})

	recetaSvc := NewRecetaService(f.recetas, f.productos)
	_, err := recetaSvc.Upsert(context.Background(), tenant, dto.UpsertRecetaRequest{
		ProductoID:  panID.String(),
		Nombre:      "Pan amasado",
		Rendimiento: d("10"),
		Ingredientes: []dto.IngredienteRecetaRequest{
			{IngredienteID: harinaID.String(), Cantidad: d("4")},
		},
	}, nil)
	require.NoError(t, err)
	// 4 kg * 500 / 10 = 200 por unidad
	require.True(t, d("200").Equal(f.productos.productos[panID].CostoReceta))

	req := actualizarDesde(f.productos.productos[harinaID])
	req.CostoUnitario = d("600")
	_, err = f.svc.Actualizar(context.Background(), tenant, harinaID, req)
	require.NoError(t, err)

	// 4 kg * 600 / 10 = 240
	pan := f.productos.productos[panID]
	assert.True(t, d("240").Equal(pan.CostoReceta), "costo receta: %s", pan.CostoReceta)
	assert.True(t, d("240").Equal(pan.CostoUnitario))
	assert.True(t, d("250").Equal(pan.PrecioVenta))

	require.Len(t, f.historial.registros, 1)
	assert.True(t, d("500").Equal(f.historial.registros[0].CostoAntes))
	assert.True(t, d("600").Equal(f.historial.registros[0].CostoDespues))
	assert.Equal(t, "manual", f.historial.registros[0].Motivo)
}

func TestActualizarSinCambioDeCostoNoPropaga(t *testing.T) {
	f := newProductoFixture()
	harinaID := f.crearIngrediente(t, "Harina", "500", "25", costing.UnidadKg)

	req := actualizarDesde(f.productos.productos[harinaID])
	req.Nombre = "Harina de trigo"
	// Mismo valor con distinta representación textual: no es cambio.
	req.CostoUnitario = d("500.000")
	_, err := f.svc.Actualizar(context.Background(), tenant, harinaID, req)
	require.NoError(t, err)

	assert.Empty(t, f.historial.registros)
	assert.Equal(t, "Harina de trigo", f.productos.productos[harinaID].Nombre)
}

func TestActualizarConvierteUnidad(t *testing.T) {
	f := newProductoFixture()
	// 25 kg a 500 el kg.
	harinaID := f.crearIngrediente(t, "Harina", "500", "25", costing.UnidadKg)

	req := actualizarDesde(f.productos.productos[harinaID])
	req.UnidadMedida = costing.UnidadG
	_, err := f.svc.Actualizar(context.Background(), tenant, harinaID, req)
	require.NoError(t, err)

	harina := f.productos.productos[harinaID]
	assert.Equal(t, costing.UnidadG, harina.UnidadMedida)
	assert.True(t, d("25000").Equal(harina.StockActual), "stock: %s", harina.StockActual)
	assert.True(t, d("0.5").Equal(harina.CostoUnitario), "costo: %s", harina.CostoUnitario)

	require.Len(t, f.historial.registros, 1)
	assert.Equal(t, "conversion_unidad", f.historial.registros[0].Motivo)
}

func TestAjustarStockRegistraMovimiento(t *testing.T) {
	f := newProductoFixture()
	harinaID := f.crearIngrediente(t, "Harina", "500", "25", costing.UnidadKg)

	resp, err := f.svc.AjustarStock(context.Background(), tenant, harinaID, dto.AjustarStockRequest{
		Delta:  d("-5"),
		Motivo: "merma por humedad",
	})
	require.NoError(t, err)
	assert.True(t, d("20").Equal(resp.StockActual))

	require.Len(t, f.movimientos.movimientos, 1)
	mov := f.movimientos.movimientos[0]
	assert.Equal(t, model.MovAjusteManual, mov.Tipo)
	assert.True(t, d("-5").Equal(mov.Cantidad))
	assert.True(t, d("25").Equal(mov.StockAnterior))
	assert.True(t, d("20").Equal(mov.StockNuevo))
	assert.Equal(t, "merma por humedad", mov.Motivo)
}

func TestAjustarStockNegativoInsuficiente(t *testing.T) {
	f := newProductoFixture()
	harinaID := f.crearIngrediente(t, "Harina", "500", "3", costing.UnidadKg)

	_, err := f.svc.AjustarStock(context.Background(), tenant, harinaID, dto.AjustarStockRequest{
		Delta:  d("-10"),
		Motivo: "inventario anual",
	})

	var faltante *StockInsuficienteError
	require.ErrorAs(t, err, &faltante)
	assert.True(t, d("3").Equal(f.productos.productos[harinaID].StockActual))
}

func TestEliminarConVentasDesactiva(t *testing.T) {
	f := newProductoFixture()
	panID := f.productos.agregar(model.Producto{
		TenantID:    tenant,
		Nombre:      "Pan amasado",
		Tipo:        model.TipoProductoTerminado,
		PrecioVenta: d("250"),
		StockActual: d("10"),
		Activo:      true,
	})
	require.NoError(t, f.ventas.CreateTx(nil, &model.Venta{
		TenantID:   tenant,
		UsuarioID:  uuid.New(),
		MetodoPago: model.PagoEfectivo,
		Total:      d("250"),
		Estado:     "completada",
		Detalles:   []model.VentaDetalle{{ProductoID: panID, Cantidad: d("1"), PrecioUnitario: d("250"), Subtotal: d("250")}},
	}))

	require.NoError(t, f.svc.Eliminar(context.Background(), tenant, panID))

	// Referenciado por una venta: queda inactivo pero existe.
	p, ok := f.productos.productos[panID]
	require.True(t, ok)
	assert.False(t, p.Activo)
}

func TestEliminarSinVentasBorra(t *testing.T) {
	f := newProductoFixture()
	harinaID := f.crearIngrediente(t, "Harina", "500", "25", costing.UnidadKg)

	require.NoError(t, f.svc.Eliminar(context.Background(), tenant, harinaID))

	_, ok := f.productos.productos[harinaID]
	assert.False(t, ok)
}

func TestCatalogoPOSSoloVendibles(t *testing.T) {
	f := newProductoFixture()
	f.crearIngrediente(t, "Harina", "500", "25", costing.UnidadKg)
	f.productos.agregar(model.Producto{
		TenantID: tenant, Nombre: "Pan amasado", Tipo: model.TipoProductoTerminado, Activo: true,
	})
	f.productos.agregar(model.Producto{
		TenantID: tenant, Nombre: "Empanada", Tipo: model.TipoAmbos, Activo: true,
	})
	f.productos.agregar(model.Producto{
		TenantID: tenant, Nombre: "Torta vieja", Tipo: model.TipoProductoTerminado, Activo: false,
	})

	catalogo, err := f.svc.CatalogoPOS(context.Background(), tenant)
	require.NoError(t, err)
	require.Len(t, catalogo, 2)
	assert.Equal(t, "Empanada", catalogo[0].Nombre)
	assert.Equal(t, "Pan amasado", catalogo[1].Nombre)
}

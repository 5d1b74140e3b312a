package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"migapos/internal/dto"
	"migapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs. Services open transactions through DB(), which
// returns nil here, so runTx invokes the callback directly with a nil tx.

// ─── productos ───────────────────────────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]model.Producto
	// failCond simulates a store without the conditional decrement primitive.
	failCond error
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]model.Producto)}
}

func (s *stubProductoRepo) agregar(p model.Producto) uuid.UUID {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.productos[p.ID] = p
	return p.ID
}

func (s *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.productos[p.ID] = *p
	return nil
}

func (s *stubProductoRepo) FindByID(_ context.Context, _ uuid.UUID, id uuid.UUID) (*model.Producto, error) {
	p, ok := s.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := p
	return &copia, nil
}

func (s *stubProductoRepo) FindByIDs(_ context.Context, _ uuid.UUID, ids []uuid.UUID) ([]model.Producto, error) {
	out := make([]model.Producto, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.productos[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubProductoRepo) List(_ context.Context, _ uuid.UUID, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, p := range s.productos {
		if filter.Activo != "all" && filter.Activo != "false" && !p.Activo {
			continue
		}
		if filter.Activo == "false" && p.Activo {
			continue
		}
		if filter.Nombre != "" && !strings.Contains(strings.ToLower(p.Nombre), strings.ToLower(filter.Nombre)) {
			continue
		}
		if filter.BajoStock && !p.StockActual.LessThan(p.StockMinimo) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, int64(len(out)), nil
}

func (s *stubProductoRepo) ListCatalogoPOS(_ context.Context, _ uuid.UUID) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range s.productos {
		if p.Activo && (p.Tipo == model.TipoProductoTerminado || p.Tipo == model.TipoAmbos) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (s *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	s.productos[p.ID] = *p
	return nil
}

func (s *stubProductoRepo) SoftDelete(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	p, ok := s.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Activo = false
	s.productos[id] = p
	return nil
}

func (s *stubProductoRepo) HardDelete(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	delete(s.productos, id)
	return nil
}

func (s *stubProductoRepo) UpdateCamposTx(_ *gorm.DB, _ uuid.UUID, id uuid.UUID, campos map[string]interface{}) error {
	p, ok := s.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for campo, valor := range campos {
		switch campo {
		case "tiene_receta":
			p.TieneReceta = valor.(bool)
		case "costo_receta":
			p.CostoReceta = valor.(decimal.Decimal)
		case "precio_sugerido":
			p.PrecioSugerido = valor.(decimal.Decimal)
		case "costo_unitario":
			p.CostoUnitario = valor.(decimal.Decimal)
		case "margen_deseado":
			p.MargenDeseado = valor.(decimal.Decimal)
		case "precio_venta":
			p.PrecioVenta = valor.(decimal.Decimal)
		}
	}
	s.productos[id] = p
	return nil
}

func (s *stubProductoRepo) DescontarStockCondTx(_ *gorm.DB, _ uuid.UUID, id uuid.UUID, cantidad decimal.Decimal) (bool, error) {
	if s.failCond != nil {
		return false, s.failCond
	}
	p, ok := s.productos[id]
	if !ok {
		return false, nil
	}
	if p.StockActual.LessThan(cantidad) {
		return false, nil
	}
	p.StockActual = p.StockActual.Sub(cantidad)
	s.productos[id] = p
	return true, nil
}

func (s *stubProductoRepo) IncrementarStockTx(_ *gorm.DB, _ uuid.UUID, id uuid.UUID, delta decimal.Decimal) error {
	p, ok := s.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.StockActual = p.StockActual.Add(delta)
	s.productos[id] = p
	return nil
}

func (s *stubProductoRepo) SetStockTx(_ *gorm.DB, _ uuid.UUID, id uuid.UUID, stock decimal.Decimal) error {
	p, ok := s.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.StockActual = stock
	s.productos[id] = p
	return nil
}

func (s *stubProductoRepo) DB() *gorm.DB { return nil }

// ─── recetas ─────────────────────────────────────────────────────────────────

type stubRecetaRepo struct {
	recetas   map[uuid.UUID]model.Receta
	lineas    map[uuid.UUID][]model.RecetaIngrediente
	productos *stubProductoRepo
}

func newStubRecetaRepo(productos *stubProductoRepo) *stubRecetaRepo {
	return &stubRecetaRepo{
		recetas:   make(map[uuid.UUID]model.Receta),
		lineas:    make(map[uuid.UUID][]model.RecetaIngrediente),
		productos: productos,
	}
}

func (s *stubRecetaRepo) CreateTx(_ *gorm.DB, r *model.Receta) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	s.recetas[r.ID] = *r
	return nil
}

func (s *stubRecetaRepo) UpdateHeaderTx(_ *gorm.DB, r *model.Receta) error {
	existente, ok := s.recetas[r.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	existente.ProductoID = r.ProductoID
	existente.Nombre = r.Nombre
	existente.Descripcion = r.Descripcion
	existente.Instrucciones = r.Instrucciones
	existente.Rendimiento = r.Rendimiento
	existente.TiempoPreparacionMinutos = r.TiempoPreparacionMinutos
	existente.Activa = r.Activa
	s.recetas[r.ID] = existente
	return nil
}

func (s *stubRecetaRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.Receta, error) {
	return s.find(tenantID, id)
}

func (s *stubRecetaRepo) FindByIDTx(_ *gorm.DB, tenantID, id uuid.UUID) (*model.Receta, error) {
	return s.find(tenantID, id)
}

// find emula los Preload: carga las líneas con su ingrediente vivo y el
// producto destino.
func (s *stubRecetaRepo) find(_, id uuid.UUID) (*model.Receta, error) {
	r, ok := s.recetas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	lineas := make([]model.RecetaIngrediente, len(s.lineas[id]))
	copy(lineas, s.lineas[id])
	for i := range lineas {
		if p, ok := s.productos.productos[lineas[i].IngredienteID]; ok {
			copia := p
			lineas[i].Ingrediente = &copia
		}
	}
	sort.Slice(lineas, func(i, j int) bool { return lineas[i].Orden < lineas[j].Orden })
	r.Ingredientes = lineas
	if p, ok := s.productos.productos[r.ProductoID]; ok {
		copia := p
		r.Producto = &copia
	}
	return &r, nil
}

func (s *stubRecetaRepo) List(_ context.Context, _ uuid.UUID) ([]model.Receta, error) {
	var out []model.Receta
	for id := range s.recetas {
		r, _ := s.find(uuid.Nil, id)
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (s *stubRecetaRepo) SoftDelete(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	r, ok := s.recetas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.Activa = false
	s.recetas[id] = r
	return nil
}

func (s *stubRecetaRepo) DeleteIngredientesTx(_ *gorm.DB, recetaID uuid.UUID) error {
	delete(s.lineas, recetaID)
	return nil
}

func (s *stubRecetaRepo) InsertIngredientesTx(_ *gorm.DB, lineas []model.RecetaIngrediente) error {
	for _, l := range lineas {
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}
		s.lineas[l.RecetaID] = append(s.lineas[l.RecetaID], l)
	}
	return nil
}

func (s *stubRecetaRepo) UpdateCostoLineaTx(_ *gorm.DB, recetaID, ingredienteID uuid.UUID, costo decimal.Decimal) error {
	for i, l := range s.lineas[recetaID] {
		if l.IngredienteID == ingredienteID {
			s.lineas[recetaID][i].CostoLinea = costo
		}
	}
	return nil
}

func (s *stubRecetaRepo) UpdateCostosTx(_ *gorm.DB, recetaID uuid.UUID, total, porUnidad decimal.Decimal) error {
	r, ok := s.recetas[recetaID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.CostoTotal = total
	r.CostoPorUnidad = porUnidad
	s.recetas[recetaID] = r
	return nil
}

func (s *stubRecetaRepo) RecetaIDsPorIngrediente(_ context.Context, _ uuid.UUID, ingredienteID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for recetaID, lineas := range s.lineas {
		for _, l := range lineas {
			if l.IngredienteID == ingredienteID {
				ids = append(ids, recetaID)
				break
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

func (s *stubRecetaRepo) DB() *gorm.DB { return nil }

// ─── órdenes de producción ───────────────────────────────────────────────────

type stubProduccionRepo struct {
	ordenes   map[uuid.UUID]model.OrdenProduccion
	recetas   *stubRecetaRepo
	productos *stubProductoRepo
}

func newStubProduccionRepo(recetas *stubRecetaRepo, productos *stubProductoRepo) *stubProduccionRepo {
	return &stubProduccionRepo{
		ordenes:   make(map[uuid.UUID]model.OrdenProduccion),
		recetas:   recetas,
		productos: productos,
	}
}

func (s *stubProduccionRepo) Create(_ context.Context, o *model.OrdenProduccion) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	guardada := *o
	guardada.Receta = nil
	guardada.Producto = nil
	s.ordenes[o.ID] = guardada
	return nil
}

func (s *stubProduccionRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.OrdenProduccion, error) {
	return s.find(tenantID, id)
}

func (s *stubProduccionRepo) FindByIDTx(_ *gorm.DB, tenantID, id uuid.UUID) (*model.OrdenProduccion, error) {
	return s.find(tenantID, id)
}

func (s *stubProduccionRepo) find(tenantID, id uuid.UUID) (*model.OrdenProduccion, error) {
	o, ok := s.ordenes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if r, err := s.recetas.find(tenantID, o.RecetaID); err == nil {
		o.Receta = r
	}
	if p, ok := s.productos.productos[o.ProductoID]; ok {
		copia := p
		o.Producto = &copia
	}
	return &o, nil
}

func (s *stubProduccionRepo) List(_ context.Context, _ uuid.UUID) ([]model.OrdenProduccion, error) {
	var out []model.OrdenProduccion
	for _, o := range s.ordenes {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *stubProduccionRepo) ContarDesde(_ context.Context, _ uuid.UUID, desde time.Time) (int64, error) {
	var count int64
	for _, o := range s.ordenes {
		if !o.CreatedAt.Before(desde) {
			count++
		}
	}
	return count, nil
}

func (s *stubProduccionRepo) CancelarSiPendiente(_ context.Context, _ uuid.UUID, id uuid.UUID) (int64, error) {
	o, ok := s.ordenes[id]
	if !ok || o.Estado != model.OrdenPendiente {
		return 0, nil
	}
	o.Estado = model.OrdenCancelada
	s.ordenes[id] = o
	return 1, nil
}

func (s *stubProduccionRepo) CompletarTx(_ *gorm.DB, _ uuid.UUID, id uuid.UUID, cantidadProducida, costoIngredientes decimal.Decimal) error {
	o, ok := s.ordenes[id]
	if !ok || o.Estado != model.OrdenPendiente {
		return nil
	}
	ahora := time.Now()
	o.Estado = model.OrdenCompletada
	o.CantidadProducida = cantidadProducida
	o.CostoIngredientes = costoIngredientes
	o.FechaCompletada = &ahora
	s.ordenes[id] = o
	return nil
}

func (s *stubProduccionRepo) DB() *gorm.DB { return nil }

// ─── ventas ──────────────────────────────────────────────────────────────────

type stubVentaRepo struct {
	ventas map[uuid.UUID]model.Venta
	orden  []uuid.UUID
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]model.Venta)}
}

func (s *stubVentaRepo) CreateTx(_ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	for i := range v.Detalles {
		if v.Detalles[i].ID == uuid.Nil {
			v.Detalles[i].ID = uuid.New()
		}
		v.Detalles[i].VentaID = v.ID
	}
	s.ventas[v.ID] = *v
	s.orden = append(s.orden, v.ID)
	return nil
}

func (s *stubVentaRepo) FindByID(_ context.Context, _ uuid.UUID, id uuid.UUID) (*model.Venta, error) {
	v, ok := s.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := v
	return &copia, nil
}

func (s *stubVentaRepo) Recientes(_ context.Context, _ uuid.UUID, limit int) ([]model.Venta, error) {
	var out []model.Venta
	for i := len(s.orden) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.ventas[s.orden[i]])
	}
	return out, nil
}

func (s *stubVentaRepo) RecientesPorUsuario(_ context.Context, _ uuid.UUID, usuarioID uuid.UUID, limit int) ([]model.Venta, error) {
	var out []model.Venta
	for i := len(s.orden) - 1; i >= 0 && len(out) < limit; i-- {
		if v := s.ventas[s.orden[i]]; v.UsuarioID == usuarioID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *stubVentaRepo) UpdateEstadoTx(_ *gorm.DB, _ uuid.UUID, id uuid.UUID, estado string) error {
	v, ok := s.ventas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Estado = estado
	s.ventas[id] = v
	return nil
}

func (s *stubVentaRepo) ContarPorProducto(_ context.Context, productoID uuid.UUID) (int64, error) {
	var count int64
	for _, v := range s.ventas {
		for _, d := range v.Detalles {
			if d.ProductoID == productoID {
				count++
			}
		}
	}
	return count, nil
}

func (s *stubVentaRepo) ResumenPorMetodo(_ context.Context, _ uuid.UUID, arqueoID uuid.UUID) (map[string]decimal.Decimal, error) {
	resumen := make(map[string]decimal.Decimal)
	for _, v := range s.ventas {
		if v.ArqueoID == nil || *v.ArqueoID != arqueoID || v.Estado != "completada" {
			continue
		}
		resumen[v.MetodoPago] = resumen[v.MetodoPago].Add(v.Total)
	}
	return resumen, nil
}

func (s *stubVentaRepo) DB() *gorm.DB { return nil }

// ─── ledgers inmutables ──────────────────────────────────────────────────────

type stubMovimientoRepo struct {
	movimientos []model.MovimientoStock
}

func (s *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	s.movimientos = append(s.movimientos, *m)
	return nil
}

func (s *stubMovimientoRepo) ListPorProducto(_ context.Context, _ uuid.UUID, productoID uuid.UUID, limit int) ([]model.MovimientoStock, error) {
	var out []model.MovimientoStock
	for i := len(s.movimientos) - 1; i >= 0 && len(out) < limit; i-- {
		if s.movimientos[i].ProductoID == productoID {
			out = append(out, s.movimientos[i])
		}
	}
	return out, nil
}

type stubHistorialRepo struct {
	registros []model.HistorialCosto
}

func (s *stubHistorialRepo) Create(_ context.Context, h *model.HistorialCosto) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	h.CreatedAt = time.Now()
	s.registros = append(s.registros, *h)
	return nil
}

func (s *stubHistorialRepo) ListPorProducto(_ context.Context, _ uuid.UUID, productoID uuid.UUID, limit int) ([]model.HistorialCosto, error) {
	var out []model.HistorialCosto
	for i := len(s.registros) - 1; i >= 0 && len(out) < limit; i-- {
		if s.registros[i].ProductoID == productoID {
			out = append(out, s.registros[i])
		}
	}
	return out, nil
}

// ─── caja ────────────────────────────────────────────────────────────────────

type stubCajaRepo struct {
	arqueos map[uuid.UUID]model.ArqueoCaja
}

func newStubCajaRepo() *stubCajaRepo {
	return &stubCajaRepo{arqueos: make(map[uuid.UUID]model.ArqueoCaja)}
}

func (s *stubCajaRepo) Create(_ context.Context, a *model.ArqueoCaja) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	s.arqueos[a.ID] = *a
	return nil
}

func (s *stubCajaRepo) FindByID(_ context.Context, _ uuid.UUID, id uuid.UUID) (*model.ArqueoCaja, error) {
	a, ok := s.arqueos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := a
	return &copia, nil
}

func (s *stubCajaRepo) FindAbiertoPorUsuario(_ context.Context, _ uuid.UUID, usuarioID uuid.UUID) (*model.ArqueoCaja, error) {
	for _, a := range s.arqueos {
		if a.UsuarioID == usuarioID && a.Estado == "abierto" {
			copia := a
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCajaRepo) Update(_ context.Context, a *model.ArqueoCaja) error {
	s.arqueos[a.ID] = *a
	return nil
}

func (s *stubCajaRepo) Historial(_ context.Context, _ uuid.UUID, limit int) ([]model.ArqueoCaja, error) {
	var out []model.ArqueoCaja
	for _, a := range s.arqueos {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FechaApertura.After(out[j].FechaApertura) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ─── usuarios ────────────────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]model.Usuario)}
}

func (s *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	s.usuarios[u.ID] = *u
	return nil
}

func (s *stubUsuarioRepo) FindByEmail(_ context.Context, email string) (*model.Usuario, error) {
	for _, u := range s.usuarios {
		if u.Email == email && u.Activo {
			copia := u
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsuarioRepo) FindByID(_ context.Context, _ uuid.UUID, id uuid.UUID) (*model.Usuario, error) {
	u, ok := s.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := u
	return &copia, nil
}

func (s *stubUsuarioRepo) List(_ context.Context, _ uuid.UUID) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range s.usuarios {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NombreCompleto < out[j].NombreCompleto })
	return out, nil
}

func (s *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	s.usuarios[u.ID] = *u
	return nil
}

func (s *stubUsuarioRepo) SoftDelete(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	u, ok := s.usuarios[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Activo = false
	s.usuarios[id] = u
	return nil
}

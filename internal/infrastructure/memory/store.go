// Package memory implementa los puertos de persistencia sobre mapas en
// memoria, con transacciones por snapshot. Se usa en los tests de casos de
// uso; el backend real es internal/infrastructure/postgres.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/PuntoVenta-api/internal/application/sales"
	"github.com/jhoicas/PuntoVenta-api/internal/application/stock"
	"github.com/jhoicas/PuntoVenta-api/internal/application/till"
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/numbering"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
)

// Store guarda el estado completo del sistema en memoria. Las entidades se
// almacenan por valor; los getters devuelven copias para que el caller no
// mute el estado compartido sin pasar por Update.
type Store struct {
	mu sync.RWMutex

	products       map[string]entity.Product
	stockMovements []entity.StockMovement
	sessions       map[string]entity.CashSession
	cashMovements  []entity.CashMovement
	sales          map[string]entity.Sale
	saleItems      []entity.SaleItem
	users          map[string]entity.User
	categories     map[string]entity.Category
	customers      map[string]entity.Customer
	suppliers      map[string]entity.Supplier
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		products:   map[string]entity.Product{},
		sessions:   map[string]entity.CashSession{},
		sales:      map[string]entity.Sale{},
		users:      map[string]entity.User{},
		categories: map[string]entity.Category{},
		customers:  map[string]entity.Customer{},
		suppliers:  map[string]entity.Supplier{},
	}
}

// snapshot es una copia profunda del estado, para rollback por restauración.
type snapshot struct {
	products       map[string]entity.Product
	stockMovements []entity.StockMovement
	sessions       map[string]entity.CashSession
	cashMovements  []entity.CashMovement
	sales          map[string]entity.Sale
	saleItems      []entity.SaleItem
}

func (s *Store) takeSnapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		products:       cloneMap(s.products),
		stockMovements: cloneSlice(s.stockMovements),
		sessions:       cloneMap(s.sessions),
		cashMovements:  cloneSlice(s.cashMovements),
		sales:          cloneMap(s.sales),
		saleItems:      cloneSlice(s.saleItems),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.stockMovements = snap.stockMovements
	s.sessions = snap.sessions
	s.cashMovements = snap.cashMovements
	s.sales = snap.sales
	s.saleItems = snap.saleItems
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneSlice[V any](in []V) []V {
	out := make([]V, len(in))
	copy(out, in)
	return out
}

// Accesores a los repositorios atados al Store.

func (s *Store) Products() repository.ProductRepository           { return &productStore{s} }
func (s *Store) StockMovements() repository.StockMovementRepository { return &stockMovementStore{s} }
func (s *Store) Sessions() repository.CashSessionRepository       { return &cashSessionStore{s} }
func (s *Store) CashMovements() repository.CashMovementRepository { return &cashMovementStore{s} }
func (s *Store) Sales() repository.SaleRepository                 { return &saleStore{s} }
func (s *Store) Users() repository.UserRepository                 { return &userStore{s} }
func (s *Store) Categories() repository.CategoryRepository        { return &categoryStore{s} }
func (s *Store) Customers() repository.CustomerRepository         { return &customerStore{s} }
func (s *Store) Suppliers() repository.SupplierRepository         { return &supplierStore{s} }

// Los tres puertos de transacción se implementan con snapshot + restore: si
// fn falla, el estado vuelve exactamente al punto anterior, igual que un
// rollback de BD.

var (
	_ stock.TxRunner = (*Store)(nil)
	_ till.TxRunner  = (*Store)(nil)
	_ sales.TxRunner = (*Store)(nil)
)

func (s *Store) RunStock(_ context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	snap := s.takeSnapshot()
	if err := fn(s.Products(), s.StockMovements()); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *Store) RunTill(_ context.Context, fn func(
	sessionRepo repository.CashSessionRepository,
	movRepo repository.CashMovementRepository,
) error) error {
	snap := s.takeSnapshot()
	if err := fn(s.Sessions(), s.CashMovements()); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *Store) RunSale(_ context.Context, fn func(
	productRepo repository.ProductRepository,
	stockMovRepo repository.StockMovementRepository,
	saleRepo repository.SaleRepository,
	sessionRepo repository.CashSessionRepository,
	cashMovRepo repository.CashMovementRepository,
) error) error {
	snap := s.takeSnapshot()
	if err := fn(s.Products(), s.StockMovements(), s.Sales(), s.Sessions(), s.CashMovements()); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func matches(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func paginate[V any](in []V, limit, offset int) []V {
	if offset >= len(in) {
		return []V{}
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}

// ---- productos ----

type productStore struct{ s *Store }

func (r *productStore) Create(p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.products {
		if existing.Code == p.Code {
			return domain.ErrDuplicate
		}
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *productStore) GetByID(id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *productStore) GetByCode(code string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.products {
		if p.Code == code {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *productStore) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *productStore) Update(p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrProductNotFound
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *productStore) UpdateStock(productID string, stock int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[productID]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.Stock = stock
	r.s.products[productID] = p
	return nil
}

func (r *productStore) List(search, categoryID string, onlyActive bool, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entity.Product
	for _, p := range r.s.products {
		if onlyActive && !p.Active {
			continue
		}
		if categoryID != "" && p.CategoryID != categoryID {
			continue
		}
		if !matches(search, p.Name, p.Code) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return toPointers(paginate(out, limit, offset)), nil
}

func (r *productStore) ListLowStock(limit, offset int) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entity.Product
	for _, p := range r.s.products {
		if p.Active && p.Stock <= p.MinStock {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return toPointers(paginate(out, limit, offset)), nil
}

func (r *productStore) Deactivate(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.Active = false
	r.s.products[id] = p
	return nil
}

func toPointers[V any](in []V) []*V {
	out := make([]*V, len(in))
	for i := range in {
		out[i] = &in[i]
	}
	return out
}

// ---- movimientos de stock ----

type stockMovementStore struct{ s *Store }

func (r *stockMovementStore) Create(m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stockMovements = append(r.s.stockMovements, *m)
	return nil
}

func (r *stockMovementStore) ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	return r.List(productID, "", limit, offset)
}

func (r *stockMovementStore) List(productID, kind string, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entity.StockMovement
	for i := len(r.s.stockMovements) - 1; i >= 0; i-- {
		m := r.s.stockMovements[i]
		if productID != "" && m.ProductID != productID {
			continue
		}
		if kind != "" && m.Kind != kind {
			continue
		}
		out = append(out, m)
	}
	return toPointers(paginate(out, limit, offset)), nil
}

// ---- turnos de caja ----

type cashSessionStore struct{ s *Store }

func (r *cashSessionStore) Create(session *entity.CashSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.sessions {
		if existing.Number == session.Number {
			return domain.ErrNumberConflict
		}
		if session.Status == entity.SessionOpen && existing.Status == entity.SessionOpen {
			return domain.ErrSessionAlreadyOpen
		}
	}
	r.s.sessions[session.ID] = *session
	return nil
}

func (r *cashSessionStore) GetByID(id string) (*entity.CashSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	s, ok := r.s.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *cashSessionStore) GetOpen() (*entity.CashSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, s := range r.s.sessions {
		if s.Status == entity.SessionOpen {
			cp := s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *cashSessionStore) GetOpenForUpdate() (*entity.CashSession, error) {
	return r.GetOpen()
}

func (r *cashSessionStore) NextNumber() (string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var last int64
	for _, s := range r.s.sessions {
		if seq, err := numbering.Parse(entity.SessionNumberPrefix, s.Number); err == nil && seq > last {
			last = seq
		}
	}
	return numbering.Format(entity.SessionNumberPrefix, last+1), nil
}

func (r *cashSessionStore) Update(session *entity.CashSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.sessions[session.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.sessions[session.ID] = *session
	return nil
}

func (r *cashSessionStore) ListClosed(limit, offset int) ([]*entity.CashSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entity.CashSession
	for _, s := range r.s.sessions {
		if s.Status == entity.SessionClosed {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenedAt.After(out[j].OpenedAt) })
	return toPointers(paginate(out, limit, offset)), nil
}

// ---- movimientos de caja ----

type cashMovementStore struct{ s *Store }

func (r *cashMovementStore) Create(m *entity.CashMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.cashMovements = append(r.s.cashMovements, *m)
	return nil
}

func (r *cashMovementStore) ListBySession(sessionID string) ([]*entity.CashMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entity.CashMovement
	for _, m := range r.s.cashMovements {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return toPointers(out), nil
}

func (r *cashMovementStore) SumBySession(sessionID string) (in, out decimal.Decimal, err error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	in, out = decimal.Zero, decimal.Zero
	for _, m := range r.s.cashMovements {
		if m.SessionID != sessionID {
			continue
		}
		switch m.Kind {
		case entity.CashIn:
			in = in.Add(m.Amount)
		case entity.CashOut:
			out = out.Add(m.Amount)
		}
	}
	return in, out, nil
}

func (r *cashMovementStore) SumBySessionAndMethod(sessionID string) (map[string]decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	totals := map[string]decimal.Decimal{}
	for _, m := range r.s.cashMovements {
		if m.SessionID != sessionID || m.Kind != entity.CashIn {
			continue
		}
		totals[m.PaymentMethod] = totals[m.PaymentMethod].Add(m.Amount)
	}
	return totals, nil
}

// ---- ventas ----

type saleStore struct{ s *Store }

func (r *saleStore) Create(sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.sales {
		if existing.Number == sale.Number {
			return domain.ErrNumberConflict
		}
	}
	r.s.sales[sale.ID] = *sale
	return nil
}

func (r *saleStore) CreateItem(item *entity.SaleItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.saleItems = append(r.s.saleItems, *item)
	return nil
}

func (r *saleStore) GetByID(id string) (*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	return &sale, nil
}

func (r *saleStore) GetForUpdate(id string) (*entity.Sale, error) {
	return r.GetByID(id)
}

func (r *saleStore) GetItems(saleID string) ([]*entity.SaleItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entity.SaleItem
	for _, it := range r.s.saleItems {
		if it.SaleID == saleID {
			out = append(out, it)
		}
	}
	return toPointers(out), nil
}

func (r *saleStore) NextNumber() (string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var last int64
	for _, sale := range r.s.sales {
		if seq, err := numbering.Parse(entity.SaleNumberPrefix, sale.Number); err == nil && seq > last {
			last = seq
		}
	}
	return numbering.Format(entity.SaleNumberPrefix, last+1), nil
}

func (r *saleStore) UpdateStatus(saleID, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sale, ok := r.s.sales[saleID]
	if !ok {
		return domain.ErrSaleNotFound
	}
	sale.Status = status
	r.s.sales[saleID] = sale
	return nil
}

func (r *saleStore) List(from, to *time.Time, status string, limit, offset int) ([]*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entity.Sale
	for _, sale := range r.s.sales {
		if from != nil && sale.Date.Before(*from) {
			continue
		}
		if to != nil && sale.Date.After(*to) {
			continue
		}
		if status != "" && sale.Status != status {
			continue
		}
		out = append(out, sale)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return toPointers(paginate(out, limit, offset)), nil
}

// ---- usuarios ----

type userStore struct{ s *Store }

func (r *userStore) Create(u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *userStore) GetByID(id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userStore) FindByEmail(email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *userStore) Update(u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.s.users[u.ID] = *u
	return nil
}

// ---- categorías ----

type categoryStore struct{ s *Store }

func (r *categoryStore) Create(c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.categories {
		if existing.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	r.s.categories[c.ID] = *c
	return nil
}

func (r *categoryStore) GetByID(id string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *categoryStore) List(onlyActive bool) ([]*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entity.Category
	for _, c := range r.s.categories {
		if onlyActive && !c.Active {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return toPointers(out), nil
}

func (r *categoryStore) Update(c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.categories[c.ID] = *c
	return nil
}

// ---- clientes ----

type customerStore struct{ s *Store }

func (r *customerStore) Create(c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.customers[c.ID] = *c
	return nil
}

func (r *customerStore) GetByID(id string) (*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *customerStore) List(search string, limit, offset int) ([]*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entity.Customer
	for _, c := range r.s.customers {
		if !c.Active || !matches(search, c.Name, c.TaxID, c.Phone) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return toPointers(paginate(out, limit, offset)), nil
}

func (r *customerStore) Update(c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.customers[c.ID] = *c
	return nil
}

func (r *customerStore) Deactivate(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Active = false
	r.s.customers[id] = c
	return nil
}

// ---- proveedores ----

type supplierStore struct{ s *Store }

func (r *supplierStore) Create(sp *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.suppliers[sp.ID] = *sp
	return nil
}

func (r *supplierStore) GetByID(id string) (*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sp, ok := r.s.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &sp, nil
}

func (r *supplierStore) List(search string, limit, offset int) ([]*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []entity.Supplier
	for _, sp := range r.s.suppliers {
		if !sp.Active || !matches(search, sp.Name, sp.TaxID, sp.Phone) {
			continue
		}
		out = append(out, sp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return toPointers(paginate(out, limit, offset)), nil
}

func (r *supplierStore) Update(sp *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.suppliers[sp.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.suppliers[sp.ID] = *sp
	return nil
}

func (r *supplierStore) Deactivate(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sp, ok := r.s.suppliers[id]
	if !ok {
		return domain.ErrNotFound
	}
	sp.Active = false
	r.s.suppliers[id] = sp
	return nil
}

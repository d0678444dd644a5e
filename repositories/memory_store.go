package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"cart-shop/models"

	"github.com/google/uuid"
)

// MemoryStore keeps every table in process memory. Transactions are
// serialised on a single mutex and roll back by restoring a snapshot.
type MemoryStore struct {
	mu    *sync.Mutex
	state *memoryState
	inTx  bool
}

type memoryState struct {
	data *memoryData
}

type memoryData struct {
	users     map[int]models.User
	profiles  map[int]models.Profile
	addresses map[int]models.Address
	products  map[int]models.Product
	shipping  map[int]models.ShippingOption
	carts     map[int]*models.Cart
	orders    map[int]models.Order
	seq       map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mu: &sync.Mutex{},
		state: &memoryState{data: &memoryData{
			users:     map[int]models.User{},
			profiles:  map[int]models.Profile{},
			addresses: map[int]models.Address{},
			products:  map[int]models.Product{},
			shipping:  map[int]models.ShippingOption{},
			carts:     map[int]*models.Cart{},
			orders:    map[int]models.Order{},
			seq:       map[string]int{},
		}},
	}
}

func (d *memoryData) next(table string) int {
	d.seq[table]++
	return d.seq[table]
}

func (d *memoryData) clone() *memoryData {
	cp := &memoryData{
		users:     make(map[int]models.User, len(d.users)),
		profiles:  make(map[int]models.Profile, len(d.profiles)),
		addresses: make(map[int]models.Address, len(d.addresses)),
		products:  make(map[int]models.Product, len(d.products)),
		shipping:  make(map[int]models.ShippingOption, len(d.shipping)),
		carts:     make(map[int]*models.Cart, len(d.carts)),
		orders:    make(map[int]models.Order, len(d.orders)),
		seq:       make(map[string]int, len(d.seq)),
	}
	for k, v := range d.users {
		cp.users[k] = v
	}
	for k, v := range d.profiles {
		cp.profiles[k] = v
	}
	for k, v := range d.addresses {
		cp.addresses[k] = v
	}
	for k, v := range d.products {
		cp.products[k] = v
	}
	for k, v := range d.shipping {
		cp.shipping[k] = v
	}
	for k, v := range d.carts {
		cp.carts[k] = v.Clone()
	}
	for k, v := range d.orders {
		v.Items = append([]models.OrderItem(nil), v.Items...)
		cp.orders[k] = v
	}
	for k, v := range d.seq {
		cp.seq[k] = v
	}
	return cp
}

func (s *MemoryStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *MemoryStore) data() *memoryData {
	return s.state.data
}

func (s *MemoryStore) Users() UserRepository { return memoryUsers{s} }
func (s *MemoryStore) Profiles() ProfileRepository { return memoryProfiles{s} }
func (s *MemoryStore) Products() ProductRepository { return memoryProducts{s} }
func (s *MemoryStore) Shipping() ShippingRepository { return memoryShipping{s} }
func (s *MemoryStore) Carts() CartRepository { return memoryCarts{s} }
func (s *MemoryStore) Orders() OrderRepository { return memoryOrders{s} }

func (s *MemoryStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	if s.inTx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.data.clone()
	if err := fn(&MemoryStore{mu: s.mu, state: s.state, inTx: true}); err != nil {
		s.state.data = snapshot
		return err
	}
	if err := ctx.Err(); err != nil {
		s.state.data = snapshot
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func notFound(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{models.ErrNotFound}, args...)...)
}

func conflict(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{models.ErrConflict}, args...)...)
}

// deleteCustomer removes everything that cascades from a profile.
func (d *memoryData) deleteCustomer(userID int) {
	delete(d.profiles, userID)
	for id, a := range d.addresses {
		if a.UserID == userID {
			delete(d.addresses, id)
		}
	}
	for id, c := range d.carts {
		if c.CustomerID == userID {
			delete(d.carts, id)
		}
	}
	for id, o := range d.orders {
		if o.CustomerID == userID {
			delete(d.orders, id)
		}
	}
}

type memoryUsers struct{ s *MemoryStore }

func (m memoryUsers) Create(ctx context.Context, user *models.User) error {
	defer m.s.lock()()
	d := m.s.data()
	for _, u := range d.users {
		if strings.EqualFold(u.Email, user.Email) || u.Username == user.Username {
			return conflict("user already exists")
		}
	}
	now := time.Now()
	user.ID = d.next("users")
	user.CreatedAt, user.UpdatedAt = now, now
	d.users[user.ID] = *user
	return nil
}

func (m memoryUsers) FindByID(ctx context.Context, id int) (*models.User, error) {
	defer m.s.lock()()
	u, ok := m.s.data().users[id]
	if !ok {
		return nil, notFound("user %d", id)
	}
	return &u, nil
}

func (m memoryUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	defer m.s.lock()()
	for _, u := range m.s.data().users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, notFound("user")
}

func (m memoryUsers) List(ctx context.Context) ([]models.User, error) {
	defer m.s.lock()()
	users := []models.User{}
	for _, u := range m.s.data().users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m memoryUsers) Delete(ctx context.Context, id int) error {
	defer m.s.lock()()
	d := m.s.data()
	if _, ok := d.users[id]; !ok {
		return notFound("user %d", id)
	}
	delete(d.users, id)
	d.deleteCustomer(id)
	return nil
}

type memoryProfiles struct{ s *MemoryStore }

func (m memoryProfiles) Create(ctx context.Context, profile *models.Profile) error {
	defer m.s.lock()()
	d := m.s.data()
	if _, ok := d.users[profile.UserID]; !ok {
		return notFound("user %d", profile.UserID)
	}
	if _, ok := d.profiles[profile.UserID]; ok {
		return conflict("profile %d already exists", profile.UserID)
	}
	if profile.RegisteredAt.IsZero() {
		profile.RegisteredAt = time.Now()
	}
	profile.UpdatedAt = time.Now()
	stored := *profile
	stored.Addresses = nil
	d.profiles[profile.UserID] = stored
	return nil
}

func (m memoryProfiles) FindByUserID(ctx context.Context, userID int) (*models.Profile, error) {
	defer m.s.lock()()
	p, ok := m.s.data().profiles[userID]
	if !ok {
		return nil, notFound("profile %d", userID)
	}
	return &p, nil
}

func (m memoryProfiles) List(ctx context.Context) ([]models.Profile, error) {
	defer m.s.lock()()
	profiles := []models.Profile{}
	for _, p := range m.s.data().profiles {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].UserID < profiles[j].UserID })
	return profiles, nil
}

func (m memoryProfiles) Update(ctx context.Context, profile *models.Profile) error {
	defer m.s.lock()()
	d := m.s.data()
	if _, ok := d.profiles[profile.UserID]; !ok {
		return notFound("profile %d", profile.UserID)
	}
	profile.UpdatedAt = time.Now()
	stored := *profile
	stored.Addresses = nil
	d.profiles[profile.UserID] = stored
	return nil
}

func (m memoryProfiles) Delete(ctx context.Context, userID int) error {
	defer m.s.lock()()
	d := m.s.data()
	if _, ok := d.profiles[userID]; !ok {
		return notFound("profile %d", userID)
	}
	d.deleteCustomer(userID)
	return nil
}

func (m memoryProfiles) CreateAddress(ctx context.Context, address *models.Address) error {
	defer m.s.lock()()
	d := m.s.data()
	if _, ok := d.profiles[address.UserID]; !ok {
		return notFound("profile %d", address.UserID)
	}
	address.ID = d.next("addresses")
	address.CreatedAt = time.Now()
	d.addresses[address.ID] = *address
	return nil
}

func (m memoryProfiles) FindAddress(ctx context.Context, id int) (*models.Address, error) {
	defer m.s.lock()()
	a, ok := m.s.data().addresses[id]
	if !ok {
		return nil, notFound("address %d", id)
	}
	return &a, nil
}

func (m memoryProfiles) ListAddresses(ctx context.Context, userID int) ([]models.Address, error) {
	defer m.s.lock()()
	return m.listAddresses(userID), nil
}

func (m memoryProfiles) listAddresses(userID int) []models.Address {
	addresses := []models.Address{}
	for _, a := range m.s.data().addresses {
		if userID == 0 || a.UserID == userID {
			addresses = append(addresses, a)
		}
	}
	sort.Slice(addresses, func(i, j int) bool { return addresses[i].ID < addresses[j].ID })
	return addresses
}

func (m memoryProfiles) FirstAddress(ctx context.Context, userID int) (*models.Address, error) {
	defer m.s.lock()()
	addresses := m.listAddresses(userID)
	if len(addresses) == 0 {
		return nil, notFound("address for customer %d", userID)
	}
	return &addresses[0], nil
}

func (m memoryProfiles) UpdateAddress(ctx context.Context, address *models.Address) error {
	defer m.s.lock()()
	d := m.s.data()
	if _, ok := d.addresses[address.ID]; !ok {
		return notFound("address %d", address.ID)
	}
	d.addresses[address.ID] = *address
	return nil
}

func (m memoryProfiles) DeleteAddress(ctx context.Context, id int) error {
	defer m.s.lock()()
	d := m.s.data()
	if _, ok := d.addresses[id]; !ok {
		return notFound("address %d", id)
	}
	delete(d.addresses, id)
	return nil
}

type memoryProducts struct{ s *MemoryStore }

func (m memoryProducts) Create(ctx context.Context, product *models.Product) error {
	defer m.s.lock()()
	d := m.s.data()
	if product.UUID == uuid.Nil {
		product.UUID = uuid.New()
	}
	for _, p := range d.products {
		if p.UUID == product.UUID || strings.EqualFold(p.Name, product.Name) {
			return conflict("product %q already exists", product.Name)
		}
	}
	now := time.Now()
	product.ID = d.next("products")
	product.CreatedAt, product.UpdatedAt = now, now
	d.products[product.ID] = *product
	return nil
}

func (m memoryProducts) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error) {
	defer m.s.lock()()
	filter.Normalize()

	matched := []models.Product{}
	for _, p := range m.s.data().products {
		if filter.UUID != "" && p.UUID.String() != filter.UUID {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Name)) {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := len(matched)
	start := min(filter.Offset(), total)
	end := min(start+filter.Limit, total)
	return matched[start:end], total, nil
}

func (m memoryProducts) findByUUID(id uuid.UUID) (*models.Product, error) {
	for _, p := range m.s.data().products {
		if p.UUID == id {
			return &p, nil
		}
	}
	return nil, notFound("product %s", id)
}

func (m memoryProducts) FindByUUID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	defer m.s.lock()()
	return m.findByUUID(id)
}

func (m memoryProducts) FindByUUIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	defer m.s.lock()()
	return m.findByUUID(id)
}

func (m memoryProducts) ExistsByName(ctx context.Context, name string, excludeID int) (bool, error) {
	defer m.s.lock()()
	for _, p := range m.s.data().products {
		if p.ID != excludeID && strings.EqualFold(p.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (m memoryProducts) Update(ctx context.Context, product *models.Product) error {
	defer m.s.lock()()
	d := m.s.data()
	if _, ok := d.products[product.ID]; !ok {
		return notFound("product %s", product.UUID)
	}
	if product.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", models.ErrValidation)
	}
	product.UpdatedAt = time.Now()
	d.products[product.ID] = *product
	return nil
}

func (m memoryProducts) AdjustStock(ctx context.Context, id int, delta int) error {
	defer m.s.lock()()
	d := m.s.data()
	p, ok := d.products[id]
	if !ok {
		return notFound("product %d", id)
	}
	if p.Stock+delta < 0 {
		return fmt.Errorf("%w: product %d cannot give %d units", models.ErrInsufficientStock, id, -delta)
	}
	p.Stock += delta
	p.UpdatedAt = time.Now()
	d.products[id] = p
	return nil
}

func (m memoryProducts) Delete(ctx context.Context, id int) error {
	defer m.s.lock()()
	d := m.s.data()
	if _, ok := d.products[id]; !ok {
		return notFound("product %d", id)
	}
	delete(d.products, id)
	return nil
}

type memoryShipping struct{ s *MemoryStore }

func (m memoryShipping) checkNumber(option *models.ShippingOption) error {
	for _, o := range m.s.data().shipping {
		if o.ID != option.ID && o.Number == option.Number {
			return conflict("shipping option number %d already exists", option.Number)
		}
	}
	return nil
}

func (m memoryShipping) Create(ctx context.Context, option *models.ShippingOption) error {
	defer m.s.lock()()
	d := m.s.data()
	if err := m.checkNumber(option); err != nil {
		return err
	}
	now := time.Now()
	option.ID = d.next("shipping")
	option.CreatedAt, option.UpdatedAt = now, now
	d.shipping[option.ID] = *option
	return nil
}

func (m memoryShipping) FindByID(ctx context.Context, id int) (*models.ShippingOption, error) {
	defer m.s.lock()()
	o, ok := m.s.data().shipping[id]
	if !ok {
		return nil, notFound("shipping option %d", id)
	}
	return &o, nil
}

func (m memoryShipping) FindByRegion(ctx context.Context, region models.Region) (*models.ShippingOption, error) {
	defer m.s.lock()()
	var found *models.ShippingOption
	for _, o := range m.s.data().shipping {
		if o.Region == nil || *o.Region != region {
			continue
		}
		if found == nil || o.ID < found.ID {
			o := o
			found = &o
		}
	}
	if found == nil {
		return nil, notFound("shipping option for region %d", region)
	}
	return found, nil
}

func (m memoryShipping) List(ctx context.Context) ([]models.ShippingOption, error) {
	defer m.s.lock()()
	options := []models.ShippingOption{}
	for _, o := range m.s.data().shipping {
		options = append(options, o)
	}
	sort.Slice(options, func(i, j int) bool { return options[i].ID < options[j].ID })
	return options, nil
}

func (m memoryShipping) Update(ctx context.Context, option *models.ShippingOption) error {
	defer m.s.lock()()
	d := m.s.data()
	if _, ok := d.shipping[option.ID]; !ok {
		return notFound("shipping option %d", option.ID)
	}
	if err := m.checkNumber(option); err != nil {
		return err
	}
	option.UpdatedAt = time.Now()
	d.shipping[option.ID] = *option
	return nil
}

func (m memoryShipping) Delete(ctx context.Context, id int) error {
	defer m.s.lock()()
	d := m.s.data()
	if _, ok := d.shipping[id]; !ok {
		return notFound("shipping option %d", id)
	}
	delete(d.shipping, id)
	for _, c := range d.carts {
		if c.ShippingOptionID != nil && *c.ShippingOptionID == id {
			c.ShippingOptionID = nil
		}
	}
	for oid, o := range d.orders {
		if o.ShippingOptionID == id {
			delete(d.orders, oid)
		}
	}
	return nil
}

type memoryCarts struct{ s *MemoryStore }

// hydrate returns a copy of c with the shipping option joined in.
func (m memoryCarts) hydrate(c *models.Cart) *models.Cart {
	cp := c.Clone()
	cp.Shipping = nil
	if cp.ShippingOptionID != nil {
		if o, ok := m.s.data().shipping[*cp.ShippingOptionID]; ok {
			cp.Shipping = &o
		}
	}
	return cp
}

func (m memoryCarts) Create(ctx context.Context, cart *models.Cart) error {
	defer m.s.lock()()
	d := m.s.data()
	if _, ok := d.profiles[cart.CustomerID]; !ok {
		return notFound("profile %d", cart.CustomerID)
	}
	if cart.Status == models.CartActive {
		for _, c := range d.carts {
			if c.CustomerID == cart.CustomerID && c.Status == models.CartActive {
				return conflict("active cart for customer %d already exists", cart.CustomerID)
			}
		}
	}
	if cart.Items == nil {
		cart.Items = models.CartItems{}
	}
	now := time.Now()
	cart.ID = d.next("carts")
	cart.CreatedAt, cart.UpdatedAt = now, now
	d.carts[cart.ID] = cart.Clone()
	return nil
}

func (m memoryCarts) FindActive(ctx context.Context, customerID int) (*models.Cart, error) {
	defer m.s.lock()()
	for _, c := range m.s.data().carts {
		if c.CustomerID == customerID && c.Status == models.CartActive {
			return m.hydrate(c), nil
		}
	}
	return nil, notFound("active cart for customer %d", customerID)
}

func (m memoryCarts) FindActiveForUpdate(ctx context.Context, customerID int) (*models.Cart, error) {
	return m.FindActive(ctx, customerID)
}

func (m memoryCarts) ListByStatus(ctx context.Context, customerID int, status models.CartStatus) ([]models.Cart, error) {
	defer m.s.lock()()
	carts := []models.Cart{}
	for _, c := range m.s.data().carts {
		if c.CustomerID == customerID && c.Status == status {
			carts = append(carts, *m.hydrate(c))
		}
	}
	sort.Slice(carts, func(i, j int) bool { return carts[i].ID < carts[j].ID })
	return carts, nil
}

func (m memoryCarts) ListActiveByShipping(ctx context.Context, optionID int) ([]models.Cart, error) {
	defer m.s.lock()()
	carts := []models.Cart{}
	for _, c := range m.s.data().carts {
		if c.Status == models.CartActive && c.ShippingOptionID != nil && *c.ShippingOptionID == optionID {
			carts = append(carts, *m.hydrate(c))
		}
	}
	sort.Slice(carts, func(i, j int) bool { return carts[i].ID < carts[j].ID })
	return carts, nil
}

func (m memoryCarts) Save(ctx context.Context, cart *models.Cart) error {
	defer m.s.lock()()
	d := m.s.data()
	if _, ok := d.carts[cart.ID]; !ok {
		return notFound("cart %d", cart.ID)
	}
	if cart.Status == models.CartActive {
		for _, c := range d.carts {
			if c.ID != cart.ID && c.CustomerID == cart.CustomerID && c.Status == models.CartActive {
				return conflict("active cart for customer %d already exists", cart.CustomerID)
			}
		}
	}
	cart.UpdatedAt = time.Now()
	d.carts[cart.ID] = cart.Clone()
	return nil
}

func (m memoryCarts) ActiveContaining(ctx context.Context, productKey string) (bool, error) {
	defer m.s.lock()()
	for _, c := range m.s.data().carts {
		if c.Status == models.CartActive && c.Contains(productKey) {
			return true, nil
		}
	}
	return false, nil
}

type memoryOrders struct{ s *MemoryStore }

func (m memoryOrders) Create(ctx context.Context, order *models.Order) error {
	defer m.s.lock()()
	d := m.s.data()
	if _, ok := d.profiles[order.CustomerID]; !ok {
		return notFound("profile %d", order.CustomerID)
	}
	if _, ok := d.shipping[order.ShippingOptionID]; !ok {
		return notFound("shipping option %d", order.ShippingOptionID)
	}
	for _, o := range d.orders {
		if o.Number == order.Number {
			return conflict("order number %d already exists", order.Number)
		}
	}
	order.ID = d.next("orders")
	order.CreatedAt = time.Now()
	for i := range order.Items {
		order.Items[i].ID = d.next("order_items")
		order.Items[i].OrderID = order.ID
	}
	stored := *order
	stored.Items = append([]models.OrderItem(nil), order.Items...)
	d.orders[order.ID] = stored
	return nil
}

func (m memoryOrders) FindByID(ctx context.Context, id int) (*models.Order, error) {
	defer m.s.lock()()
	o, ok := m.s.data().orders[id]
	if !ok {
		return nil, notFound("order %d", id)
	}
	o.Items = append([]models.OrderItem{}, o.Items...)
	return &o, nil
}

func (m memoryOrders) List(ctx context.Context, customerID int) ([]models.Order, error) {
	defer m.s.lock()()
	orders := []models.Order{}
	for _, o := range m.s.data().orders {
		if customerID == 0 || o.CustomerID == customerID {
			o.Items = append([]models.OrderItem{}, o.Items...)
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, nil
}

func (m memoryOrders) Delete(ctx context.Context, id int) error {
	defer m.s.lock()()
	d := m.s.data()
	if _, ok := d.orders[id]; !ok {
		return notFound("order %d", id)
	}
	delete(d.orders, id)
	return nil
}

// Package memory is a process-local Ledger used for local runs and use-case tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/LavaJover/shvark-checkout-service/internal/domain"
)

type txKey struct{}

type customerKey struct {
	sellerID string
	email    string
}

type Store struct {
	mu           sync.Mutex
	products     map[string]domain.Product
	transactions map[string]domain.PixTransaction
	sales        map[string]domain.Sale
	customers    map[customerKey]domain.Customer
	carts        map[string]domain.AbandonedCart
	platform     *domain.PlatformSettings
	apps         map[string]domain.AppSettings
	audit        []domain.AuditLogEntry
}

func NewStore() *Store {
	return &Store{
		products:     make(map[string]domain.Product),
		transactions: make(map[string]domain.PixTransaction),
		sales:        make(map[string]domain.Sale),
		customers:    make(map[customerKey]domain.Customer),
		carts:        make(map[string]domain.AbandonedCart),
		apps:         make(map[string]domain.AppSettings),
	}
}

func (s *Store) Ledger() *domain.Ledger {
	return &domain.Ledger{
		Transactor:   s,
		Products:     s,
		Transactions: s,
		Sales:        s,
		Customers:    s,
		Carts:        s,
		Settings:     s,
		AuditLog:     s,
	}
}

// lock is a no-op inside WithinTx, which already holds the mutex.
func (s *Store) lock(ctx context.Context) func() {
	if owner, ok := ctx.Value(txKey{}).(*Store); ok && owner == s {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type snapshot struct {
	products     map[string]domain.Product
	transactions map[string]domain.PixTransaction
	sales        map[string]domain.Sale
	customers    map[customerKey]domain.Customer
	carts        map[string]domain.AbandonedCart
	platform     *domain.PlatformSettings
	apps         map[string]domain.AppSettings
	audit        []domain.AuditLogEntry
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if owner, ok := ctx.Value(txKey{}).(*Store); ok && owner == s {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		products:     make(map[string]domain.Product, len(s.products)),
		transactions: make(map[string]domain.PixTransaction, len(s.transactions)),
		sales:        make(map[string]domain.Sale, len(s.sales)),
		customers:    make(map[customerKey]domain.Customer, len(s.customers)),
		carts:        make(map[string]domain.AbandonedCart, len(s.carts)),
		apps:         make(map[string]domain.AppSettings, len(s.apps)),
		audit:        append([]domain.AuditLogEntry(nil), s.audit...),
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.transactions {
		snap.transactions[k] = v
	}
	for k, v := range s.sales {
		snap.sales[k] = v
	}
	for k, v := range s.customers {
		snap.customers[k] = v
	}
	for k, v := range s.carts {
		snap.carts[k] = v
	}
	for k, v := range s.apps {
		snap.apps[k] = v
	}
	if s.platform != nil {
		p := *s.platform
		snap.platform = &p
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.products = snap.products
	s.transactions = snap.transactions
	s.sales = snap.sales
	s.customers = snap.customers
	s.carts = snap.carts
	s.apps = snap.apps
	s.platform = snap.platform
	s.audit = snap.audit
}

///////////////////////////// products /////////////////////////////

func (s *Store) CreateProduct(ctx context.Context, product *domain.Product) error {
	defer s.lock(ctx)()
	if _, ok := s.products[product.ID]; ok {
		return fmt.Errorf("product %s already exists", product.ID)
	}
	p := *product
	p.Coupons = append([]domain.Coupon(nil), product.Coupons...)
	s.products[p.ID] = p
	return nil
}

func (s *Store) GetProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	defer s.lock(ctx)()
	p, ok := s.products[productID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
	}
	return &p, nil
}

func (s *Store) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	defer s.lock(ctx)()
	for _, p := range s.products {
		if p.Slug == slug {
			found := p
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: slug %s", domain.ErrProductNotFound, slug)
}

func (s *Store) SlugExists(ctx context.Context, slug string) (bool, error) {
	defer s.lock(ctx)()
	for _, p := range s.products {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) IncrementTotalSales(ctx context.Context, productID string, delta int) error {
	defer s.lock(ctx)()
	p, ok := s.products[productID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
	}
	p.TotalSales += delta
	p.UpdatedAt = time.Now()
	s.products[productID] = p
	return nil
}

///////////////////////////// transactions /////////////////////////////

func (s *Store) CreateTransaction(ctx context.Context, tx *domain.PixTransaction) error {
	defer s.lock(ctx)()
	if _, ok := s.transactions[tx.ID]; ok {
		return fmt.Errorf("transaction %s already exists", tx.ID)
	}
	s.transactions[tx.ID] = *tx.Clone()
	return nil
}

func (s *Store) GetTransactionByID(ctx context.Context, transactionID string) (*domain.PixTransaction, error) {
	defer s.lock(ctx)()
	tx, ok := s.transactions[transactionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTransactionNotFound, transactionID)
	}
	return tx.Clone(), nil
}

func (s *Store) LockTransaction(ctx context.Context, transactionID string) (*domain.PixTransaction, error) {
	return s.GetTransactionByID(ctx, transactionID)
}

func (s *Store) UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.TransactionStatus, paidAt *time.Time) error {
	defer s.lock(ctx)()
	tx, ok := s.transactions[transactionID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrTransactionNotFound, transactionID)
	}
	tx.Status = status
	if paidAt != nil {
		t := *paidAt
		tx.PaidAt = &t
	}
	s.transactions[transactionID] = tx
	return nil
}

func (s *Store) FindPendingTransactions(ctx context.Context, createdBefore time.Time, limit int) ([]*domain.PixTransaction, error) {
	defer s.lock(ctx)()
	var out []*domain.PixTransaction
	for _, tx := range s.transactions {
		if tx.Status == domain.StatusWaitingPayment && tx.CreatedAt.Before(createdBefore) {
			out = append(out, tx.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

///////////////////////////// sales /////////////////////////////

func (s *Store) GetSaleByID(ctx context.Context, saleID string) (*domain.Sale, error) {
	defer s.lock(ctx)()
	sale, ok := s.sales[saleID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSaleNotFound, saleID)
	}
	return sale.Clone(), nil
}

func (s *Store) SaveSale(ctx context.Context, sale *domain.Sale) error {
	defer s.lock(ctx)()
	s.sales[sale.ID] = *sale.Clone()
	return nil
}

func (s *Store) ListSalesBySeller(ctx context.Context, sellerID string) ([]*domain.Sale, error) {
	defer s.lock(ctx)()
	var out []*domain.Sale
	for _, sale := range s.sales {
		if sale.SellerID == sellerID {
			out = append(out, sale.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

///////////////////////////// customers /////////////////////////////

func (s *Store) GetCustomer(ctx context.Context, sellerID, email string) (*domain.Customer, error) {
	defer s.lock(ctx)()
	c, ok := s.customers[customerKey{sellerID: sellerID, email: email}]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", domain.ErrCustomerNotFound, sellerID, email)
	}
	return c.Clone(), nil
}

func (s *Store) SaveCustomer(ctx context.Context, customer *domain.Customer) error {
	defer s.lock(ctx)()
	s.customers[customerKey{sellerID: customer.SellerID, email: customer.Email}] = *customer.Clone()
	return nil
}

///////////////////////////// carts /////////////////////////////

func (s *Store) CreateCart(ctx context.Context, cart *domain.AbandonedCart) error {
	defer s.lock(ctx)()
	if _, ok := s.carts[cart.ID]; ok {
		return fmt.Errorf("cart %s already exists", cart.ID)
	}
	s.carts[cart.ID] = *cart
	return nil
}

func (s *Store) GetCartByID(ctx context.Context, cartID string) (*domain.AbandonedCart, error) {
	defer s.lock(ctx)()
	cart, ok := s.carts[cartID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCartNotFound, cartID)
	}
	return &cart, nil
}

func (s *Store) FindLatestOpenCart(ctx context.Context, sellerID, email, productID string) (*domain.AbandonedCart, error) {
	defer s.lock(ctx)()
	var latest *domain.AbandonedCart
	for _, cart := range s.carts {
		if cart.SellerID != sellerID || cart.Customer.Email != email || cart.ProductID != productID {
			continue
		}
		if cart.Status == domain.CartRecovered {
			continue
		}
		if latest == nil || cart.CreatedAt.After(latest.CreatedAt) {
			c := cart
			latest = &c
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("%w: %s/%s/%s", domain.ErrCartNotFound, sellerID, email, productID)
	}
	return latest, nil
}

func (s *Store) UpdateCart(ctx context.Context, cart *domain.AbandonedCart) error {
	defer s.lock(ctx)()
	if _, ok := s.carts[cart.ID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrCartNotFound, cart.ID)
	}
	s.carts[cart.ID] = *cart
	return nil
}

func (s *Store) ListCartsBySeller(ctx context.Context, sellerID string) ([]*domain.AbandonedCart, error) {
	defer s.lock(ctx)()
	var out []*domain.AbandonedCart
	for _, cart := range s.carts {
		if cart.SellerID == sellerID {
			c := cart
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastInteractionAt.After(out[j].LastInteractionAt) })
	return out, nil
}

///////////////////////////// settings /////////////////////////////

func (s *Store) GetPlatformSettings(ctx context.Context) (*domain.PlatformSettings, error) {
	defer s.lock(ctx)()
	if s.platform == nil {
		return nil, domain.ErrPlatformSettingsNotFound
	}
	p := *s.platform
	return &p, nil
}

func (s *Store) SavePlatformSettings(ctx context.Context, settings *domain.PlatformSettings) error {
	defer s.lock(ctx)()
	p := *settings
	p.ID = domain.PlatformSettingsID
	s.platform = &p
	return nil
}

func (s *Store) GetAppSettings(ctx context.Context, sellerID string) (*domain.AppSettings, error) {
	defer s.lock(ctx)()
	app, ok := s.apps[sellerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAppSettingsNotFound, sellerID)
	}
	return &app, nil
}

func (s *Store) SaveAppSettings(ctx context.Context, settings *domain.AppSettings) error {
	defer s.lock(ctx)()
	s.apps[settings.SellerID] = *settings
	return nil
}

///////////////////////////// audit log /////////////////////////////

func (s *Store) AppendEntry(ctx context.Context, entry *domain.AuditLogEntry) error {
	defer s.lock(ctx)()
	s.audit = append([]domain.AuditLogEntry{*entry}, s.audit...)
	return nil
}

func (s *Store) TrimEntries(ctx context.Context, keep int) error {
	defer s.lock(ctx)()
	if keep >= 0 && len(s.audit) > keep {
		s.audit = append([]domain.AuditLogEntry(nil), s.audit[:keep]...)
	}
	return nil
}

func (s *Store) ListEntries(ctx context.Context, limit int) ([]*domain.AuditLogEntry, error) {
	defer s.lock(ctx)()
	n := len(s.audit)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*domain.AuditLogEntry, n)
	for i := 0; i < n; i++ {
		e := s.audit[i]
		out[i] = &e
	}
	return out, nil
}

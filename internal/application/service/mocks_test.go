package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// Hand-rolled fakes for the repository interfaces. Each fake records what
// was written so tests can assert on the exact rows a transaction produced.

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// assertDecimal compares by numeric value, so 50 and 50.00 match
func assertDecimal(t *testing.T, field string, got, want decimal.Decimal) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %s, want %s", field, got, want)
	}
}

type fakeShopRepo struct {
	shops map[uuid.UUID]*entity.Shop
}

func newFakeShopRepo(shops ...*entity.Shop) *fakeShopRepo {
	r := &fakeShopRepo{shops: make(map[uuid.UUID]*entity.Shop)}
	for _, s := range shops {
		r.shops[s.ID] = s
	}
	return r
}

func (r *fakeShopRepo) Create(ctx context.Context, shop *entity.Shop) error {
	if shop.ID == uuid.Nil {
		shop.ID = uuid.New()
	}
	r.shops[shop.ID] = shop
	return nil
}

func (r *fakeShopRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Shop, error) {
	return r.shops[id], nil
}

func (r *fakeShopRepo) GetByCode(ctx context.Context, code string) (*entity.Shop, error) {
	for _, s := range r.shops {
		if s.Code == code {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeShopRepo) Update(ctx context.Context, shop *entity.Shop) error {
	r.shops[shop.ID] = shop
	return nil
}

func (r *fakeShopRepo) List(ctx context.Context) ([]entity.Shop, error) {
	out := make([]entity.Shop, 0, len(r.shops))
	for _, s := range r.shops {
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeShopRepo) NextProductNo(ctx context.Context, shopID uuid.UUID) (int64, error) {
	shop := r.shops[shopID]
	no := shop.NextProductNo
	shop.NextProductNo++
	return no, nil
}

type fakeProductRepo struct {
	products    []entity.Product
	stockDeltas map[int64][]decimal.Decimal
	created     []*entity.Product
	updated     []*entity.Product
}

func newFakeProductRepo(products ...entity.Product) *fakeProductRepo {
	return &fakeProductRepo{
		products:    products,
		stockDeltas: make(map[int64][]decimal.Decimal),
	}
}

func (r *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	r.created = append(r.created, product)
	r.products = append(r.products, *product)
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	for i := range r.products {
		if r.products[i].ID == id {
			return &r.products[i], nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetByNo(ctx context.Context, shopID uuid.UUID, productNo int64) (*entity.Product, error) {
	for i := range r.products {
		if r.products[i].ShopID == shopID && r.products[i].ProductNo == productNo {
			return &r.products[i], nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetByNos(ctx context.Context, shopID uuid.UUID, productNos []int64) ([]entity.Product, error) {
	want := make(map[int64]bool, len(productNos))
	for _, no := range productNos {
		want[no] = true
	}
	var out []entity.Product
	for _, p := range r.products {
		if p.ShopID == shopID && want[p.ProductNo] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) GetByBarcode(ctx context.Context, shopID uuid.UUID, barcode string) (*entity.Product, error) {
	for i := range r.products {
		if r.products[i].ShopID == shopID && r.products[i].Barcode != nil && *r.products[i].Barcode == barcode {
			return &r.products[i], nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error {
	r.updated = append(r.updated, product)
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (r *fakeProductRepo) List(ctx context.Context, shopID uuid.UUID, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	return r.products, int64(len(r.products)), nil
}

func (r *fakeProductRepo) GetLowStock(ctx context.Context, shopID uuid.UUID) ([]entity.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) CountLowStock(ctx context.Context, shopID uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *fakeProductRepo) AdjustStock(ctx context.Context, shopID uuid.UUID, productNo int64, delta decimal.Decimal) error {
	r.stockDeltas[productNo] = append(r.stockDeltas[productNo], delta)
	for i := range r.products {
		if r.products[i].ShopID == shopID && r.products[i].ProductNo == productNo {
			r.products[i].Stock = r.products[i].Stock.Add(delta)
		}
	}
	return nil
}

type fakeSaleRepo struct {
	created     []*entity.Sale
	updated     []*entity.Sale
	outstanding []entity.Sale
	byID        map[uuid.UUID]*entity.Sale
}

func newFakeSaleRepo(outstanding ...entity.Sale) *fakeSaleRepo {
	return &fakeSaleRepo{
		outstanding: outstanding,
		byID:        make(map[uuid.UUID]*entity.Sale),
	}
}

func (r *fakeSaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	r.created = append(r.created, sale)
	r.byID[sale.ID] = sale
	return nil
}

func (r *fakeSaleRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	return r.byID[id], nil
}

func (r *fakeSaleRepo) GetBySaleNo(ctx context.Context, saleNo string) (*entity.Sale, error) {
	for _, s := range r.byID {
		if s.SaleNo == saleNo {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSaleRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	return r.byID[id], nil
}

func (r *fakeSaleRepo) Update(ctx context.Context, sale *entity.Sale) error {
	copied := *sale
	r.updated = append(r.updated, &copied)
	r.byID[sale.ID] = sale
	return nil
}

func (r *fakeSaleRepo) List(ctx context.Context, shopID uuid.UUID, params *repository.SaleFilterParams) ([]entity.Sale, int64, error) {
	return nil, 0, nil
}

func (r *fakeSaleRepo) ListWithCursor(ctx context.Context, shopID uuid.UUID, params *repository.SaleCursorFilterParams) ([]entity.Sale, error) {
	return nil, nil
}

func (r *fakeSaleRepo) ListOutstandingByMobile(ctx context.Context, mobile string, excludeID uuid.UUID) ([]entity.Sale, error) {
	var out []entity.Sale
	for _, s := range r.outstanding {
		if s.ID == excludeID {
			continue
		}
		if s.CustomerMobile != nil && *s.CustomerMobile == mobile && s.BalanceDue.IsPositive() {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) SumOutstandingByMobile(ctx context.Context, mobile string, excludeID uuid.UUID) (decimal.Decimal, error) {
	sales, _ := r.ListOutstandingByMobile(ctx, mobile, excludeID)
	total := decimal.Zero
	for _, s := range sales {
		total = total.Add(s.BalanceDue)
	}
	return total, nil
}

func (r *fakeSaleRepo) ListOutstanding(ctx context.Context, shopID uuid.UUID, params *pagination.PaginationParams) ([]entity.Sale, int64, error) {
	return r.outstanding, int64(len(r.outstanding)), nil
}

type fakeLineItemRepo struct {
	batches [][]entity.SaleLineItem
}

func (r *fakeLineItemRepo) CreateBatch(ctx context.Context, items []entity.SaleLineItem) error {
	r.batches = append(r.batches, items)
	return nil
}

func (r *fakeLineItemRepo) GetBySaleID(ctx context.Context, saleID uuid.UUID) ([]entity.SaleLineItem, error) {
	var out []entity.SaleLineItem
	for _, b := range r.batches {
		for _, item := range b {
			if item.SaleID == saleID {
				out = append(out, item)
			}
		}
	}
	return out, nil
}

type fakePaymentRepo struct {
	created []*entity.Payment
}

func (r *fakePaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	r.created = append(r.created, payment)
	return nil
}

func (r *fakePaymentRepo) GetBySaleID(ctx context.Context, saleID uuid.UUID) ([]entity.Payment, error) {
	var out []entity.Payment
	for _, p := range r.created {
		if p.SaleID == saleID {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeCustomerRepo struct {
	customers map[string]*entity.Customer
}

func newFakeCustomerRepo(customers ...*entity.Customer) *fakeCustomerRepo {
	r := &fakeCustomerRepo{customers: make(map[string]*entity.Customer)}
	for _, c := range customers {
		r.customers[c.Mobile] = c
	}
	return r
}

func (r *fakeCustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	r.customers[customer.Mobile] = customer
	return nil
}

func (r *fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	for _, c := range r.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) GetByMobile(ctx context.Context, mobile string) (*entity.Customer, error) {
	return r.customers[mobile], nil
}

func (r *fakeCustomerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	r.customers[customer.Mobile] = customer
	return nil
}

func (r *fakeCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (r *fakeCustomerRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	out := make([]entity.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

type fakeExpenseRepo struct {
	expenses map[uuid.UUID]*entity.Expense
}

func newFakeExpenseRepo() *fakeExpenseRepo {
	return &fakeExpenseRepo{expenses: make(map[uuid.UUID]*entity.Expense)}
}

func (r *fakeExpenseRepo) Create(ctx context.Context, expense *entity.Expense) error {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	r.expenses[expense.ID] = expense
	return nil
}

func (r *fakeExpenseRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Expense, error) {
	return r.expenses[id], nil
}

func (r *fakeExpenseRepo) Update(ctx context.Context, expense *entity.Expense) error {
	r.expenses[expense.ID] = expense
	return nil
}

func (r *fakeExpenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.expenses, id)
	return nil
}

func (r *fakeExpenseRepo) List(ctx context.Context, shopID uuid.UUID, params *repository.ExpenseFilterParams) ([]entity.Expense, int64, error) {
	out := make([]entity.Expense, 0, len(r.expenses))
	for _, e := range r.expenses {
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

// fakeProvider wires the fakes into a RepositoryProvider. The same
// instances back the transactional and non-transactional paths, so a test
// sees exactly what "committed".
type fakeProvider struct {
	shops     *fakeShopRepo
	products  *fakeProductRepo
	customers *fakeCustomerRepo
	sales     *fakeSaleRepo
	lineItems *fakeLineItemRepo
	payments  *fakePaymentRepo
	expenses  *fakeExpenseRepo
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		shops:     newFakeShopRepo(),
		products:  newFakeProductRepo(),
		customers: newFakeCustomerRepo(),
		sales:     newFakeSaleRepo(),
		lineItems: &fakeLineItemRepo{},
		payments:  &fakePaymentRepo{},
		expenses:  newFakeExpenseRepo(),
	}
}

func (p *fakeProvider) Shops() repository.ShopRepository                 { return p.shops }
func (p *fakeProvider) Products() repository.ProductRepository           { return p.products }
func (p *fakeProvider) Customers() repository.CustomerRepository         { return p.customers }
func (p *fakeProvider) Sales() repository.SaleRepository                 { return p.sales }
func (p *fakeProvider) SaleLineItems() repository.SaleLineItemRepository { return p.lineItems }
func (p *fakeProvider) Payments() repository.PaymentRepository           { return p.payments }
func (p *fakeProvider) Expenses() repository.ExpenseRepository           { return p.expenses }

type fakeUnitOfWork struct {
	provider *fakeProvider
	calls    int
}

func (u *fakeUnitOfWork) Execute(ctx context.Context, fn func(tx repository.RepositoryProvider) error) error {
	u.calls++
	return fn(u.provider)
}

// fakeSerializer stands in for the store in snapshot tests
type fakeSerializer struct {
	data         []byte
	serializeErr error
	swapErr      error
	swapped      []byte
}

func (f *fakeSerializer) Serialize(ctx context.Context) ([]byte, error) {
	if f.serializeErr != nil {
		return nil, f.serializeErr
	}
	return f.data, nil
}

func (f *fakeSerializer) SwapFrom(ctx context.Context, data []byte) error {
	if f.swapErr != nil {
		return f.swapErr
	}
	f.swapped = data
	return nil
}

type memoryBlobStore struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	saveErr error
	saves   int
}

func newMemoryBlobStore() *memoryBlobStore {
	return &memoryBlobStore{blobs: make(map[string][]byte)}
}

func (m *memoryBlobStore) Save(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.blobs[key] = append([]byte(nil), data...)
	return nil
}

func (m *memoryBlobStore) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[key]
	if !ok {
		return nil, repository.ErrSnapshotNotFound
	}
	return data, nil
}

func (m *memoryBlobStore) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blobs[key]
	return ok, nil
}

func newTestSnapshots() (*SnapshotService, *memoryBlobStore) {
	blobs := newMemoryBlobStore()
	svc := NewSnapshotService(&fakeSerializer{data: []byte("store-bytes")}, blobs, "test-slot", true)
	return svc, blobs
}

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func timePtr(t time.Time) *time.Time { return &t }

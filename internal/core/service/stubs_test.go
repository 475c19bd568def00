package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/telvista/crm-backoffice/internal/core/domain"
	"github.com/telvista/crm-backoffice/internal/core/ports"
)

// In-memory stand-ins for the Mongo repositories. Error fields let tests
// simulate storage failures per operation.

type stubCredentialRepo struct {
	creds     map[string]*domain.Credential // keyed by id
	nextID    int
	createErr error
	findErr   error
	updateErr error
}

func newStubCredentialRepo() *stubCredentialRepo {
	return &stubCredentialRepo{creds: make(map[string]*domain.Credential)}
}

func cloneCredential(c *domain.Credential) *domain.Credential {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

func (r *stubCredentialRepo) Create(_ context.Context, cred *domain.Credential) (*domain.Credential, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, existing := range r.creds {
		if existing.Email == cred.Email {
			return nil, domain.ErrCredentialExists
		}
	}
	r.nextID++
	clone := cloneCredential(cred)
	clone.ID = fmt.Sprintf("cred-%d", r.nextID)
	r.creds[clone.ID] = cloneCredential(clone)
	return clone, nil
}

func (r *stubCredentialRepo) FindByEmail(_ context.Context, email string) (*domain.Credential, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, c := range r.creds {
		if c.Email == email {
			return cloneCredential(c), nil
		}
	}
	return nil, domain.ErrCredentialNotFound
}

func (r *stubCredentialRepo) FindByID(_ context.Context, id string) (*domain.Credential, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	c, ok := r.creds[id]
	if !ok {
		return nil, domain.ErrCredentialNotFound
	}
	return cloneCredential(c), nil
}

func (r *stubCredentialRepo) UpdatePasswordHash(_ context.Context, id, hash string) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	c, ok := r.creds[id]
	if !ok {
		return domain.ErrCredentialNotFound
	}
	c.PasswordHash = hash
	return nil
}

func (r *stubCredentialRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.creds[id]; !ok {
		return domain.ErrCredentialNotFound
	}
	delete(r.creds, id)
	return nil
}

type stubCustomerRepo struct {
	customers map[string]*domain.Customer
	nextID    int
	createErr error
	attachErr error
	detachErr error
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[string]*domain.Customer)}
}

func cloneCustomer(c *domain.Customer) *domain.Customer {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

func (r *stubCustomerRepo) Create(_ context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	clone := cloneCustomer(customer)
	clone.ID = fmt.Sprintf("cust-%d", r.nextID)
	r.customers[clone.ID] = cloneCustomer(clone)
	return clone, nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id string) (*domain.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return cloneCustomer(c), nil
}

func (r *stubCustomerRepo) List(_ context.Context) ([]domain.Customer, error) {
	out := make([]domain.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, *cloneCustomer(c))
	}
	return out, nil
}

func (r *stubCustomerRepo) Update(_ context.Context, customer *domain.Customer) error {
	if _, ok := r.customers[customer.ID]; !ok {
		return domain.ErrCustomerNotFound
	}
	r.customers[customer.ID] = cloneCustomer(customer)
	return nil
}

func (r *stubCustomerRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.customers[id]; !ok {
		return domain.ErrCustomerNotFound
	}
	delete(r.customers, id)
	return nil
}

func (r *stubCustomerRepo) AttachCredential(_ context.Context, customerID, credentialID string) error {
	if r.attachErr != nil {
		return r.attachErr
	}
	c, ok := r.customers[customerID]
	if !ok {
		return domain.ErrCustomerNotFound
	}
	c.CredentialID = credentialID
	return nil
}

func (r *stubCustomerRepo) DetachCredential(_ context.Context, credentialID string) error {
	if r.detachErr != nil {
		return r.detachErr
	}
	for _, c := range r.customers {
		if c.CredentialID == credentialID {
			c.CredentialID = ""
		}
	}
	return nil
}

type stubPackageRepo struct {
	packages []domain.Package
	listErr  error
}

func (r *stubPackageRepo) FindByID(_ context.Context, id string) (*domain.Package, error) {
	for i := range r.packages {
		if r.packages[i].ID == id {
			p := r.packages[i]
			return &p, nil
		}
	}
	return nil, domain.ErrPackageNotFound
}

func (r *stubPackageRepo) List(_ context.Context) ([]domain.Package, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]domain.Package(nil), r.packages...), nil
}

func (r *stubPackageRepo) Seed(_ context.Context, packages []domain.Package) error {
	for _, p := range packages {
		found := false
		for i := range r.packages {
			if r.packages[i].Name == p.Name {
				found = true
				break
			}
		}
		if !found {
			p.ID = fmt.Sprintf("pkg-%d", len(r.packages)+1)
			r.packages = append(r.packages, p)
		}
	}
	return nil
}

type stubSaleRepo struct {
	sales  []domain.Sale
	nextID int
	err    error
}

func (r *stubSaleRepo) Create(_ context.Context, sale *domain.Sale) (*domain.Sale, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.nextID++
	clone := *sale
	clone.ID = fmt.Sprintf("sale-%d", r.nextID)
	r.sales = append(r.sales, clone)
	return &clone, nil
}

func (r *stubSaleRepo) FindByIdempotencyKey(_ context.Context, key string) (*domain.Sale, error) {
	if r.err != nil {
		return nil, r.err
	}
	for i := range r.sales {
		if r.sales[i].IdempotencyKey == key {
			s := r.sales[i]
			return &s, nil
		}
	}
	return nil, domain.ErrSaleNotFound
}

func (r *stubSaleRepo) ListAll(_ context.Context) ([]domain.Sale, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := append([]domain.Sale(nil), r.sales...)
	sort.Slice(out, func(i, j int) bool { return out[i].SaleDate.After(out[j].SaleDate) })
	return out, nil
}

func (r *stubSaleRepo) ListForCustomer(_ context.Context, customerID string) ([]domain.Sale, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]domain.Sale, 0)
	for i := range r.sales {
		if r.sales[i].CustomerID == customerID {
			out = append(out, r.sales[i])
		}
	}
	return out, nil
}

func (r *stubSaleRepo) TotalsByPackage(_ context.Context) (map[string]ports.PackageTotal, error) {
	if r.err != nil {
		return nil, r.err
	}
	totals := make(map[string]ports.PackageTotal)
	for i := range r.sales {
		t := totals[r.sales[i].PackageID]
		t.Count++
		t.Revenue += r.sales[i].Amount
		totals[r.sales[i].PackageID] = t
	}
	return totals, nil
}

func (r *stubSaleRepo) Totals(_ context.Context) (domain.Totals, error) {
	if r.err != nil {
		return domain.Totals{}, r.err
	}
	var t domain.Totals
	for i := range r.sales {
		t.TotalSales++
		t.TotalRevenue += r.sales[i].Amount
	}
	return t, nil
}

func (r *stubSaleRepo) TotalsBetween(_ context.Context, from, to time.Time) (ports.PackageTotal, error) {
	if r.err != nil {
		return ports.PackageTotal{}, r.err
	}
	var t ports.PackageTotal
	for i := range r.sales {
		d := r.sales[i].SaleDate
		if !d.Before(from) && d.Before(to) {
			t.Count++
			t.Revenue += r.sales[i].Amount
		}
	}
	return t, nil
}

type stubStatsCache struct {
	snapshot *domain.DashboardStats
	getErr   error
	putErr   error
	puts     int
}

func (c *stubStatsCache) GetSnapshot(_ context.Context) (*domain.DashboardStats, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	if c.snapshot == nil {
		return nil, domain.ErrSaleNotFound
	}
	return c.snapshot, nil
}

func (c *stubStatsCache) PutSnapshot(_ context.Context, stats *domain.DashboardStats) error {
	if c.putErr != nil {
		return c.putErr
	}
	c.puts++
	c.snapshot = stats
	return nil
}

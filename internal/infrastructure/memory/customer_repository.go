package memory

import (
	"context"
	"sort"

	"github.com/sanosuguru/go-event-booking-system/internal/domain/customer"
)

// CustomerRepository は customer.Repository のインメモリ実装
type CustomerRepository struct {
	s *Store
}

// 呼び出し側で mu をロックしていること
func (r *CustomerRepository) emailTaken(email string, exceptID int64) bool {
	for _, c := range r.s.customers {
		if c.ID != exceptID && customer.NormalizeEmail(c.Email) == customer.NormalizeEmail(email) {
			return true
		}
	}
	return false
}

func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.emailTaken(c.Email, 0) {
		return customer.ErrEmailAlreadyTaken
	}
	c.ID = r.s.nextID("customer")
	stored := *c
	r.s.customers[c.ID] = &stored
	return nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*customer.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, customer.ErrCustomerNotFound
	}
	out := *c
	return &out, nil
}

func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.customers {
		if customer.NormalizeEmail(c.Email) == customer.NormalizeEmail(email) {
			out := *c
			return &out, nil
		}
	}
	return nil, customer.ErrCustomerNotFound
}

func (r *CustomerRepository) List(ctx context.Context) ([]*customer.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*customer.Customer, 0, len(r.s.customers))
	for _, c := range r.s.customers {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[c.ID]; !ok {
		return customer.ErrCustomerNotFound
	}
	if r.emailTaken(c.Email, c.ID) {
		return customer.ErrEmailAlreadyTaken
	}
	stored := *c
	r.s.customers[c.ID] = &stored
	return nil
}

// Delete は顧客とその予約を削除する
func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[id]; !ok {
		return customer.ErrCustomerNotFound
	}
	for bid, b := range r.s.bookings {
		if b.CustomerID == id {
			delete(r.s.bookings, bid)
		}
	}
	delete(r.s.customers, id)
	return nil
}

package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sanosuguru/go-event-booking-system/internal/domain/customer"
)

type CustomerService struct {
	customerRepo customer.Repository
}

func NewCustomerService(cr customer.Repository) *CustomerService {
	return &CustomerService{customerRepo: cr}
}

type CustomerInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// CreateCustomer は顧客を登録する。メールアドレスは一意
func (s *CustomerService) CreateCustomer(ctx context.Context, input CustomerInput) (*customer.Customer, error) {
	c := customer.NewCustomer(input.FirstName, input.LastName, input.Email, input.Phone)
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.ensureEmailFree(ctx, c.Email, 0); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id int64) (*customer.Customer, error) {
	return s.customerRepo.GetByID(ctx, id)
}

// ListCustomers は顧客一覧を返す。sortByName なら姓・名の順
func (s *CustomerService) ListCustomers(ctx context.Context, sortByName bool) ([]*customer.Customer, error) {
	customers, err := s.customerRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if sortByName {
		return customer.SortByName(customers), nil
	}
	return customers, nil
}

// SearchCustomers は氏名で部分一致検索する
func (s *CustomerService) SearchCustomers(ctx context.Context, query string) ([]*customer.Customer, error) {
	customers, err := s.customerRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return customer.Search(customers, query), nil
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, id int64, input CustomerInput) (*customer.Customer, error) {
	c, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := customer.NewCustomer(input.FirstName, input.LastName, input.Email, input.Phone)
	c.FirstName = updated.FirstName
	c.LastName = updated.LastName
	c.Email = updated.Email
	c.Phone = updated.Phone
	c.UpdatedAt = time.Now()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.ensureEmailFree(ctx, c.Email, c.ID); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CustomerService) DeleteCustomer(ctx context.Context, id int64) error {
	return s.customerRepo.Delete(ctx, id)
}

func (s *CustomerService) ensureEmailFree(ctx context.Context, email string, selfID int64) error {
	existing, err := s.customerRepo.GetByEmail(ctx, email)
	if err == nil {
		if existing.ID != selfID {
			return customer.ErrEmailAlreadyTaken
		}
		return nil
	}
	if !errors.Is(err, customer.ErrCustomerNotFound) {
		return fmt.Errorf("メールアドレスの確認に失敗: %w", err)
	}
	return nil
}

package customer

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	phonePattern = regexp.MustCompile(`^[+]?[0-9\s\-()]{6,20}$`)
)

// Customer は顧客エンティティを表す
type Customer struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCustomer は新しい顧客を作成する。メールアドレスは小文字に正規化する
func NewCustomer(firstName, lastName, email, phone string) *Customer {
	now := time.Now()
	return &Customer{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Email:     NormalizeEmail(email),
		Phone:     strings.TrimSpace(phone),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NormalizeEmail はメールアドレスを比較用に正規化する
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FullName は "Vorname Nachname" を返す
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Validate は顧客の検証を行う。電話番号は任意
func (c *Customer) Validate() error {
	if len(c.FirstName) < 2 || len(c.FirstName) > 100 {
		return ErrInvalidFirstName
	}
	if len(c.LastName) < 2 || len(c.LastName) > 100 {
		return ErrInvalidLastName
	}
	if !emailPattern.MatchString(c.Email) {
		return ErrInvalidEmail
	}
	if c.Phone != "" && !phonePattern.MatchString(c.Phone) {
		return ErrInvalidPhone
	}
	return nil
}

// MatchesName は氏名の部分一致（大文字小文字を区別しない）を返す
func (c *Customer) MatchesName(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	return strings.Contains(strings.ToLower(c.FullName()), q)
}

// Search は氏名で部分一致する顧客を返す
func Search(customers []*Customer, query string) []*Customer {
	out := make([]*Customer, 0)
	for _, c := range customers {
		if c.MatchesName(query) {
			out = append(out, c)
		}
	}
	return out
}

// SortByName は姓、名の順で並べ替えたコピーを返す
func SortByName(customers []*Customer) []*Customer {
	out := append([]*Customer(nil), customers...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out
}

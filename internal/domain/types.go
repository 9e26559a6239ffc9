package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Money is an amount in minor currency units (cents).
// JSON carries major units so 34800 is written as 348 and 37120 as 371.2.
type Money int64

func MoneyFromMajor(v float64) Money {
	return Money(math.Round(v * 100))
}

func (m Money) Major() float64 {
	return float64(m) / 100
}

// Times multiplies by a whole count (nights, rooms).
func (m Money) Times(n int) Money {
	return m * Money(n)
}

// ApplyRate returns m*rate rounded half away from zero to the nearest minor unit.
func (m Money) ApplyRate(rate float64) Money {
	return Money(math.Round(float64(m) * rate))
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Major(), 'f', -1, 64)), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*m = 0
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*m = MoneyFromMajor(f)
	return nil
}

// Role is the access level stored on a user.
type Role string

const (
	RoleGuest      Role = "GUEST"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPERADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Pagination carries paging params and totals.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPagination clamps page/limit and derives the offset.
func NewPagination(page, limit, defaultLimit int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > 100 {
		limit = 100
	}
	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// WithTotal fills Total and Pages.
func (p Pagination) WithTotal(total int) Pagination {
	p.Total = total
	p.Pages = int(math.Ceil(float64(total) / float64(p.Limit)))
	return p
}

package repository

import "time"

// ProductListFilter narrows product mirror queries.
type ProductListFilter struct {
	Page       int
	PageSize   int
	CategoryID uint
	Search     string
	OnlyActive bool
}

// OrderListFilter narrows order queries.
type OrderListFilter struct {
	Page        int
	PageSize    int
	CustomerID  uint
	Status      string
	OrderNo     string
	Email       string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// PromotionListFilter narrows promotion queries.
type PromotionListFilter struct {
	Page       int
	PageSize   int
	OnlyActive bool
}

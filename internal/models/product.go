package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Category groups products for browsing and filtering.
type Category struct {
	BaseModel
	Name        string `gorm:"uniqueIndex" json:"name"`
	Slug        string `gorm:"uniqueIndex" json:"slug"`
	Description string `json:"description"`
}

// Product is a purchasable catalog entry. Colors and Sizes list the
// variant axes a shopper can select from.
type Product struct {
	BaseModel
	Name          string          `json:"name"`
	Slug          string          `gorm:"uniqueIndex" json:"slug"`
	Description   string          `json:"description"`
	Brand         string          `json:"brand"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2)" json:"price"`
	Currency      string          `json:"currency"`
	Image         string          `json:"image"`
	Colors        pq.StringArray  `gorm:"type:text[]" json:"colors"`
	Sizes         pq.StringArray  `gorm:"type:text[]" json:"sizes"`
	CountInStock  int             `json:"count_in_stock"`
	IsFeatured    bool            `json:"is_featured"`
	RatingAverage float64         `json:"rating_average"`
	RatingCount   int             `json:"rating_count"`
	CategoryID    *uuid.UUID      `gorm:"type:uuid" json:"category_id"`
	Category      *Category       `json:"category,omitempty"`
}

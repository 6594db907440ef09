package models

import (
	"time"

	"gorm.io/gorm"
)

// Goods categories. Unset category defaults to CategoryOther.
const (
	CategoryElectronics = "electronics"
	CategoryClothing    = "clothing"
	CategoryBooks       = "books"
	CategorySports      = "sports"
	CategoryBeauty      = "beauty"
	CategoryHome        = "home"
	CategoryOther       = "other"
)

// Goods conditions. Unset condition defaults to ConditionGood.
const (
	ConditionNew         = "new"
	ConditionLikeNew     = "like_new"
	ConditionGood        = "good"
	ConditionFair        = "fair"
	ConditionNeedsRepair = "needs_repair"
)

// DefaultContact is the contact placeholder used when a seller provides none.
const DefaultContact = "未提供"

var validCategories = map[string]struct{}{
	CategoryElectronics: {},
	CategoryClothing:    {},
	CategoryBooks:       {},
	CategorySports:      {},
	CategoryBeauty:      {},
	CategoryHome:        {},
	CategoryOther:       {},
}

var validConditions = map[string]struct{}{
	ConditionNew:         {},
	ConditionLikeNew:     {},
	ConditionGood:        {},
	ConditionFair:        {},
	ConditionNeedsRepair: {},
}

// ValidCategory reports whether category is a known goods category.
func ValidCategory(category string) bool {
	_, ok := validCategories[category]
	return ok
}

// ValidCondition reports whether condition is a known goods condition.
func ValidCondition(condition string) bool {
	_, ok := validConditions[condition]
	return ok
}

// Goods represents a marketplace listing. The seller is the user who created
// the listing; the buyer is set exactly once when the item is sold.
type Goods struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"not null" json:"name"`
	Price       float64    `gorm:"not null" json:"price"`
	Description string     `gorm:"type:text" json:"description"`
	Category    string     `gorm:"not null;default:other" json:"category"`
	Condition   string     `gorm:"not null;default:good" json:"condition"`
	Location    string     `json:"location"`
	Contact     string     `json:"contact"`
	ImageURL    string     `json:"image_url"`
	SellerID    *uint      `gorm:"index" json:"seller_id,omitempty"`
	Seller      *User      `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	BuyerID     *uint      `gorm:"index" json:"buyer_id,omitempty"`
	Buyer       *User      `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
	IsSold      bool       `gorm:"not null;default:false;index" json:"is_sold"`
	SoldAt      *time.Time `json:"sold_at,omitempty"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// FavoritesCount is not persisted; computed at query time
	FavoritesCount int `gorm:"->" json:"favorites_count"`
	// Liked indicates whether the requesting user liked this item (computed)
	Liked bool `gorm:"->" json:"is_liked"`
	// Favorited indicates whether the requesting user favorited this item (computed)
	Favorited bool           `gorm:"->" json:"is_favorited"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

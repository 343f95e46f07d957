package model

import "time"

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusFailed  OrderStatus = "failed"
)

// Valid reports whether s is one of the three known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusFailed:
		return true
	}
	return false
}

type ProductType string

const (
	ProductTypeObywatel ProductType = "obywatel-product"
	ProductTypeReceipts ProductType = "receipts-product"
)

// DiscordUserPending is the sentinel user id stored when access is granted
// from a purchase before the buyer has linked their Discord account.
const DiscordUserPending = "pending"

type User struct {
	ID        string    `gorm:"primaryKey;size:64;not null" json:"id"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"` // bcrypt hash
	CreatedAt time.Time `json:"createdAt"`
}

type Order struct {
	ID          string `gorm:"primaryKey;size:64;not null" json:"id"`
	Email       string `gorm:"size:255;index;not null" json:"email"`
	ProductID   string `gorm:"size:255;not null" json:"productId"`
	ProductName string `gorm:"size:255;not null" json:"productName"`
	// Price is an opaque display string, matching what the storefront shows.
	Price string `gorm:"size:50;not null" json:"price"`
	// Indexed, not unique: orders created before checkout hold an empty id.
	StripeSessionID string      `gorm:"size:255;index" json:"stripeSessionId,omitempty"`
	Status          OrderStatus `gorm:"size:32;index;not null;default:pending" json:"status"`
	CreatedAt       time.Time   `json:"createdAt"`
}

type DiscordAccess struct {
	ID            string    `gorm:"primaryKey;size:64;not null" json:"id"`
	Email         string    `gorm:"size:255;index;not null" json:"email"`
	DiscordUserID string    `gorm:"size:64;not null" json:"discordUserId"`
	ExpiresAt     time.Time `json:"expiresAt"`
	CreatedAt     time.Time `json:"createdAt"`
}

type AccessCode struct {
	ID          string      `gorm:"primaryKey;size:64;not null"`
	Code        string      `gorm:"size:64;uniqueIndex;not null"`
	ProductType ProductType `gorm:"size:32;index;not null"`
	// Set when the code is claimed for a buyer.
	Email     string `gorm:"size:255"`
	OrderID   string `gorm:"size:64"`
	IsUsed    bool   `gorm:"index;not null;default:false"`
	UsedAt    *time.Time
	CreatedAt time.Time
}

// WebhookEvent records processed provider events for idempotent handling.
type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;not null"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}

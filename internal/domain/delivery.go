package domain

import (
	"time"
)

type DeliveryStatus int

const (
	DeliverySent DeliveryStatus = iota + 1
	DeliveryFailed
)

// Delivery records the outcome of one outbound message of a welcome sequence.
type Delivery struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	SignupID    *int      `gorm:"index" json:"signup_id,omitempty"`
	PhoneNumber string    `gorm:"type:varchar(20);not null" json:"phone_number"`
	Content     string    `gorm:"type:varchar(320);not null" json:"content"`
	Status      int       `gorm:"type:int;not null" json:"status"`
	ProviderSID string    `gorm:"type:varchar(64)" json:"provider_sid,omitempty"`
	Attempts    int       `gorm:"type:int;not null" json:"attempts"`
	LastError   string    `gorm:"type:text" json:"last_error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// InboundSMS is the subset of the provider webhook form this service reads.
type InboundSMS struct {
	Body string `form:"Body"`
	From string `form:"From"`
}

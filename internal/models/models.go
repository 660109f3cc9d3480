package models

import (
	"time"
)

// ImageView is one tracked fetch of an invoice image. Rows are append-only;
// nothing in the application updates or deletes them.
type ImageView struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	InvoiceID string    `gorm:"column:invoice_id;type:varchar(255);not null;index"`
	IPAddress string    `gorm:"column:ip_address;type:varchar(45)"`
	UserAgent string    `gorm:"type:text"`
	Timestamp time.Time `gorm:"index;default:CURRENT_TIMESTAMP"`
	Referer   string    `gorm:"type:text"`
}

// BoletoView is one tracked boleto redirect. Company is stored lower-cased,
// the code verbatim. InvoiceID is nil when the caller did not supply one.
type BoletoView struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Company   string    `gorm:"type:varchar(64);not null;index"`
	Code      string    `gorm:"type:varchar(255);not null"`
	InvoiceID *string   `gorm:"column:invoice_id;type:varchar(255)"`
	IPAddress string    `gorm:"column:ip_address;type:varchar(45)"`
	UserAgent string    `gorm:"type:text"`
	Timestamp time.Time `gorm:"index;default:CURRENT_TIMESTAMP"`
	Referer   string    `gorm:"type:text"`
}

func (ImageView) TableName() string {
	return "image_views"
}

func (BoletoView) TableName() string {
	return "boleto_views"
}

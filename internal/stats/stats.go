package stats

import (
	"context"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/megalink-ti/fatura-tracker/internal/models"
	"gorm.io/gorm"
)

// StatTime is a timestamp produced by an aggregate expression. Postgres
// hands these back as time.Time, but sqlite loses the declared column type
// on MIN/MAX and returns text, so scanning has to accept both.
type StatTime struct {
	time.Time
}

var statTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05",
}

func (t *StatTime) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("cannot scan %T into StatTime", value)
	}
}

func (t StatTime) Value() (driver.Value, error) {
	return t.Time, nil
}

func (t *StatTime) parse(s string) error {
	for _, layout := range statTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("cannot parse %q into StatTime", s)
}

// InvoiceStat is one row of the per-invoice view aggregate.
type InvoiceStat struct {
	InvoiceID string   `gorm:"column:invoice_id"`
	Views     int64    `gorm:"column:views"`
	FirstView StatTime `gorm:"column:first_view"`
	LastView  StatTime `gorm:"column:last_view"`
}

// CompanyStat is one row of the per-company boleto aggregate.
type CompanyStat struct {
	Company string `gorm:"column:company"`
	Views   int64  `gorm:"column:views"`
}

// Service answers the read-side aggregate queries. It holds no state
// beyond the DB handle and re-queries the store on every call.
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) TotalImageViews(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&models.ImageView{}).Count(&total).Error
	return total, err
}

// ImageViewsByInvoice returns per-invoice counts with first/last view
// times, ordered by count descending. Tie order is whatever the store
// yields.
func (s *Service) ImageViewsByInvoice(ctx context.Context) ([]InvoiceStat, error) {
	var rows []InvoiceStat
	err := s.db.WithContext(ctx).
		Model(&models.ImageView{}).
		Select("invoice_id, COUNT(*) AS views, MIN(timestamp) AS first_view, MAX(timestamp) AS last_view").
		Group("invoice_id").
		Order("views DESC").
		Scan(&rows).Error
	return rows, err
}

func (s *Service) RecentImageViews(ctx context.Context, limit int) ([]models.ImageView, error) {
	var views []models.ImageView
	err := s.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&views).Error
	return views, err
}

func (s *Service) ViewsForInvoice(ctx context.Context, invoiceID string) ([]models.ImageView, error) {
	var views []models.ImageView
	err := s.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("timestamp DESC").
		Find(&views).Error
	return views, err
}

func (s *Service) TotalBoletoViews(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&models.BoletoView{}).Count(&total).Error
	return total, err
}

func (s *Service) BoletoViewsByCompany(ctx context.Context) ([]CompanyStat, error) {
	var rows []CompanyStat
	err := s.db.WithContext(ctx).
		Model(&models.BoletoView{}).
		Select("company, COUNT(*) AS views").
		Group("company").
		Order("views DESC").
		Scan(&rows).Error
	return rows, err
}

func (s *Service) ViewsForCompany(ctx context.Context, company string) ([]models.BoletoView, error) {
	var views []models.BoletoView
	err := s.db.WithContext(ctx).
		Where("company = ?", company).
		Order("timestamp DESC").
		Find(&views).Error
	return views, err
}

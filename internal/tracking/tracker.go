package tracking

import (
	"context"
	"time"

	"github.com/megalink-ti/fatura-tracker/internal/metrics"
	"github.com/megalink-ti/fatura-tracker/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const writeTimeout = 2 * time.Second

// RequestMeta carries the best-effort request context persisted with each
// view event. All fields may be empty.
type RequestMeta struct {
	IP        string
	UserAgent string
	Referer   string
}

// Tracker appends view events to the store. Writes are soft-fail: a failed
// insert is logged and counted but never returned to the caller, so the
// primary response (file serve, redirect) proceeds regardless.
type Tracker struct {
	db  *gorm.DB
	log *logrus.Entry
}

func New(logger *logrus.Logger, db *gorm.DB) *Tracker {
	return &Tracker{
		db:  db,
		log: logger.WithField("component", "tracking"),
	}
}

func (t *Tracker) RecordImageView(ctx context.Context, invoiceID string, meta RequestMeta) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	view := models.ImageView{
		InvoiceID: invoiceID,
		IPAddress: meta.IP,
		UserAgent: meta.UserAgent,
		Timestamp: time.Now(),
		Referer:   meta.Referer,
	}

	if err := t.db.WithContext(ctx).Create(&view).Error; err != nil {
		metrics.ViewLogFailuresTotal.WithLabelValues("image").Inc()
		t.log.WithError(err).WithField("invoice_id", invoiceID).Warn("Failed to record image view")
		return
	}

	metrics.ImageViewsRecordedTotal.Inc()
	t.log.WithField("invoice_id", invoiceID).Debug("Image view recorded")
}

// RecordBoletoView persists a redirect event. The company key must already
// be canonical (lower-cased, registry-validated); invoiceID may be nil.
func (t *Tracker) RecordBoletoView(ctx context.Context, company, code string, invoiceID *string, meta RequestMeta) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	view := models.BoletoView{
		Company:   company,
		Code:      code,
		InvoiceID: invoiceID,
		IPAddress: meta.IP,
		UserAgent: meta.UserAgent,
		Timestamp: time.Now(),
		Referer:   meta.Referer,
	}

	if err := t.db.WithContext(ctx).Create(&view).Error; err != nil {
		metrics.ViewLogFailuresTotal.WithLabelValues("boleto").Inc()
		t.log.WithError(err).WithFields(logrus.Fields{
			"company": company,
			"code":    code,
		}).Warn("Failed to record boleto view")
		return
	}

	metrics.BoletoViewsRecordedTotal.Inc()
	t.log.WithField("company", company).Debug("Boleto view recorded")
}

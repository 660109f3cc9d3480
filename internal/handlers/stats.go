package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// HandleStats returns the aggregate view counts for both event kinds.
func (h *TrackerHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totalImages, err := h.stats.TotalImageViews(ctx)
	if err != nil {
		h.log.WithError(err).Error("Image view count failed")
		writeStorageError(w)
		return
	}

	invoiceStats, err := h.stats.ImageViewsByInvoice(ctx)
	if err != nil {
		h.log.WithError(err).Error("Invoice aggregation failed")
		writeStorageError(w)
		return
	}

	totalBoletos, err := h.stats.TotalBoletoViews(ctx)
	if err != nil {
		h.log.WithError(err).Error("Boleto view count failed")
		writeStorageError(w)
		return
	}

	companyStats, err := h.stats.BoletoViewsByCompany(ctx)
	if err != nil {
		h.log.WithError(err).Error("Company aggregation failed")
		writeStorageError(w)
		return
	}

	invoices := make([]map[string]interface{}, 0, len(invoiceStats))
	for _, s := range invoiceStats {
		invoices = append(invoices, map[string]interface{}{
			"invoiceId": s.InvoiceID,
			"views":     s.Views,
		})
	}

	companies := make([]map[string]interface{}, 0, len(companyStats))
	for _, s := range companyStats {
		companies = append(companies, map[string]interface{}{
			"company": s.Company,
			"views":   s.Views,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"images": map[string]interface{}{
			"totalViews":   totalImages,
			"invoiceStats": invoices,
		},
		"boletos": map[string]interface{}{
			"totalViews":   totalBoletos,
			"companyStats": companies,
		},
	})
}

// HandleInvoiceViews lists the image views recorded for one invoice,
// newest first.
func (h *TrackerHandler) HandleInvoiceViews(w http.ResponseWriter, r *http.Request) {
	invoiceID := mux.Vars(r)["invoiceId"]

	views, err := h.stats.ViewsForInvoice(r.Context(), invoiceID)
	if err != nil {
		h.log.WithError(err).WithField("invoice_id", invoiceID).Error("Invoice view query failed")
		writeStorageError(w)
		return
	}

	items := make([]map[string]interface{}, 0, len(views))
	for _, v := range views {
		items = append(items, map[string]interface{}{
			"timestamp": formatTimestamp(v.Timestamp),
			"ipAddress": v.IPAddress,
			"userAgent": v.UserAgent,
			"referer":   v.Referer,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"invoiceId": invoiceID,
		"views":     items,
	})
}

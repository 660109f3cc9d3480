package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/megalink-ti/fatura-tracker/internal/models"
	"github.com/megalink-ti/fatura-tracker/internal/stats"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTmpl = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

type dashboardData struct {
	TotalImageViews  int64
	InvoiceStats     []stats.InvoiceStat
	RecentViews      []models.ImageView
	TotalBoletoViews int64
	CompanyStats     []stats.CompanyStat
}

func (h *TrackerHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := dashboardData{}

	fail := func(err error) {
		h.log.WithError(err).Error("Dashboard query failed")
		http.Error(w, "Erro ao buscar dados do banco", http.StatusInternalServerError)
	}

	var err error
	if data.TotalImageViews, err = h.stats.TotalImageViews(ctx); err != nil {
		fail(err)
		return
	}
	if data.InvoiceStats, err = h.stats.ImageViewsByInvoice(ctx); err != nil {
		fail(err)
		return
	}
	if data.RecentViews, err = h.stats.RecentImageViews(ctx, 10); err != nil {
		fail(err)
		return
	}
	if data.TotalBoletoViews, err = h.stats.TotalBoletoViews(ctx); err != nil {
		fail(err)
		return
	}
	if data.CompanyStats, err = h.stats.BoletoViewsByCompany(ctx); err != nil {
		fail(err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTmpl.Execute(w, data); err != nil {
		h.log.WithError(err).Error("Dashboard render failed")
	}
}

package handlers

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(r *mux.Router, th *TrackerHandler) {
	r.HandleFunc("/", th.HandleDashboard).Methods("GET")
	r.HandleFunc("/image/{filename}", th.HandleImage).Methods("GET")
	r.HandleFunc("/boleto", th.HandleBoleto).Methods("GET")
	r.HandleFunc("/api/stats", th.HandleStats).Methods("GET")
	r.HandleFunc("/api/views/{invoiceId}", th.HandleInvoiceViews).Methods("GET")
	r.HandleFunc("/api/empresas", th.HandleCompanies).Methods("GET")
	r.HandleFunc("/api/boletos/{empresa}", th.HandleCompanyBoletos).Methods("GET")
	r.HandleFunc("/health", th.HandleHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
}

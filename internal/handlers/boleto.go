package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/megalink-ti/fatura-tracker/internal/metrics"
	"github.com/megalink-ti/fatura-tracker/internal/registry"
)

// HandleBoleto resolves a company+code pair to the provider's boleto URL,
// records the view and redirects. Validation happens before any side
// effect; rejected requests never produce a log row.
func (h *TrackerHandler) HandleBoleto(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	company := query.Get("empresa")
	code := query.Get("codigo")

	target, canonical, err := h.registry.Resolve(company, code)
	if err != nil {
		var missing *registry.MissingParamsError
		if errors.As(err, &missing) {
			metrics.BoletoRejectsTotal.WithLabelValues("missing_params").Inc()
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":          "Parâmetros empresa e codigo são obrigatórios",
				"requiredParams": missing.Required,
				"optionalParams": missing.Optional,
				"example":        boletoExample,
			})
			return
		}

		var unknown *registry.UnknownCompanyError
		if errors.As(err, &unknown) {
			metrics.BoletoRejectsTotal.WithLabelValues("unknown_company").Inc()
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":          "Empresa não cadastrada: " + unknown.Company,
				"validCompanies": unknown.ValidCompanies,
				"example":        boletoExample,
			})
			return
		}

		metrics.BoletoRejectsTotal.WithLabelValues("invalid").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var invoiceID *string
	if v := query.Get("idFatura"); v != "" {
		invoiceID = &v
	} else if v := query.Get("id_fatura"); v != "" {
		invoiceID = &v
	}

	h.tracker.RecordBoletoView(r.Context(), canonical, code, invoiceID, h.requestMeta(r))

	http.Redirect(w, r, target, http.StatusFound)
}

// HandleCompanies lists the registered companies with usage instructions.
func (h *TrackerHandler) HandleCompanies(w http.ResponseWriter, r *http.Request) {
	companies := make(map[string]interface{})
	for key, c := range h.registry.Companies() {
		companies[key] = map[string]string{
			"nome":    c.Name,
			"baseUrl": c.BaseURL,
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"empresas": companies,
		"usage":    "GET /boleto?empresa=<empresa>&codigo=<codigo>[&idFatura=<idFatura>]",
		"example":  boletoExample,
	})
}

// HandleCompanyBoletos lists the boleto views recorded for one company,
// newest first.
func (h *TrackerHandler) HandleCompanyBoletos(w http.ResponseWriter, r *http.Request) {
	company := mux.Vars(r)["empresa"]

	if _, ok := h.registry.Lookup(company); !ok {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":          "Empresa não cadastrada: " + company,
			"validCompanies": h.registry.Keys(),
		})
		return
	}

	views, err := h.stats.ViewsForCompany(r.Context(), canonicalCompany(company))
	if err != nil {
		h.log.WithError(err).WithField("company", company).Error("Company boleto query failed")
		writeStorageError(w)
		return
	}

	boletos := make([]map[string]interface{}, 0, len(views))
	for _, v := range views {
		boletos = append(boletos, map[string]interface{}{
			"code":      v.Code,
			"invoiceId": v.InvoiceID,
			"ipAddress": v.IPAddress,
			"timestamp": formatTimestamp(v.Timestamp),
			"userAgent": v.UserAgent,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"empresa":    canonicalCompany(company),
		"totalCount": len(boletos),
		"boletos":    boletos,
	})
}

func canonicalCompany(company string) string {
	return strings.ToLower(company)
}

func formatTimestamp(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339)
}

package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/megalink-ti/fatura-tracker/internal/config"
)

// MissingParamsError reports a boleto request without the required query
// parameters. Required/Optional feed the machine-readable 400 body.
type MissingParamsError struct {
	Required []string
	Optional []string
}

func (e *MissingParamsError) Error() string {
	return fmt.Sprintf("parâmetros obrigatórios ausentes: %s", strings.Join(e.Required, ", "))
}

// UnknownCompanyError reports a company key absent from the registry.
type UnknownCompanyError struct {
	Company        string
	ValidCompanies []string
}

func (e *UnknownCompanyError) Error() string {
	return fmt.Sprintf("empresa %q não cadastrada", e.Company)
}

// Registry maps company keys to their external boleto base URLs. It is
// built once at startup from config and never mutated afterwards.
type Registry struct {
	companies map[string]config.Company
}

func New(companies map[string]config.Company) *Registry {
	return &Registry{companies: companies}
}

// Resolve validates a boleto request and composes the target URL. Company
// matching is case-insensitive; the code is appended to the base URL
// verbatim, with no escaping. Callers that persist the view must use the
// returned canonical (lower-cased) company key.
func (r *Registry) Resolve(company, code string) (target string, canonical string, err error) {
	if company == "" || code == "" {
		return "", "", &MissingParamsError{
			Required: []string{"empresa", "codigo"},
			Optional: []string{"idFatura"},
		}
	}

	canonical = strings.ToLower(company)
	c, ok := r.companies[canonical]
	if !ok {
		return "", "", &UnknownCompanyError{
			Company:        company,
			ValidCompanies: r.Keys(),
		}
	}

	return c.BaseURL + code, canonical, nil
}

// Lookup returns the registry entry for a company key, case-insensitively.
func (r *Registry) Lookup(company string) (config.Company, bool) {
	c, ok := r.companies[strings.ToLower(company)]
	return c, ok
}

// Keys returns the registered company keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.companies))
	for k := range r.companies {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Companies returns the full registry for listing endpoints.
func (r *Registry) Companies() map[string]config.Company {
	return r.companies
}

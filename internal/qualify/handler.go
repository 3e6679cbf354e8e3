package qualify

import (
	"net/http"

	"github.com/bbl-digital/sales-enablement-portal/internal/relay"
)

// ChecklistHandler serves the default criteria list the qualification form
// is seeded with.
func ChecklistHandler(w http.ResponseWriter, r *http.Request) {
	relay.WriteJSON(w, http.StatusOK, map[string][]string{"lineItems": DefaultChecklist})
}

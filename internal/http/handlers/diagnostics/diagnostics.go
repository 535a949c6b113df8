package diagnostics

import (
	"context"
	"net/http"

	"github.com/princekumarofficial/multipost-api/internal/types"
	"github.com/princekumarofficial/multipost-api/internal/utils/response"
)

type Prober interface {
	Probe(ctx context.Context) types.DiagnosticsResponse
}

// Test reports backend and optional database health
// @Summary Diagnostics probe
// @Description Reports whether the optional database is reachable and whether DATABASE_URL and DATABASE_NAME are set. Always answers 200.
// @Tags health
// @Produce json
// @Success 200 {object} types.DiagnosticsResponse
// @Router /test [get]
func Test(prober Prober) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, prober.Probe(r.Context()))
	}
}

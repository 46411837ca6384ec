package middleware

import (
	"net/http"

	"github.com/mugiliam/hatchworkbench/internal/common"
	"github.com/rs/zerolog/log"
)

const ClientIdHeader = "X-Workbench-Client"

// LoadContext copies the calling client id from the request header, or the
// clientId query parameter, into the context.
func LoadContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientId := r.Header.Get(ClientIdHeader)
		if clientId == "" {
			clientId = r.URL.Query().Get("clientId")
		}
		if clientId == "" {
			next.ServeHTTP(w, r)
			return
		}
		ctx := common.SetClientIdInContext(r.Context(), common.ClientId(clientId))
		l := log.Ctx(ctx).With().Str("client_id", clientId).Logger()
		next.ServeHTTP(w, r.WithContext(l.WithContext(ctx)))
	})
}

package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/profiles/internal/profiles/service"
	"github.com/aussiebroadwan/profiles/internal/profiles/store"
	"github.com/aussiebroadwan/profiles/pkg/httpx"
	"github.com/aussiebroadwan/profiles/pkg/profilesdk"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe. Acquires the store through the lazy connection (connecting on first use)
//	@Description	and pings it. Media reports "disabled" when avatar storage is not configured.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	profilesdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	profilesdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	conn store.Conn,
	profiles *service.ProfileService,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &profilesdk.HealthChecks{
			Database: "ok",
			Media:    "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		st, err := conn.Acquire(r.Context())
		if err == nil {
			err = st.Ping(r.Context())
		}
		if err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if profiles == nil || profiles.Avatars == nil {
			checks.Media = "disabled"
		}

		response := profilesdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}

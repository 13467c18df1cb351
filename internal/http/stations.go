package http

import (
	"net/http"

	"github.com/goliatone/go-newsroom/internal/stations"
)

func (api *API) registerStationRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	root := joinPath(base, "stations")
	mux.HandleFunc("GET "+root+"/{id}/feed", api.handleStationFeed)
}

// handleStationFeed serves the station-scoped published-content listing. The
// path segment accepts a station ID or slug.
func (api *API) handleStationFeed(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.feeds == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	opts := stations.FeedOptions{
		Limit:  parseIntQuery(r.URL.Query().Get("limit"), 50),
		Offset: parseIntQuery(r.URL.Query().Get("offset"), 0),
	}

	var feed *stations.Feed
	if id, err := parseUUID(r.PathValue("id")); err == nil {
		feed, err = api.feeds.Feed(r.Context(), id, opts)
		if err != nil {
			writeError(w, err)
			return
		}
	} else {
		feed, err = api.feeds.FeedBySlug(r.Context(), r.PathValue("id"), opts)
		if err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, feed)
}

package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/actuallystonmai/aniweb/internal/decrypt"
	"github.com/actuallystonmai/aniweb/internal/domain"
	"github.com/go-chi/chi/v5"
)

// GET /api/anime/home
func (h *Handler) GetHome(w http.ResponseWriter, r *http.Request) {
	home, err := h.service.Home(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to fetch home data")
		return
	}
	writeJSON(w, http.StatusOK, home)
}

// GET /api/anime/trending
func (h *Handler) GetTrending(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Trending(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to fetch trending anime")
		return
	}
	writeJSON(w, http.StatusOK, ResultsResponse[domain.AnimeItem]{Results: items})
}

// GET /api/anime/recent
func (h *Handler) GetRecent(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Recent(r.Context())
	if err != nil {
		h.fail(w, r, err, "Failed to fetch recent episodes")
		return
	}
	writeJSON(w, http.StatusOK, ResultsResponse[domain.AnimeItem]{Results: items})
}

// GET /api/anime/search?q=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Query parameter is required")
		return
	}

	results, err := h.service.Search(r.Context(), query)
	if err != nil {
		h.fail(w, r, err, "Failed to search anime")
		return
	}
	writeJSON(w, http.StatusOK, ResultsResponse[domain.SearchResult]{Results: results})
}

// GET /api/anime/info/{id}
func (h *Handler) GetInfo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}

	info, err := h.service.Info(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "Failed to fetch anime info")
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// GET /api/anime/watch/{episodeId}?server=&type=
//
// The episode id carries its own query ("slug?ep=123"), so clients either
// escape it into the path or leave "ep" as a sibling query parameter.
func (h *Handler) Watch(w http.ResponseWriter, r *http.Request) {
	episodeID, ok := pathParam(w, r, "episodeId")
	if !ok {
		return
	}
	q := r.URL.Query()
	if ep := q.Get("ep"); ep != "" && !strings.Contains(episodeID, "?") {
		episodeID += "?ep=" + ep
	}

	res, err := h.service.Watch(r.Context(), episodeID, q.Get("server"), q.Get("type"))
	if err != nil {
		h.fail(w, r, err, "Failed to fetch streaming sources")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GET /api/anime/sources/{episodeId}?id=&server=&type=&fallback=
func (h *Handler) GetSources(w http.ResponseWriter, r *http.Request) {
	episodeID, ok := pathParam(w, r, "episodeId")
	if !ok {
		return
	}
	q := r.URL.Query()
	fallback, _ := strconv.ParseBool(q.Get("fallback"))

	res, err := h.service.Sources(r.Context(), decrypt.Request{
		EpisodeID: episodeID,
		SourceID:  q.Get("id"),
		Server:    q.Get("server"),
		Type:      q.Get("type"),
		Fallback:  fallback,
	})
	if err != nil {
		h.fail(w, r, err, "Failed to fetch streaming sources")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// pathParam returns the named URL param unescaped. chi routes on the raw
// path, so "naruto-677%3Fep%3D12352" reaches here still encoded.
func pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v, err := url.PathUnescape(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid "+name+" parameter")
		return "", false
	}
	return v, true
}

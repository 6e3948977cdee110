package handlers

import (
	"net/http"
	"strconv"

	"github.com/databio/bedboss-sub000/pkg/bedboss"
)

// ClassifyHandler classifies the tab-delimited body, plain or gzip.
// The allow_partial query parameter overrides the configured default.
func (a *API) ClassifyHandler(w http.ResponseWriter, r *http.Request) {
	allowPartial := a.Pipeline.AllowPartial
	if v := r.URL.Query().Get("allow_partial"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			a.writeError(w, badRequest("invalid allow_partial %q", v))
			return
		}
		allowPartial = b
	}

	out, err := a.Pipeline.Classifier.ClassifyReader(a.body(w, r), allowPartial)
	if err != nil {
		a.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}

// FootprintResponse represents the footprint of an uploaded file.
type FootprintResponse struct {
	Footprint bedboss.Footprint       `json:"footprint"`
	Stats     *bedboss.FootprintStats `json:"stats"`
}

// FootprintHandler extracts the chromosome footprint of the body.
func (a *API) FootprintHandler(w http.ResponseWriter, r *http.Request) {
	fp, err := bedboss.ReadFootprint(a.body(w, r))
	if err != nil {
		a.writeError(w, err)
		return
	}
	if fp.Len() == 0 {
		a.writeError(w, badRequest("no intervals in request body"))
		return
	}

	summary, err := bedboss.Summarize(fp)
	if err != nil {
		a.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FootprintResponse{Footprint: fp, Stats: summary})
}

package handlers

import (
	"encoding/json"
	"mime"
	"net/http"
	"os"

	"github.com/databio/bedboss-sub000/pkg/bedboss"
)

// CompatibilityRequest is the JSON form of a compatibility request. Raw
// BED bodies are accepted as well; the genome list then comes from the
// repeated genome query parameter.
type CompatibilityRequest struct {
	Footprint bedboss.Footprint `json:"footprint"`
	Genomes   []string          `json:"genomes,omitempty"`
}

// PredictResponse represents a genome prediction.
type PredictResponse struct {
	Predicted bool   `json:"predicted"`
	Genome    string `json:"genome,omitempty"`
	Tier      int    `json:"tier,omitempty"`
	ReportID  string `json:"report_id"`
}

// CompatibilityHandler scores the request's footprint against the
// registry and returns the full report.
func (a *API) CompatibilityHandler(w http.ResponseWriter, r *http.Request) {
	report, err := a.validate(w, r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// PredictHandler returns the genome the request's footprint most likely
// belongs to.
func (a *API) PredictHandler(w http.ResponseWriter, r *http.Request) {
	report, err := a.validate(w, r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	resp := PredictResponse{ReportID: report.ID.String()}
	if best, ok := report.Predict(); ok {
		resp.Predicted = true
		resp.Genome = best.Genome
		resp.Tier = best.Tier()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) validate(w http.ResponseWriter, r *http.Request) (*bedboss.Report, error) {
	var (
		fp      bedboss.Footprint
		aliases []string
		bedPath string
	)

	if isJSON(r) {
		var req CompatibilityRequest
		if err := json.NewDecoder(a.body(w, r)).Decode(&req); err != nil {
			return nil, badRequest("invalid request body: %v", err)
		}
		fp, aliases = req.Footprint, req.Genomes
	} else {
		path, err := a.spool(w, r)
		if err != nil {
			return nil, err
		}
		defer os.Remove(path)

		fp, err = bedboss.ExtractFootprint(path)
		if err != nil {
			return nil, err
		}
		aliases, bedPath = r.URL.Query()["genome"], path
	}

	genomes, err := a.genomes(aliases)
	if err != nil {
		return nil, err
	}

	report, err := a.Pipeline.Validator.DetermineCompatibility(r.Context(), fp, genomes, bedPath)
	if report != nil {
		// spooled uploads have no client-visible path
		report.BedPath = ""
	}
	return report, err
}

func (a *API) genomes(aliases []string) ([]*bedboss.GenomeModel, error) {
	if a.Pipeline.Registry == nil {
		return nil, nil
	}
	if len(aliases) == 0 {
		return a.Pipeline.Registry.Models(), nil
	}

	out := make([]*bedboss.GenomeModel, 0, len(aliases))
	for _, alias := range aliases {
		m, ok := a.Pipeline.Registry.Lookup(alias)
		if !ok {
			return nil, badRequest("unknown genome %q", alias)
		}
		out = append(out, m)
	}
	return out, nil
}

func isJSON(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(ct)
	return err == nil && mt == "application/json"
}

// GenomeInfo describes a registered genome.
type GenomeInfo struct {
	Alias       string `json:"alias"`
	Digest      string `json:"digest"`
	Chromosomes int    `json:"chromosomes"`
	TotalLength int64  `json:"total_length"`
}

// GenomesHandler lists the registered genomes in registry order.
func (a *API) GenomesHandler(w http.ResponseWriter, r *http.Request) {
	resp := []GenomeInfo{}
	if a.Pipeline.Registry != nil {
		for _, m := range a.Pipeline.Registry.Models() {
			resp = append(resp, GenomeInfo{
				Alias:       m.Alias(),
				Digest:      m.Digest(),
				Chromosomes: m.Len(),
				TotalLength: m.TotalLength(),
			})
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

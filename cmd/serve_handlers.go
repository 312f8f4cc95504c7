package main

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/orderpulse/report-cli/internal/dataset"
	"github.com/orderpulse/report-cli/internal/report"
	"github.com/orderpulse/report-cli/internal/store"
)

// aggregateRequest is the JSON body of POST /v1/aggregate.
type aggregateRequest struct {
	Records       []map[string]string `json:"records"`
	GroupBy       []string            `json:"group_by"`
	Measure       string              `json:"measure,omitempty"`
	CountDistinct string              `json:"count_distinct,omitempty"`
}

// compareRequest is the JSON body of POST /v1/compare.
type compareRequest struct {
	Last     []map[string]string `json:"last"`
	This     []map[string]string `json:"this"`
	GroupBy  []string            `json:"group_by"`
	Measure  string              `json:"measure,omitempty"`
	Join     string              `json:"join,omitempty"`
	ZeroBase string              `json:"zero_base,omitempty"`
}

// rollupRequest is the JSON body of POST /v1/rollup.
type rollupRequest struct {
	Records   []map[string]string `json:"records"`
	Partition string              `json:"partition"`
	Sub       [][]string          `json:"sub"`
	Measure   string              `json:"measure,omitempty"`
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleAggregate(w http.ResponseWriter, r *http.Request) {
	var req aggregateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.GroupBy) == 0 {
		writeError(w, http.StatusBadRequest, "group_by is required")
		return
	}

	ds, err := datasetFromJSON(req.Records, append(req.GroupBy, measureOr(req.Measure), req.CountDistinct)...)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	table, err := report.Aggregate(ds, req.GroupBy, report.Options{
		MeasureField:  measureOr(req.Measure),
		CountDistinct: req.CountDistinct,
	})
	if err != nil {
		writeComputeError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, table)
}

func handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.GroupBy) == 0 {
		writeError(w, http.StatusBadRequest, "group_by is required")
		return
	}

	join := report.JoinMode(cfg.Report.Join)
	if req.Join != "" {
		var err error
		join, err = report.ParseJoinMode(req.Join)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	policy := report.ZeroBasePolicy(cfg.Report.ZeroBase)
	if req.ZeroBase != "" {
		var err error
		policy, err = report.ParseZeroBasePolicy(req.ZeroBase)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	opts := report.Options{MeasureField: measureOr(req.Measure)}

	lastDS, err := datasetFromJSON(req.Last, append(req.GroupBy, measureOr(req.Measure))...)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	thisDS, err := datasetFromJSON(req.This, append(req.GroupBy, measureOr(req.Measure))...)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	lastTable, err := report.Aggregate(lastDS, req.GroupBy, opts)
	if err != nil {
		writeComputeError(w, err)
		return
	}
	thisTable, err := report.Aggregate(thisDS, req.GroupBy, opts)
	if err != nil {
		writeComputeError(w, err)
		return
	}

	result, err := report.Compare(lastTable, thisTable, join, policy)
	if err != nil {
		writeComputeError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, result)
}

func handleRollup(w http.ResponseWriter, r *http.Request) {
	var req rollupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Partition == "" {
		writeError(w, http.StatusBadRequest, "partition is required")
		return
	}
	if len(req.Sub) == 0 {
		writeError(w, http.StatusBadRequest, "sub is required")
		return
	}

	fallback := append([]string{req.Partition, measureOr(req.Measure)}, flatten(req.Sub)...)
	ds, err := datasetFromJSON(req.Records, fallback...)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := report.Rollup(ds, req.Partition, req.Sub, report.Options{MeasureField: measureOr(req.Measure)})
	if err != nil {
		writeComputeError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, results)
}

func handleListRuns(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := store.RunFilter{
			Kind:   r.URL.Query().Get("kind"),
			Source: r.URL.Query().Get("source"),
		}
		runs, err := st.ListRuns(r.Context(), filter)
		if err != nil {
			zap.L().Error("list runs failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "list runs failed")
			return
		}
		writeJSONResponse(w, http.StatusOK, runs)
	}
}

func handleGetRun(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		run, err := st.GetRun(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		writeJSONResponse(w, http.StatusOK, run)
	}
}

// datasetFromJSON binds request records into a dataset. The schema is the
// union of field names in first-appearance order; for an empty record set
// the fallback fields (the request's grouping and measure fields) form the
// schema so that an empty period still aggregates to an empty table.
func datasetFromJSON(records []map[string]string, fallback ...string) (*dataset.Dataset, error) {
	var fields []string
	seen := make(map[string]struct{})
	for _, rec := range records {
		keys := make([]string, 0, len(rec))
		for f := range rec {
			keys = append(keys, f)
		}
		sort.Strings(keys)
		for _, f := range keys {
			if _, ok := seen[f]; !ok {
				seen[f] = struct{}{}
				fields = append(fields, f)
			}
		}
	}
	if len(fields) == 0 {
		for _, f := range fallback {
			if f == "" {
				continue
			}
			if _, ok := seen[f]; !ok {
				seen[f] = struct{}{}
				fields = append(fields, f)
			}
		}
	}

	recs := make([]dataset.Record, len(records))
	for i, rec := range records {
		recs[i] = dataset.Record(rec)
	}
	return dataset.FromRecords(fields, recs)
}

func flatten(specs [][]string) []string {
	var out []string
	for _, s := range specs {
		out = append(out, s...)
	}
	return out
}

func measureOr(measure string) string {
	if measure != "" {
		return measure
	}
	return cfg.Report.MeasureField
}

// writeComputeError maps a schema problem to 422 and anything else to 500.
func writeComputeError(w http.ResponseWriter, err error) {
	if dataset.IsSchemaError(err) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	zap.L().Error("report computation failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "report computation failed")
}

func writeJSONResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSONResponse(w, status, map[string]string{"error": msg})
}

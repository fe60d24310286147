package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"jalapeno/internal/apperror"
	"jalapeno/internal/graphmodel"
)

// queryInt parses an optional integer query parameter, falling back to def
// when absent or malformed (malformed values are treated as absent rather
// than rejected — §6 documents these as soft defaults, not validated
// inputs).
func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func queryUint32(r *http.Request, name string, def uint32) uint32 {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return def
	}
	return uint32(n)
}

func queryBool(r *http.Request, name string, def bool) bool {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// queryCSV splits a comma-separated query parameter into a trimmed,
// non-empty slice.
func queryCSV(r *http.Request, name string) []string {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// excludedCountrySet builds the set internal/pathengine.Request expects
// from the excluded_countries CSV query parameter.
func excludedCountrySet(r *http.Request) map[string]struct{} {
	codes := queryCSV(r, "excluded_countries")
	if len(codes) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[strings.ToUpper(c)] = struct{}{}
	}
	return set
}

// direction parses the direction query parameter, defaulting to outbound
// (spec.md §6) and rejecting an unrecognized value.
func direction(r *http.Request) (graphmodel.Direction, error) {
	raw := r.URL.Query().Get("direction")
	if raw == "" {
		return graphmodel.DirectionOutbound, nil
	}
	d, ok := graphmodel.ValidDirection(raw)
	if !ok {
		return "", apperror.NewField(apperror.KindValidation, "unrecognized direction", "direction").WithDetails("direction", raw)
	}
	return d, nil
}

// requireQuery fetches a required query parameter, returning a validation
// error when absent.
func requireQuery(r *http.Request, name string) (string, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return "", apperror.NewField(apperror.KindValidation, name+" is required", name)
	}
	return v, nil
}

// Package algofilter implements the §4.2 Algo Filter: the predicate deciding
// whether a vertex participates in a given SR Flex-Algorithm, by inspecting
// its SID set. Grounded on the per-vertex SID scan in
// original_source/api/v1/app/utils/path_processor.py.
package algofilter

import "jalapeno/internal/graphmodel"

// Participates reports whether v participates in algo. algo == 0 means "no
// filtering", so every vertex trivially participates.
func Participates(v *graphmodel.Vertex, algo uint32) bool {
	return v.ParticipatesInAlgo(algo)
}

// FilterIGP keeps only the IGP-kind vertices of vertices that do NOT
// participate in algo — used by the Path Engine to test whether a candidate
// path satisfies an algo constraint (spec.md §8 invariant 2: "every IGP
// vertex v in the returned path satisfies v participates in algo").
func FilterIGP(vertices []*graphmodel.Vertex, algo uint32) (violations []*graphmodel.Vertex) {
	if algo == 0 {
		return nil
	}
	for _, v := range vertices {
		if v.Kind.IsIGP() && !v.ParticipatesInAlgo(algo) {
			violations = append(violations, v)
		}
	}
	return violations
}

// Satisfies reports whether every IGP vertex of vertices participates in
// algo.
func Satisfies(vertices []*graphmodel.Vertex, algo uint32) bool {
	return len(FilterIGP(vertices, algo)) == 0
}

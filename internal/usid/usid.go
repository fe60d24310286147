// Package usid implements the SRv6 micro-SID (uSID) Synthesizer of
// spec.md §4.4: folding an ordered vertex list into a single compressed
// IPv6 carrier address. The procedure is grounded verbatim on
// original_source/api/v1/app/utils/path_processor.py's process_path_data:
// auto-detect the uSID block from the first selected SID's first two colon
// groups, strip it, then take the next colon group as each vertex's µSID
// slot.
package usid

import (
	"net/netip"
	"strings"

	"jalapeno/internal/graphmodel"
)

// DefaultBlock is used when the first selected SID has fewer than three
// colon-separated groups (spec.md §4.4 step 2).
const DefaultBlock = "fc00:0:"

// Synthesize builds a Carrier from vertices for algo. Vertices with no SID
// matching algo are skipped (spec.md §4.4 step 1); an empty result (no
// vertex contributed a SID) is a soft failure — Carrier.SRv6USID == "" and
// SRv6SIDList is empty, never an error.
func Synthesize(vertices []*graphmodel.Vertex, algo uint32, configuredBlock string) graphmodel.Carrier {
	var selected []string
	for _, v := range vertices {
		if sid, ok := v.FirstSIDForAlgo(algo); ok && sid.SRv6SID != "" {
			selected = append(selected, sid.SRv6SID)
		}
	}

	if len(selected) == 0 {
		return graphmodel.Carrier{Algo: algo}
	}

	block := configuredBlock
	if block == "" {
		block = detectBlock(selected[0])
	}

	var slots []string
	for _, sid := range selected {
		slots = append(slots, slotFor(sid, block))
	}

	carrier := block + strings.Join(slots, ":") + "::"

	return graphmodel.Carrier{
		USIDBlock:   block,
		SRv6SIDList: selected,
		SRv6USID:    carrier,
		Algo:        algo,
	}
}

// detectBlock takes the substring up to and including the second ":" of the
// IPv6 textual form, e.g. "fc00:0:1:..." -> "fc00:0:". Falls back to
// DefaultBlock when the address has fewer than three colon groups.
func detectBlock(sid string) string {
	first := strings.Index(sid, ":")
	if first < 0 {
		return DefaultBlock
	}
	second := strings.Index(sid[first+1:], ":")
	if second < 0 {
		return DefaultBlock
	}
	return sid[:first+1+second+1]
}

// slotFor strips block from sid, then returns the next colon-separated
// group of what remains: the 16-bit hex µSID slot.
func slotFor(sid, block string) string {
	rest := strings.TrimPrefix(sid, block)
	if idx := strings.Index(rest, ":"); idx >= 0 {
		return rest[:idx]
	}
	return rest
}

// ValidCarrier reports whether the synthesized address is a syntactically
// valid IPv6 address (spec.md §4.4 invariant, §8 invariant 5). An empty
// carrier (no SIDs contributed) trivially counts as valid since it is a
// documented soft failure, not malformed output.
func ValidCarrier(c graphmodel.Carrier) bool {
	if c.SRv6USID == "" {
		return true
	}
	trimmed := strings.TrimSuffix(c.SRv6USID, "::")
	_, err := netip.ParseAddr(trimmed + "::")
	return err == nil
}

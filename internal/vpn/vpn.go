// Package vpn implements the canonical L3VPN SRv6 label/SID grammar of
// spec.md §9's VPN Open Question, resolved as: parse values the store
// already produced into a typed, validated shape — never rewrite or repair
// malformed input. Grounded verbatim on
// original_source/api/v1/app/routes/vpns.py's per-prefix label/SID
// post-processing (hex-encode each MPLS label into its "function", then
// graft it onto the prefix's base SRv6 SID) and on
// original_source/processors/l3vpn's route-target community convention.
package vpn

import (
	"fmt"
	"strconv"
	"strings"

	"jalapeno/internal/apperror"
)

// routeTargetPrefix is the BGP extended-community encoding the source
// system uses for route targets, e.g. "rt=65000:100".
const routeTargetPrefix = "rt="

// ParseRouteTarget strictly parses one BGP extended-community string,
// returning the bare route-target value and true only if it carries the
// expected "rt=" tag; a community of a different kind is reported, not
// silently coerced.
func ParseRouteTarget(community string) (string, bool) {
	if !strings.HasPrefix(community, routeTargetPrefix) {
		return "", false
	}
	return strings.TrimPrefix(community, routeTargetPrefix), true
}

// FormatRouteTarget is ParseRouteTarget's inverse, used when a caller
// supplies a bare route-target value that must be matched against the
// stored community-list encoding.
func FormatRouteTarget(routeTarget string) string {
	return routeTargetPrefix + routeTarget
}

// FunctionFromLabel renders an MPLS label as its SRv6 "function" hex
// string: lowercase hex, trailing zero nibbles trimmed, then left-padded to
// the 16-bit (4 hex digit) function width. A label of exactly 0 renders as
// "0000", not the empty string — matching the teacher's `or '0'` fallback
// before its separate zero-pad step.
func FunctionFromLabel(label uint32) string {
	hex := strconv.FormatUint(uint64(label), 16)
	trimmed := strings.TrimRight(hex, "0")
	if trimmed == "" {
		trimmed = "0"
	}
	if len(trimmed) < 4 {
		trimmed = strings.Repeat("0", 4-len(trimmed)) + trimmed
	}
	return trimmed
}

// CombineSID grafts function onto baseSID's block, producing one
// compressed micro-SID form per function. baseSID's trailing "::" or ":"
// compression marker is stripped first so the result always ends in a
// single "::".
func CombineSID(baseSID, function string) string {
	base := strings.TrimSuffix(baseSID, "::")
	base = strings.TrimSuffix(base, ":")
	return fmt.Sprintf("%s:%s::", base, function)
}

// Prefix is the strictly-parsed view of one L3VPN prefix document's VPN
// fields (spec.md §3's L3VPN vertex, generalized with the SRv6 carrier
// fields the teacher route derives ad hoc per request).
type Prefix struct {
	VRD          string
	Nexthop      string
	PeerASN      uint32
	RouteTargets []string
	Functions    []string
	SIDs         []string
}

// BuildPrefix parses raw label/SID fields from a stored VPN prefix document
// into a Prefix, applying FunctionFromLabel/CombineSID to every label. An
// empty baseSID with non-empty labels is a backend error — the source
// document is malformed, and the grammar refuses to guess a carrier rather
// than emit a bogus one.
func BuildPrefix(vrd, nexthop string, peerASN uint32, routeTargetCommunities []string, labels []uint32, baseSID string) (*Prefix, error) {
	p := &Prefix{VRD: vrd, Nexthop: nexthop, PeerASN: peerASN}

	for _, c := range routeTargetCommunities {
		if rt, ok := ParseRouteTarget(c); ok {
			p.RouteTargets = append(p.RouteTargets, rt)
		}
	}

	if len(labels) == 0 {
		return p, nil
	}
	if baseSID == "" {
		return nil, apperror.New(apperror.KindBackendError, "prefix carries labels but no base SRv6 SID")
	}

	for _, label := range labels {
		fn := FunctionFromLabel(label)
		p.Functions = append(p.Functions, fn)
		p.SIDs = append(p.SIDs, CombineSID(baseSID, fn))
	}
	return p, nil
}

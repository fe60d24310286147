package httpapi

import (
	"net/http"

	"jalapeno/internal/apperror"
	"jalapeno/internal/graphstore"
	"jalapeno/internal/vpn"
)

// vpnCollections is the subset of graphstore.KnownCollections that carries
// L3VPN prefixes (spec.md §3).
var vpnCollections = map[string]bool{
	"l3vpn_v4":       true,
	"l3vpn_v6":       true,
	"l3vpn_prefixes": true,
}

func validateVPNCollection(name string) error {
	if err := graphstore.ValidateCollection(name); err != nil {
		return err
	}
	if !vpnCollections[name] {
		return apperror.NewField(apperror.KindValidation, "not a VPN collection", "collection").WithDetails("collection", name)
	}
	return nil
}

// prefixView projects a parsed vpn.Prefix for the JSON surface.
type prefixView struct {
	ID           string   `json:"id"`
	VRD          string   `json:"vrd,omitempty"`
	Nexthop      string   `json:"nexthop,omitempty"`
	PeerASN      uint32   `json:"peer_asn,omitempty"`
	RouteTargets []string `json:"route_targets,omitempty"`
	Functions    []string `json:"functions,omitempty"`
	SIDs         []string `json:"sids,omitempty"`
}

// buildPrefixFromAttrs extracts the raw VPN fields the store attaches to a
// vertex's opaque Attrs bag and runs them through internal/vpn's
// parse-don't-rewrite grammar.
func buildPrefixFromAttrs(id, baseSID string, attrs map[string]any) (*vpn.Prefix, error) {
	vrd, _ := attrs["vrd"].(string)
	nexthop, _ := attrs["nexthop"].(string)
	var peerASN uint32
	switch v := attrs["peer_asn"].(type) {
	case uint32:
		peerASN = v
	case int:
		peerASN = uint32(v)
	case float64:
		peerASN = uint32(v)
	}

	var communities []string
	if raw, ok := attrs["route_target_communities"].([]string); ok {
		communities = raw
	} else if raw, ok := attrs["route_target_communities"].([]any); ok {
		for _, c := range raw {
			if s, ok := c.(string); ok {
				communities = append(communities, s)
			}
		}
	}

	var labels []uint32
	if raw, ok := attrs["labels"].([]uint32); ok {
		labels = raw
	} else if raw, ok := attrs["labels"].([]any); ok {
		for _, l := range raw {
			switch v := l.(type) {
			case uint32:
				labels = append(labels, v)
			case int:
				labels = append(labels, uint32(v))
			case float64:
				labels = append(labels, uint32(v))
			}
		}
	}

	return vpn.BuildPrefix(vrd, nexthop, peerASN, communities, labels, baseSID)
}

func newPrefixView(id string, p *vpn.Prefix) prefixView {
	return prefixView{
		ID: id, VRD: p.VRD, Nexthop: p.Nexthop, PeerASN: p.PeerASN,
		RouteTargets: p.RouteTargets, Functions: p.Functions, SIDs: p.SIDs,
	}
}

// handleVPNs lists the known VPN collections.
func (s *Server) handleVPNs(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(vpnCollections))
	for name := range vpnCollections {
		names = append(names, name)
	}
	writeJSON(w, http.StatusOK, map[string]any{"vpns": names})
}

// handleVPNPrefixes lists every prefix of a VPN collection, parsed through
// internal/vpn.
func (s *Server) handleVPNPrefixes(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")
	if err := validateVPNCollection(collection); err != nil {
		WriteError(w, err)
		return
	}
	limit := queryInt(r, "limit", 100)
	skip := queryInt(r, "skip", 0)

	vertices, err := s.Store.ListVertices(r.Context(), collection, limit, skip)
	if err != nil {
		WriteError(w, err)
		return
	}
	views := make([]prefixView, 0, len(vertices))
	for _, v := range vertices {
		baseSID, _ := v.Attrs["base_sid"].(string)
		p, perr := buildPrefixFromAttrs(v.ID.String(), baseSID, v.Attrs)
		if perr != nil {
			continue
		}
		views = append(views, newPrefixView(v.ID.String(), p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"prefixes": views, "count": len(views)})
}

// handleVPNPrefix returns one parsed VPN prefix document.
func (s *Server) handleVPNPrefix(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")
	if err := validateVPNCollection(collection); err != nil {
		WriteError(w, err)
		return
	}
	key := r.PathValue("key")
	v, err := s.Store.GetVertex(r.Context(), collection, key)
	if err != nil {
		WriteError(w, err)
		return
	}
	baseSID, _ := v.Attrs["base_sid"].(string)
	p, err := buildPrefixFromAttrs(v.ID.String(), baseSID, v.Attrs)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPrefixView(v.ID.String(), p))
}

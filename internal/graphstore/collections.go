package graphstore

import "jalapeno/internal/apperror"

// KnownCollections is the fixed allow-list of collection names the adapter
// will ever substitute into a query, per spec.md §9 "Query generation".
// Collection names arriving from an HTTP path parameter are checked against
// this set before they are used to build SQL; everything else is rejected as
// a validation error rather than concatenated.
var KnownCollections = map[string]CollectionMeta{
	"igp_nodes":      {Name: "igp_nodes", Kind: CollectionDocument},
	"bgp_nodes":      {Name: "bgp_nodes", Kind: CollectionDocument},
	"hosts":          {Name: "hosts", Kind: CollectionDocument},
	"prefixes":       {Name: "prefixes", Kind: CollectionDocument},
	"l3vpn_v4":       {Name: "l3vpn_v4", Kind: CollectionDocument},
	"l3vpn_v6":       {Name: "l3vpn_v6", Kind: CollectionDocument},
	"l3vpn_prefixes": {Name: "l3vpn_prefixes", Kind: CollectionDocument},
	"ipv4_topology":  {Name: "ipv4_topology", Kind: CollectionEdge},
	"ipv6_topology":  {Name: "ipv6_topology", Kind: CollectionEdge},
	"ipv4_graph":     {Name: "ipv4_graph", Kind: CollectionEdge},
	"ipv6_graph":     {Name: "ipv6_graph", Kind: CollectionEdge},
	"gpu_hosts":      {Name: "gpu_hosts", Kind: CollectionDocument},
}

// ValidateCollection rejects any name not in KnownCollections, returning a
// validation-kind error suitable for direct use by internal/httpapi.
func ValidateCollection(name string) error {
	if _, ok := KnownCollections[name]; !ok {
		return apperror.NewField(apperror.KindValidation, "unknown collection", "collection").
			WithDetails("collection", name)
	}
	return nil
}

// IsEdgeCollection reports whether name is a known edge (graph) collection.
func IsEdgeCollection(name string) bool {
	meta, ok := KnownCollections[name]
	return ok && meta.Kind == CollectionEdge
}

package effects

import "slices"

// Contribution is one node's effect as recorded in the ledger.
type Contribution struct {
	NodeID    string `json:"node_id"`
	Value     Value  `json:"value"`
	Condition string `json:"condition,omitempty"`
}

type ledgerEntry struct {
	nodeID  string
	effects []Effect
}

// Aggregator folds the effects of active nodes into one accumulator per
// effect type. Contributions are kept in a ledger keyed by node id and the
// accumulators are always recomputed from it, so removing one node never
// disturbs another node's contribution.
type Aggregator struct {
	catalog *Catalog
	ledger  []ledgerEntry
	acc     map[Type]Value
}

// NewAggregator returns an empty aggregator. A nil catalog uses DefaultCatalog.
func NewAggregator(catalog *Catalog) *Aggregator {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	a := &Aggregator{catalog: catalog}
	a.recompute()
	return a
}

// Catalog returns the catalog the aggregator classifies effects with.
func (a *Aggregator) Catalog() *Catalog { return a.catalog }

// Apply records nodeID's effects. Applying a node that is already in the
// ledger replaces its previous contribution. The opaque effects are
// returned for forwarding to an external consumer.
func (a *Aggregator) Apply(nodeID string, effs []Effect) []Effect {
	entry := ledgerEntry{nodeID: nodeID, effects: slices.Clone(effs)}
	if i := a.index(nodeID); i >= 0 {
		a.ledger[i] = entry
	} else {
		a.ledger = append(a.ledger, entry)
	}
	a.recompute()

	var opaque []Effect
	for _, e := range effs {
		if a.catalog.Category(e.Type) == Opaque {
			opaque = append(opaque, e)
		}
	}
	return opaque
}

// Remove drops nodeID's contribution. It reports whether the node was present.
func (a *Aggregator) Remove(nodeID string) bool {
	i := a.index(nodeID)
	if i < 0 {
		return false
	}
	a.ledger = slices.Delete(a.ledger, i, i+1)
	a.recompute()
	return true
}

// Reset clears the ledger and restores every accumulator to its identity.
func (a *Aggregator) Reset() {
	a.ledger = nil
	a.recompute()
}

// Read returns the accumulated value for t, or the category identity if no
// active node contributes to it. Opaque types read as the zero Value.
func (a *Aggregator) Read(t Type) Value {
	if v, ok := a.acc[t]; ok {
		return v
	}
	return a.catalog.Category(t).Identity()
}

// Number is Read narrowed to a float. Non-numeric accumulators read as 0.
func (a *Aggregator) Number(t Type) float64 {
	f, _ := a.Read(t).Float()
	return f
}

// Flag is Read narrowed to a boolean.
func (a *Aggregator) Flag(t Type) bool {
	return a.Read(t).Truthy()
}

// Snapshot returns every non-opaque accumulator, including untouched
// catalog types at identity.
func (a *Aggregator) Snapshot() map[Type]Value {
	out := make(map[Type]Value, len(a.acc))
	for _, t := range a.catalog.Types() {
		if cat := a.catalog.Category(t); cat != Opaque {
			out[t] = cat.Identity()
		}
	}
	for t, v := range a.acc {
		out[t] = v
	}
	return out
}

// Contributions lists the ledger entries for t in application order,
// conditions included.
func (a *Aggregator) Contributions(t Type) []Contribution {
	var out []Contribution
	for _, entry := range a.ledger {
		for _, e := range entry.effects {
			if e.Type == t {
				out = append(out, Contribution{NodeID: entry.nodeID, Value: e.Value, Condition: e.Condition})
			}
		}
	}
	return out
}

// Nodes returns the node ids in the ledger in application order.
func (a *Aggregator) Nodes() []string {
	ids := make([]string, len(a.ledger))
	for i, entry := range a.ledger {
		ids[i] = entry.nodeID
	}
	return ids
}

func (a *Aggregator) index(nodeID string) int {
	return slices.IndexFunc(a.ledger, func(e ledgerEntry) bool { return e.nodeID == nodeID })
}

func (a *Aggregator) recompute() {
	acc := make(map[Type]Value)
	for _, entry := range a.ledger {
		for _, e := range entry.effects {
			cat := a.catalog.Category(e.Type)
			if cat == Opaque {
				continue
			}
			cur, ok := acc[e.Type]
			if !ok {
				cur = cat.Identity()
			}
			acc[e.Type] = cat.Combine(cur, e.Value)
		}
	}
	a.acc = acc
}

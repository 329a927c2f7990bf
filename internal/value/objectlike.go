package value

import "strings"

// objectEquals implements the "by forced-member snapshot" rule of spec
// section 4.A for two object-like values of matching kind/class. Members
// that have not yet been forced on *either* side are compared by identity of
// their slot only (both-unforced counts as equal, one-forced-one-not counts
// as unequal) — full lazy equality that forces on demand is provided by the
// evaluator's ValuesEqual wrapper (internal/eval), which forces every member
// of both operands before delegating here.
func objectEquals(a, b Objectlike) bool {
	if a.Kind() != b.Kind() {
		return false
	}

	ta, tb := a.Members(), b.Members()
	if ta.Len() != tb.Len() {
		return false
	}

	ca, cb := a.Cache(), b.Cache()
	keys := ta.Keys()
	for _, k := range keys {
		va, aok := ca.Cached(k)
		vb, bok := cb.Cached(k)

		switch {
		case aok && bok:
			if !va.Equals(vb) {
				return false
			}
		case !aok && !bok:
			continue
		default:
			return false
		}
	}

	return true
}

func membersString(kind string, t *Table) string {
	var b strings.Builder

	b.WriteString(kind)
	b.WriteString(" {")

	first := true

	t.Each(func(k Key, d *Def) {
		if !first {
			b.WriteString("; ")
		}

		first = false
		b.WriteString(k.String())
	})
	b.WriteString("}")

	return b.String()
}

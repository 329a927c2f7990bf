package value

// VisibleKeys returns obj's members in the deterministic order spec section
// 3's iteration invariant requires: the concatenation of parent-only keys
// (recursively, in the parent's own visible order) then this object's own
// keys, each key appearing exactly once at its most-ancestral position, with
// a duplicate at a more-derived level simply marking that position as
// "present" rather than appending again. Used by export (package codec), the
// text renderers (package render), the evaluator, and the amend engine's
// predicate-member pass.
func VisibleKeys(obj Objectlike) []Key {
	var ancestorKeys []Key
	if p, ok := obj.Parent(); ok {
		ancestorKeys = VisibleKeys(p)
	}

	own := obj.Members().Keys()
	seen := make([]Key, 0, len(ancestorKeys)+len(own))
	contains := func(keys []Key, k Key) bool {
		for _, existing := range keys {
			if existing.Equals(k) {
				return true
			}
		}
		return false
	}

	for _, k := range ancestorKeys {
		seen = append(seen, k)
	}

	for _, k := range own {
		if !contains(seen, k) {
			seen = append(seen, k)
		}
	}

	return seen
}

// ElementCount returns one past the greatest KeyElement index declared
// anywhere in obj's amend chain (spec section 3: "Element indices ... are
// dense 0..length"), the same computation Listing.Length performs,
// generalized to any object-like so the amend engine can compute the
// next sequential index for element-syntax overlays on a Dynamic too.
func ElementCount(obj Objectlike) int64 {
	max := int64(-1)

	for cur := obj; ; {
		for _, k := range cur.Members().Keys() {
			if k.Kind() == KeyElement && k.Element() > max {
				max = k.Element()
			}
		}

		p, ok := cur.Parent()
		if !ok {
			break
		}

		cur = p
	}

	return max + 1
}

// OwningDef walks obj's amend chain starting at obj and returns the nearest
// (most-derived) Def for key along with the object-like that physically
// declares it (spec section 4.B step 2, "the owner for the call"). It does
// not consult the `default` member.
func OwningDef(obj Objectlike, key Key) (owner Objectlike, def *Def, found bool) {
	for cur := obj; ; {
		if d, ok := cur.Members().Lookup(key); ok {
			return cur, d, true
		}

		p, ok := cur.Parent()
		if !ok {
			return nil, nil, false
		}

		cur = p
	}
}

// NearestDefault walks obj's amend chain and returns the closest `default`
// member, if any (spec section 4.B step 3).
func NearestDefault(obj Objectlike) (owner Objectlike, def *Def, found bool) {
	for cur := obj; ; {
		if d, ok := cur.Members().Default(); ok {
			return cur, d, true
		}

		p, ok := cur.Parent()
		if !ok {
			return nil, nil, false
		}

		cur = p
	}
}

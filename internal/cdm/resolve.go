package cdm

import "slices"

// Resolve expands every entity and propagates extensions.
func Resolve(reg *Registry) error {
	Expand(reg)
	return Propagate(reg)
}

// Expand replaces each entity's resolved attributes with its base attributes
// qualified by every prefix, prefixes outermost, both in declared order.
func Expand(reg *Registry) {
	for _, e := range reg.Entities() {
		e.Resolved = expandAttributes(e.Name, e.Prefixes, e.Attributes)
	}
}

// Propagate pushes attributes along extends_entities.
//
// For an entity E extending F, every resolved attribute a of E is appended
// to F as p_a for each prefix p of F. If F extends H, the same attribute is
// also appended to H as q_p_a for each prefix q of H. Propagation stops after
// those two hops. Entities are visited in registry order and observe
// attributes pushed into them by entities visited earlier.
//
// Attributes already present with identical values are not appended again,
// so running Propagate twice over a registry adds nothing the first run did
// not already add for chains visited in dependency order.
func Propagate(reg *Registry) error {
	for _, e := range reg.Entities() {
		if len(e.Extends) == 0 {
			continue
		}

		attrs := slices.Clone(e.Resolved)
		for _, targetName := range e.Extends {
			target, err := reg.lookup(targetName, e.Name, RefExtends)
			if err != nil {
				return err
			}

			for _, prefix := range target.Prefixes {
				for _, attr := range attrs {
					extended := withPrefix(prefix, attr)
					target.add(extended)

					for _, outerName := range target.Extends {
						outer, err := reg.lookup(outerName, target.Name, RefExtends)
						if err != nil {
							return err
						}
						for _, outerPrefix := range outer.Prefixes {
							outer.add(withPrefix(outerPrefix, extended))
						}
					}
				}
			}
		}
	}
	return nil
}

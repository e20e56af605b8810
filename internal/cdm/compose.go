package cdm

// attrRef points at a resolved attribute inside the registry.
// Labels are keyed by position so every table sees the same label for the
// same registry attribute.
type attrRef struct {
	entity string
	index  int
}

// slot is one position in a table being composed: either a registry
// attribute whose label is read after composition, or an inline attribute.
type slot struct {
	ref    *attrRef
	inline TableAttribute
}

type composer struct {
	reg    *Registry
	labels map[attrRef]string
}

// Compose flattens every table into its attribute list.
//
// Registry attributes are shared between tables. A bare reference labels an
// attribute only when no earlier reference labelled it, while a structured
// reference always relabels. Labels are read once every table is composed,
// so a relabel by a later table is visible in earlier ones too.
func Compose(tables []*Table, reg *Registry) ([]*ResolvedTable, error) {
	c := &composer{reg: reg, labels: make(map[attrRef]string)}

	slotsByTable := make([][]slot, len(tables))
	for i, table := range tables {
		slots, err := c.compose(table)
		if err != nil {
			return nil, err
		}
		slotsByTable[i] = slots
	}

	out := make([]*ResolvedTable, 0, len(tables))
	for i, table := range tables {
		resolved := &ResolvedTable{
			Name:        table.Name,
			ID:          table.ID,
			Description: table.Description,
			Attributes:  make([]TableAttribute, 0, len(slotsByTable[i])),
		}
		for _, s := range slotsByTable[i] {
			resolved.Attributes = append(resolved.Attributes, c.materialize(s))
		}
		out = append(out, resolved)
	}
	return out, nil
}

func (c *composer) compose(table *Table) ([]slot, error) {
	var slots []slot
	for _, ref := range table.Entities {
		switch ref.Kind {
		case RefCustom:
			for _, sub := range ref.Custom {
				for _, attr := range expandAttributes(sub.Name, sub.Prefixes, sub.Attributes) {
					slots = append(slots, slot{inline: TableAttribute{Attribute: attr, Entity: sub.Name}})
				}
			}

		case RefStructured:
			entity, err := c.reg.lookup(ref.Name, table.Name, RefTable)
			if err != nil {
				return nil, err
			}
			for _, prefix := range ref.Prefixes {
				for _, base := range ref.Attributes {
					name := QualifiedName(entity.Name, prefix, base)
					for i, attr := range entity.Resolved {
						if attr.Name != name {
							continue
						}
						r := attrRef{entity: entity.Name, index: i}
						c.labels[r] = ref.Name
						slots = append(slots, slot{ref: &r})
					}
				}
			}

		default:
			entity, err := c.reg.lookup(ref.Name, table.Name, RefTable)
			if err != nil {
				return nil, err
			}
			for i := range entity.Resolved {
				r := attrRef{entity: entity.Name, index: i}
				if _, labelled := c.labels[r]; !labelled {
					c.labels[r] = ref.Name
				}
				slots = append(slots, slot{ref: &r})
			}
		}
	}
	return slots, nil
}

func (c *composer) materialize(s slot) TableAttribute {
	if s.ref == nil {
		return s.inline
	}
	entity, _ := c.reg.Get(s.ref.entity)
	return TableAttribute{
		Attribute: entity.Resolved[s.ref.index],
		Entity:    c.labels[*s.ref],
	}
}

// Package cdm resolves the OSSEM Common Data Model.
//
// Entities declare base attributes and the prefixes used to namespace them.
// Resolution happens in two steps:
//
//   - Expand qualifies every base attribute with every prefix of its entity.
//   - Propagate pushes each entity's attributes into the entities it extends,
//     re-qualified with the target's prefixes, and one hop further into the
//     entities the target itself extends.
//
// Tables are then composed from resolved entities:
//
//	reg, err := cdm.LoadEntities(fs, "schemas/entities")
//	if err := cdm.Resolve(reg); err != nil {
//	    return err
//	}
//	tables, err := cdm.LoadTables(fs, "schemas/tables")
//	resolved, err := cdm.Compose(tables, reg)
//
// A reference to an entity that was never loaded fails with a
// *MissingEntityError. There is no partial result.
package cdm

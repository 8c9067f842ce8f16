// Package mods provides the built-in terminology for MODS (Metadata Object
// Description Schema) records.
//
// The terminology covers the parts of a MODS record most callers edit:
// titles, names with their parts and roles, and the host journal of an
// article with its issue details.
//
// # Registration
//
// The terminology is registered in init() under the name "mods" in the
// global terminology registry, so importing the package for side effects is
// enough to make it available:
//
//	import _ "github.com/c360studio/termxml/vocabulary/mods"
//
//	terms, err := terminology.Lookup(mods.Name)
//
// # Term Layout
//
//	Term          → Query step
//	title_info    → oxns:titleInfo
//	name          → oxns:name
//	person        → oxns:name[@type="personal"]    (ref name)
//	organization  → oxns:name[@type="corporate"]   (ref name)
//	role          → oxns:role
//	journal       → oxns:relatedItem[@type="host"]
//	issue         → oxns:part
//	title         → proxy of title_info.main_title
package mods

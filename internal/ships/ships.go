// Package ships describes the craft packed into the all-ships model so
// the tools can address them by name instead of raw object index.
package ships

// Def describes one ship object inside the all-ships model file.
type Def struct {
	Name        string
	Team        string
	ObjectIndex int
}

// Roster lists the eight ships in allsh.prm object order: two craft per
// team. The order matters: shadow textures are packed two ships per
// file and resolved from the object index (asset.ShadowTextureIndex).
var Roster = []Def{
	{Name: "feisar-1", Team: "FEISAR", ObjectIndex: 0},
	{Name: "feisar-2", Team: "FEISAR", ObjectIndex: 1},
	{Name: "agsystems-1", Team: "AG Systems", ObjectIndex: 2},
	{Name: "agsystems-2", Team: "AG Systems", ObjectIndex: 3},
	{Name: "auricom-1", Team: "Auricom", ObjectIndex: 4},
	{Name: "auricom-2", Team: "Auricom", ObjectIndex: 5},
	{Name: "qirex-1", Team: "Qirex", ObjectIndex: 6},
	{Name: "qirex-2", Team: "Qirex", ObjectIndex: 7},
}

// ByName returns the roster entry with the given name, or nil.
func ByName(name string) *Def {
	for i := range Roster {
		if Roster[i].Name == name {
			return &Roster[i]
		}
	}
	return nil
}

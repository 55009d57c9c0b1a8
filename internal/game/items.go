package game

// ItemDef is the immutable definition of an object that can sit in rooms or
// player inventories. Instances are referenced by ID only; ownership moves
// between room and inventory containers, the definition never changes after
// load.
type ItemDef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Weight      int    `json:"weight,omitempty"`
	// Heal, when positive, marks the item as a usable restorative.
	Heal int `json:"heal,omitempty"`
}

// ItemDefinition returns the immutable definition for an item ID.
func (w *World) ItemDefinition(id string) (ItemDef, bool) {
	def, ok := w.items[id]
	return def, ok
}

func (w *World) itemNames(ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if def, ok := w.items[id]; ok {
			names = append(names, def.Name)
		}
	}
	return names
}

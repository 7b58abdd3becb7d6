package market

// Favorites is an ordered set of asset ids
type Favorites struct {
	ids []string
}

// NewFavorites creates a set from ids, dropping duplicates and keeping first-seen order
func NewFavorites(ids []string) *Favorites {
	f := &Favorites{ids: make([]string, 0, len(ids))}
	for _, id := range ids {
		if !f.Contains(id) {
			f.ids = append(f.ids, id)
		}
	}
	return f
}

// Toggle adds id when absent and removes it when present.
// Returns whether id is a favorite afterwards.
func (f *Favorites) Toggle(id string) bool {
	for i, existing := range f.ids {
		if existing == id {
			f.ids = append(f.ids[:i:i], f.ids[i+1:]...)
			return false
		}
	}
	f.ids = append(f.ids, id)
	return true
}

// Contains reports whether id is a favorite
func (f *Favorites) Contains(id string) bool {
	for _, existing := range f.ids {
		if existing == id {
			return true
		}
	}
	return false
}

// List returns the favorite ids in the order they were added
func (f *Favorites) List() []string {
	out := make([]string, len(f.ids))
	copy(out, f.ids)
	return out
}

// Len returns the number of favorites
func (f *Favorites) Len() int {
	return len(f.ids)
}

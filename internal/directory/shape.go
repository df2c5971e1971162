package directory

// Entry is a named directory in a Shape. An entry without children is a leaf.
type Entry struct {
	Name     string
	Children Shape
}

// Shape declares a directory layout. Order only matters for readability;
// trees always expose children sorted by name.
type Shape []Entry

// Dir declares a directory with optional nested children.
func Dir(name string, children ...Entry) Entry {
	return Entry{Name: name, Children: Shape(children)}
}

// Insert returns a copy of the shape with the nested path added. Existing
// directories along the path are reused, a leaf on the path gains children.
func (s Shape) Insert(segments ...string) Shape {
	if len(segments) == 0 {
		return s
	}

	out := make(Shape, len(s), len(s)+1)
	copy(out, s)

	for i := range out {
		if out[i].Name == segments[0] {
			out[i].Children = out[i].Children.Insert(segments[1:]...)
			return out
		}
	}

	return append(out, Entry{
		Name:     segments[0],
		Children: Shape(nil).Insert(segments[1:]...),
	})
}

// Lookup returns the top-level entry with the given name.
func (s Shape) Lookup(name string) (Entry, bool) {
	for _, entry := range s {
		if entry.Name == name {
			return entry, true
		}
	}
	return Entry{}, false
}

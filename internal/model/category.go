package model

// Category is a normalized content category.
type Category struct {
	ID          string
	Name        string
	Slug        string
	Description string
	ParentID    string
	Ancestors   []string
	Position    int
}

// IsTopLevel reports whether the category has no parent.
func (c Category) IsTopLevel() bool { return c.ParentID == "" }

package model

// Menu is a navigation menu shaped for rendering.
type Menu struct {
	ID    string
	Name  string
	Slug  string
	Items []MenuItem
}

// MenuItem is a single navigation entry. Items without a resolvable
// destination are pruned before the menu reaches templates.
type MenuItem struct {
	ID         string
	Label      string
	Href       string
	Target     string
	CSSClasses string
	Children   []MenuItem
}

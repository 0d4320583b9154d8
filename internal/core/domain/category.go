package domain

// Category owns its Items: deleting a category deletes them.
type Category struct {
	ID       string
	Name     string
	Capacity *int
}

package entity

// Category is a static label attached to articles.
// Categories are seeded once and are read-only during ingestion; the
// association to articles is a pure many-to-many with no ownership direction.
type Category struct {
	ID   int64
	Name string
	Slug string
}

// Validate validates the Category entity fields.
func (c *Category) Validate() error {
	if c.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if c.Slug == "" {
		return &ValidationError{Field: "slug", Message: "slug is required"}
	}
	return nil
}

package validate

// FieldSpec describes one frontmatter field the record validators accept.
// The editor manifest must carry exactly these fields with the same
// required flags.
type FieldSpec struct {
	Name     string
	Required bool
}

// PostFields lists every field Post reads, in declaration order.
func PostFields() []FieldSpec {
	return []FieldSpec{
		{Name: "title", Required: true},
		{Name: "description", Required: true},
		{Name: "category", Required: true},
		{Name: "excerpt", Required: true},
		{Name: "pubDate", Required: true},
		{Name: "updatedDate"},
		{Name: "heroImage"},
		{Name: "draft"},
		{Name: fieldAuthor},
		{Name: fieldAuthors},
	}
}

// AuthorFields lists every field Author reads.
func AuthorFields() []FieldSpec {
	return []FieldSpec{
		{Name: "name", Required: true},
		{Name: "avatarImage"},
		{Name: "avatarUrl"},
		{Name: "website"},
	}
}

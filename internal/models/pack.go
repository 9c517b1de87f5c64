package models

// PackFile is the on-disk layout of a style pack or the legacy library file.
type PackFile struct {
	Version int           `json:"version" yaml:"version" jsonschema:"minimum=1"`
	Styles  []StyleRecord `json:"styles" yaml:"styles"`

	// Path is where the pack was read from or will be written to.
	Path string `json:"-" yaml:"-"`
}

// StyleRecord is the strict shape of one entry in a pack's styles list.
// The loader does not decode into this type; it tolerates malformed records.
type StyleRecord struct {
	ID       string               `json:"id" yaml:"id" jsonschema:"minLength=1"`
	Name     string               `json:"name" yaml:"name" jsonschema:"minLength=1"`
	Category string               `json:"category,omitempty" yaml:"category,omitempty"`
	Default  Fragments            `json:"default" yaml:"default"`
	Models   map[string]Fragments `json:"models,omitempty" yaml:"models,omitempty"`
	Tags     []string             `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// PackVersion is written into every pack the tools create.
const PackVersion = 1

// Label returns the record's choice label, defaulting the category.
func (r StyleRecord) Label() string {
	category := r.Category
	if category == "" {
		category = DefaultCategory
	}
	return StyleTemplate{ID: r.ID, Name: r.Name, Category: category}.Label()
}

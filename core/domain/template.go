// ABOUTME: Template domain model describes the ordered category/channel layout of a catalog
// ABOUTME: Seeds the catalog key set that every pipeline run must preserve

package domain

// TemplateChannel is one channel line of the template, with any seed endpoints
type TemplateChannel struct {
	Name  string
	Seeds []CandidateURL
}

// TemplateCategory groups channels under a category heading, in file order
type TemplateCategory struct {
	Name     string
	Channels []TemplateChannel
}

// Template is the ordered channel layout read before discovery starts
type Template struct {
	Categories []TemplateCategory
}

// Keys returns every channel key in template order
func (t Template) Keys() []ChannelKey {
	keys := make([]ChannelKey, 0)
	for _, category := range t.Categories {
		for _, channel := range category.Channels {
			keys = append(keys, ChannelKey{Category: category.Name, Name: channel.Name})
		}
	}
	return keys
}

// Names returns the distinct channel names in first-seen order
func (t Template) Names() []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, category := range t.Categories {
		for _, channel := range category.Channels {
			if _, ok := seen[channel.Name]; ok {
				continue
			}
			seen[channel.Name] = struct{}{}
			names = append(names, channel.Name)
		}
	}
	return names
}

// Catalog builds the starting catalog: every template key plus its seed endpoints
func (t Template) Catalog() Catalog {
	catalog := NewCatalog()
	for _, category := range t.Categories {
		for _, channel := range category.Channels {
			catalog.AppendUnique(ChannelKey{Category: category.Name, Name: channel.Name}, channel.Seeds...)
		}
	}
	return catalog
}

// IsEmpty reports whether the template declares no channels
func (t Template) IsEmpty() bool {
	return len(t.Keys()) == 0
}

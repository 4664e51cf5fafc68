package search

// Result is a single navigable search hit
type Result struct {
	Title   string            `json:"title"`
	URL     string            `json:"url"`
	Details map[string]string `json:"details,omitempty"`
	Actions []Action          `json:"actions,omitempty"`
}

// Category groups the results of one entity type
type Category struct {
	Name    string   `json:"name"`
	Results []Result `json:"results"`
}

// Results is the aggregate result of a global search
type Results struct {
	Categories []Category `json:"categories"`
}

// NewResults creates an empty result set
func NewResults() *Results {
	return &Results{Categories: []Category{}}
}

// Category appends a named category. Empty categories are ignored.
func (r *Results) Category(name string, results []Result) *Results {
	if len(results) == 0 {
		return r
	}
	r.Categories = append(r.Categories, Category{Name: name, Results: results})
	return r
}

// Count returns the number of results across all categories
func (r *Results) Count() int {
	total := 0
	for _, c := range r.Categories {
		total += len(c.Results)
	}
	return total
}

// Get returns the category with the given name
func (r *Results) Get(name string) (Category, bool) {
	for _, c := range r.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

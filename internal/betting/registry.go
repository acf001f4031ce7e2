// Package betting holds the class-betting domain: the category registry,
// the per-round bet ledger, the settlement engine and profit/loss standings.
// Nothing in this package performs I/O.
package betting

import "fmt"

// Category is a group of classes competing for a single winner per round
type Category struct {
	Name    string   `json:"name"`
	Classes []string `json:"classes"`
}

// Registry is the immutable partition of classes into categories
type Registry struct {
	categories []Category
	categoryOf map[string]string
	byName     map[string]int
}

// NewRegistry validates the categories and builds a registry.
// Every class must belong to exactly one category.
func NewRegistry(categories []Category) (*Registry, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("registry: no categories")
	}

	r := &Registry{
		categories: make([]Category, 0, len(categories)),
		categoryOf: make(map[string]string),
		byName:     make(map[string]int, len(categories)),
	}

	for _, cat := range categories {
		if cat.Name == "" {
			return nil, fmt.Errorf("registry: category with empty name")
		}
		if _, dup := r.byName[cat.Name]; dup {
			return nil, fmt.Errorf("registry: duplicate category %q", cat.Name)
		}
		if len(cat.Classes) == 0 {
			return nil, fmt.Errorf("registry: category %q has no classes", cat.Name)
		}
		for _, class := range cat.Classes {
			if class == "" {
				return nil, fmt.Errorf("registry: empty class id in %q", cat.Name)
			}
			if other, dup := r.categoryOf[class]; dup {
				return nil, fmt.Errorf("registry: class %q in both %q and %q", class, other, cat.Name)
			}
			r.categoryOf[class] = cat.Name
		}
		r.byName[cat.Name] = len(r.categories)
		r.categories = append(r.categories, Category{
			Name:    cat.Name,
			Classes: append([]string(nil), cat.Classes...),
		})
	}

	return r, nil
}

// CategoryOf returns the category a class belongs to
func (r *Registry) CategoryOf(class string) (string, error) {
	cat, ok := r.categoryOf[class]
	if !ok {
		return "", &UnknownClassError{Class: class}
	}
	return cat, nil
}

// MembersOf returns the ordered classes of a category
func (r *Registry) MembersOf(category string) ([]string, error) {
	idx, ok := r.byName[category]
	if !ok {
		return nil, &UnknownCategoryError{Category: category}
	}
	return append([]string(nil), r.categories[idx].Classes...), nil
}

// AllCategories returns category names in declaration order
func (r *Registry) AllCategories() []string {
	names := make([]string, len(r.categories))
	for i, cat := range r.categories {
		names[i] = cat.Name
	}
	return names
}

// Categories returns a copy of all categories with their members
func (r *Registry) Categories() []Category {
	out := make([]Category, len(r.categories))
	for i, cat := range r.categories {
		out[i] = Category{Name: cat.Name, Classes: append([]string(nil), cat.Classes...)}
	}
	return out
}

// Classes returns every class, category by category in member order
func (r *Registry) Classes() []string {
	classes := make([]string, 0, len(r.categoryOf))
	for _, cat := range r.categories {
		classes = append(classes, cat.Classes...)
	}
	return classes
}

func (r *Registry) Contains(class string) bool {
	_, ok := r.categoryOf[class]
	return ok
}

// IsMember reports whether class belongs to category
func (r *Registry) IsMember(category, class string) bool {
	cat, ok := r.categoryOf[class]
	return ok && cat == category
}

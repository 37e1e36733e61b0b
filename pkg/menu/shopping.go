package menu

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Group is one category of a shopping list with its items in first-seen order.
type Group struct {
	Category Category
	Items    []string
}

// ShoppingList is an ordered category -> items mapping. Groups are sorted by
// category order and items are unique within a group, ignoring case.
//
// The zero value is an empty list.
type ShoppingList struct {
	groups []Group
}

// NewShoppingList builds a list from groups, applying the same ordering and
// de-duplication rules as extraction. Groups naming the same category merge.
func NewShoppingList(groups ...Group) ShoppingList {
	b := newListBuilder(false)
	for _, g := range groups {
		for _, item := range g.Items {
			b.add(g.Category, item)
		}
	}
	return b.build()
}

// Groups returns a copy of the groups in display order.
func (l ShoppingList) Groups() []Group {
	out := make([]Group, len(l.groups))
	for i, g := range l.groups {
		out[i] = Group{Category: g.Category, Items: slices.Clone(g.Items)}
	}
	return out
}

// Items returns the items filed under the named category.
func (l ShoppingList) Items(category string) []string {
	for _, g := range l.groups {
		if g.Category.Name == category {
			return slices.Clone(g.Items)
		}
	}
	return nil
}

// Categories returns the category names in display order.
func (l ShoppingList) Categories() []string {
	out := make([]string, len(l.groups))
	for i, g := range l.groups {
		out[i] = g.Category.Name
	}
	return out
}

// Len returns the total number of items.
func (l ShoppingList) Len() int {
	n := 0
	for _, g := range l.groups {
		n += len(g.Items)
	}
	return n
}

// Empty reports whether the list holds no items.
func (l ShoppingList) Empty() bool {
	return l.Len() == 0
}

// Clone returns a deep copy.
func (l ShoppingList) Clone() ShoppingList {
	return ShoppingList{groups: l.Groups()}
}

// MarshalJSON emits a JSON object keyed by category name in display order.
func (l ShoppingList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range l.groups {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(g.Category.Name)
		if err != nil {
			return nil, err
		}
		items, err := json.Marshal(g.Items)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(items)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the object form written by MarshalJSON. Category
// orders are recovered by classifying the stored names.
func (l *ShoppingList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*l = ShoppingList{}
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("shopping list: expected object, got %v", tok)
	}

	var groups []Group
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("shopping list: expected category name, got %v", tok)
		}
		var items []string
		if err := dec.Decode(&items); err != nil {
			return fmt.Errorf("shopping list: category %q: %w", name, err)
		}
		groups = append(groups, Group{Category: categoryFromName(name), Items: items})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*l = NewShoppingList(groups...)
	return nil
}

// MarshalYAML keeps display order, which a plain map would lose.
func (l ShoppingList) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, g := range l.groups {
		var items yaml.Node
		if err := items.Encode(g.Items); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: g.Category.Name},
			&items,
		)
	}
	return node, nil
}

func categoryFromName(name string) Category {
	c := Classify(name)
	c.Name = name
	return c
}

// listBuilder accumulates items per category. With global set, an item is
// kept only the first time it appears anywhere in the list.
type listBuilder struct {
	global bool
	index  map[string]int
	groups []Group
	seen   map[string]map[string]bool
}

func newListBuilder(global bool) *listBuilder {
	return &listBuilder{
		global: global,
		index:  make(map[string]int),
		seen:   make(map[string]map[string]bool),
	}
}

func (b *listBuilder) add(c Category, item string) {
	item = strings.TrimSpace(item)
	if item == "" {
		return
	}
	scope := c.Name
	if b.global {
		scope = ""
	}
	key := strings.ToLower(item)
	if b.seen[scope][key] {
		return
	}
	if b.seen[scope] == nil {
		b.seen[scope] = make(map[string]bool)
	}
	b.seen[scope][key] = true

	i, ok := b.index[c.Name]
	if !ok {
		i = len(b.groups)
		b.index[c.Name] = i
		b.groups = append(b.groups, Group{Category: c})
	}
	b.groups[i].Items = append(b.groups[i].Items, item)
}

func (b *listBuilder) build() ShoppingList {
	groups := slices.Clone(b.groups)
	slices.SortStableFunc(groups, func(x, y Group) int {
		return x.Category.Order - y.Category.Order
	})
	return ShoppingList{groups: groups}
}

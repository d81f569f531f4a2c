package cart

import (
	"github.com/m-mizutani/seefood/pkg/model"
)

// Selection is the set of cart items picked for payment
type Selection struct {
	keys map[model.CartKey]struct{}
}

func NewSelection(keys ...model.CartKey) *Selection {
	s := &Selection{keys: make(map[model.CartKey]struct{})}
	for _, k := range keys {
		s.keys[k] = struct{}{}
	}
	return s
}

func (s *Selection) Has(key model.CartKey) bool {
	_, ok := s.keys[key]
	return ok
}

func (s *Selection) Toggle(key model.CartKey) {
	if s.Has(key) {
		delete(s.keys, key)
		return
	}
	s.keys[key] = struct{}{}
}

// SelectAll selects every item of kind, or deselects them all when every
// one is already selected.
func (s *Selection) SelectAll(items []*model.CartItem, kind model.CartKind) {
	allSelected := true
	found := false
	for _, item := range items {
		if item.Kind != kind {
			continue
		}
		found = true
		if !s.Has(item.Key) {
			allSelected = false
			break
		}
	}
	if !found {
		return
	}

	for _, item := range items {
		if item.Kind != kind {
			continue
		}
		if allSelected {
			delete(s.keys, item.Key)
		} else {
			s.keys[item.Key] = struct{}{}
		}
	}
}

// Selected returns the selected items in their list order
func (s *Selection) Selected(items []*model.CartItem) []*model.CartItem {
	var selected []*model.CartItem
	for _, item := range items {
		if s.Has(item.Key) {
			selected = append(selected, item)
		}
	}
	return selected
}

// Total sums price times quantity over the selected items
func (s *Selection) Total(items []*model.CartItem) float64 {
	var total float64
	for _, item := range s.Selected(items) {
		total += item.Amount()
	}
	return total
}

// Remove drops keys from the selection, e.g. after they were paid
func (s *Selection) Remove(keys ...model.CartKey) {
	for _, k := range keys {
		delete(s.keys, k)
	}
}

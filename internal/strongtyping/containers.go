package strongtyping

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/roach88/vaultsdk/internal/valuefmt"
)

// Asserter checks a value against a type expression. *types.Registry
// implements it.
type Asserter interface {
	AssertTypeName(typeName string, value any, location string) error
}

// ErrKeyNotFound is returned by TypedDefaultDict.Get when the key is absent
// and there is no default factory.
var ErrKeyNotFound = errors.New("key not found")

// TypedList is a list whose elements are checked against the type expression
// itemType on every mutation.
type TypedList[T any] struct {
	name     string
	itemType string
	asserter Asserter
	items    []T
}

// NewTypedList returns a TypedList holding items. name prefixes failure
// locations. Trusted skips the check of the initial items only.
func NewTypedList[T any](name, itemType string, asserter Asserter, items []T, opts ...Option) (*TypedList[T], error) {
	l := &TypedList[T]{name: name, itemType: itemType, asserter: asserter}
	if Apply(opts).Trusted {
		l.items = slices.Clone(items)
		return l, nil
	}
	if err := l.Extend(items); err != nil {
		return nil, err
	}
	return l, nil
}

// Append adds item to the end of the list.
func (l *TypedList[T]) Append(item T) error {
	if err := l.asserter.AssertTypeName(l.itemType, item, l.name+" item"); err != nil {
		return err
	}
	l.items = append(l.items, item)
	return nil
}

// Extend appends every element of items. Nothing is appended if any element
// fails its check.
func (l *TypedList[T]) Extend(items []T) error {
	for i, item := range items {
		if err := l.asserter.AssertTypeName(l.itemType, item, fmt.Sprintf("%s item[%d]", l.name, i)); err != nil {
			return err
		}
	}
	l.items = append(l.items, items...)
	return nil
}

// Set replaces the element at index i.
func (l *TypedList[T]) Set(i int, item T) error {
	if i < 0 || i >= len(l.items) {
		return fmt.Errorf("list assignment index %d out of range", i)
	}
	if err := l.asserter.AssertTypeName(l.itemType, item, l.name+" item"); err != nil {
		return err
	}
	l.items[i] = item
	return nil
}

// SetSlice replaces items[lo:hi] with items.
func (l *TypedList[T]) SetSlice(lo, hi int, items []T) error {
	if lo < 0 || hi > len(l.items) || lo > hi {
		return fmt.Errorf("slice bounds [%d:%d] out of range", lo, hi)
	}
	for _, item := range items {
		if err := l.asserter.AssertTypeName(l.itemType, item, l.name+" item"); err != nil {
			return err
		}
	}
	l.items = slices.Replace(l.items, lo, hi, items...)
	return nil
}

// Concat returns a new list holding l's elements followed by other's.
func (l *TypedList[T]) Concat(other []T) (*TypedList[T], error) {
	out := l.Copy()
	if err := out.Extend(other); err != nil {
		return nil, err
	}
	return out, nil
}

// Copy returns a shallow copy without re-checking.
func (l *TypedList[T]) Copy() *TypedList[T] {
	return &TypedList[T]{name: l.name, itemType: l.itemType, asserter: l.asserter, items: slices.Clone(l.items)}
}

// At returns the element at index i.
func (l *TypedList[T]) At(i int) T {
	return l.items[i]
}

// Len returns the number of elements.
func (l *TypedList[T]) Len() int {
	return len(l.items)
}

// Items returns a copy of the elements.
func (l *TypedList[T]) Items() []T {
	return slices.Clone(l.items)
}

// TypedDefaultDict is a map whose entries are checked against the type
// expression dictType (e.g. "Dict[str, Decimal]") on every mutation. Missing
// keys are filled from an optional default factory.
type TypedDefaultDict[K comparable, V any] struct {
	name     string
	dictType string
	asserter Asserter
	factory  func(K) V
	m        map[K]V
}

// NewTypedDefaultDict returns a dict holding a copy of mapping. factory may be
// nil. Trusted skips the check of the initial mapping only.
func NewTypedDefaultDict[K comparable, V any](name, dictType string, asserter Asserter, factory func(K) V, mapping map[K]V, opts ...Option) (*TypedDefaultDict[K, V], error) {
	d := &TypedDefaultDict[K, V]{
		name:     name,
		dictType: dictType,
		asserter: asserter,
		factory:  factory,
		m:        make(map[K]V, len(mapping)),
	}
	if len(mapping) > 0 && !Apply(opts).Trusted {
		if err := d.check(mapping); err != nil {
			return nil, err
		}
	}
	maps.Copy(d.m, mapping)
	return d, nil
}

func (d *TypedDefaultDict[K, V]) check(m map[K]V) error {
	return d.asserter.AssertTypeName(d.dictType, m, d.name+" key: value")
}

// Get returns the value for key, inserting the factory default when absent.
func (d *TypedDefaultDict[K, V]) Get(key K) (V, error) {
	if v, ok := d.m[key]; ok {
		return v, nil
	}
	if d.factory == nil {
		var zero V
		return zero, fmt.Errorf("%w: %s", ErrKeyNotFound, valuefmt.Literal(key))
	}
	v := d.factory(key)
	if err := d.check(map[K]V{key: v}); err != nil {
		var zero V
		return zero, err
	}
	d.m[key] = v
	return v, nil
}

// Lookup returns the value for key without consulting the default factory.
func (d *TypedDefaultDict[K, V]) Lookup(key K) (V, bool) {
	v, ok := d.m[key]
	return v, ok
}

// Set stores value under key.
func (d *TypedDefaultDict[K, V]) Set(key K, value V) error {
	if err := d.check(map[K]V{key: value}); err != nil {
		return err
	}
	d.m[key] = value
	return nil
}

// SetTrusted stores value under key without checking it.
func (d *TypedDefaultDict[K, V]) SetTrusted(key K, value V) {
	d.m[key] = value
}

// Update merges other into d. Trusted skips the check.
func (d *TypedDefaultDict[K, V]) Update(other map[K]V, opts ...Option) error {
	if len(other) > 0 && !Apply(opts).Trusted {
		if err := d.check(other); err != nil {
			return err
		}
	}
	maps.Copy(d.m, other)
	return nil
}

// SetDefault returns the value for key, storing def first when absent.
func (d *TypedDefaultDict[K, V]) SetDefault(key K, def V) (V, error) {
	if v, ok := d.m[key]; ok {
		return v, nil
	}
	if err := d.check(map[K]V{key: def}); err != nil {
		var zero V
		return zero, err
	}
	d.m[key] = def
	return def, nil
}

// Copy returns a shallow copy without re-checking.
func (d *TypedDefaultDict[K, V]) Copy() *TypedDefaultDict[K, V] {
	out, _ := NewTypedDefaultDict(d.name, d.dictType, d.asserter, d.factory, d.m, Trusted())
	return out
}

// Keys returns the keys ordered by their literal rendering.
func (d *TypedDefaultDict[K, V]) Keys() []K {
	keys := slices.Collect(maps.Keys(d.m))
	slices.SortFunc(keys, func(a, b K) int {
		return strings.Compare(valuefmt.Literal(a), valuefmt.Literal(b))
	})
	return keys
}

// Len returns the number of entries.
func (d *TypedDefaultDict[K, V]) Len() int {
	return len(d.m)
}

// Map returns a copy of the entries.
func (d *TypedDefaultDict[K, V]) Map() map[K]V {
	return maps.Clone(d.m)
}

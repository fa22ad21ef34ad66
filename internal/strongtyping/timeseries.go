package strongtyping

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/roach88/vaultsdk/internal/sdkerr"
	"github.com/roach88/vaultsdk/internal/valuefmt"
)

// TimeseriesItem is one datapoint of a Timeseries.
type TimeseriesItem[T any] struct {
	AtDatetime time.Time `json:"at_datetime" yaml:"at_datetime"`
	Value      T         `json:"value" yaml:"value"`
}

// String renders the item as "(at, value)".
func (i TimeseriesItem[T]) String() string {
	return fmt.Sprintf("(%s, %s)", valuefmt.Text(i.AtDatetime), valuefmt.Text(i.Value))
}

// Timeseries is a sequence of datapoints ordered by AtDatetime.
type Timeseries[T any] struct {
	name    string
	items   []TimeseriesItem[T]
	onEmpty func() T
}

// NewTimeseries returns a Timeseries with no return-on-empty default.
func NewTimeseries[T any](items []TimeseriesItem[T], opts ...Option) (*Timeseries[T], error) {
	return NewNamedTimeseries("Timeseries", items, nil, opts...)
}

// NewFlagTimeseries returns a timeseries of flag values that reads false when
// no value is in effect.
func NewFlagTimeseries(items []TimeseriesItem[bool], opts ...Option) (*Timeseries[bool], error) {
	return NewNamedTimeseries("FlagTimeseries", items, func() bool { return false }, opts...)
}

// NewParameterTimeseries returns a timeseries of parameter values.
func NewParameterTimeseries[T any](items []TimeseriesItem[T], opts ...Option) (*Timeseries[T], error) {
	return NewNamedTimeseries("ParameterTimeseries", items, nil, opts...)
}

// NewNamedTimeseries returns a Timeseries whose messages use name. When
// onEmpty is non-nil it supplies the value read before the first datapoint.
// Each datapoint must be UTC unless Trusted is given. Items are ordered by
// datetime; equal datetimes keep their input order.
func NewNamedTimeseries[T any](name string, items []TimeseriesItem[T], onEmpty func() T, opts ...Option) (*Timeseries[T], error) {
	if !Apply(opts).Trusted {
		for _, item := range items {
			if err := CheckUTC(item.AtDatetime, "at_datetime", "TimeseriesItem"); err != nil {
				return nil, err
			}
		}
	}
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b TimeseriesItem[T]) int {
		return a.AtDatetime.Compare(b.AtDatetime)
	})
	return &Timeseries[T]{name: name, items: sorted, onEmpty: onEmpty}, nil
}

// At returns the value in effect at t: the last datapoint at or before t when
// inclusive, strictly before t otherwise.
func (s *Timeseries[T]) At(t time.Time, inclusive bool) (T, error) {
	if err := CheckUTC(t, "at_datetime", s.name+".at()"); err != nil {
		var zero T
		return zero, err
	}
	return s.at(t, inclusive)
}

func (s *Timeseries[T]) at(t time.Time, inclusive bool) (T, error) {
	var index int
	if inclusive {
		index = sort.Search(len(s.items), func(i int) bool { return s.items[i].AtDatetime.After(t) }) - 1
	} else {
		index = sort.Search(len(s.items), func(i int) bool { return !s.items[i].AtDatetime.Before(t) }) - 1
	}
	if index >= 0 {
		return s.items[index].Value, nil
	}
	if s.onEmpty != nil {
		return s.onEmpty(), nil
	}
	var zero T
	return zero, sdkerr.InvalidSmartContractf("No values provided as of date %s", valuefmt.Text(t))
}

// Before returns the value in effect strictly before t.
func (s *Timeseries[T]) Before(t time.Time) (T, error) {
	if err := CheckUTC(t, "at_datetime", s.name+".before()"); err != nil {
		var zero T
		return zero, err
	}
	return s.at(t, false)
}

// Latest returns the last value.
func (s *Timeseries[T]) Latest() (T, error) {
	if len(s.items) == 0 {
		if s.onEmpty != nil {
			return s.onEmpty(), nil
		}
		var zero T
		return zero, sdkerr.InvalidSmartContractf("No values provided")
	}
	return s.items[len(s.items)-1].Value, nil
}

// All returns every datapoint in order.
func (s *Timeseries[T]) All() []TimeseriesItem[T] {
	return slices.Clone(s.items)
}

// Len returns the number of datapoints.
func (s *Timeseries[T]) Len() int {
	return len(s.items)
}

// Name returns the name used in messages.
func (s *Timeseries[T]) Name() string {
	return s.name
}

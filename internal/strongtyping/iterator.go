package strongtyping

import (
	"iter"
	"slices"

	"github.com/roach88/vaultsdk/internal/sdkerr"
	"github.com/roach88/vaultsdk/internal/valuefmt"
)

// GetIterator validates a list argument and returns a single-pass sequence
// over its elements. A nil list is treated as absent: it is a strong typing
// error, or an invalid smart contract error when checkEmpty is set. An empty
// list is an invalid smart contract error only when checkEmpty is set.
func GetIterator[T any](items []T, hint, name string, checkEmpty bool) (iter.Seq2[int, T], error) {
	if checkEmpty && len(items) == 0 {
		return nil, sdkerr.InvalidSmartContractf("'%s' must be a non empty list, got %s", name, renderList(items))
	}
	if items == nil {
		return nil, sdkerr.StrongTypingf("Expected list of %s objects for '%s', got 'None'", hint, name)
	}
	return slices.All(slices.Clone(items)), nil
}

func renderList[T any](items []T) string {
	if items == nil {
		return "None"
	}
	return valuefmt.Text(items)
}

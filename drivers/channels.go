package drivers

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	Channel1 = 1
	Channel2 = 2
	Channel3 = 3
	Channel4 = 4
)

// Channels selects board channels, either every channel of the addressed kind
// or a list of 1-based indices. The zero value is an empty list.
type Channels struct {
	all bool
	ids []int
}

// All selects every channel of the addressed kind.
func All() Channels {
	return Channels{all: true}
}

// Chans is a shorthand for building a channel selection.
func Chans(ids ...int) Channels {
	return Channels{ids: append([]int{}, ids...)}
}

func (c Channels) IsAll() bool {
	return c.all
}

// Ids returns a copy of the explicitly selected indices, nil for All.
func (c Channels) Ids() []int {
	if c.all {
		return nil
	}
	return append([]int{}, c.ids...)
}

func (c Channels) String() string {
	if c.all {
		return "all"
	}
	return fmt.Sprint(c.ids)
}

// ResolveChannels expands c against a device with limit channels.
// If any index is out of range the whole selection resolves to nothing
// and a StatusErrParameter error is returned.
func ResolveChannels(limit int, c Channels) ([]int, error) {
	if c.all {
		resolved := make([]int, 0, limit)
		for i := 1; i <= limit; i++ {
			resolved = append(resolved, i)
		}
		return resolved, nil
	}

	for _, id := range c.ids {
		if id < 1 || id > limit {
			return []int{}, errors.Wrapf(StatusErrParameter, "channel %d out of range 1..%d", id, limit)
		}
	}

	resolved := make([]int, len(c.ids))
	copy(resolved, c.ids)
	return resolved, nil
}

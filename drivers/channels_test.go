package drivers

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolveChannels(t *testing.T) {
	cases := []struct {
		name    string
		limit   int
		request Channels
		want    []int
		status  Status
	}{
		{"all pwm", PwmChannelCount, All(), []int{1, 2, 3, 4}, StatusOK},
		{"all of two", 2, All(), []int{1, 2}, StatusOK},
		{"selected", AdcChannelCount, Chans(Channel3, Channel1), []int{3, 1}, StatusOK},
		{"duplicates kept", AdcChannelCount, Chans(2, 2), []int{2, 2}, StatusOK},
		{"empty request", AdcChannelCount, Chans(), []int{}, StatusOK},
		{"zero value", AdcChannelCount, Channels{}, []int{}, StatusOK},
		{"above limit", AdcChannelCount, Chans(1, 5), []int{}, StatusErrParameter},
		{"zero", PwmChannelCount, Chans(0), []int{}, StatusErrParameter},
		{"negative", PwmChannelCount, Chans(-3, 1), []int{}, StatusErrParameter},
		{"minus one alone", AdcChannelCount, Chans(-1), []int{}, StatusErrParameter},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ResolveChannels(c.limit, c.request)
			assertStatus(t, StatusOf(err), c.status)
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Errorf("resolved mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestChannelsIsAll(t *testing.T) {
	if !All().IsAll() {
		t.Error("All should select every channel")
	}
	if Chans(1, 2, 3, 4).IsAll() {
		t.Error("explicit list is not the All selector")
	}
	if Chans().IsAll() {
		t.Error("empty list is not the All selector")
	}
	if Chans(-1).IsAll() {
		t.Error("index -1 is not the All selector")
	}
}

func TestChannelsIds(t *testing.T) {
	ids := []int{2, 3}
	c := Chans(ids...)
	ids[0] = 4

	if diff := cmp.Diff([]int{2, 3}, c.Ids()); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	c.Ids()[1] = 1
	if diff := cmp.Diff([]int{2, 3}, c.Ids()); diff != "" {
		t.Errorf("ids changed through copy (-want +got):\n%s", diff)
	}
	if All().Ids() != nil {
		t.Errorf("got ids %v for All", All().Ids())
	}

	if All().String() != "all" || c.String() != "[2 3]" {
		t.Errorf("got %s and %s", All(), c)
	}
}

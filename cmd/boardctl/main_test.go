package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hubertat/expboard/drivers"
)

func TestSelectChannels(t *testing.T) {
	if !selectChannels(nil).IsAll() {
		t.Error("no channels should select all")
	}

	got := selectChannels([]int{2, 3})
	if diff := cmp.Diff([]int{2, 3}, got.Ids()); diff != "" {
		t.Errorf("channels mismatch (-want +got):\n%s", diff)
	}

	minusOne := selectChannels([]int{-1})
	if minusOne.IsAll() {
		t.Error("channel -1 should not select all")
	}
	ids, err := drivers.ResolveChannels(drivers.AdcChannelCount, minusOne)
	if drivers.StatusOf(err) != drivers.StatusErrParameter || len(ids) != 0 {
		t.Errorf("got %v, %v want parameter error and no channels", ids, err)
	}
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"detect"},
		{"begin"},
		{"set-address", "0x11"},
		{"pwm", "freq", "1000"},
		{"pwm", "duty", "50"},
		{"adc", "read"},
	} {
		cmd, _, err := rootCmd.Find(path)
		if err != nil {
			t.Errorf("%v: %v", path, err)
			continue
		}
		if cmd.RunE == nil {
			t.Errorf("%v resolved to %s which does not run anything", path, cmd.Name())
		}
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hubertat/expboard"
	"github.com/hubertat/expboard/drivers"
)

var (
	Version string
	Build   string
)

func main() {
	log.SetLevel(log.DebugLevel)
	log.Info("expboard started")
	log.Info("mock instance for testing puproses, runs without i2c hardware")

	pollDuration := 2 * time.Second
	log.Info("poll interval", "duration", pollDuration)

	fake := drivers.NewMockBoard(drivers.DefaultAddress)
	fake.SetAdcRaw(drivers.Channel1, 0)
	fake.SetAdcRaw(drivers.Channel2, 1024)
	fake.SetAdcRaw(drivers.Channel3, 2048)
	fake.SetAdcRaw(drivers.Channel4, 4095)
	fake.MonitorWrites(os.Stdout)

	eb := &expboard.ExpBoard{Name: "fake board", FakeBoard: fake, Debug: true}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info("will init board...")
	err := eb.InitBoard(ctx, time.Second)
	if err != nil {
		panic(err)
	}
	defer eb.Close()

	found, err := eb.Detect()
	if err != nil {
		panic(err)
	}
	log.Info("board list conform", "addresses", drivers.HexAddresses(found))

	err = eb.Configure()
	if err != nil {
		panic(err)
	}

	eb.PrintStatus(os.Stdout)
	err = eb.StartTicker(ctx, pollDuration, os.Stdout)
	if err != nil {
		panic(err)
	}
}

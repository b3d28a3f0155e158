package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hubertat/servicemaker"

	"github.com/hubertat/expboard"
	"github.com/hubertat/expboard/drivers"
)

const defaultPollInterval = "2s"
const defaultBeginRetry = "2s"

var (
	Version string
	Build   string

	config       = flag.String("config", "config.json", "path of the configuration file")
	flagInstall  = flag.Bool("install", false, "Install service in os")
	flagDetect   = flag.Bool("detect", false, "scan the bus for boards before starting")
	flagDebug    = flag.Bool("debug", false, "enable debug logging")
	pollInterval = flag.String("poll", defaultPollInterval, "adc poll interval (time.Duration)")
	beginRetry   = flag.String("retry", defaultBeginRetry, "board begin retry interval (time.Duration)")

	ebService = servicemaker.ServiceMaker{
		User:               "expboard",
		UserGroups:         []string{"i2c"},
		ServicePath:        "/etc/systemd/system/expboard.service",
		ServiceDescription: "expboard service: DFRobot IO expansion board PWM/ADC controller. github.com/hubertat/expboard",
		ExecDir:            "/srv/expboard",
		ExecName:           "expboard",
	}
)

func main() {
	flag.Parse()
	if *flagDebug {
		log.SetLevel(log.DebugLevel)
	}
	log.Info("expboard started", "version", Version, "build", Build)

	if *flagInstall {
		err := ebService.InstallService()
		if err != nil {
			log.Fatal("failed to install service", "err", err)
		}
		log.Info("service installed!")
		return
	}

	pollDuration, err := time.ParseDuration(*pollInterval)
	if err != nil {
		log.Fatal("invalid poll interval", "poll", *pollInterval, "err", err)
	}
	retryDuration, err := time.ParseDuration(*beginRetry)
	if err != nil {
		log.Fatal("invalid retry interval", "retry", *beginRetry, "err", err)
	}

	eb := &expboard.ExpBoard{}
	configFile, err := os.Open(*config)
	if err != nil {
		log.Fatal("can't find/open config file, will terminate", "config", *config, "err", err)
	}
	cBuff, err := io.ReadAll(configFile)
	configFile.Close()
	if err != nil {
		log.Fatal("failed reading config file", "err", err)
	}
	err = json.Unmarshal(cBuff, eb)
	if err != nil {
		log.Fatal("failed unmarshalling json config", "err", err)
	}
	if *flagDebug {
		eb.Debug = true
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		signal.Stop(c)
		cancel()
	}()

	log.Info("will init board...")
	err = eb.InitBoard(ctx, retryDuration)
	if err != nil {
		log.Fatal("board init failed", "err", err)
	}
	defer eb.Close()

	if *flagDetect {
		found, err := eb.Detect()
		if err != nil {
			log.Error("detect failed", "err", err)
		} else {
			log.Info("board list conform", "addresses", drivers.HexAddresses(found))
		}
	}

	err = eb.Configure()
	if err != nil {
		log.Error("failed to configure board", "err", err)
		return
	}

	eb.PrintStatus(os.Stdout)
	err = eb.StartTicker(ctx, pollDuration, os.Stdout)
	if err != nil {
		log.Error("adc polling failed", "err", err)
		return
	}
	log.Info("expboard stopped")
}

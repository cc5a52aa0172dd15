package main

import (
	"bufio"
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/anggasct/crossway"
	"github.com/anggasct/crossway/pkg/clock"
	"github.com/anggasct/crossway/pkg/config"
	"github.com/anggasct/crossway/pkg/observers"
	"github.com/anggasct/crossway/pkg/panel"
	"github.com/anggasct/crossway/visualization"
	"github.com/sirupsen/logrus"
)

// upper bound on logical seconds simulated in one run
const maxLogicalSeconds = 100000

var (
	// YAML config file path
	configPath = flag.String("config", "", "config file path")
	// base64 encoded YAML config, used when -config is empty
	configData = flag.String("config-data", "", "config file base64 encoded data")
	// wall-clock mode with emergencies read from stdin
	realtime = flag.Bool("realtime", false, "run on the wall clock and read emergencies from stdin (overrides config)")
	dotPath  = flag.String("dot", "", "write the final schedule as Graphviz DOT to this path")

	// log
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "info", "log level (trace debug info warn error critical off)")

	log = logrus.WithField("module", "crossway")
)

func main() {
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		io.WriteString(out, "usage: crossway [flags] [lane1 lane2 lane3 lane4]\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.0000",
	})
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log.level must be one of %v", logLevels)
	}

	c := loadConfig()
	log.Debugf("%+v", c)

	p := panel.New()
	p.SetCounts(c.Lanes.Raw())

	validator := observers.NewValidationObserver()
	metrics := observers.NewMetricsObserver()
	opts := []crossway.Option{
		crossway.WithLogger(logrus.WithField("module", "scheduler")),
		crossway.WithObserver(p),
		crossway.WithObserver(observers.NewLoggingObserver(logrus.WithField("module", "intersection"), logrus.InfoLevel)),
		crossway.WithObserver(validator),
		crossway.WithObserver(metrics),
	}

	var sched *crossway.Scheduler
	if *realtime || c.Realtime {
		sched = runRealtime(p, c, opts)
	} else {
		sched = runLogical(p, c, opts)
	}

	report(sched, metrics, validator)
}

// loadConfig reads the config file or data, or takes the lane counts from
// the positional arguments
func loadConfig() config.Config {
	var (
		c   config.Config
		err error
	)
	switch {
	case *configPath != "":
		c, err = config.Load(*configPath)
	case *configData != "":
		c, err = config.DecodeBase64(*configData)
	case flag.NArg() > 0:
		args := flag.Args()
		for len(args) < crossway.NumLanes {
			args = append(args, "")
		}
		c.Lanes = config.Lanes{Lane1: args[0], Lane2: args[1], Lane3: args[2], Lane4: args[3]}
	default:
		log.Panic("config file, config data or lane counts must be specified")
	}
	if err != nil {
		log.Panicf("config load err: %v", err)
	}
	return c
}

// runLogical fast-forwards a single run on a logical clock
func runLogical(p *panel.Panel, c config.Config, opts []crossway.Option) *crossway.Scheduler {
	clk := clock.NewManual()
	sched, err := crossway.NewScheduler(clk, p, opts...)
	if err != nil {
		log.Panicf("scheduler init err: %v", err)
	}

	for _, e := range c.Emergencies {
		lane := e.LaneID()
		clk.AfterFunc(offset(e.At), func() {
			log.Infof("emergency requested for %s at %v", lane, clk.Now())
			p.Designate(lane)
		})
	}

	if err := sched.Start(); err != nil {
		log.Errorf("run not started: %v", err)
		return sched
	}
	for i := 0; sched.Running() && i < maxLogicalSeconds; i++ {
		clk.Advance(crossway.TickInterval)
	}
	if sched.Running() {
		log.Warnf("run still active after %d logical seconds, stopping", maxLogicalSeconds)
		sched.Stop()
	}
	log.Infof("finished at %v: %s", clk.Now(), p.Status())
	return sched
}

// runRealtime runs on the wall clock until interrupted. Lines on stdin
// designate emergencies or control the run.
func runRealtime(p *panel.Panel, c config.Config, opts []crossway.Option) *crossway.Scheduler {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop := clock.NewLoop()
	sched, err := crossway.NewScheduler(loop, p, opts...)
	if err != nil {
		log.Panicf("scheduler init err: %v", err)
	}

	for _, e := range c.Emergencies {
		lane := e.LaneID()
		loop.AfterFunc(offset(e.At), func() {
			log.Infof("emergency requested for %s", lane)
			p.Designate(lane)
		})
	}

	start := func() {
		if err := sched.Start(); err != nil {
			log.Errorf("run not started: %v", err)
		}
	}
	loop.Post(start)
	go readCommands(os.Stdin, p, loop, start, stop)

	log.Info("running, enter a lane to dispatch an emergency, \"restart\" to start over, \"quit\" to exit")
	if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
		log.Errorf("loop err: %v", err)
	}

	// the loop is gone, nothing else touches the scheduler
	sched.Stop()
	return sched
}

// readCommands feeds stdin lines to the panel and the loop
func readCommands(r io.Reader, p *panel.Panel, loop *clock.Loop, start func(), stop func()) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		fields := strings.Fields(line)
		switch {
		case line == "":
			continue
		case line == "quit" || line == "exit":
			stop()
			return
		case line == "restart":
			if !loop.Post(start) {
				return
			}
		case fields[0] == "counts" && len(fields) == crossway.NumLanes+1:
			for i, lane := range crossway.AllLanes {
				p.SetLaneText(lane, fields[i+1])
			}
			log.Infof("lane counts set to %v", fields[1:])
		case strings.EqualFold(line, "none"):
			p.Designate(crossway.NoLane)
		default:
			lane := crossway.ParseLaneID(line)
			if !lane.Valid() {
				log.Warnf("unknown command %q", line)
				continue
			}
			p.Designate(lane)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Errorf("stdin err: %v", err)
	}
}

func offset(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// report logs the metrics of the last run and optionally writes its DOT
func report(sched *crossway.Scheduler, metrics *observers.MetricsObserver, validator *observers.ValidationObserver) {
	s := metrics.Summary()
	log.WithFields(logrus.Fields{
		"run":          s.RunID,
		"ticks":        s.Ticks,
		"emergencies":  s.Emergencies,
		"ignored":      s.Ignored,
		"lightChanges": s.LightChanges,
		"meanWait":     s.MeanWait,
		"waitStdDev":   s.WaitStdDev,
	}).Infof("summary: waits %v, green ticks %v", s.Waits, s.GreenTicks)

	for _, v := range validator.GetViolations() {
		log.Warnf("invariant violated: %s", v)
	}

	if *dotPath == "" {
		return
	}
	if err := visualization.NewDOTGenerator(sched.State()).GenerateToFile(*dotPath); err != nil {
		log.Errorf("dot write err: %v", err)
		return
	}
	log.Infof("schedule written to %s", *dotPath)
}

// Command trailkit runs the handheld instrument: buttons, menu, OLED and
// e-paper views over live battery, IMU and environment telemetry.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/sweeney/trailkit/internal/display"
	"github.com/sweeney/trailkit/internal/input"
	"github.com/sweeney/trailkit/internal/logic"
	"github.com/sweeney/trailkit/internal/panel"
	"github.com/sweeney/trailkit/internal/profile"
	"github.com/sweeney/trailkit/internal/scheduler"
	"github.com/sweeney/trailkit/internal/status"
	"github.com/sweeney/trailkit/internal/telemetry"
)

type options struct {
	poll       time.Duration
	debounce   time.Duration
	minRefresh time.Duration
	heartbeat  time.Duration
	profile    string
	i2cBus     string
	spiPort    string
	gpioChip   string
	pins       input.PinMap
	printState bool
}

func main() {
	var o options
	flag.DurationVar(&o.poll, "poll", 20*time.Millisecond, "Main loop interval")
	flag.DurationVar(&o.debounce, "debounce", 30*time.Millisecond, "Button debounce duration")
	flag.DurationVar(&o.minRefresh, "min-refresh", display.DefaultMinRefreshInterval, "Minimum interval between e-paper refreshes")
	flag.DurationVar(&o.heartbeat, "heartbeat", 15*time.Minute, "Heartbeat log interval (0 to disable)")
	flag.StringVar(&o.profile, "profile", profile.Default, fmt.Sprintf("Device profile %v", profile.Names()))
	flag.StringVar(&o.i2cBus, "i2c", "", "I2C bus for sensors and OLED (empty for the first bus)")
	flag.StringVar(&o.spiPort, "spi", "", "SPI port for the e-paper (empty for the first port)")
	flag.StringVar(&o.gpioChip, "gpiochip", "gpiochip0", "GPIO chip for the buttons")
	pinSelect := flag.Int("pin-select", input.DefaultPinSelect, "BCM pin number for select")
	pinUp := flag.Int("pin-up", input.DefaultPinUp, "BCM pin number for up")
	pinDown := flag.Int("pin-down", input.DefaultPinDown, "BCM pin number for down")
	pinLeft := flag.Int("pin-left", input.DefaultPinLeft, "BCM pin number for left")
	pinRight := flag.Int("pin-right", input.DefaultPinRight, "BCM pin number for right")
	flag.BoolVar(&o.printState, "print-state", false, "Read telemetry once, print state as JSON and exit")

	flag.Parse()

	o.pins = input.PinMap{
		logic.ButtonSelect: *pinSelect,
		logic.ButtonUp:     *pinUp,
		logic.ButtonDown:   *pinDown,
		logic.ButtonLeft:   *pinLeft,
		logic.ButtonRight:  *pinRight,
	}

	if err := run(o); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(o options) error {
	p, err := profile.Lookup(o.profile)
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("init host: %w", err)
	}

	bus, err := i2creg.Open(o.i2cBus)
	if err != nil {
		return fmt.Errorf("open i2c %q: %w", o.i2cBus, err)
	}
	defer closeLogged("i2c", bus)

	source := telemetry.NewRealSource(bus, p.Sensors)
	tracker := status.NewTracker(time.Now(), status.Config{
		Profile:      p.Name,
		PollMs:       o.poll.Milliseconds(),
		DebounceMs:   o.debounce.Milliseconds(),
		HeartbeatMs:  o.heartbeat.Milliseconds(),
		MinRefreshMs: o.minRefresh.Milliseconds(),
		EPaper:       p.EPaper,
	})

	// Print state mode
	if o.printState {
		return printState(os.Stdout, source, tracker, time.Now())
	}

	pad, err := input.NewRealPad(o.gpioChip, o.pins)
	if err != nil {
		return fmt.Errorf("init buttons: %w", err)
	}
	defer closeLogged("buttons", pad)

	oled, err := panel.NewOLED(bus, p.Layouts())
	if err != nil {
		return fmt.Errorf("init oled: %w", err)
	}
	defer haltLogged("oled", oled)

	var limiter *display.Limiter
	if p.EPaper {
		port, err := spireg.Open(o.spiPort)
		if err != nil {
			return fmt.Errorf("open spi %q: %w", o.spiPort, err)
		}
		defer closeLogged("spi", port)

		epd, err := panel.NewEPaper(port)
		if err != nil {
			return fmt.Errorf("init e-paper: %w", err)
		}
		defer haltLogged("e-paper", epd)
		limiter = display.NewLimiter(epd, o.minRefresh)
	}

	router, err := display.NewRouter(p.Views, oled, limiter)
	if err != nil {
		return err
	}
	sched, err := scheduler.New(scheduler.Config{
		Pad:      pad,
		Source:   source,
		Router:   router,
		Items:    p.Items,
		Debounce: o.debounce,
		Tracker:  tracker,
	})
	if err != nil {
		return err
	}
	if err := sched.Start(time.Now()); err != nil {
		log.Printf("startup draw: %v", err)
	}

	log.Printf("started: profile=%s poll=%v debounce=%v min-refresh=%v heartbeat=%v",
		p.Name, o.poll, o.debounce, o.minRefresh, o.heartbeat)

	ticker := time.NewTicker(o.poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(sched, tracker, o.heartbeat, time.Now, ticker.C, sigCh)
}

func runLoop(sched *scheduler.Scheduler, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			if tracker != nil {
				snap := tracker.Snapshot(now())
				logCounts("shutdown", snap.Uptime(), snap.Counts)
			}
			return nil

		case <-tick:
			t := now()
			sched.Step(t)

			if tracker == nil {
				continue
			}
			if hb := tracker.CheckHeartbeat(t, heartbeat); hb != nil {
				logCounts("heartbeat", hb.Uptime, hb.Counts)
			}
		}
	}
}

func logCounts(prefix string, uptime time.Duration, c status.Counts) {
	log.Printf("%s: uptime=%v iterations=%d presses=%d transitions=%d refresh_accepted=%d refresh_throttled=%d refresh_failed=%d draw_errors=%d battery_failures=%d inertial_failures=%d environment_failures=%d",
		prefix, uptime.Truncate(time.Second), c.Iterations, c.Presses, c.Transitions,
		c.Accepted, c.Throttled, c.Failed, c.DrawErrors,
		c.SensorFailures[telemetry.GroupBattery],
		c.SensorFailures[telemetry.GroupInertial],
		c.SensorFailures[telemetry.GroupEnvironment])
}

// printState reads every telemetry group once and writes the status JSON.
func printState(w io.Writer, src telemetry.Source, tracker *status.Tracker, now time.Time) error {
	snap, failed := telemetry.NewCache().Refresh(src, now)
	tracker.Telemetry(snap, failed)
	for _, g := range telemetry.Groups {
		if err, ok := failed[g]; ok {
			log.Printf("telemetry: %v", err)
		}
	}
	if _, err := fmt.Fprintln(w, string(status.FormatJSON(tracker.Snapshot(now)))); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if len(failed) == len(telemetry.Groups) {
		return errors.New("no sensor answered")
	}
	return nil
}

func closeLogged(name string, c io.Closer) {
	if err := c.Close(); err != nil {
		log.Printf("close %s: %v", name, err)
	}
}

type halter interface {
	Halt() error
}

func haltLogged(name string, h halter) {
	if err := h.Halt(); err != nil {
		log.Printf("halt %s: %v", name, err)
	}
}

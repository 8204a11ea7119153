// Package scheduler runs one iteration of the instrument's main loop:
// input, menu, routing, then a live redraw of the fast surface.
package scheduler

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sweeney/trailkit/internal/display"
	"github.com/sweeney/trailkit/internal/input"
	"github.com/sweeney/trailkit/internal/logic"
	"github.com/sweeney/trailkit/internal/status"
	"github.com/sweeney/trailkit/internal/telemetry"
)

// Config holds the collaborators the scheduler owns for its lifetime.
type Config struct {
	Pad      input.Pad
	Source   telemetry.Source
	Router   *display.Router
	Items    []string
	Debounce time.Duration
	// Tracker is optional.
	Tracker *status.Tracker
}

// Report describes what one Step did.
type Report struct {
	Events     []logic.ButtonEvent
	Transition logic.Transition
	// Activation is set when the menu activated a view this iteration.
	Activation *display.Result
	Failures   telemetry.Failures
	// Errors collects every non-fatal failure of the iteration.
	Errors []error
}

// Scheduler sequences one iteration at a time. It is the sole mutator of
// the menu state and, through the router, of the refresh guard.
type Scheduler struct {
	sampler  *input.Sampler
	debounce *logic.Debouncer
	menu     *logic.Menu
	router   *display.Router
	source   telemetry.Source
	cache    *telemetry.Cache
	tracker  *status.Tracker

	failing   map[telemetry.Group]bool
	baselined bool
}

// New wires a Scheduler. Every menu item must name a view known to the router.
func New(cfg Config) (*Scheduler, error) {
	if cfg.Pad == nil || cfg.Source == nil || cfg.Router == nil {
		return nil, errors.New("scheduler: pad, source and router are required")
	}
	if len(cfg.Items) == 0 {
		return nil, errors.New("scheduler: no menu items")
	}
	for _, item := range cfg.Items {
		if _, ok := cfg.Router.View(item); !ok {
			return nil, fmt.Errorf("scheduler: menu item %q: %w", item, display.ErrUnknownView)
		}
	}
	return &Scheduler{
		sampler:  input.NewSampler(cfg.Pad),
		debounce: logic.NewDebouncer(cfg.Debounce, logic.Buttons),
		menu:     logic.NewMenu(cfg.Items),
		router:   cfg.Router,
		source:   cfg.Source,
		cache:    telemetry.NewCache(),
		tracker:  cfg.Tracker,
		failing:  make(map[telemetry.Group]bool, len(telemetry.Groups)),
	}, nil
}

// Start takes the first telemetry reading and shows the menu.
func (s *Scheduler) Start(now time.Time) error {
	snap, failed := s.cache.Refresh(s.source, now)
	s.logFailures(failed, snap)
	if s.tracker != nil {
		s.tracker.Telemetry(snap, failed)
	}
	st := s.menu.State()
	if err := s.router.ShowMenu(s.menu.Items(), st.Index); err != nil {
		return fmt.Errorf("show menu: %w", err)
	}
	s.bound()
	log.Printf("scheduler: started, %s selected", s.menu.Selected())
	return s.router.Redraw(snap)
}

// Menu returns the current menu state.
func (s *Scheduler) Menu() logic.MenuState {
	return s.menu.State()
}

// Snapshot returns the cached telemetry.
func (s *Scheduler) Snapshot() telemetry.Snapshot {
	return s.cache.Snapshot()
}

// Step runs one iteration. Errors are logged and reported, never returned:
// the loop must keep running whatever the hardware does.
func (s *Scheduler) Step(now time.Time) Report {
	var rep Report
	if s.tracker != nil {
		s.tracker.Iteration()
	}

	// 1. input
	samples, err := s.sampler.Sample()
	if err != nil {
		log.Printf("scheduler: %v", err)
		rep.Errors = append(rep.Errors, err)
	}
	rep.Events = s.debounce.Process(samples, now)
	if !s.baselined && s.debounce.IsBaselined() {
		s.baselined = true
		log.Printf("input: buttons baselined")
		if s.tracker != nil {
			s.tracker.InputReady()
		}
	}
	for _, e := range rep.Events {
		log.Printf("input: %s %s", e.Button, e.Edge)
	}
	if s.tracker != nil {
		s.tracker.Presses(len(rep.Events))
	}

	// 2. menu
	rep.Transition = s.menu.Handle(rep.Events)
	tr := rep.Transition
	if tr.Changed || tr.Activated {
		log.Printf("menu: %s(%d) -> %s(%d) on %s", tr.From.Mode, tr.From.Index, tr.To.Mode, tr.To.Index, tr.Button)
	}
	if s.tracker != nil {
		s.tracker.Transition(tr)
	}

	// 3. routing, the only path to the slow-protected surface
	if tr.Activated {
		res, err := s.router.Activate(tr.Item, s.cache.Snapshot(), now)
		rep.Activation = &res
		if err != nil {
			log.Printf("scheduler: activate %s: %v", tr.Item, err)
			rep.Errors = append(rep.Errors, err)
		}
		s.logDecision(res, now)
	} else if tr.Changed && tr.To.Mode == logic.ModeMenu {
		if err := s.router.ShowMenu(s.menu.Items(), tr.To.Index); err != nil {
			log.Printf("scheduler: show menu: %v", err)
			rep.Errors = append(rep.Errors, err)
		}
	}
	s.bound()

	// 4. live update of the fast surface
	snap, failed := s.cache.Refresh(s.source, now)
	rep.Failures = failed
	s.logFailures(failed, snap)
	if s.tracker != nil {
		s.tracker.Telemetry(snap, failed)
	}
	if err := s.router.Redraw(snap); err != nil {
		log.Printf("scheduler: redraw: %v", err)
		rep.Errors = append(rep.Errors, err)
		if s.tracker != nil {
			s.tracker.DrawError()
		}
	}
	return rep
}

func (s *Scheduler) bound() {
	if s.tracker != nil {
		s.tracker.Bind(s.router.Bound())
	}
}

func (s *Scheduler) logDecision(res display.Result, now time.Time) {
	if res.Surface != display.SlowProtected {
		return
	}
	if s.tracker != nil {
		s.tracker.Refresh(res, now)
	}
	switch res.Decision {
	case display.Accepted:
		log.Printf("epaper: refresh accepted view=%s next_page=%d", res.ViewID, res.NextPage)
	case display.Throttled:
		log.Printf("epaper: refresh throttled view=%s until=%s", res.ViewID, res.NextAllowed.Format(time.RFC3339))
	case display.Failed:
		log.Printf("epaper: refresh failed view=%s", res.ViewID)
	}
}

// logFailures logs a group when it starts failing and when it recovers.
func (s *Scheduler) logFailures(failed telemetry.Failures, snap telemetry.Snapshot) {
	for _, g := range telemetry.Groups {
		err, ok := failed[g]
		switch {
		case ok && !s.failing[g]:
			if snap.IsStale(g) {
				log.Printf("telemetry: %s stale: %v", g, err)
			} else {
				log.Printf("telemetry: %s absent: %v", g, err)
			}
		case !ok && s.failing[g]:
			log.Printf("telemetry: %s recovered", g)
		}
		s.failing[g] = ok
	}
}

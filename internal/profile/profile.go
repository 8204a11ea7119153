// Package profile holds the compiled-in device profiles: which sensors and
// panels a build has, the ordered menu and the view set.
package profile

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sweeney/trailkit/internal/display"
	"github.com/sweeney/trailkit/internal/telemetry"
)

// ErrUnknownProfile is returned by Lookup for an unregistered name.
var ErrUnknownProfile = errors.New("unknown profile")

// Profile is the static configuration of one device variant.
type Profile struct {
	Name string
	// Items is the menu order. Each item is the id of a view in Views.
	Items []string
	Views []display.View
	// Sensors lists the fitted telemetry peripherals.
	Sensors telemetry.Fitted
	// EPaper is true when the slow-protected panel is fitted.
	EPaper bool
}

// View returns the view named id.
func (p Profile) View(id string) (display.View, bool) {
	for _, v := range p.Views {
		if v.ID == id {
			return v, true
		}
	}
	return display.View{}, false
}

// Validate checks that every menu item has a view and every view has a panel.
func (p Profile) Validate() error {
	if len(p.Items) == 0 {
		return fmt.Errorf("profile %q: no menu items", p.Name)
	}
	seen := make(map[string]bool, len(p.Items))
	for _, item := range p.Items {
		if seen[item] {
			return fmt.Errorf("profile %q: duplicate menu item %q", p.Name, item)
		}
		seen[item] = true
		if _, ok := p.View(item); !ok {
			return fmt.Errorf("profile %q: menu item %q has no view", p.Name, item)
		}
	}
	for _, v := range p.Views {
		if v.Surface == display.SlowProtected && !p.EPaper {
			return fmt.Errorf("profile %q: view %q needs the e-paper panel", p.Name, v.ID)
		}
	}
	return nil
}

// Layouts returns the widget ids of every view, keyed by view id, for
// surfaces that lay widgets out ahead of time.
func (p Profile) Layouts() map[string][]string {
	out := make(map[string][]string, len(p.Views))
	for _, v := range p.Views {
		ids := make([]string, len(v.Widgets))
		for i, w := range v.Widgets {
			ids[i] = w.ID
		}
		out[v.ID] = ids
	}
	return out
}

var registry = map[string]Profile{
	"field": Field(),
	"diag":  Diag(),
	"bench": Bench(),
}

// Default is the profile used when none is requested.
const Default = "field"

// Lookup returns the profile registered as name.
func Lookup(name string) (Profile, error) {
	p, ok := registry[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q (have %v)", ErrUnknownProfile, name, Names())
	}
	return p, nil
}

// Names returns the registered profile names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

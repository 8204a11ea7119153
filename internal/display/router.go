package display

import (
	"errors"
	"fmt"
	"time"

	"github.com/sweeney/trailkit/internal/format"
	"github.com/sweeney/trailkit/internal/telemetry"
)

// ErrUnknownView is returned when a view id is not in the router's table.
var ErrUnknownView = errors.New("unknown view")

// MenuCursor prefixes the selected row of the menu view.
const MenuCursor = "> "

// Result describes what the router did with an activation.
type Result struct {
	ViewID   string
	Surface  SurfaceClass
	Decision Decision // set for SlowProtected views only

	// Guard state after the request, SlowProtected only.
	Panel       string    // view on the e-paper, "" before the first refresh
	NextPage    int       // page the next accepted refresh of Panel shows
	NextAllowed time.Time // zero before the first refresh
}

// Router maps activated views to their surface. The view table is fixed at
// construction. The router never writes to the slow-protected surface; it
// forwards to the Limiter instead.
type Router struct {
	views   map[string]View
	fast    FastSurface
	limiter *Limiter

	bound     string
	menuItems []string
	menuIndex int
}

// NewRouter validates views and builds the dispatch table. limiter may be nil
// when no view targets the slow-protected surface.
func NewRouter(views []View, fast FastSurface, limiter *Limiter) (*Router, error) {
	if fast == nil {
		return nil, errors.New("router: fast surface is required")
	}
	r := &Router{
		views:   make(map[string]View, len(views)),
		fast:    fast,
		limiter: limiter,
	}
	for _, v := range views {
		if v.ID == "" || v.ID == MenuViewID {
			return nil, fmt.Errorf("router: invalid view id %q", v.ID)
		}
		if _, dup := r.views[v.ID]; dup {
			return nil, fmt.Errorf("router: duplicate view %q", v.ID)
		}
		switch v.Surface {
		case Fast:
		case SlowProtected:
			if limiter == nil {
				return nil, fmt.Errorf("router: view %q needs a slow-protected surface", v.ID)
			}
		default:
			return nil, fmt.Errorf("router: view %q has unknown surface %q", v.ID, v.Surface)
		}
		r.views[v.ID] = v
	}
	return r, nil
}

// View returns the definition of id.
func (r *Router) View(id string) (View, bool) {
	v, ok := r.views[id]
	return v, ok
}

// Bound returns the id of the view on the fast surface.
func (r *Router) Bound() string {
	return r.bound
}

// Activate routes view id. Fast views are bound and drawn immediately;
// re-activating the bound view only rewrites its widget text.
// Slow-protected views go through the Limiter.
func (r *Router) Activate(id string, snap telemetry.Snapshot, now time.Time) (Result, error) {
	v, ok := r.views[id]
	if !ok {
		return Result{}, fmt.Errorf("activate %q: %w", id, ErrUnknownView)
	}

	if v.Surface == SlowProtected {
		d, err := r.limiter.RequestRefresh(slowContent(v, snap), now)
		res := Result{
			ViewID:      id,
			Surface:     SlowProtected,
			Decision:    d,
			Panel:       r.limiter.ViewID(),
			NextPage:    r.limiter.Cursor(),
			NextAllowed: r.limiter.NextAllowed(),
		}
		if err != nil {
			return res, fmt.Errorf("refresh %q: %w", id, err)
		}
		return res, nil
	}

	if err := r.bind(id); err != nil {
		return Result{ViewID: id, Surface: Fast}, err
	}
	return Result{ViewID: id, Surface: Fast}, r.drawWidgets(v, snap)
}

// ShowMenu binds the menu view and writes one row per item, marking index.
func (r *Router) ShowMenu(items []string, index int) error {
	if err := r.bind(MenuViewID); err != nil {
		return err
	}
	r.menuItems = append(r.menuItems[:0], items...)
	r.menuIndex = index
	return r.drawMenu()
}

// Redraw rewrites every widget of the bound view from snap and presents the
// frame. A failing widget does not stop the others.
func (r *Router) Redraw(snap telemetry.Snapshot) error {
	var errs []error
	switch r.bound {
	case "":
	case MenuViewID:
		if err := r.drawMenu(); err != nil {
			errs = append(errs, err)
		}
	default:
		if err := r.drawWidgets(r.views[r.bound], snap); err != nil {
			errs = append(errs, err)
		}
	}
	if err := r.fast.Present(); err != nil {
		errs = append(errs, fmt.Errorf("present: %w", err))
	}
	return errors.Join(errs...)
}

func (r *Router) bind(id string) error {
	if r.bound == id {
		return nil
	}
	if err := r.fast.Show(id); err != nil {
		return fmt.Errorf("show %q: %w", id, err)
	}
	r.bound = id
	return nil
}

func (r *Router) drawWidgets(v View, snap telemetry.Snapshot) error {
	var errs []error
	for _, w := range v.Widgets {
		if err := r.fast.SetWidgetText(w.ID, format.Format(w, snap)); err != nil {
			errs = append(errs, fmt.Errorf("widget %q: %w", w.ID, err))
		}
	}
	return errors.Join(errs...)
}

func (r *Router) drawMenu() error {
	var errs []error
	for i, item := range r.menuItems {
		text := "  " + item
		if i == r.menuIndex {
			text = MenuCursor + item
		}
		if err := r.fast.SetWidgetText(MenuRowID(i), text); err != nil {
			errs = append(errs, fmt.Errorf("menu row %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// MenuRowID is the widget id of row i of the menu view.
func MenuRowID(i int) string {
	return fmt.Sprintf("menu.%d", i)
}

// slowContent renders every page of v: widget lines first, then the page's
// static lines. All widgets land in every page so a refresh never leaves a
// widget behind.
func slowContent(v View, snap telemetry.Snapshot) Content {
	header := make([]string, 0, len(v.Widgets)+1)
	if v.Title != "" {
		header = append(header, v.Title)
	}
	for _, w := range v.Widgets {
		header = append(header, format.Format(w, snap))
	}

	if len(v.Pages) == 0 {
		return Content{ViewID: v.ID, Pages: [][]string{header}}
	}
	pages := make([][]string, len(v.Pages))
	for i, p := range v.Pages {
		lines := make([]string, 0, len(header)+len(p))
		lines = append(lines, header...)
		lines = append(lines, p...)
		pages[i] = lines
	}
	return Content{ViewID: v.ID, Pages: pages}
}

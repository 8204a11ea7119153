package display

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/trailkit/internal/format"
	"github.com/sweeney/trailkit/internal/telemetry"
)

var (
	batteryWidget = format.Widget{
		ID:        "battery.percent",
		Template:  "BATTERY {}%",
		Fields:    []format.Field{format.BatteryPercent},
		Precision: 1,
	}
	voltageWidget = format.Widget{
		ID:        "battery.voltage",
		Template:  "{} V",
		Fields:    []format.Field{format.BatteryVoltage},
		Precision: 2,
	}
	tempWidget = format.Widget{
		ID:        "env.temp",
		Template:  "TEMP {} C",
		Fields:    []format.Field{format.TempC},
		Precision: 1,
	}
)

func testViews() []View {
	return []View{
		{ID: "Battery", Kind: KindBattery, Surface: Fast, Widgets: []format.Widget{batteryWidget, voltageWidget}},
		{ID: "Enviro", Kind: KindEnvironmental, Surface: Fast, Widgets: []format.Widget{tempWidget}},
		{
			ID: "Dope", Kind: KindDopeTable, Title: "DOPE", Surface: SlowProtected,
			Widgets: []format.Widget{tempWidget},
			Pages:   [][]string{{"100m 0.0"}, {"200m 1.2"}},
		},
	}
}

func freshSnapshot(t *testing.T, src *telemetry.FakeSource) telemetry.Snapshot {
	t.Helper()
	snap, _ := telemetry.NewCache().Refresh(src, t0)
	return snap
}

func newTestRouter(t *testing.T) (*Router, *FakeFast, *FakeSlow, *Limiter) {
	t.Helper()
	fast := NewFakeFast()
	slow := NewFakeSlow()
	lim := NewLimiter(slow, 180*time.Second)
	r, err := NewRouter(testViews(), fast, lim)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	return r, fast, slow, lim
}

func TestNewRouterRejectsBadTables(t *testing.T) {
	fast := NewFakeFast()
	lim := NewLimiter(NewFakeSlow(), time.Second)

	tests := []struct {
		name    string
		views   []View
		limiter *Limiter
	}{
		{"empty id", []View{{ID: "", Surface: Fast}}, lim},
		{"reserved menu id", []View{{ID: MenuViewID, Surface: Fast}}, lim},
		{"duplicate", []View{{ID: "a", Surface: Fast}, {ID: "a", Surface: Fast}}, lim},
		{"unknown surface", []View{{ID: "a", Surface: "hologram"}}, lim},
		{"slow without limiter", []View{{ID: "a", Surface: SlowProtected}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRouter(tt.views, fast, tt.limiter); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := NewRouter([]View{{ID: "a", Surface: Fast}}, fast, nil); err != nil {
		t.Errorf("fast-only table without limiter should be valid: %v", err)
	}
	if _, err := NewRouter(nil, nil, nil); err == nil {
		t.Error("expected error for nil fast surface")
	}
}

func TestActivateUnknownView(t *testing.T) {
	r, fast, slow, _ := newTestRouter(t)
	_, err := r.Activate("Compass", telemetry.Snapshot{}, t0)
	if !errors.Is(err, ErrUnknownView) {
		t.Fatalf("expected ErrUnknownView, got %v", err)
	}
	if len(fast.Shown) != 0 || slow.Calls() != 0 {
		t.Error("unknown view must not touch any surface")
	}
}

func TestActivateFastView(t *testing.T) {
	r, fast, slow, _ := newTestRouter(t)
	snap := freshSnapshot(t, telemetry.NewFakeSource())

	res, err := r.Activate("Battery", snap, t0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Surface != Fast || res.ViewID != "Battery" {
		t.Errorf("unexpected result %+v", res)
	}
	if !reflect.DeepEqual(fast.Shown, []string{"Battery"}) {
		t.Errorf("shown: %v", fast.Shown)
	}
	if fast.Texts["battery.percent"] != "BATTERY 76.4%" {
		t.Errorf("percent text: %q", fast.Texts["battery.percent"])
	}
	if fast.Texts["battery.voltage"] != "3.87 V" {
		t.Errorf("voltage text: %q", fast.Texts["battery.voltage"])
	}
	if slow.Calls() != 0 {
		t.Error("fast view touched the slow surface")
	}
	if r.Bound() != "Battery" {
		t.Errorf("bound: %q", r.Bound())
	}
}

func TestActivateFastViewIdempotent(t *testing.T) {
	r, fast, _, _ := newTestRouter(t)
	snap := freshSnapshot(t, telemetry.NewFakeSource())

	r.Activate("Battery", snap, t0)
	textsOnce := make(map[string]string)
	for k, v := range fast.Texts {
		textsOnce[k] = v
	}
	r.Activate("Battery", snap, t0.Add(time.Second))

	if len(fast.Shown) != 1 {
		t.Errorf("re-activation switched layout again: %v", fast.Shown)
	}
	if !reflect.DeepEqual(fast.Texts, textsOnce) {
		t.Errorf("re-activation changed texts: %v vs %v", fast.Texts, textsOnce)
	}
}

func TestActivateSlowViewGoesThroughLimiter(t *testing.T) {
	r, fast, slow, lim := newTestRouter(t)
	snap := freshSnapshot(t, telemetry.NewFakeSource())

	res, err := r.Activate("Dope", snap, t0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Surface != SlowProtected || res.Decision != Accepted {
		t.Fatalf("unexpected result %+v", res)
	}
	want := []string{"DOPE", "TEMP 18.3 C", "100m 0.0"}
	if !reflect.DeepEqual(slow.Displayed.Lines, want) {
		t.Errorf("lines: got %q, want %q", slow.Displayed.Lines, want)
	}
	if len(fast.Shown) != 0 {
		t.Error("slow view touched the fast surface")
	}
	if r.Bound() != "" {
		t.Errorf("slow view must not bind the fast surface, bound=%q", r.Bound())
	}

	res, _ = r.Activate("Dope", snap, t0.Add(100*time.Second))
	if res.Decision != Throttled {
		t.Errorf("expected THROTTLED, got %s", res.Decision)
	}
	if slow.Commits != 1 {
		t.Errorf("expected one commit, got %d", slow.Commits)
	}
	if lim.Cursor() != 1 {
		t.Errorf("cursor: %d", lim.Cursor())
	}
	if res.Panel != "Dope" || res.NextPage != 1 || !res.NextAllowed.Equal(t0.Add(DefaultMinRefreshInterval)) {
		t.Errorf("guard state: %+v", res)
	}
}

func TestActivateSlowViewFailure(t *testing.T) {
	r, _, slow, _ := newTestRouter(t)
	slow.CommitError = errors.New("epd timeout")

	res, err := r.Activate("Dope", telemetry.Snapshot{}, t0)
	if err == nil {
		t.Fatal("expected error")
	}
	if res.Decision != Failed {
		t.Errorf("expected FAILED, got %s", res.Decision)
	}
	if res.Panel != "" || !res.NextAllowed.IsZero() {
		t.Errorf("failed first refresh must leave the guard untouched: %+v", res)
	}
}

func TestSlowContentPlaceholderWithoutTelemetry(t *testing.T) {
	r, _, slow, _ := newTestRouter(t)
	r.Activate("Dope", telemetry.Snapshot{}, t0)
	if got := slow.Displayed.Lines[1]; got != "TEMP ---- C" {
		t.Errorf("expected placeholder, got %q", got)
	}
}

func TestShowMenu(t *testing.T) {
	r, fast, _, _ := newTestRouter(t)
	items := []string{"Level", "Dope", "Enviro", "Battery"}

	if err := r.ShowMenu(items, 2); err != nil {
		t.Fatalf("ShowMenu: %v", err)
	}
	if fast.Current() != MenuViewID {
		t.Fatalf("expected menu view, got %q", fast.Current())
	}
	want := map[string]string{
		"menu.0": "  Level",
		"menu.1": "  Dope",
		"menu.2": "> Enviro",
		"menu.3": "  Battery",
	}
	if !reflect.DeepEqual(fast.Texts, want) {
		t.Errorf("menu rows: got %v, want %v", fast.Texts, want)
	}

	r.ShowMenu(items, 3)
	if len(fast.Shown) != 1 {
		t.Errorf("moving the cursor should not switch layout: %v", fast.Shown)
	}
	if fast.Texts["menu.3"] != "> Battery" || fast.Texts["menu.2"] != "  Enviro" {
		t.Errorf("cursor not moved: %v", fast.Texts)
	}
}

func TestRedrawBoundView(t *testing.T) {
	r, fast, _, _ := newTestRouter(t)
	src := telemetry.NewFakeSource()
	cache := telemetry.NewCache()
	snap, _ := cache.Refresh(src, t0)
	r.Activate("Battery", snap, t0)

	src.Battery.Percent = 75.0
	snap, _ = cache.Refresh(src, t0.Add(time.Second))
	if err := r.Redraw(snap); err != nil {
		t.Fatalf("Redraw: %v", err)
	}
	if fast.Texts["battery.percent"] != "BATTERY 75.0%" {
		t.Errorf("percent not redrawn: %q", fast.Texts["battery.percent"])
	}
	if fast.Presents != 1 {
		t.Errorf("expected one present, got %d", fast.Presents)
	}
}

func TestRedrawNothingBound(t *testing.T) {
	r, fast, _, _ := newTestRouter(t)
	if err := r.Redraw(telemetry.Snapshot{}); err != nil {
		t.Fatalf("Redraw: %v", err)
	}
	if len(fast.Writes) != 0 || fast.Presents != 1 {
		t.Errorf("writes=%d presents=%d", len(fast.Writes), fast.Presents)
	}
}

func TestRedrawPartialWidgetFailure(t *testing.T) {
	r, fast, _, _ := newTestRouter(t)
	snap := freshSnapshot(t, telemetry.NewFakeSource())
	r.Activate("Battery", snap, t0)

	fast.WidgetErrors = map[string]error{"battery.percent": errors.New("glyph overflow")}
	fast.Texts["battery.voltage"] = ""

	err := r.Redraw(snap)
	if err == nil || !strings.Contains(err.Error(), "battery.percent") {
		t.Fatalf("expected error naming the widget, got %v", err)
	}
	if fast.Texts["battery.voltage"] != "3.87 V" {
		t.Errorf("other widgets must still be drawn, got %q", fast.Texts["battery.voltage"])
	}
	if fast.Presents != 1 {
		t.Error("frame must still be presented")
	}
}

func TestRedrawStaleKeepsText(t *testing.T) {
	r, fast, _, _ := newTestRouter(t)
	src := telemetry.NewFakeSource()
	cache := telemetry.NewCache()
	snap, _ := cache.Refresh(src, t0)
	r.Activate("Enviro", snap, t0)
	before := fast.Texts["env.temp"]

	src.EnvironmentError = errors.New("bme280 nack")
	snap, failed := cache.Refresh(src, t0.Add(time.Second))
	if failed[telemetry.GroupEnvironment] == nil {
		t.Fatal("expected environment failure")
	}
	r.Redraw(snap)
	if fast.Texts["env.temp"] != before {
		t.Errorf("stale text changed: %q -> %q", before, fast.Texts["env.temp"])
	}
}

func TestShowErrorLeavesBinding(t *testing.T) {
	r, fast, _, _ := newTestRouter(t)
	snap := freshSnapshot(t, telemetry.NewFakeSource())
	r.Activate("Battery", snap, t0)

	fast.ShowError = errors.New("i2c nack")
	if _, err := r.Activate("Enviro", snap, t0); err == nil {
		t.Fatal("expected error")
	}
	if r.Bound() != "Battery" {
		t.Errorf("failed show must keep old binding, got %q", r.Bound())
	}
}

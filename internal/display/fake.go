package display

// WidgetWrite records one SetWidgetText call.
type WidgetWrite struct {
	ViewID   string
	WidgetID string
	Text     string
}

// FakeFast records calls made to a fast surface.
type FakeFast struct {
	// Shown is the sequence of views passed to Show.
	Shown []string
	// Writes contains every SetWidgetText call in order.
	Writes []WidgetWrite
	// Texts holds the latest text per widget of the current view.
	Texts map[string]string
	// Presents counts Present calls.
	Presents int

	ShowError    error
	PresentError error
	// WidgetErrors fails SetWidgetText for the listed widget ids.
	WidgetErrors map[string]error

	current string
}

// NewFakeFast creates an empty FakeFast.
func NewFakeFast() *FakeFast {
	return &FakeFast{Texts: make(map[string]string)}
}

// Current returns the view last shown.
func (f *FakeFast) Current() string {
	return f.current
}

func (f *FakeFast) Show(viewID string) error {
	if f.ShowError != nil {
		return f.ShowError
	}
	f.Shown = append(f.Shown, viewID)
	f.current = viewID
	f.Texts = make(map[string]string)
	return nil
}

func (f *FakeFast) SetWidgetText(widgetID, text string) error {
	if err := f.WidgetErrors[widgetID]; err != nil {
		return err
	}
	f.Writes = append(f.Writes, WidgetWrite{ViewID: f.current, WidgetID: widgetID, Text: text})
	f.Texts[widgetID] = text
	return nil
}

func (f *FakeFast) Present() error {
	if f.PresentError != nil {
		return f.PresentError
	}
	f.Presents++
	return nil
}

// FakeSlow records calls made to a slow-protected surface.
type FakeSlow struct {
	// Draws contains every staged frame.
	Draws []Frame
	// Commits counts Commit calls that succeeded.
	Commits int
	// Displayed is the frame physically on the panel.
	Displayed *Frame

	DrawError   error
	CommitError error

	staged *Frame
}

// NewFakeSlow creates an empty FakeSlow.
func NewFakeSlow() *FakeSlow {
	return &FakeSlow{}
}

// Calls returns the total number of surface calls.
func (f *FakeSlow) Calls() int {
	return len(f.Draws) + f.Commits
}

func (f *FakeSlow) Draw(fr Frame) error {
	if f.DrawError != nil {
		return f.DrawError
	}
	f.Draws = append(f.Draws, fr)
	f.staged = &fr
	return nil
}

func (f *FakeSlow) Commit() error {
	if f.CommitError != nil {
		return f.CommitError
	}
	f.Commits++
	f.Displayed = f.staged
	return nil
}

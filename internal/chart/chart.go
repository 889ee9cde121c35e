package chart

import (
	"log/slog"

	"github.com/roach88/chartpick/internal/ir"
	"github.com/roach88/chartpick/internal/predicate"
	"github.com/roach88/chartpick/internal/selection"
)

// Chart is the interaction state of one rendered chart.
//
// A Chart is not safe for concurrent use; it is owned by the goroutine that
// delivers its clicks.
type Chart struct {
	id       string
	spec     ir.ChartSpec
	tracker  *selection.Tracker
	pred     predicate.Predicate
	classes  []selection.ElementClass
	clock    *Clock
	sink     Sink
	renderer Renderer
	logger   *slog.Logger
}

// Option configures a Chart.
type Option func(*Chart)

// WithSink sets the receiver of predicate updates.
func WithSink(s Sink) Option {
	return func(c *Chart) { c.sink = s }
}

// WithRenderer sets the receiver of classification lists.
func WithRenderer(r Renderer) Option {
	return func(c *Chart) { c.renderer = r }
}

// WithClock sets the sequence clock. Charts sharing a clock interleave their
// sequence numbers.
func WithClock(clock *Clock) Option {
	return func(c *Chart) { c.clock = clock }
}

// WithIDGenerator sets the generator of the chart instance ID.
//
// Default: UUIDv7Generator
func WithIDGenerator(g IDGenerator) Option {
	return func(c *Chart) { c.id = g.Generate() }
}

// WithLogger sets the logger. Default: slog.Default()
func WithLogger(l *slog.Logger) Option {
	return func(c *Chart) { c.logger = l }
}

// New creates a chart for a compiled spec. The element list is copied.
func New(spec ir.ChartSpec, opts ...Option) *Chart {
	elems := make([]ir.Element, len(spec.Elements))
	copy(elems, spec.Elements)
	spec.Elements = elems
	if spec.Source == "" {
		spec.Source = DefaultSource(spec.Type)
	}

	c := &Chart{
		spec:     spec,
		tracker:  selection.NewTracker(spec.Type),
		clock:    NewClock(),
		sink:     nopSink{},
		renderer: nopRenderer{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.id == "" {
		c.id = UUIDv7Generator{}.Generate()
	}
	c.classes = c.tracker.Classify(c.spec.Elements)
	return c
}

// ID returns the chart instance ID.
func (c *Chart) ID() string { return c.id }

// Spec returns the chart spec.
func (c *Chart) Spec() ir.ChartSpec { return c.spec }

// Predicate returns the current predicate, or nil when none is set.
func (c *Chart) Predicate() predicate.Predicate { return c.pred }

// State returns the current selection.
func (c *Chart) State() selection.State { return c.tracker.State() }

// Clock returns the chart's sequence clock.
func (c *Chart) Clock() *Clock { return c.clock }

// HandleInteraction routes a click to the handler for the chart's field type.
//
// The returned Outcome always has Handled set. For an unsupported field type
// selection and predicate stay as they were and the last classification list
// is returned without notifying the sink or renderer. An error is returned
// only when the selected elements cannot form a predicate; the click is then
// dropped and selection, classification and predicate stay as they were.
func (c *Chart) HandleInteraction(ev Event) (Outcome, error) {
	src := ev.Source
	if src == "" {
		src = c.spec.Source
	}
	mode := Route(c.spec.Type, src)
	out := Outcome{
		Seq:     c.clock.Next(),
		Handled: true,
		Mode:    mode,
	}

	var (
		res selection.Result
		err error
	)
	switch mode {
	case ModeDistinct:
		res, err = c.tracker.ToggleDistinct(ev.Point, ev.All, ev.Modifier)
	case ModeRange:
		res, err = c.tracker.ToggleRange(ev.Point, ev.All, ev.Modifier)
	default:
		c.logger.Debug("interaction ignored: unsupported field type",
			"chart", c.spec.Name,
			"type", c.spec.TypeName,
			"label", ev.Point.Label)
		out.Classes = c.lastClasses()
		out.Predicate = c.pred
		return out, nil
	}
	if err != nil {
		c.logger.Warn("selection has no predicate",
			"chart", c.spec.Name,
			"label", ev.Point.Label,
			"error", err)
		out.Classes = c.lastClasses()
		out.Predicate = c.pred
		return out, &Error{Code: ErrCodeInvalidSelection, Chart: c.spec.Name, Label: ev.Point.Label, Err: err}
	}

	c.classes = res.Classes
	c.pred = res.Predicate
	c.renderer.Apply(c.lastClasses())
	if c.pred == nil {
		c.sink.ClearPredicate(c.spec.Name)
	} else {
		c.sink.SetPredicate(c.spec.Name, c.pred)
	}

	c.logger.Debug("interaction handled",
		"chart", c.spec.Name,
		"seq", out.Seq,
		"label", ev.Point.Label,
		"modifier", ev.Modifier,
		"mode", mode.String(),
		"selected", len(selection.Labels(res.Classes, selection.Selected)))

	out.Classes = c.lastClasses()
	out.Predicate = c.pred
	out.Emitted = true
	return out, nil
}

// Click handles a click on the element with the given label, using the
// chart's own element list. An empty source uses the chart default.
func (c *Chart) Click(label string, modifier bool, src ir.Source) (Outcome, error) {
	point, ok := c.spec.Element(label)
	if !ok {
		return Outcome{}, &Error{Code: ErrCodeElementNotFound, Chart: c.spec.Name, Label: label}
	}
	return c.HandleInteraction(Event{
		Point:    point,
		All:      c.spec.Elements,
		Modifier: modifier,
		Source:   src,
		Ref:      point.Ref,
	})
}

// Classify recomputes the classification list from the current selection and
// the chart's elements, and applies it to the renderer. It is idempotent.
func (c *Chart) Classify() []selection.ElementClass {
	c.classes = c.tracker.Classify(c.spec.Elements)
	c.renderer.Apply(c.lastClasses())
	return c.lastClasses()
}

// Reset drops the selection and clears the predicate. It is not an undo; the
// sink is told the field has no predicate.
func (c *Chart) Reset() {
	c.tracker.Reset()
	c.classes = c.tracker.Classify(c.spec.Elements)
	c.renderer.Apply(c.lastClasses())
	if c.pred != nil {
		c.pred = nil
		c.sink.ClearPredicate(c.spec.Name)
	}
}

func (c *Chart) lastClasses() []selection.ElementClass {
	out := make([]selection.ElementClass, len(c.classes))
	copy(out, c.classes)
	return out
}

// Package testing provides a step-based harness for driving bubbletea models in tests.
package testing

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/sebdah/goldie/v2"
)

// DefaultCommandTimeout bounds how long the harness waits for a command to
// produce a message. Commands that block longer (tea.Tick, spinner and cursor
// ticks, poll timers) are abandoned, which keeps timer loops out of tests.
const DefaultCommandTimeout = 40 * time.Millisecond

const maxCommandDepth = 10

// TestHarness feeds a sequence of messages to a model and asserts on the
// rendered view and the model after each step.
//
//	harness := NewTestHarness(t, view)
//	harness.
//		Step(TestStep[*DashboardView]{
//			Name: "submit",
//			Msg:  tea.KeyMsg{Type: tea.KeyEnter},
//		}).
//		Expect(TestStep[*DashboardView]{
//			Name:            "deploy_acknowledged",
//			ExpectedMsgType: deploy.DeployResultMsg{},
//		}).
//		Run(t)
//
// Commands returned from Update are executed and their messages fed back, the
// way the bubbletea runtime would. tea.Batch and tea.Sequence results are expanded. Expect steps
// intercept those messages in order; a Finally step stops processing.
type TestHarness[T tea.Model] struct {
	model              T
	steps              []TestStep[T]
	expectedSteps      []TestStep[T]
	finalStep          *TestStep[T]
	goldie             *goldie.Goldie
	commandTimeout     time.Duration
	currentExpectIndex int
	stopProcessing     bool
}

// TestStep is one message and the assertions that follow it.
type TestStep[T tea.Model] struct {
	// Name identifies the step in subtest names.
	Name string

	// Msg is sent to Update. Nil renders the current state only.
	// Leave nil on Expect/Finally steps; their message comes from a command.
	Msg tea.Msg

	// ExpectedMsgType restricts an Expect/Finally step to one message type.
	ExpectedMsgType tea.Msg

	// MessageAssert inspects an intercepted message before Update sees it.
	MessageAssert func(t *testing.T, msg tea.Msg)

	// ViewGolden compares View() against testdata/<ViewGolden>.golden (go test -update regenerates).
	ViewGolden string

	// ViewAssert is a free-form assertion on View().
	ViewAssert func(t *testing.T, view string)

	// ModelAssert inspects the model after Update.
	ModelAssert func(t *testing.T, m T)

	SkipViewAssertion bool
}

// Option tweaks a harness.
type Option func(*harnessOptions)

type harnessOptions struct {
	commandTimeout time.Duration
}

// WithCommandTimeout changes how long each command may block before it is dropped.
func WithCommandTimeout(d time.Duration) Option {
	return func(o *harnessOptions) {
		o.commandTimeout = d
	}
}

// NewTestHarness creates a harness around model. It forces the ASCII color
// profile so rendered views are identical on every machine. Init runs in Run.
func NewTestHarness[T tea.Model](t *testing.T, model T, opts ...Option) *TestHarness[T] {
	t.Helper()

	lipgloss.SetColorProfile(termenv.Ascii)

	o := harnessOptions{commandTimeout: DefaultCommandTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	return &TestHarness[T]{
		model:          model,
		commandTimeout: o.commandTimeout,
		goldie: goldie.New(t,
			goldie.WithFixtureDir("testdata"),
			goldie.WithNameSuffix(".golden"),
		),
	}
}

// Step appends a step that sends Msg to Update.
func (h *TestHarness[T]) Step(step TestStep[T]) *TestHarness[T] {
	h.steps = append(h.steps, step)
	return h
}

// Expect appends a step that intercepts the next message produced by a command.
// A message of the wrong type fails the test.
func (h *TestHarness[T]) Expect(step TestStep[T]) *TestHarness[T] {
	h.expectedSteps = append(h.expectedSteps, step)
	return h
}

// Finally sets the step after which no more commands are processed.
func (h *TestHarness[T]) Finally(step TestStep[T]) *TestHarness[T] {
	h.finalStep = &step
	return h
}

// Model returns the model as it stands after the last processed message.
func (h *TestHarness[T]) Model() T {
	return h.model
}

// Run calls Init, then executes every step in order.
func (h *TestHarness[T]) Run(t *testing.T) {
	t.Helper()

	h.currentExpectIndex = 0
	h.stopProcessing = false

	h.processCommands(t, h.model.Init(), 0)

	for _, step := range h.steps {
		if h.stopProcessing {
			break
		}

		t.Run(step.Name, func(t *testing.T) {
			if step.Msg != nil {
				cmd := h.update(t, step.Msg)
				h.processCommands(t, cmd, 0)
			}
			h.assertStep(t, step)
		})
	}
}

func (h *TestHarness[T]) update(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()

	updated, cmd := h.model.Update(msg)
	model, ok := updated.(T)
	if !ok {
		t.Fatalf("model %T is not %T", updated, new(T))
	}
	h.model = model
	return cmd
}

// processCommands runs cmd and feeds its message back into Update, recursively.
func (h *TestHarness[T]) processCommands(t *testing.T, cmd tea.Cmd, depth int) {
	t.Helper()

	if cmd == nil || h.stopProcessing {
		return
	}
	if depth >= maxCommandDepth {
		t.Log("max command depth exceeded")
		return
	}

	msg, ok := h.runCommand(cmd)
	if !ok || msg == nil {
		return
	}

	if children, ok := commandList(msg); ok {
		for _, child := range children {
			h.processCommands(t, child, depth+1)
		}
		return
	}

	if h.intercept(t, msg) {
		return
	}

	h.processCommands(t, h.update(t, msg), depth+1)
}

// commandList unpacks tea.Batch and tea.Sequence results. The sequence
// message type is unexported, so both are recognised by shape: a slice of
// commands. Children run in order, which is what Sequence promises.
func commandList(msg tea.Msg) ([]tea.Cmd, bool) {
	if batch, ok := msg.(tea.BatchMsg); ok {
		return batch, true
	}

	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Slice || v.Type().Elem() != reflect.TypeFor[tea.Cmd]() {
		return nil, false
	}
	cmds := make([]tea.Cmd, v.Len())
	for i := range cmds {
		cmds[i] = v.Index(i).Interface().(tea.Cmd) //nolint:errcheck // Element type checked above
	}
	return cmds, true
}

// runCommand executes cmd, giving up after the command timeout.
func (h *TestHarness[T]) runCommand(cmd tea.Cmd) (tea.Msg, bool) {
	result := make(chan tea.Msg, 1)
	go func() {
		result <- cmd()
	}()

	select {
	case msg := <-result:
		return msg, true
	case <-time.After(h.commandTimeout):
		return nil, false
	}
}

// intercept hands msg to the next Expect or Finally step. Returns true when consumed.
func (h *TestHarness[T]) intercept(t *testing.T, msg tea.Msg) bool {
	t.Helper()

	if h.currentExpectIndex < len(h.expectedSteps) {
		step := h.expectedSteps[h.currentExpectIndex]
		if !matchesMessageType(msg, step) {
			if isFrameworkMessage(msg) {
				return false
			}
			t.Fatalf("unexpected message during command processing.\nexpected step: %s (type: %s)\ngot: %T %+v",
				step.Name, typeName(step.ExpectedMsgType), msg, msg)
			return true
		}

		h.currentExpectIndex++
		h.consume(t, msg, step)
		return true
	}

	if h.finalStep == nil {
		return false
	}

	if !matchesMessageType(msg, *h.finalStep) {
		if !isFrameworkMessage(msg) {
			t.Fatalf("unexpected message before Finally step.\nexpected step: %s (type: %s)\ngot: %T %+v",
				h.finalStep.Name, typeName(h.finalStep.ExpectedMsgType), msg, msg)
		}
		return false
	}

	h.consume(t, msg, *h.finalStep)
	h.stopProcessing = true
	return true
}

// consume runs MessageAssert, applies msg, then the view and model assertions.
// Commands returned by this Update are not followed.
func (h *TestHarness[T]) consume(t *testing.T, msg tea.Msg, step TestStep[T]) {
	t.Helper()

	if step.MessageAssert != nil {
		step.MessageAssert(t, msg)
	}
	h.update(t, msg)

	t.Run(step.Name, func(t *testing.T) {
		h.assertStep(t, step)
	})
}

func (h *TestHarness[T]) assertStep(t *testing.T, step TestStep[T]) {
	t.Helper()

	if !step.SkipViewAssertion {
		view := normalizeView(h.model.View())
		if step.ViewGolden != "" {
			h.goldie.Assert(t, step.ViewGolden, []byte(view))
		}
		if step.ViewAssert != nil {
			step.ViewAssert(t, view)
		}
	}

	if step.ModelAssert != nil {
		step.ModelAssert(t, h.model)
	}
}

// isFrameworkMessage reports messages produced by the runtime, the user or
// animation timers rather than by async work.
func isFrameworkMessage(msg tea.Msg) bool {
	switch msg.(type) {
	case tea.BatchMsg, tea.KeyMsg, tea.MouseMsg, tea.WindowSizeMsg, tea.QuitMsg:
		return true
	case spinner.TickMsg, cursor.BlinkMsg:
		return true
	default:
		return false
	}
}

func matchesMessageType[T tea.Model](msg tea.Msg, step TestStep[T]) bool {
	if step.ExpectedMsgType != nil {
		return reflect.TypeOf(msg) == reflect.TypeOf(step.ExpectedMsgType)
	}
	return !isFrameworkMessage(msg)
}

func typeName(msg tea.Msg) string {
	if msg == nil {
		return "any async message"
	}
	return reflect.TypeOf(msg).String()
}

// normalizeView trims surrounding whitespace and normalizes line endings.
func normalizeView(view string) string {
	view = strings.TrimSpace(view)
	return strings.ReplaceAll(view, "\r\n", "\n")
}

// AssertContains fails the test when view lacks substring.
func AssertContains(t *testing.T, view, substring string) {
	t.Helper()
	if !strings.Contains(view, substring) {
		t.Errorf("view does not contain expected substring.\nexpected: %q\nview:\n%s", substring, view)
	}
}

// AssertNotContains fails the test when view contains substring.
func AssertNotContains(t *testing.T, view, substring string) {
	t.Helper()
	if strings.Contains(view, substring) {
		t.Errorf("view contains unexpected substring.\nunexpected: %q\nview:\n%s", substring, view)
	}
}

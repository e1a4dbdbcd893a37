package components

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/physiq/internal/ui/theme"
)

// ErrEmptyInput is returned by Number when nothing has been typed.
var ErrEmptyInput = errors.New("no value entered")

// TextInput wraps bubbles/textinput with the app styling. Numeric inputs
// drop non-digit keys and can be bounded with WithBounds.
type TextInput struct {
	Model       textinput.Model
	NumericOnly bool
	MaxWidth    int

	min, max  int
	bounded   bool
	submitted bool
	valid     bool
}

// NewTextInput creates a focused text input. maxWidth caps the number of
// characters when positive.
func NewTextInput(placeholder string, numericOnly bool, maxWidth int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}
	return TextInput{
		Model:       ti,
		NumericOnly: numericOnly,
		MaxWidth:    maxWidth,
	}
}

// WithBounds restricts Number to [min, max].
func (t TextInput) WithBounds(min, max int) TextInput {
	t.min, t.max, t.bounded = min, max, true
	return t
}

func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Focus starts accepting keys.
func (t *TextInput) Focus() tea.Cmd { return t.Model.Focus() }

// Blur stops accepting keys. The value is kept.
func (t *TextInput) Blur() { t.Model.Blur() }

// Focused reports whether keys reach the input.
func (t TextInput) Focused() bool { return t.Model.Focused() }

// Clear empties the value and the submission mark.
func (t *TextInput) Clear() {
	t.Model.SetValue("")
	t.submitted = false
}

// Update handles messages. Editing clears a previous submission mark.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && t.NumericOnly {
		if key := kmsg.String(); len(key) == 1 && (key[0] < '0' || key[0] > '9') {
			return t, nil
		}
	}

	before := t.Model.Value()
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	if t.Model.Value() != before {
		t.submitted = false
	}
	return t, cmd
}

func (t TextInput) View() string {
	view := t.Model.View()
	if !t.submitted {
		return view
	}
	if t.valid {
		return view + " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
	}
	return view + " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
}

func (t TextInput) Value() string {
	return t.Model.Value()
}

// Number parses the value as an integer and checks it against the bounds.
func (t TextInput) Number() (int, error) {
	raw := strings.TrimSpace(t.Model.Value())
	if raw == "" {
		return 0, ErrEmptyInput
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", raw)
	}
	if t.bounded && (n < t.min || n > t.max) {
		return n, fmt.Errorf("must be between %d and %d", t.min, t.max)
	}
	return n, nil
}

// Submit marks the input with a validation result until it is edited.
func (t *TextInput) Submit(valid bool) {
	t.submitted = true
	t.valid = valid
}

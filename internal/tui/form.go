package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/jaskwallet/internal/record"
)

// ErrUpdateNewRecord is a programming error: an update was issued from a form
// that was opened to create a record.
var ErrUpdateNewRecord = errors.New("update called on a new record")

const (
	fieldBase = iota
	fieldCounter
	fieldBuy
	fieldSell
	fieldName
	fieldCount
)

var fieldLabels = [fieldCount]string{"Base", "Counter", "Buy", "Sell", "Name"}

// form edits one record. isNew is fixed when the form opens.
type form struct {
	isNew  bool
	orig   record.Record
	inputs [fieldCount]textinput.Model
	focus  int
	err    error
}

func newForm(r *record.Record) *form {
	f := &form{isNew: r == nil}
	if r != nil {
		f.orig = *r
	}
	values := [fieldCount]string{f.orig.Base, f.orig.Counter, f.orig.BuyPrice, f.orig.SellPrice, f.orig.DisplayName}
	placeholders := [fieldCount]string{"BTC", "USD", "0.00", "0.00", "Bitcoin"}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		in.CharLimit = 64
		in.SetValue(values[i])
		f.inputs[i] = in
	}
	f.inputs[fieldBase].Focus()
	return f
}

func (f *form) move(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	f.inputs[f.focus].Focus()
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// record builds the edited value and validates it. The id and completed flag
// of an existing record are preserved.
func (f *form) record() (record.Record, error) {
	r := f.orig
	r.Base = strings.ToUpper(strings.TrimSpace(f.inputs[fieldBase].Value()))
	r.Counter = strings.ToUpper(strings.TrimSpace(f.inputs[fieldCounter].Value()))
	r.BuyPrice = strings.TrimSpace(f.inputs[fieldBuy].Value())
	r.SellPrice = strings.TrimSpace(f.inputs[fieldSell].Value())
	r.DisplayName = strings.TrimSpace(f.inputs[fieldName].Value())
	if err := r.Validate(); err != nil {
		return r, err
	}
	return r, nil
}

func (f *form) title() string {
	if f.isNew {
		return "New record"
	}
	return "Edit " + f.orig.Pair()
}

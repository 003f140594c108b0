package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type Action string

type Binding struct {
	Action Action
	Keys   []string
	Help   string
	Scopes []string
}

// KeyRegistry maps key names to actions per scope. Lookups fall back to the
// global scope.
type KeyRegistry struct {
	bindingsByScope map[string][]*Binding
	indexByScope    map[string]map[string]*Binding
}

const (
	scopeGlobal  = "global"
	scopeList    = "list"
	scopeSearch  = "search"
	scopeForm    = "form"
	scopeConfirm = "confirm"
)

const (
	actionQuit           Action = "quit"
	actionUp             Action = "up"
	actionDown           Action = "down"
	actionRefresh        Action = "refresh"
	actionToggle         Action = "toggle_completed"
	actionClearCompleted Action = "clear_completed"
	actionDelete         Action = "delete"
	actionDeleteAll      Action = "delete_all"
	actionAdd            Action = "add"
	actionEdit           Action = "edit"
	actionFilterCounter  Action = "filter_counter"
	actionFilterStatus   Action = "filter_status"
	actionSearch         Action = "search"
	actionConfirm        Action = "confirm"
	actionCancel         Action = "cancel"
	actionNextField      Action = "next_field"
	actionPrevField      Action = "prev_field"
	actionSave           Action = "save"
)

func NewKeyRegistry() *KeyRegistry {
	r := &KeyRegistry{
		bindingsByScope: make(map[string][]*Binding),
		indexByScope:    make(map[string]map[string]*Binding),
	}

	reg := func(scope string, action Action, keys []string, help string) {
		r.Register(Binding{Action: action, Keys: keys, Help: help, Scopes: []string{scope}})
	}

	reg(scopeGlobal, actionQuit, []string{"ctrl+c"}, "quit")

	// List footer.
	reg(scopeList, actionUp, []string{"k", "up"}, "up")
	reg(scopeList, actionDown, []string{"j", "down"}, "down")
	reg(scopeList, actionRefresh, []string{"r"}, "refresh")
	reg(scopeList, actionToggle, []string{"space", " "}, "toggle done")
	reg(scopeList, actionClearCompleted, []string{"c"}, "clear done")
	reg(scopeList, actionDelete, []string{"d"}, "delete")
	reg(scopeList, actionDeleteAll, []string{"D"}, "delete all")
	reg(scopeList, actionAdd, []string{"n"}, "new")
	reg(scopeList, actionEdit, []string{"e", "enter"}, "edit")
	reg(scopeList, actionFilterCounter, []string{"f"}, "counter")
	reg(scopeList, actionFilterStatus, []string{"s"}, "status")
	reg(scopeList, actionSearch, []string{"/"}, "search")
	reg(scopeList, actionQuit, []string{"q", "ctrl+c"}, "quit")

	// Search footer.
	reg(scopeSearch, actionConfirm, []string{"enter"}, "apply")
	reg(scopeSearch, actionCancel, []string{"esc"}, "clear")

	// Form footer.
	reg(scopeForm, actionNextField, []string{"tab", "down"}, "next")
	reg(scopeForm, actionPrevField, []string{"shift+tab", "up"}, "prev")
	reg(scopeForm, actionSave, []string{"enter", "ctrl+s"}, "save")
	reg(scopeForm, actionCancel, []string{"esc"}, "cancel")

	// Delete-all confirmation.
	reg(scopeConfirm, actionConfirm, []string{"y", "Y"}, "yes")
	reg(scopeConfirm, actionCancel, []string{"n", "N", "esc"}, "no")

	return r
}

func (r *KeyRegistry) Register(b Binding) {
	if r == nil {
		return
	}
	for _, scope := range b.Scopes {
		scope = strings.TrimSpace(scope)
		if scope == "" || len(b.Keys) == 0 {
			continue
		}
		if _, ok := r.indexByScope[scope]; !ok {
			r.indexByScope[scope] = make(map[string]*Binding)
		}
		normKeys := normalizeKeyList(b.Keys)
		if len(normKeys) == 0 || r.scopeHasAnyKey(scope, normKeys) {
			continue
		}

		copyBinding := b
		copyBinding.Keys = normKeys
		copyBinding.Scopes = []string{scope}
		r.bindingsByScope[scope] = append(r.bindingsByScope[scope], &copyBinding)
		for _, k := range copyBinding.Keys {
			r.indexByScope[scope][k] = &copyBinding
		}
	}
}

func (r *KeyRegistry) BindingsForScope(scope string) []Binding {
	if r == nil {
		return nil
	}
	items := r.bindingsByScope[scope]
	out := make([]Binding, 0, len(items))
	for _, b := range items {
		out = append(out, *b)
	}
	return out
}

// Lookup resolves keyName in scope, then in the global scope.
func (r *KeyRegistry) Lookup(keyName, scope string) *Binding {
	if r == nil || keyName == "" {
		return nil
	}
	keyName = normalizeKeyName(keyName)
	if b := r.lookupInScope(keyName, scope); b != nil {
		return b
	}
	if scope != scopeGlobal {
		return r.lookupInScope(keyName, scopeGlobal)
	}
	return nil
}

// ActionFor is Lookup reduced to the action, or "" when unbound.
func (r *KeyRegistry) ActionFor(keyName, scope string) Action {
	if b := r.Lookup(keyName, scope); b != nil {
		return b.Action
	}
	return ""
}

// HelpBindings adapts a scope for the bubbles help view.
func (r *KeyRegistry) HelpBindings(scope string) []key.Binding {
	items := r.BindingsForScope(scope)
	out := make([]key.Binding, 0, len(items))
	for _, b := range items {
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Help)))
	}
	return out
}

func (r *KeyRegistry) lookupInScope(keyName, scope string) *Binding {
	lookup, ok := r.indexByScope[scope]
	if !ok {
		return nil
	}
	return lookup[keyName]
}

func (r *KeyRegistry) scopeHasAnyKey(scope string, keys []string) bool {
	lookup := r.indexByScope[scope]
	for _, k := range keys {
		if _, exists := lookup[k]; exists {
			return true
		}
	}
	return false
}

func normalizeKeyList(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool)
	for _, k := range keys {
		n := normalizeKeyName(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func normalizeKeyName(k string) string {
	if k == " " {
		return "space"
	}
	trimmed := strings.TrimSpace(k)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) == 1 {
		ch := trimmed[0]
		if ch >= 'A' && ch <= 'Z' {
			// D and d are different actions.
			return trimmed
		}
	}
	s := strings.ToLower(trimmed)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "control+", "ctrl+")
	s = strings.ReplaceAll(s, "return", "enter")
	s = strings.ReplaceAll(s, "spacebar", "space")
	return s
}

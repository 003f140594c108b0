package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jask/jaskwallet/internal/record"
)

// Repository is the part of service.Repository the screen drives.
type Repository interface {
	FetchAll(ctx context.Context, forceRefresh bool) record.Result[[]record.Record]
	Save(ctx context.Context, r record.Record) (record.Record, error)
	MarkCompletedByID(ctx context.Context, id string)
	MarkActiveByID(ctx context.Context, id string)
	ClearCompleted(ctx context.Context)
	DeleteAll(ctx context.Context)
	DeleteOne(ctx context.Context, id string)
}

// App is the price list screen with its add/edit form.
type App struct {
	ctx        context.Context
	repo       Repository
	keys       *KeyRegistry
	log        zerolog.Logger
	saveFilter func(string) error

	records []record.Record
	visible []record.Record
	cursor  int
	filter  record.FilterOptions

	state   appState
	search  textinput.Model
	form    *form
	spinner spinner.Model
	help    help.Model
	loading bool
	status  string
}

type appState string

const (
	stateList    appState = "list"
	stateSearch  appState = "search"
	stateForm    appState = "form"
	stateConfirm appState = "confirm"
)

// New builds the screen. counter is the initial counter filter; saveFilter,
// when set, persists the filter whenever it changes.
func New(ctx context.Context, repo Repository, counter string, saveFilter func(string) error, log zerolog.Logger) *App {
	if counter == "" {
		counter = record.AllCounters
	}
	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "search"
	return &App{
		ctx:        ctx,
		repo:       repo,
		keys:       NewKeyRegistry(),
		log:        log,
		saveFilter: saveFilter,
		filter:     record.FilterOptions{Counter: counter},
		state:      stateList,
		search:     search,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:       help.New(),
	}
}

// Init loads with a forced refresh, like opening the list for the first time.
func (a *App) Init() tea.Cmd {
	return a.startLoad(true)
}

func (a *App) startLoad(force bool) tea.Cmd {
	a.loading = true
	return tea.Batch(a.spinner.Tick, a.loadCmd(force))
}

func (a *App) loadCmd(force bool) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{force: force, result: a.repo.FetchAll(a.ctx, force)}
	}
}

// mutateCmd runs fn against the repository and reports status afterwards.
func (a *App) mutateCmd(status string, fn func(ctx context.Context)) tea.Cmd {
	return func() tea.Msg {
		fn(a.ctx)
		return mutatedMsg(status)
	}
}

func (a *App) createCmd(r record.Record) tea.Cmd {
	return func() tea.Msg {
		saved, err := a.repo.Save(a.ctx, r)
		return savedMsg{rec: saved, err: err}
	}
}

// updateCmd overwrites an existing record. It refuses forms opened for a new
// record.
func (a *App) updateCmd(f *form, r record.Record) (tea.Cmd, error) {
	if f.isNew || r.ID == "" {
		return nil, ErrUpdateNewRecord
	}
	return a.createCmd(r), nil
}

func (a *App) saveFilterCmd(counter string) tea.Cmd {
	if a.saveFilter == nil {
		return nil
	}
	return func() tea.Msg {
		if err := a.saveFilter(counter); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		switch a.state {
		case stateSearch:
			return a.handleSearchKey(m)
		case stateForm:
			return a.handleFormKey(m)
		case stateConfirm:
			return a.handleConfirmKey(m)
		}
		return a.handleListKey(m)
	case tea.WindowSizeMsg:
		a.help.Width = m.Width
	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(m)
		return a, cmd
	case loadedMsg:
		a.loading = false
		m.result.Match(
			func(list []record.Record) {
				a.records = list
				a.applyFilter()
			},
			func(err error) {
				a.log.Warn().Err(err).Bool("force", m.force).Msg("load failed")
				a.status = "loading error: " + err.Error()
			},
		)
	case mutatedMsg:
		a.status = string(m)
		return a, a.startLoad(false)
	case savedMsg:
		if m.err != nil {
			a.status = "save failed: " + m.err.Error()
			return a, nil
		}
		a.status = "saved " + m.rec.Pair()
		return a, a.startLoad(false)
	case errMsg:
		a.status = "error: " + m.Error()
	}
	return a, nil
}

func (a *App) handleListKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.keys.ActionFor(m.String(), scopeList) {
	case actionQuit:
		return a, tea.Quit
	case actionUp:
		if a.cursor > 0 {
			a.cursor--
		}
	case actionDown:
		if a.cursor < len(a.visible)-1 {
			a.cursor++
		}
	case actionRefresh:
		a.status = ""
		return a, a.startLoad(true)
	case actionToggle:
		sel, ok := a.selected()
		if !ok {
			return a, nil
		}
		if sel.Completed {
			return a, a.mutateCmd("marked active", func(ctx context.Context) { a.repo.MarkActiveByID(ctx, sel.ID) })
		}
		return a, a.mutateCmd("marked complete", func(ctx context.Context) { a.repo.MarkCompletedByID(ctx, sel.ID) })
	case actionClearCompleted:
		return a, a.mutateCmd("cleared completed", a.repo.ClearCompleted)
	case actionDelete:
		sel, ok := a.selected()
		if !ok {
			return a, nil
		}
		return a, a.mutateCmd("deleted "+sel.Pair(), func(ctx context.Context) { a.repo.DeleteOne(ctx, sel.ID) })
	case actionDeleteAll:
		a.state = stateConfirm
	case actionAdd:
		a.form = newForm(nil)
		a.state = stateForm
		return a, textinput.Blink
	case actionEdit:
		sel, ok := a.selected()
		if !ok {
			return a, nil
		}
		a.form = newForm(&sel)
		a.state = stateForm
		return a, textinput.Blink
	case actionFilterCounter:
		a.filter.Counter = nextCounter(a.filter.Counter, record.Counters(a.records))
		a.applyFilter()
		return a, a.saveFilterCmd(a.filter.Counter)
	case actionFilterStatus:
		a.filter.Status = nextStatus(a.filter.Status)
		a.applyFilter()
	case actionSearch:
		a.state = stateSearch
		a.search.SetValue(a.filter.Query)
		return a, a.search.Focus()
	}
	return a, nil
}

func (a *App) handleSearchKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.keys.ActionFor(m.String(), scopeSearch) {
	case actionQuit:
		return a, tea.Quit
	case actionConfirm:
		a.search.Blur()
		a.state = stateList
		return a, nil
	case actionCancel:
		a.search.Blur()
		a.search.SetValue("")
		a.filter.Query = ""
		a.applyFilter()
		a.state = stateList
		return a, nil
	}
	var cmd tea.Cmd
	a.search, cmd = a.search.Update(m)
	a.filter.Query = a.search.Value()
	a.applyFilter()
	return a, cmd
}

func (a *App) handleFormKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.keys.ActionFor(m.String(), scopeForm) {
	case actionQuit:
		return a, tea.Quit
	case actionCancel:
		a.form = nil
		a.state = stateList
		return a, nil
	case actionNextField:
		a.form.move(1)
		return a, nil
	case actionPrevField:
		a.form.move(-1)
		return a, nil
	case actionSave:
		return a, a.submitForm()
	}
	return a, a.form.update(m)
}

func (a *App) submitForm() tea.Cmd {
	f := a.form
	r, err := f.record()
	if err != nil {
		f.err = err
		if errors.Is(err, record.ErrEmptyRecord) {
			a.status = "record cannot be empty"
		}
		return nil
	}
	var cmd tea.Cmd
	if f.isNew {
		cmd = a.createCmd(r)
	} else {
		cmd, err = a.updateCmd(f, r)
		if err != nil {
			f.err = err
			return nil
		}
	}
	a.form = nil
	a.state = stateList
	return cmd
}

func (a *App) handleConfirmKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.keys.ActionFor(m.String(), scopeConfirm) {
	case actionQuit:
		return a, tea.Quit
	case actionConfirm:
		a.state = stateList
		return a, a.mutateCmd("deleted all", a.repo.DeleteAll)
	case actionCancel:
		a.state = stateList
	}
	return a, nil
}

func (a *App) applyFilter() {
	a.visible = record.Filter(a.records, a.filter)
	if a.cursor >= len(a.visible) {
		a.cursor = len(a.visible) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) selected() (record.Record, bool) {
	if len(a.visible) == 0 {
		return record.Record{}, false
	}
	return a.visible[a.cursor], true
}

func nextCounter(current string, available []string) string {
	options := append([]string{record.AllCounters}, available...)
	for i, c := range options {
		if c == current {
			return options[(i+1)%len(options)]
		}
	}
	return record.AllCounters
}

func nextStatus(s record.Status) record.Status {
	switch s {
	case record.StatusAll:
		return record.StatusActive
	case record.StatusActive:
		return record.StatusCompleted
	default:
		return record.StatusAll
	}
}

type loadedMsg struct {
	force  bool
	result record.Result[[]record.Record]
}

type mutatedMsg string

type savedMsg struct {
	rec record.Record
	err error
}

type errMsg struct{ error }

package update

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sandeepkv93/taskboard/internal/board"
	"github.com/sandeepkv93/taskboard/internal/filter"
	"github.com/sandeepkv93/taskboard/internal/model"
	"github.com/sandeepkv93/taskboard/internal/storage"
)

type View string

const (
	ViewBoard    View = "Board"
	ViewCalendar View = "Calendar"
	ViewActivity View = "Activity"
)

// Mode says which input currently owns the keyboard.
type Mode string

const (
	ModeNormal  Mode = "normal"
	ModeForm    Mode = "form"
	ModeSearch  Mode = "search"
	ModePalette Mode = "palette"
	ModeConfirm Mode = "confirm"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type FormField int

const (
	FieldTitle FormField = iota
	FieldDescription
	FieldPriority
	FieldDue
	formFieldCount
)

type FormState struct {
	EditingID string
	Status    string
	Priority  model.Priority
	Field     FormField
	Err       string
}

type ConfirmAction string

const (
	ConfirmDeleteTask   ConfirmAction = "delete_task"
	ConfirmDeleteColumn ConfirmAction = "delete_column"
)

type ConfirmState struct {
	Action   ConfirmAction
	TargetID string
	Prompt   string
}

type CalendarState struct {
	FocusDate time.Time
}

type ActivityState struct {
	Items   []storage.Activity
	Loading bool
	Err     error
}

type GlobalKeyMap struct {
	Board    string
	Calendar string
	Activity string
	Search   string
	Palette  string
	Help     string
	Quit     string
}

type Model struct {
	CurrentView View
	Mode        Mode
	Store       *board.Store
	Journal     storage.Repository
	Config      RuntimeConfig
	Status      StatusBar
	Keys        GlobalKeyMap
	HelpVisible bool
	Quitting    bool
	LastError   error

	FocusColumn int
	Cursor      int
	SortModes   map[string]filter.SortMode
	Form        FormState
	Confirm     ConfirmState
	Calendar    CalendarState
	Activity    ActivityState

	now    func() time.Time
	width  int
	height int

	searchInput    textinput.Model
	commandInput   textinput.Model
	titleInput     textinput.Model
	dueInput       textinput.Model
	descArea       textarea.Model
	calendarTable  table.Model
	helpModel      help.Model
	detailViewport viewport.Model
	markdownKey    string
	markdownOut    string
}

// DropMsg is a drag-and-drop gesture: DraggedID is a task, TargetID a column
// or another task.
type DropMsg struct {
	DraggedID string
	TargetID  string
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type ActivityLoadedMsg struct {
	Items []storage.Activity
	Err   error
}

// ActivityRecordedMsg carries one entry the journal has just written.
type ActivityRecordedMsg struct {
	Entry storage.Activity
}

// NewModel builds the UI over store. A nil store gets a fresh default board;
// a nil journal disables the activity view.
func NewModel(store *board.Store, journal storage.Repository, cfg RuntimeConfig) Model {
	if store == nil {
		store = board.New()
	}
	m := Model{
		CurrentView: ViewBoard,
		Mode:        ModeNormal,
		Store:       store,
		Journal:     journal,
		Config:      cfg,
		SortModes:   make(map[string]filter.SortMode),
		now:         time.Now,
		Keys: GlobalKeyMap{
			Board:    "1",
			Calendar: "2",
			Activity: "3",
			Search:   "/",
			Palette:  ":",
			Help:     "?",
			Quit:     "q",
		},
	}
	m.Calendar.FocusDate = m.now()
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}

// WithClock swaps the time source used for due markers, new due dates and
// the calendar.
func (m Model) WithClock(now func() time.Time) Model {
	if now == nil {
		return m
	}
	m.now = now
	m.Calendar.FocusDate = now()
	m.markdownKey = ""
	m.syncBubbleData()
	return m
}

func isKnownView(v View) bool {
	switch v {
	case ViewBoard, ViewCalendar, ViewActivity:
		return true
	default:
		return false
	}
}

package update

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskboard/internal/board"
	"github.com/sandeepkv93/taskboard/internal/commands"
	"github.com/sandeepkv93/taskboard/internal/filter"
	"github.com/sandeepkv93/taskboard/internal/model"
	"github.com/sandeepkv93/taskboard/internal/storage"
)

func fixedNow() time.Time {
	return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestModel(t *testing.T, opts ...board.Option) (Model, *board.Store) {
	t.Helper()
	base := []board.Option{board.WithClock(fixedNow), board.WithIDGenerator(sequentialIDs())}
	store := board.New(append(base, opts...)...)
	return NewModel(store, nil, DefaultRuntimeConfig()).WithClock(fixedNow), store
}

func mustAdd(t *testing.T, store *board.Store, draft model.TaskDraft) model.Task {
	t.Helper()
	if draft.Priority == "" {
		draft.Priority = model.PriorityMedium
	}
	task, err := store.AddTask(draft)
	if err != nil {
		t.Fatalf("add task: %v", err)
	}
	return task
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// press feeds each key in turn and returns the last command produced.
func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var updated tea.Model
		updated, cmd = m.Update(keyMsg(k))
		m = updated.(Model)
	}
	return m, cmd
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func date(y int, mo time.Month, d int) *time.Time {
	v := time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
	return &v
}

func TestNewModelDefaults(t *testing.T) {
	m, _ := newTestModel(t)
	if m.CurrentView != ViewBoard || m.Mode != ModeNormal {
		t.Fatalf("unexpected defaults: view=%q mode=%q", m.CurrentView, m.Mode)
	}
	if m.Keys.Quit != "q" || m.Keys.Palette != ":" || m.Keys.Search != "/" {
		t.Fatalf("unexpected keys: %+v", m.Keys)
	}
	if col, ok := m.focusedColumn(); !ok || col.ID != "todo" {
		t.Fatalf("expected focus on todo, got %+v", col)
	}
	if NewModel(nil, nil, DefaultRuntimeConfig()).Store == nil {
		t.Fatal("expected a default store when none is given")
	}
}

func TestUpdateKeySwitchesView(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(m, "2")
	if m.CurrentView != ViewCalendar {
		t.Fatalf("expected calendar view, got %q", m.CurrentView)
	}
	m, cmd := press(m, "3")
	if m.CurrentView != ViewActivity || cmd != nil {
		t.Fatalf("expected activity view without load command, got %q %v", m.CurrentView, cmd)
	}
	m, _ = press(m, "1")
	if m.CurrentView != ViewBoard {
		t.Fatalf("expected board view, got %q", m.CurrentView)
	}

	m, _ = send(m, SwitchViewMsg{View: View("Unknown")})
	if m.CurrentView != ViewBoard {
		t.Fatalf("expected view unchanged for unknown view, got %q", m.CurrentView)
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(m, SetStatusMsg{Text: "ready"})
	if m.Status.Text != "ready" || m.Status.IsError {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	m, _ = send(m, AppErrorMsg{Err: errors.New("boom")})
	if m.LastError == nil || !m.Status.IsError || m.Status.Text != "boom" {
		t.Fatalf("unexpected error state: %+v %v", m.Status, m.LastError)
	}
	m, _ = send(m, ClearStatusMsg{})
	if m.Status.Text != "" || m.Status.IsError {
		t.Fatalf("expected cleared status, got %+v", m.Status)
	}
}

func TestNewTaskFormAddsToFocusedColumn(t *testing.T) {
	m, store := newTestModel(t)
	m, _ = press(m, "l", "n")
	if m.Mode != ModeForm || m.Form.Status != "in-progress" {
		t.Fatalf("expected form for in-progress, got mode=%q form=%+v", m.Mode, m.Form)
	}
	m, _ = press(m, "Write report", "tab", "## notes", "tab", "right", "tab", "2024-03-15", "enter")
	if m.Mode != ModeNormal {
		t.Fatalf("expected form closed, got %q (err=%q)", m.Mode, m.Form.Err)
	}

	tasks := store.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	got := tasks[0]
	if got.Title != "Write report" || got.Description != "## notes" || got.Status != "in-progress" || got.Priority != model.PriorityHigh {
		t.Fatalf("unexpected task: %+v", got)
	}
	if got.DueDate == nil || !got.DueDate.Equal(*date(2024, 3, 15)) {
		t.Fatalf("unexpected due date: %v", got.DueDate)
	}
	if sel, ok := m.selectedTask(); !ok || sel.ID != got.ID {
		t.Fatalf("expected new task selected, got %+v", sel)
	}
	if !strings.Contains(m.Status.Text, "added task") {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
}

func TestFormRejectsEmptyTitleAndBadDate(t *testing.T) {
	m, store := newTestModel(t)
	m, _ = press(m, "n", "   ", "enter")
	if m.Mode != ModeForm || m.Form.Err != "title is required" {
		t.Fatalf("expected title error, got mode=%q err=%q", m.Mode, m.Form.Err)
	}

	m, _ = press(m, "Pay rent", "tab", "tab", "tab", "15/03/2024", "enter")
	if m.Mode != ModeForm || m.Form.Field != FieldDue || !strings.Contains(m.Form.Err, "YYYY-MM-DD") {
		t.Fatalf("expected due error, got field=%d err=%q", m.Form.Field, m.Form.Err)
	}
	if len(store.Tasks()) != 0 {
		t.Fatalf("expected no task stored, got %d", len(store.Tasks()))
	}

	m, _ = press(m, "esc")
	if m.Mode != ModeNormal {
		t.Fatalf("expected esc to close form, got %q", m.Mode)
	}
}

func TestEditFormMergesFields(t *testing.T) {
	m, store := newTestModel(t)
	task := mustAdd(t, store, model.TaskDraft{Title: "Draft", Description: "keep me", Status: "todo", DueDate: date(2024, 3, 20), Assignee: "sam"})

	m, _ = press(m, "e")
	if m.Mode != ModeForm || m.Form.EditingID != task.ID || m.titleInput.Value() != "Draft" || m.dueInput.Value() != "2024-03-20" {
		t.Fatalf("expected prefilled edit form, got %+v title=%q due=%q", m.Form, m.titleInput.Value(), m.dueInput.Value())
	}
	m.titleInput.SetValue("Final")
	m.dueInput.SetValue("")
	m, _ = press(m, "ctrl+s")

	got, ok := store.Task(task.ID)
	if !ok {
		t.Fatal("task vanished")
	}
	if got.Title != "Final" || got.Description != "keep me" || got.DueDate != nil {
		t.Fatalf("unexpected merge: %+v", got)
	}
	if got.Assignee != "sam" || !got.CreatedAt.Equal(task.CreatedAt) || got.Status != "todo" {
		t.Fatalf("untouched fields changed: %+v", got)
	}
}

func TestKeyboardDropMovesTaskToAdjacentColumn(t *testing.T) {
	m, store := newTestModel(t)
	task := mustAdd(t, store, model.TaskDraft{Title: "Ship", Status: "todo"})

	if _, cmd := press(m, "H"); cmd != nil {
		t.Fatal("expected no drop left of the first column")
	}
	m, cmd := press(m, "L")
	if cmd == nil {
		t.Fatal("expected a drop command")
	}
	drop, ok := cmd().(DropMsg)
	if !ok || drop.DraggedID != task.ID || drop.TargetID != "in-progress" {
		t.Fatalf("unexpected drop message: %#v", drop)
	}
	m, _ = send(m, drop)

	got, _ := store.Task(task.ID)
	if got.Status != "in-progress" {
		t.Fatalf("expected in-progress, got %q", got.Status)
	}
	if m.FocusColumn != 1 || m.Cursor != 0 {
		t.Fatalf("expected focus to follow task, got column=%d cursor=%d", m.FocusColumn, m.Cursor)
	}
	if !strings.Contains(m.Status.Text, "To Do -> In Progress") {
		t.Fatalf("unexpected status: %q", m.Status.Text)
	}
}

func TestDropMsgOntoTaskUsesOwningColumn(t *testing.T) {
	m, store := newTestModel(t)
	a := mustAdd(t, store, model.TaskDraft{Title: "A", Status: "todo"})
	b := mustAdd(t, store, model.TaskDraft{Title: "B", Status: "review"})

	m, _ = send(m, DropMsg{DraggedID: a.ID, TargetID: b.ID})
	if got, _ := store.Task(a.ID); got.Status != "review" {
		t.Fatalf("expected review, got %q", got.Status)
	}
	before := m.Status
	m, _ = send(m, DropMsg{DraggedID: a.ID, TargetID: "nowhere"})
	if m.Status != before {
		t.Fatalf("unresolvable drop should be ignored, got %+v", m.Status)
	}
}

func TestDeleteTaskAsksForConfirmation(t *testing.T) {
	m, store := newTestModel(t)
	mustAdd(t, store, model.TaskDraft{Title: "Temp", Status: "todo"})

	m, _ = press(m, "x")
	if m.Mode != ModeConfirm || m.Confirm.Action != ConfirmDeleteTask {
		t.Fatalf("expected confirmation, got %q %+v", m.Mode, m.Confirm)
	}
	if !strings.Contains(m.View(), "Delete task \"Temp\"? [y/n]") {
		t.Fatal("expected confirmation prompt in view")
	}
	m, _ = press(m, "n")
	if len(store.Tasks()) != 1 || m.Mode != ModeNormal {
		t.Fatalf("expected cancel to keep task, mode=%q", m.Mode)
	}
	m, _ = press(m, "x", "y")
	if len(store.Tasks()) != 0 {
		t.Fatalf("expected task deleted, got %d", len(store.Tasks()))
	}
}

func TestDeleteColumnMovesTasksToFirstColumn(t *testing.T) {
	m, store := newTestModel(t)
	task := mustAdd(t, store, model.TaskDraft{Title: "WIP", Status: "in-progress"})

	m, _ = press(m, "l", "X", "y")
	if store.HasColumn("in-progress") {
		t.Fatal("expected column deleted")
	}
	if got, _ := store.Task(task.ID); got.Status != "todo" {
		t.Fatalf("expected task moved to todo, got %q", got.Status)
	}
	if !strings.Contains(m.Status.Text, "deleted column: In Progress") {
		t.Fatalf("unexpected status: %q", m.Status.Text)
	}
}

func TestLastColumnCannotBeDeleted(t *testing.T) {
	m, store := newTestModel(t, board.WithColumns([]model.Column{{ID: "only", Title: "Only"}}))
	m, _ = press(m, "X")
	if m.Mode != ModeNormal || !m.Status.IsError {
		t.Fatalf("expected refusal, got mode=%q status=%+v", m.Mode, m.Status)
	}
	if !store.HasColumn("only") {
		t.Fatal("last column must survive")
	}
}

func TestSearchIsLive(t *testing.T) {
	m, store := newTestModel(t)
	mustAdd(t, store, model.TaskDraft{Title: "Write report", Status: "todo"})
	mustAdd(t, store, model.TaskDraft{Title: "Buy milk", Status: "todo"})

	m, _ = press(m, "/", "rep")
	if m.Mode != ModeSearch {
		t.Fatalf("expected search mode, got %q", m.Mode)
	}
	if store.SearchTerm() != "rep" || len(store.FilteredTasks()) != 1 {
		t.Fatalf("expected live search, term=%q filtered=%d", store.SearchTerm(), len(store.FilteredTasks()))
	}
	m, _ = press(m, "esc")
	if m.Mode != ModeNormal || store.SearchTerm() != "rep" {
		t.Fatalf("expected search kept after esc, mode=%q term=%q", m.Mode, store.SearchTerm())
	}
	if !strings.Contains(m.View(), "showing 1/2") {
		t.Fatal("expected filter bar counts in view")
	}
}

func TestFilterKeysPassCompleteRecord(t *testing.T) {
	m, store := newTestModel(t)
	store.SetSearchTerm("x")

	m, _ = press(m, "p", "f", "d")
	f := store.Filters()
	if f.Status != "todo" || f.Priority != model.PriorityHigh || f.DueDate == nil || !f.DueDate.Equal(fixedNow()) {
		t.Fatalf("unexpected filters: %+v", f)
	}

	m, _ = press(m, "f", "p", "p", "p")
	f = store.Filters()
	if f.Status != model.AllStatuses || f.Priority != model.AllPriorities || f.DueDate == nil {
		t.Fatalf("expected toggles back to all with due kept, got %+v", f)
	}

	m, _ = press(m, "c")
	if !store.Filters().IsDefault() || store.SearchTerm() != "" {
		t.Fatalf("expected cleared filters, got %+v term=%q", store.Filters(), store.SearchTerm())
	}
	if m.Status.Text != "filters cleared" {
		t.Fatalf("unexpected status: %q", m.Status.Text)
	}
}

func TestSortKeyCyclesFocusedColumn(t *testing.T) {
	m, store := newTestModel(t)
	mustAdd(t, store, model.TaskDraft{Title: "Low", Priority: model.PriorityLow, Status: "todo"})
	high := mustAdd(t, store, model.TaskDraft{Title: "High", Priority: model.PriorityHigh, Status: "todo"})

	m, _ = press(m, "s")
	if m.SortModes["todo"] != filter.SortPriority {
		t.Fatalf("expected priority sort, got %q", m.SortModes["todo"])
	}
	if sel, _ := m.selectedTask(); sel.ID != high.ID {
		t.Fatalf("expected high priority first, got %+v", sel)
	}
	if !strings.Contains(m.View(), "sort: Priority") {
		t.Fatal("expected sort label in view")
	}
}

func TestColumnMoveKeys(t *testing.T) {
	m, store := newTestModel(t)
	m, _ = press(m, ">")
	cols := store.SortedColumns()
	if cols[0].ID != "in-progress" || cols[1].ID != "todo" {
		t.Fatalf("unexpected order after move: %+v", cols)
	}
	if m.FocusColumn != 1 {
		t.Fatalf("expected focus to follow column, got %d", m.FocusColumn)
	}
}

func TestPaletteCommands(t *testing.T) {
	m, store := newTestModel(t)

	m, _ = press(m, ":", "add Buy milk", "enter")
	if m.Mode != ModeNormal || len(store.Tasks()) != 1 {
		t.Fatalf("expected task added, mode=%q tasks=%d status=%+v", m.Mode, len(store.Tasks()), m.Status)
	}
	task := store.Tasks()[0]
	if task.Status != "todo" || task.Priority != model.PriorityMedium {
		t.Fatalf("unexpected palette task: %+v", task)
	}

	m, _ = press(m, ":", "column add Blocked", "enter")
	m, _ = press(m, ":", "move "+task.ID+" blocked", "enter")
	got, _ := store.Task(task.ID)
	if col, _ := store.Column(got.Status); col.Title != "Blocked" {
		t.Fatalf("expected task in Blocked, got %q (%+v)", got.Status, m.Status)
	}

	m, _ = press(m, ":", "filter priority:high status:todo due:2024-03-15", "enter")
	f := store.Filters()
	if f.Priority != model.PriorityHigh || f.Status != "todo" || f.DueDate == nil {
		t.Fatalf("unexpected filters: %+v", f)
	}
	m, _ = press(m, ":", "filter due:none", "enter")
	if f := store.Filters(); f.DueDate != nil || f.Priority != model.PriorityHigh {
		t.Fatalf("expected only due cleared, got %+v", f)
	}
	m, _ = press(m, ":", "clear", "enter")
	if !store.Filters().IsDefault() {
		t.Fatalf("expected default filters, got %+v", store.Filters())
	}

	m, _ = press(m, ":", "search milk", "enter")
	if store.SearchTerm() != "milk" {
		t.Fatalf("expected search term, got %q", store.SearchTerm())
	}

	m, _ = press(m, ":", "sort due", "enter")
	focused, _ := m.focusedColumn()
	if focused.Title != "Blocked" || m.SortModes[focused.ID] != filter.SortDueDate {
		t.Fatalf("expected due sort on focused column, got %q on %q", m.SortModes[focused.ID], focused.Title)
	}

	m, _ = press(m, ":", "column rename review Code Review", "enter")
	if col, _ := store.Column("review"); col.Title != "Code Review" {
		t.Fatalf("expected rename, got %+v", col)
	}

	m, _ = press(m, ":", "delete "+task.ID, "enter")
	if len(store.Tasks()) != 0 {
		t.Fatalf("expected task deleted, status=%+v", m.Status)
	}
}

func TestPaletteReportsResolutionErrors(t *testing.T) {
	m, store := newTestModel(t)
	mustAdd(t, store, model.TaskDraft{Title: "A", Status: "todo"})

	cases := []string{"move nope done", "move id-1 nowhere", "column delete nowhere", "history", "bogus"}
	for _, in := range cases {
		m, _ = press(m, ":", in, "enter")
		if !m.Status.IsError {
			t.Fatalf("%q: expected error status, got %+v", in, m.Status)
		}
	}
	var ce *commands.CommandError
	if !errors.As(m.LastError, &ce) || ce.Code != commands.ErrCodeInvalidArgument {
		t.Fatalf("expected invalid argument error, got %v", m.LastError)
	}
}

func TestPaletteResolvesUniqueSuffix(t *testing.T) {
	m, store := newTestModel(t, board.WithIDGenerator(func() string { return "0190b6f2-1c2d-7e3f-8a9b-0c1d2e3f4a5b" }))
	mustAdd(t, store, model.TaskDraft{Title: "A", Status: "todo"})

	m, _ = press(m, ":", "move 2e3f4a5b done", "enter")
	if got := store.Tasks()[0]; got.Status != "done" {
		t.Fatalf("expected suffix reference to resolve, status=%+v", m.Status)
	}
}

func TestPaletteHistoryLoadsActivity(t *testing.T) {
	repo, err := storage.OpenMemory(context.Background())
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	if _, err := repo.AppendActivity(context.Background(), storage.Activity{Seq: 1, Kind: "task_added", TaskID: "id-1", Detail: "Buy milk", At: fixedNow()}); err != nil {
		t.Fatalf("append: %v", err)
	}

	store := board.New(board.WithClock(fixedNow), board.WithIDGenerator(sequentialIDs()))
	m := NewModel(store, repo, DefaultRuntimeConfig()).WithClock(fixedNow)
	if m.Init() == nil {
		t.Fatal("expected initial activity load")
	}

	m, cmd := press(m, ":", "history", "enter")
	if m.CurrentView != ViewActivity || cmd == nil || !m.Activity.Loading {
		t.Fatalf("expected activity load, view=%q loading=%v", m.CurrentView, m.Activity.Loading)
	}
	loaded, ok := cmd().(ActivityLoadedMsg)
	if !ok || loaded.Err != nil {
		t.Fatalf("unexpected load result: %#v", loaded)
	}
	m, _ = send(m, loaded)
	if m.Activity.Loading || len(m.Activity.Items) != 1 {
		t.Fatalf("unexpected activity state: %+v", m.Activity)
	}
	if out := m.View(); !strings.Contains(out, "task_added") || !strings.Contains(out, "Buy milk") {
		t.Fatalf("expected activity entry in view: %q", out)
	}

	m, _ = send(m, ActivityRecordedMsg{Entry: storage.Activity{ID: 2, Seq: 2, Kind: "task_moved", At: fixedNow()}})
	if len(m.Activity.Items) != 2 || m.Activity.Items[0].Kind != "task_moved" {
		t.Fatalf("expected newest entry first, got %+v", m.Activity.Items)
	}
}

func TestCalendarViewShowsWeek(t *testing.T) {
	m, store := newTestModel(t)
	mustAdd(t, store, model.TaskDraft{Title: "Ship release", Status: "todo", DueDate: date(2024, 3, 8)})

	m, _ = press(m, "2")
	out := m.View()
	if !strings.Contains(out, "2024-03-04 to 2024-03-10") || !strings.Contains(out, "Ship release") {
		t.Fatalf("unexpected calendar view: %q", out)
	}
	m, _ = press(m, "l")
	if !strings.Contains(m.View(), "2024-03-11 to 2024-03-17") || strings.Contains(m.View(), "Ship release") {
		t.Fatal("expected next week without the task")
	}
	m, _ = press(m, "t")
	if !strings.Contains(m.View(), "2024-03-04 to 2024-03-10") {
		t.Fatal("expected t to return to the current week")
	}
}

func TestViewShowsCardsMarkersAndDetail(t *testing.T) {
	m, store := newTestModel(t)
	mustAdd(t, store, model.TaskDraft{Title: "Late", Status: "todo", DueDate: date(2024, 3, 9), Description: "Call **bank**"})
	m, _ = send(m, ClearStatusMsg{})

	out := m.View()
	for _, want := range []string{"taskboard | view: Board | tasks: 1", "Late", "overdue", "status: all", "id: id-1", "bank"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view: %q", want, out)
		}
	}
}

func TestHeaderReportsOrphans(t *testing.T) {
	m, store := newTestModel(t)
	mustAdd(t, store, model.TaskDraft{Title: "Stranded", Status: "done"})
	store.ReorderColumns([]model.Column{{ID: "todo", Title: "To Do", Order: 0}})
	m, _ = send(m, ClearStatusMsg{})
	if !strings.Contains(m.View(), "orphaned: 1") {
		t.Fatal("expected orphan count in header")
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(m, "?")
	if !m.HelpVisible || !strings.Contains(m.View(), "help (board)") {
		t.Fatal("expected help panel")
	}
	m, _ = press(m, "?")
	if m.HelpVisible {
		t.Fatal("expected help hidden")
	}
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t)
	next, cmd := press(m, "q")
	if !next.Quitting || cmd == nil {
		t.Fatal("expected q to quit")
	}

	m, _ = press(m, "n", "q")
	if m.Quitting || m.Mode != ModeForm {
		t.Fatal("q inside the form should type, not quit")
	}
	m, cmd = press(m, "ctrl+c")
	if !m.Quitting || cmd == nil {
		t.Fatal("expected ctrl+c to quit from any mode")
	}
}

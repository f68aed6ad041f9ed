package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/taskboard/internal/filter"
	"github.com/sandeepkv93/taskboard/internal/model"
)

type Type string

const (
	TypeAdd     Type = "add"
	TypeMove    Type = "move"
	TypeDelete  Type = "delete"
	TypeSearch  Type = "search"
	TypeFilter  Type = "filter"
	TypeClear   Type = "clear"
	TypeSort    Type = "sort"
	TypeColumn  Type = "column"
	TypeHistory Type = "history"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

const dateLayout = "2006-01-02"

type AddArgs struct {
	Title string
}

// MoveArgs carries unresolved references: Task is an id or id prefix,
// Column an id or title.
type MoveArgs struct {
	Task   string
	Column string
}

type DeleteArgs struct {
	Task string
}

type SearchArgs struct {
	Term string
}

// FilterArgs lists only the keys that were given; nil keeps the current value.
type FilterArgs struct {
	Status   *string
	Priority *model.Priority
	DueDate  *time.Time
	ClearDue bool
}

type SortArgs struct {
	Mode filter.SortMode
}

type ColumnAction string

const (
	ColumnAdd    ColumnAction = "add"
	ColumnRename ColumnAction = "rename"
	ColumnDelete ColumnAction = "delete"
	ColumnMove   ColumnAction = "move"
)

type ColumnArgs struct {
	Action ColumnAction
	Column string
	Title  string
	Delta  int
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Move   *MoveArgs
	Delete *DeleteArgs
	Search *SearchArgs
	Filter *FilterArgs
	Sort   *SortArgs
	Column *ColumnArgs
}

// Parse reads one palette line, interpreting dates in time.Local.
func Parse(input string) (Command, error) {
	return ParseIn(input, time.Local)
}

// ParseIn is Parse with an explicit location for due: dates.
func ParseIn(input string, loc *time.Location) (Command, error) {
	if loc == nil {
		loc = time.Local
	}
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimLeft(raw, "/:"))
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeMove:
		return parseMove(input, args)
	case TypeDelete:
		return parseDelete(input, args)
	case TypeSearch:
		return Command{Type: TypeSearch, Raw: input, Search: &SearchArgs{Term: strings.Join(args, " ")}}, nil
	case TypeFilter:
		return parseFilter(input, args, loc)
	case TypeClear:
		return Command{Type: TypeClear, Raw: input}, nil
	case TypeSort:
		return parseSort(input, args)
	case TypeColumn:
		return parseColumn(input, args)
	case TypeHistory:
		return Command{Type: TypeHistory, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	title := strings.TrimSpace(strings.Join(args, " "))
	if err := model.ValidateDraftTitle(title); err != nil {
		return Command{}, invalid("add requires a title")
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Title: title}}, nil
}

func parseMove(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, invalid("move requires a task and a column")
	}
	return Command{Type: TypeMove, Raw: raw, Move: &MoveArgs{Task: args[0], Column: strings.Join(args[1:], " ")}}, nil
}

func parseDelete(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("delete requires exactly one task")
	}
	return Command{Type: TypeDelete, Raw: raw, Delete: &DeleteArgs{Task: args[0]}}, nil
}

func parseFilter(raw string, args []string, loc *time.Location) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("filter requires status:, priority: or due:")
	}
	out := FilterArgs{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, ":")
		if !ok || value == "" {
			return Command{}, invalid("malformed filter %q", arg)
		}
		switch strings.ToLower(key) {
		case "status":
			status := value
			if strings.EqualFold(status, model.AllStatuses) {
				status = model.AllStatuses
			}
			out.Status = &status
		case "priority":
			p, err := model.ParsePriority(value)
			if err != nil {
				return Command{}, invalid("unknown priority %q", value)
			}
			out.Priority = &p
		case "due":
			if strings.EqualFold(value, "none") {
				out.DueDate = nil
				out.ClearDue = true
				continue
			}
			due, err := time.ParseInLocation(dateLayout, value, loc)
			if err != nil {
				return Command{}, invalid("due date must be YYYY-MM-DD or none, got %q", value)
			}
			out.DueDate = &due
			out.ClearDue = false
		default:
			return Command{}, invalid("unknown filter key %q", key)
		}
	}
	return Command{Type: TypeFilter, Raw: raw, Filter: &out}, nil
}

func parseSort(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("sort requires one of none, priority, due")
	}
	mode, err := filter.ParseSortMode(args[0])
	if err != nil {
		return Command{}, invalid("sort requires one of none, priority, due")
	}
	return Command{Type: TypeSort, Raw: raw, Sort: &SortArgs{Mode: mode}}, nil
}

func parseColumn(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("column requires add, rename, delete or move")
	}
	action := ColumnAction(strings.ToLower(args[0]))
	rest := args[1:]
	switch action {
	case ColumnAdd:
		title := strings.TrimSpace(strings.Join(rest, " "))
		if title == "" {
			return Command{}, invalid("column add requires a title")
		}
		return Command{Type: TypeColumn, Raw: raw, Column: &ColumnArgs{Action: action, Title: title}}, nil
	case ColumnRename:
		if len(rest) < 2 {
			return Command{}, invalid("column rename requires a column and a title")
		}
		return Command{Type: TypeColumn, Raw: raw, Column: &ColumnArgs{Action: action, Column: rest[0], Title: strings.Join(rest[1:], " ")}}, nil
	case ColumnDelete:
		if len(rest) != 1 {
			return Command{}, invalid("column delete requires one column")
		}
		return Command{Type: TypeColumn, Raw: raw, Column: &ColumnArgs{Action: action, Column: rest[0]}}, nil
	case ColumnMove:
		if len(rest) != 2 {
			return Command{}, invalid("column move requires a column and left or right")
		}
		delta := 0
		switch strings.ToLower(rest[1]) {
		case "left":
			delta = -1
		case "right":
			delta = 1
		default:
			return Command{}, invalid("column move direction must be left or right, got %q", rest[1])
		}
		return Command{Type: TypeColumn, Raw: raw, Column: &ColumnArgs{Action: action, Column: rest[0], Delta: delta}}, nil
	default:
		return Command{}, invalid("unknown column action %q", args[0])
	}
}

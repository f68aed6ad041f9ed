package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add     func(AddArgs) (Result, error)
	Move    func(MoveArgs) (Result, error)
	Delete  func(DeleteArgs) (Result, error)
	Search  func(SearchArgs) (Result, error)
	Filter  func(FilterArgs) (Result, error)
	Clear   func() (Result, error)
	Sort    func(SortArgs) (Result, error)
	Column  func(ColumnArgs) (Result, error)
	History func() (Result, error)
}

func missing(name string) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: name + " handler not configured"}
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing("add")
		}
		return handlers.Add(*cmd.Add)
	case TypeMove:
		if handlers.Move == nil {
			return Result{}, missing("move")
		}
		return handlers.Move(*cmd.Move)
	case TypeDelete:
		if handlers.Delete == nil {
			return Result{}, missing("delete")
		}
		return handlers.Delete(*cmd.Delete)
	case TypeSearch:
		if handlers.Search == nil {
			return Result{}, missing("search")
		}
		return handlers.Search(*cmd.Search)
	case TypeFilter:
		if handlers.Filter == nil {
			return Result{}, missing("filter")
		}
		return handlers.Filter(*cmd.Filter)
	case TypeClear:
		if handlers.Clear == nil {
			return Result{}, missing("clear")
		}
		return handlers.Clear()
	case TypeSort:
		if handlers.Sort == nil {
			return Result{}, missing("sort")
		}
		return handlers.Sort(*cmd.Sort)
	case TypeColumn:
		if handlers.Column == nil {
			return Result{}, missing("column")
		}
		return handlers.Column(*cmd.Column)
	case TypeHistory:
		if handlers.History == nil {
			return Result{}, missing("history")
		}
		return handlers.History()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

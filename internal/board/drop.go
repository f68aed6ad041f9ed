package board

// ResolveDropTarget maps a drop target to the column a dragged task should
// land in. A column id resolves to itself; a task id resolves to the column
// that task currently sits in.
func (s *Store) ResolveDropTarget(targetID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolveDropTargetLocked(targetID)
}

func (s *Store) resolveDropTargetLocked(targetID string) (string, bool) {
	if s.hasColumnLocked(targetID) {
		return targetID, true
	}
	idx := s.taskIndexLocked(targetID)
	if idx < 0 {
		return "", false
	}
	status := s.tasks[idx].Status
	if !s.hasColumnLocked(status) {
		return "", false
	}
	return status, true
}

// Drop applies a drag-and-drop gesture and reports whether the dragged task
// changed column. Identical ids and unresolvable targets are ignored.
func (s *Store) Drop(draggedID, targetID string) bool {
	if draggedID == "" || targetID == "" || draggedID == targetID {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	columnID, ok := s.resolveDropTargetLocked(targetID)
	if !ok {
		return false
	}
	moved, err := s.moveTaskLocked(draggedID, columnID)
	return err == nil && moved
}

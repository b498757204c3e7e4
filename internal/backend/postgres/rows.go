package postgres

import (
	"fmt"

	"orange/internal/todo"
)

// decodeRow builds a task from the values of one selectAllSQL row.
// Tags that are NULL or not a text array are read as no tags.
func decodeRow(vals []any) (todo.Task, error) {
	if len(vals) != 5 {
		return todo.Task{}, fmt.Errorf("expected 5 columns, got %d", len(vals))
	}

	id, err := decodeID(vals[0])
	if err != nil {
		return todo.Task{}, err
	}
	heading, ok := vals[1].(string)
	if !ok {
		return todo.Task{}, fmt.Errorf("heading: unexpected %T", vals[1])
	}
	body, ok := vals[2].(string)
	if !ok {
		return todo.Task{}, fmt.Errorf("body: unexpected %T", vals[2])
	}
	checked, ok := vals[3].(bool)
	if !ok {
		return todo.Task{}, fmt.Errorf("checked: unexpected %T", vals[3])
	}

	task, err := todo.New(id, heading, body)
	if err != nil {
		return todo.Task{}, err
	}
	task.SetChecked(checked)
	task.AddTags(decodeTags(vals[4])...)
	return task, nil
}

func decodeID(v any) (int64, error) {
	switch id := v.(type) {
	case int32:
		return int64(id), nil
	case int64:
		return id, nil
	case int:
		return int64(id), nil
	case int16:
		return int64(id), nil
	default:
		return 0, fmt.Errorf("id: unexpected %T", v)
	}
}

func decodeTags(v any) []string {
	switch tags := v.(type) {
	case []string:
		return tags
	case []any:
		out := make([]string, 0, len(tags))
		for _, tag := range tags {
			s, ok := tag.(string)
			if !ok {
				return nil
			}
			out = append(out, s)
		}
		return out
	default:
		return nil
	}
}

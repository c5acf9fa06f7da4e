package links

import (
	"context"
	"fmt"

	"github.com/IgorGrieder/linkly-connector/internal/linkly"
)

// Execute runs one operation per input item, sequentially and in order.
// With continueOnFail a failing item becomes an {"error": msg} row and the
// batch goes on; otherwise the first error aborts the batch and earlier
// remote changes stay in place.
func (s *Service) Execute(ctx context.Context, resource, operation string, items []Params, continueOnFail bool) ([]OutputItem, error) {
	out := make([]OutputItem, 0, len(items))
	for i, params := range items {
		resp, err := s.executeOne(ctx, resource, operation, params)
		if err != nil {
			if continueOnFail {
				out = append(out, OutputItem{JSON: map[string]any{"error": err.Error()}, PairedItem: i})
				continue
			}
			return out, fmt.Errorf("item %d: %w", i, err)
		}
		for _, row := range flatten(resp) {
			out = append(out, OutputItem{JSON: row, PairedItem: i})
		}
	}
	return out, nil
}

func (s *Service) executeOne(ctx context.Context, resource, operation string, p Params) (any, error) {
	if resource != ResourceLink {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResource, resource)
	}
	switch operation {
	case OpCreate:
		return s.Create(ctx, p.URL, p.AdditionalFields)
	case OpGet:
		return s.Get(ctx, p.LinkID)
	case OpGetAll:
		return s.GetAll(ctx)
	case OpUpdate:
		return s.Update(ctx, p.LinkID, p.UpdateFields)
	case OpDelete:
		return s.Delete(ctx, p.LinkID)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, operation)
	}
}

// flatten turns a response into output rows: arrays give one row per
// element, objects give one row, and anything else is wrapped as
// {"value": v}. An empty response yields a single empty row.
func flatten(resp any) []map[string]any {
	switch t := resp.(type) {
	case nil:
		return []map[string]any{{}}
	case map[string]any:
		return []map[string]any{t}
	case []any:
		rows := make([]map[string]any, 0, len(t))
		for _, el := range t {
			if obj, ok := linkly.AsObject(el); ok {
				rows = append(rows, obj)
				continue
			}
			rows = append(rows, map[string]any{"value": el})
		}
		return rows
	default:
		return []map[string]any{{"value": t}}
	}
}

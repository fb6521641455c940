package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Handler runs one operation from a raw JSON payload.
type Handler func(ctx context.Context, payload json.RawMessage) (any, error)

// Routes maps every operation name to a Handler for transports that carry
// untyped payloads.
func (d *Dispatcher) Routes() map[string]Handler {
	return map[string]Handler{
		OpSave:   route(d.Save),
		OpGetAll: route(func(ctx context.Context, _ ListRequest) (ListResponse, error) { return d.GetAll(ctx) }),
		OpSearch: route(d.Search),
		OpUpdate: route(d.Update),
		OpDelete: route(d.Delete),
		OpExport: route(d.Export),
		OpImport: route(d.Import),
		OpGet:    route(d.Get),
		OpStatus: route(func(ctx context.Context, _ StatusRequest) (StatusResponse, error) { return d.Status(ctx) }),
	}
}

func route[Req, Resp any](fn func(context.Context, Req) (Resp, error)) Handler {
	return func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req Req
		if trimmed := bytes.TrimSpace(payload); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
			if err := json.Unmarshal(trimmed, &req); err != nil {
				return nil, invalid(fmt.Sprintf("decode request: %v", err))
			}
		}
		resp, err := fn(ctx, req)
		if err != nil {
			return nil, err
		}
		return resp, nil
	}
}

package natsrpc

import (
	"encoding/json"

	"taiyaku/internal/dispatch"
)

// Envelope is the reply body for every operation.
type Envelope struct {
	OK     bool              `json:"ok"`
	Result json.RawMessage   `json:"result,omitempty"`
	Error  *dispatch.Failure `json:"error,omitempty"`
}

func success(result any) ([]byte, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{OK: true, Result: raw})
}

func failure(err error) []byte {
	data, marshalErr := json.Marshal(Envelope{Error: dispatch.Classify(err)})
	if marshalErr != nil {
		return []byte(`{"ok":false,"error":{"kind":"internal","message":"encode reply failed"}}`)
	}
	return data
}

package natsrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"taiyaku/internal/dispatch"
	"taiyaku/internal/logging"
)

// Client calls dispatcher operations over NATS. Its methods mirror ipc.Client.
type Client struct {
	nc      *nats.Conn
	owned   bool
	prefix  string
	timeout time.Duration
}

// Dial connects to url and returns a Client that closes the connection on Close.
func Dial(url, prefix string, timeout time.Duration) (*Client, error) {
	nc, err := nats.Connect(url, nats.Name("taiyaku-cli"))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	c := NewClient(nc, prefix, timeout)
	c.owned = true
	return c, nil
}

// NewClient wraps an existing connection; Close leaves it open.
func NewClient(nc *nats.Conn, prefix string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{nc: nc, prefix: prefix, timeout: timeout}
}

// Close closes the connection if the client opened it.
func (c *Client) Close() error {
	if c.owned && c.nc != nil {
		c.nc.Close()
	}
	return nil
}

// Call sends req to op and decodes the envelope's result into resp.
// Operation failures come back as *dispatch.Failure.
func (c *Client) Call(ctx context.Context, op string, req, resp any) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", op, err)
	}
	ctx, id := logging.EnsureCorrelationID(ctx)
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	msg := nats.NewMsg(Subject(c.prefix, op))
	msg.Data = payload
	msg.Header.Set(CorrelationHeader, id)
	reply, err := c.nc.RequestMsgWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("%s request: %w", op, err)
	}

	var env Envelope
	if err := json.Unmarshal(reply.Data, &env); err != nil {
		return fmt.Errorf("decode %s reply: %w", op, err)
	}
	if !env.OK {
		if env.Error == nil {
			return &dispatch.Failure{Kind: dispatch.KindInternal, Message: "request failed without detail"}
		}
		return env.Error
	}
	if resp == nil || len(env.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Result, resp); err != nil {
		return fmt.Errorf("decode %s result: %w", op, err)
	}
	return nil
}

func call[Resp any](c *Client, op string, req any) (*Resp, error) {
	var resp Resp
	if err := c.Call(context.Background(), op, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Save(req dispatch.SaveRequest) (*dispatch.SaveResponse, error) {
	return call[dispatch.SaveResponse](c, dispatch.OpSave, req)
}

func (c *Client) GetAll() (*dispatch.ListResponse, error) {
	return call[dispatch.ListResponse](c, dispatch.OpGetAll, dispatch.ListRequest{})
}

func (c *Client) Search(req dispatch.SearchRequest) (*dispatch.ListResponse, error) {
	return call[dispatch.ListResponse](c, dispatch.OpSearch, req)
}

func (c *Client) Update(req dispatch.UpdateRequest) (*dispatch.CountResponse, error) {
	return call[dispatch.CountResponse](c, dispatch.OpUpdate, req)
}

func (c *Client) Delete(id int64) (*dispatch.CountResponse, error) {
	return call[dispatch.CountResponse](c, dispatch.OpDelete, dispatch.DeleteRequest{ID: id})
}

func (c *Client) Export(req dispatch.ExportRequest) (*dispatch.ExportResponse, error) {
	return call[dispatch.ExportResponse](c, dispatch.OpExport, req)
}

func (c *Client) Import(req dispatch.ImportRequest) (*dispatch.ImportResponse, error) {
	return call[dispatch.ImportResponse](c, dispatch.OpImport, req)
}

func (c *Client) Get(id int64) (*dispatch.GetResponse, error) {
	return call[dispatch.GetResponse](c, dispatch.OpGet, dispatch.GetRequest{ID: id})
}

func (c *Client) Status() (*dispatch.StatusResponse, error) {
	return call[dispatch.StatusResponse](c, dispatch.OpStatus, dispatch.StatusRequest{})
}

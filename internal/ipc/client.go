package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"

	"taiyaku/internal/dispatch"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Client) call(method string, req, resp any) error {
	return dispatch.ParseFailure(c.client.Call(ServiceName+"."+method, req, resp))
}

// Save stores a new script and returns its id.
func (c *Client) Save(req SaveRequest) (*SaveResponse, error) {
	var resp SaveResponse
	if err := c.call("Save", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetAll lists every script.
func (c *Client) GetAll() (*ListResponse, error) {
	var resp ListResponse
	if err := c.call("GetAll", ListRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Search lists scripts matching req.
func (c *Client) Search(req SearchRequest) (*ListResponse, error) {
	var resp ListResponse
	if err := c.call("Search", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Update replaces a script's fields.
func (c *Client) Update(req UpdateRequest) (*CountResponse, error) {
	var resp CountResponse
	if err := c.call("Update", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes a script.
func (c *Client) Delete(id int64) (*CountResponse, error) {
	var resp CountResponse
	if err := c.call("Delete", DeleteRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Export asks the daemon to write a script document.
func (c *Client) Export(req ExportRequest) (*ExportResponse, error) {
	var resp ExportResponse
	if err := c.call("Export", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Import asks the daemon to store two files as a script.
func (c *Client) Import(req ImportRequest) (*ImportResponse, error) {
	var resp ImportResponse
	if err := c.call("Import", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Get fetches one script; the response's Script is nil when absent.
func (c *Client) Get(id int64) (*GetResponse, error) {
	var resp GetResponse
	if err := c.call("Get", GetRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.call("Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

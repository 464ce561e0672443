package rpc

import (
	"context"
	"io"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/aoc-runner/aoc22/pkg/protocol"
)

// Client calls a running aoc22 service.
type Client struct {
	conn *jsonrpc2.Conn
}

func NewStream(rwc io.ReadWriteCloser) jsonrpc2.ObjectStream {
	return jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{})
}

type noopHandler struct{}

func (noopHandler) Handle(context.Context, *jsonrpc2.Conn, *jsonrpc2.Request) {}

func NewClient(ctx context.Context, rwc io.ReadWriteCloser) *Client {
	return &Client{conn: jsonrpc2.NewConn(ctx, NewStream(rwc), noopHandler{})}
}

func (c *Client) Solve(ctx context.Context, params protocol.SolveParams) (*protocol.SolveResult, error) {
	var res protocol.SolveResult
	if err := c.conn.Call(ctx, protocol.MethodSolve, params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Days(ctx context.Context) (*protocol.DaysResult, error) {
	var res protocol.DaysResult
	if err := c.conn.Call(ctx, protocol.MethodDays, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) History(ctx context.Context, params protocol.HistoryParams) (*protocol.HistoryResult, error) {
	var res protocol.HistoryResult
	if err := c.conn.Call(ctx, protocol.MethodHistory, params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Health(ctx context.Context) (*protocol.HealthResult, error) {
	var res protocol.HealthResult
	if err := c.conn.Call(ctx, protocol.MethodHealth, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

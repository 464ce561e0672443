// Package daemon hosts the JSON-RPC service on a unix socket so editors and
// scripts can ask for answers without spawning the CLI each time.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/aoc-runner/aoc22/internal/logger"
	"github.com/aoc-runner/aoc22/internal/rpc"
)

var ErrAlreadyRunning = errors.New("daemon already running")

type Daemon struct {
	socket       *SocketListener
	pidFile      *PIDFile
	service      *rpc.Service
	connections  map[*jsonrpc2.Conn]bool
	connMu       sync.Mutex
	ctx          context.Context
	cancel       context.CancelFunc
	shutdownOnce sync.Once
	acceptDone   chan struct{}
	startTime    time.Time
	log          *slog.Logger
}

func New(socketPath, pidPath string, service *rpc.Service) *Daemon {
	return &Daemon{
		socket:      NewSocketListener(socketPath),
		pidFile:     NewPIDFile(pidPath),
		service:     service,
		connections: make(map[*jsonrpc2.Conn]bool),
		acceptDone:  make(chan struct{}),
		log:         logger.ForComponent("daemon"),
	}
}

// Start claims the PID file, listens on the socket and accepts connections in
// the background. It fails with ErrAlreadyRunning when another live process
// owns the PID file.
func (d *Daemon) Start(ctx context.Context) error {
	if pid, _ := d.pidFile.Read(); pid != 0 && pid != os.Getpid() && d.pidFile.IsProcessAlive() {
		return fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pid)
	}

	if err := d.pidFile.Write(); err != nil {
		return err
	}

	if err := d.socket.Start(); err != nil {
		d.pidFile.Remove()
		return fmt.Errorf("failed to listen on %s: %w", d.socket.Path(), err)
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	d.startTime = time.Now()

	d.log.Info("daemon listening", "socket", d.socket.Path(), "pid", os.Getpid())
	go d.acceptConnections()

	return nil
}

// Serve runs until ctx is cancelled, then shuts down.
func (d *Daemon) Serve(ctx context.Context) error {
	if err := d.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	d.Shutdown()
	return nil
}

func (d *Daemon) acceptConnections() {
	defer close(d.acceptDone)

	for {
		netConn, err := d.socket.Accept()
		if err != nil {
			if d.ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			d.log.Warn("accept failed", "error", err)
			continue
		}

		conn := d.service.ServeConn(d.ctx, rpc.NewStream(netConn))

		d.connMu.Lock()
		d.connections[conn] = true
		d.connMu.Unlock()

		go func() {
			<-conn.DisconnectNotify()
			d.connMu.Lock()
			delete(d.connections, conn)
			d.connMu.Unlock()
		}()
	}
}

func (d *Daemon) Shutdown() {
	d.shutdownOnce.Do(func() {
		d.log.Info("daemon shutting down", "uptime", d.Uptime(), "connections", d.ConnectionCount())

		if d.cancel != nil {
			d.cancel()
		}
		d.socket.Close()
		if d.ctx != nil {
			<-d.acceptDone
		}

		d.connMu.Lock()
		for conn := range d.connections {
			conn.Close()
		}
		d.connMu.Unlock()

		os.Remove(d.socket.Path())
		d.pidFile.Remove()
	})
}

func (d *Daemon) SocketPath() string {
	return d.socket.Path()
}

func (d *Daemon) Uptime() time.Duration {
	if d.startTime.IsZero() {
		return 0
	}
	return time.Since(d.startTime)
}

func (d *Daemon) ConnectionCount() int {
	d.connMu.Lock()
	defer d.connMu.Unlock()
	return len(d.connections)
}

// Dial connects an RPC client to a daemon listening on socketPath.
func Dial(ctx context.Context, socketPath string) (*rpc.Client, error) {
	conn, err := NewSocketConnector(socketPath).Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon at %s: %w", socketPath, err)
	}
	return rpc.NewClient(ctx, conn), nil
}

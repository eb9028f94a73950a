// Package launch starts a local relay chain and parachain network from a node topology and
// supervises the node processes until it is stopped.
package launch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pendulum-chain/pendulum-ops/pkg/logger"
)

// ProbeFunc reports whether a node is accepting connections on its websocket port.
type ProbeFunc func(ctx context.Context, wsPort int) error

// Config holds the configuration of a Launcher.
type Config struct {
	// Required: The network layout.
	Topology Topology
	// Required
	Logger logger.Logger
	// Optional: Relative binary paths are resolved against BaseDir. Defaults to the working
	// directory.
	BaseDir string
	// Optional: Directory the run directory is created in. Defaults to os.TempDir().
	WorkDir string
	// Optional: Readiness probe of a started node. Defaults to a TCP dial of the websocket
	// port.
	Probe ProbeFunc
	// Optional: How long a stopping node may take before it is killed. Defaults to 5 seconds.
	StopTimeout time.Duration
	// Optional: Readiness probe attempts, one per second. Defaults to 60.
	ReadyAttempts uint
}

// Validate checks that all required configuration fields are set.
func (c Config) Validate() error {
	var missing []string

	if c.Logger == nil {
		missing = append(missing, "Logger")
	}
	if len(c.Topology.RelayChain.Nodes) == 0 {
		missing = append(missing, "Topology")
	}

	if len(missing) > 0 {
		return errors.New("launch.Config: missing required fields: " + strings.Join(missing, ", "))
	}

	return c.Topology.Validate()
}

func (c *Config) applyDefaults() {
	if c.WorkDir == "" {
		c.WorkDir = os.TempDir()
	}
	if c.Probe == nil {
		c.Probe = dialProbe
	}
	if c.StopTimeout == 0 {
		c.StopTimeout = 5 * time.Second
	}
	if c.ReadyAttempts == 0 {
		c.ReadyAttempts = 60
	}
}

// Launcher builds the chain specs of a topology and runs its nodes.
type Launcher struct {
	cfg      Config
	topology Topology
	lggr     logger.Logger
	runDir   string
}

// NewLauncher returns a Launcher for cfg.
func NewLauncher(cfg Config) (*Launcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &Launcher{
		cfg:      cfg,
		topology: cfg.Topology.resolveBins(cfg.BaseDir),
		lggr:     cfg.Logger.Named("launch"),
	}, nil
}

// RunDir returns the directory holding the chain specs and node logs of the current run.
func (l *Launcher) RunDir() string {
	return l.runDir
}

// Run prepares the chain specs, starts every node and blocks until ctx is cancelled or a node
// exits. All nodes are stopped before Run returns. A cancelled ctx is reported as ctx.Err().
func (l *Launcher) Run(ctx context.Context) error {
	l.runDir = filepath.Join(l.cfg.WorkDir, "pendulum-launch-"+uuid.NewString())
	if err := os.MkdirAll(l.runDir, 0o755); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}
	l.lggr.Infow("Preparing local network", "runDir", l.runDir)

	rawSpec, err := l.prepareRelaySpec(ctx)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	// abort stops the nodes started so far. A node that already failed explains the abort
	// better than the start error it caused.
	abort := func(err error) error {
		cancel()
		if nodeErr := g.Wait(); nodeErr != nil {
			return nodeErr
		}

		return err
	}

	var started []string
	for _, n := range l.topology.RelayChain.Nodes {
		if err := l.startNode(gctx, g, l.topology.RelayChain.Bin, "relay-"+n.Name, relayNodeArgs(n, rawSpec)); err != nil {
			return abort(err)
		}
		started = append(started, "relay-"+n.Name)
	}
	for _, p := range l.topology.Parachains {
		for _, n := range p.Nodes {
			name := "para-" + p.ID + "-" + n.Name
			if err := l.startNode(gctx, g, p.Bin, name, collatorArgs(n, p.Chain, rawSpec)); err != nil {
				return abort(err)
			}
			started = append(started, name)
		}
	}
	l.lggr.Infow("Nodes started", "nodes", started)

	g.Go(func() error {
		return l.awaitReady(gctx)
	})

	return stopped(ctx, g)
}

// stopped waits for every node of g and maps the outcome: the cancellation of ctx when the
// run was interrupted, the first node failure otherwise.
func stopped(ctx context.Context, g *errgroup.Group) error {
	err := g.Wait()
	if ctx.Err() != nil {
		return ctx.Err()
	}

	return err
}

// prepareRelaySpec builds the raw relay chain spec with every parachain registered at
// genesis and returns its path.
func (l *Launcher) prepareRelaySpec(ctx context.Context) (string, error) {
	relay := l.topology.RelayChain

	plain, err := l.output(ctx, relay.Bin, "build-spec", "--chain="+relay.Chain, "--disable-default-bootnode")
	if err != nil {
		return "", fmt.Errorf("failed to build relay chain spec: %w", err)
	}

	paras := make([]GenesisParachain, 0, len(l.topology.Parachains))
	for _, p := range l.topology.Parachains {
		gp, err := l.exportParachain(ctx, p)
		if err != nil {
			return "", err
		}
		paras = append(paras, gp)
	}

	spec, err := AddParachains(plain, paras)
	if err != nil {
		return "", err
	}
	spec, err = ApplyGenesis(spec, relay.Genesis)
	if err != nil {
		return "", err
	}

	plainPath := filepath.Join(l.runDir, relay.Chain+"-plain.json")
	if err := os.WriteFile(plainPath, spec, 0o600); err != nil {
		return "", fmt.Errorf("failed to write chain spec: %w", err)
	}

	raw, err := l.output(ctx, relay.Bin, "build-spec", "--chain="+plainPath, "--raw", "--disable-default-bootnode")
	if err != nil {
		return "", fmt.Errorf("failed to build raw relay chain spec: %w", err)
	}

	rawPath := filepath.Join(l.runDir, relay.Chain+"-raw.json")
	if err := os.WriteFile(rawPath, raw, 0o600); err != nil {
		return "", fmt.Errorf("failed to write raw chain spec: %w", err)
	}
	l.lggr.Infow("Relay chain spec ready", "path", rawPath, "parachains", len(paras))

	return rawPath, nil
}

// exportParachain exports the genesis head and validation code of a parachain.
func (l *Launcher) exportParachain(ctx context.Context, p Parachain) (GenesisParachain, error) {
	id, err := p.ParaID()
	if err != nil {
		return GenesisParachain{}, err
	}

	var chainArgs []string
	if p.Chain != "" {
		chainArgs = []string{"--chain=" + p.Chain}
	}

	head, err := l.output(ctx, p.Bin, append([]string{"export-genesis-state"}, chainArgs...)...)
	if err != nil {
		return GenesisParachain{}, fmt.Errorf("failed to export genesis state of parachain %s: %w", p.ID, err)
	}
	wasm, err := l.output(ctx, p.Bin, append([]string{"export-genesis-wasm"}, chainArgs...)...)
	if err != nil {
		return GenesisParachain{}, fmt.Errorf("failed to export genesis wasm of parachain %s: %w", p.ID, err)
	}

	return GenesisParachain{
		ID:      id,
		Head:    string(bytes.TrimSpace(head)),
		Wasm:    string(bytes.TrimSpace(wasm)),
		Balance: p.Balance,
	}, nil
}

// output runs bin to completion and returns its stdout.
func (l *Launcher) output(ctx context.Context, bin string, args ...string) ([]byte, error) {
	l.lggr.Debugw("Running", "bin", bin, "args", args)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s %s: %w: %s", filepath.Base(bin), args[0], err, lastLine(msg))
		}

		return nil, fmt.Errorf("%s %s: %w", filepath.Base(bin), args[0], err)
	}

	return out, nil
}

// startNode starts a long running node whose output goes to <name>.log in the run directory.
// The node is interrupted when ctx ends and killed if it does not stop in time.
func (l *Launcher) startNode(ctx context.Context, g *errgroup.Group, bin, name string, args []string) error {
	logPath := filepath.Join(l.runDir, name+".log")
	logFile, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("failed to create log file of %s: %w", name, err)
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = l.cfg.StopTimeout

	if err := cmd.Start(); err != nil {
		logFile.Close()
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	l.lggr.Infow("Started node", "node", name, "pid", cmd.Process.Pid, "log", logPath)

	g.Go(func() error {
		defer logFile.Close()

		err := cmd.Wait()
		if ctx.Err() != nil {
			l.lggr.Infow("Stopped node", "node", name)
			return nil
		}
		if err != nil {
			l.lggr.Errorw("Node exited", "node", name, "err", err, "log", logPath)
			return fmt.Errorf("node %s exited: %w", name, err)
		}
		l.lggr.Errorw("Node exited", "node", name, "log", logPath)

		return fmt.Errorf("node %s exited", name)
	})

	return nil
}

// awaitReady probes every node until it accepts connections.
func (l *Launcher) awaitReady(ctx context.Context) error {
	probe := func(name string, port int) error {
		err := retry.Do(func() error {
			return l.cfg.Probe(ctx, port)
		},
			retry.Context(ctx),
			retry.Attempts(l.cfg.ReadyAttempts),
			retry.Delay(time.Second),
			retry.DelayType(retry.FixedDelay),
			retry.LastErrorOnly(true),
		)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			return fmt.Errorf("node %s is not ready: %w", name, err)
		}
		l.lggr.Infow("Node ready", "node", name, "ws", "ws://127.0.0.1:"+strconv.Itoa(port))

		return nil
	}

	for _, n := range l.topology.RelayChain.Nodes {
		if err := probe("relay-"+n.Name, n.WSPort); err != nil {
			return err
		}
	}
	for _, p := range l.topology.Parachains {
		for _, n := range p.Nodes {
			if err := probe("para-"+p.ID+"-"+n.Name, n.WSPort); err != nil {
				return err
			}
		}
	}

	if ctx.Err() == nil {
		l.lggr.Info("Local network is ready, press Ctrl+C to stop")
	}

	return nil
}

// dialProbe succeeds once something listens on the websocket port.
func dialProbe(ctx context.Context, wsPort int) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(wsPort)))
	if err != nil {
		return err
	}

	return conn.Close()
}

// relayNodeArgs is the command line of a relay chain validator.
func relayNodeArgs(n Node, rawSpec string) []string {
	args := []string{
		"--chain=" + rawSpec,
		"--tmp",
		"--port=" + strconv.Itoa(n.Port),
		"--ws-port=" + strconv.Itoa(n.WSPort),
	}
	if n.RPCPort != 0 {
		args = append(args, "--rpc-port="+strconv.Itoa(n.RPCPort))
	}
	args = append(args, "--"+strings.ToLower(n.Name))

	return append(args, n.Flags...)
}

// collatorArgs is the command line of a collator. Flags before "--" configure the collator,
// flags after it the embedded relay chain node, which always runs the generated relay spec.
func collatorArgs(n Node, paraChain, rawRelaySpec string) []string {
	args := []string{
		"--tmp",
		"--port=" + strconv.Itoa(n.Port),
		"--ws-port=" + strconv.Itoa(n.WSPort),
	}
	if n.RPCPort != 0 {
		args = append(args, "--rpc-port="+strconv.Itoa(n.RPCPort))
	}
	if paraChain != "" {
		args = append(args, "--chain="+paraChain)
	}
	args = append(args, "--collator", "--"+strings.ToLower(n.Name))

	paraFlags, relayFlags := splitFlags(n.Flags)
	args = append(args, paraFlags...)
	args = append(args, "--", "--chain="+rawRelaySpec)

	return append(args, relayFlags...)
}

func splitFlags(flags []string) (before, after []string) {
	for i, f := range flags {
		if f == "--" {
			return flags[:i], flags[i+1:]
		}
	}

	return flags, nil
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}

	return s
}

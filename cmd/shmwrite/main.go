// shmwrite reads register write instructions from stdin (or an interactive
// terminal, or HTTP) and applies them to the shared memory register arrays
// of a Modbus server, or to a live Modbus TCP server.
//
// Data input format: reg_type:address:value[:data_type]
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/openmodbus/shmwrite/internal/api/rest"
	"github.com/openmodbus/shmwrite/internal/config"
	"github.com/openmodbus/shmwrite/internal/engine"
	"github.com/openmodbus/shmwrite/internal/modbus"
	"github.com/openmodbus/shmwrite/internal/shm"
	"github.com/openmodbus/shmwrite/internal/target"
)

// Exit codes nach sysexits.h
const (
	exOK       = 0
	exUsage    = 64
	exSoftware = 70
	exOSErr    = 71
)

func main() {
	flags := pflag.NewFlagSet("shmwrite", pflag.ContinueOnError)
	flags.StringP("name-prefix", "n", "modbus_", "name prefix of the shared memory objects")
	flags.Int("address-base", 0, "numeral base (radix) used for addresses (0 = auto-detect)")
	flags.Int("value-base", 0, "numeral base (radix) used for values (0 = auto-detect)")
	flags.String("modbus", "", "write to a modbus tcp server (host:port) instead of shared memory")
	flags.Uint8("unit-id", 0, "modbus unit id for the tcp target")
	flags.Int("http-port", 0, "enable the HTTP ingest API on this port")
	flags.String("script-log", "", "append every applied instruction to this file")
	flags.StringP("config", "c", "", "config file (yaml)")
	flags.BoolP("verbose", "v", false, "describe decoded values and register writes")
	help := flags.BoolP("help", "h", false, "print usage")

	flags.Usage = func() { printUsage(flags) }

	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse arguments: %v.\n", err)
		fmt.Fprintf(os.Stderr, "Use 'shmwrite --help' for more information.\n")
		os.Exit(exUsage)
	}
	if *help {
		flags.Usage()
		os.Exit(exOK)
	}

	configPath, _ := flags.GetString("config")
	cfg, err := config.Load(configPath, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v.\n", err)
		os.Exit(exUsage)
	}

	logger, err := newLogger(cfg.Log.Verbose)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	os.Exit(run(cfg, logger))
}

// run wires the pipeline and drives the input loop. Split from main so the
// deferred cleanups run before os.Exit.
func run(cfg *config.Config, logger *zap.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	writeTarget, err := openTarget(cfg, logger)
	if err != nil {
		logger.Error("Failed to open write target", zap.Error(err))
		return exOSErr
	}
	defer writeTarget.Close()

	var script *target.ScriptLog
	if cfg.Log.ScriptLog != "" {
		f, err := os.OpenFile(cfg.Log.ScriptLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logger.Error("Failed to open script log", zap.Error(err))
			return exOSErr
		}
		defer f.Close()
		script = target.NewScriptLog(f)
	}

	parser := engine.NewParser(cfg.Input.AddressBase, cfg.Input.ValueBase, cfg.Log.Verbose, logger)
	pipeline := target.NewPipeline(parser, writeTarget, script, logger)

	if cfg.Server.HTTPPort > 0 {
		server := rest.NewServer(cfg, pipeline, logger)
		if err := server.Start(); err != nil {
			logger.Error("Failed to start HTTP server", zap.Error(err))
			return exSoftware
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP shutdown failed", zap.Error(err))
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		inputLoop(ctx, pipeline, logger)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Terminating ...")
	case <-done:
	}

	return exOK
}

// inputLoop feeds stdin lines through the pipeline until EOF or ctx is
// cancelled. Rejected lines are logged and skipped; processing continues.
func inputLoop(ctx context.Context, pipeline *target.Pipeline, logger *zap.Logger) {
	readLine := lineReader(logger)

	for ctx.Err() == nil {
		line, err := readLine()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Error("Failed to read input", zap.Error(err))
			}
			return
		}

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if _, err := pipeline.ApplyLine(ctx, line); err != nil {
			logger.Warn("line discarded",
				zap.String("line", line),
				zap.Error(err))
		}
	}
}

// lineReader returns a line source: an editing terminal with history when
// stdin is a tty, a plain buffered scanner otherwise.
func lineReader(logger *zap.Logger) func() (string, error) {
	if isatty.IsTerminal(os.Stdin.Fd()) {
		oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
		if err == nil {
			// restored on process exit; raw mode only matters while we read
			t := term.NewTerminal(stdio{}, "> ")
			return func() (string, error) {
				line, err := t.ReadLine()
				if err != nil {
					term.Restore(int(os.Stdin.Fd()), oldState)
				}
				return line, err
			}
		}
		logger.Warn("Failed to enter raw mode, falling back to line input", zap.Error(err))
	}

	scanner := bufio.NewScanner(os.Stdin)
	return func() (string, error) {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		return scanner.Text(), nil
	}
}

// stdio bundles stdin and stdout into the ReadWriter the terminal wants.
type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

// openTarget selects the write collaborator: a modbus tcp client when an
// address is configured, the shared memory set otherwise.
func openTarget(cfg *config.Config, logger *zap.Logger) (target.Target, error) {
	if cfg.Modbus.Address != "" {
		client := modbus.NewClient(cfg.Modbus.Address, cfg.Modbus.UnitID, cfg.Modbus.Timeout)
		if err := client.Connect(); err != nil {
			return nil, err
		}
		logger.Info("Connected to modbus server",
			zap.String("address", cfg.Modbus.Address),
			zap.Uint8("unit_id", cfg.Modbus.UnitID))
		return target.NewModbus(client, logger), nil
	}

	group, err := shm.OpenGroup(cfg.Shm.NamePrefix)
	if err != nil {
		return nil, err
	}

	do, di, ao, ai := group.Registers()
	logger.Info("Shared memory mapped",
		zap.String("prefix", cfg.Shm.NamePrefix),
		zap.Int("do", do), zap.Int("di", di),
		zap.Int("ao", ao), zap.Int("ai", ai))

	return target.NewShm(group, logger), nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	var zapCfg zap.Config
	if isatty.IsTerminal(os.Stderr.Fd()) {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	if verbose {
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zapCfg.Build()
}

func printUsage(flags *pflag.FlagSet) {
	fmt.Println("Read instructions from stdin and write them to a modbus shared memory or server")
	fmt.Println()
	fmt.Println("Usage: shmwrite [options]")
	fmt.Println()
	fmt.Println(flags.FlagUsages())
	fmt.Println("Data input format: reg_type:address:value[:data_type]")
	fmt.Printf("    reg_type : modbus register type:                         [do|di|ao|ai]\n")
	fmt.Printf("    address  : address of the target register:               [0-%d]\n", shm.MaxRegisters-1)
	fmt.Printf("    value    : value that is written to the target register\n")
	fmt.Printf("               For the registers do and di all numerical values different from 0 are interpreted as 1.\n")
	fmt.Printf("    data_type: one of the following identifiers (ao/ai only):\n")
	fmt.Printf("               %s\n", strings.Join(engine.DataTypes(), ", "))
	fmt.Println()
	fmt.Println("Lines starting with 'f:' are treated as 'reg_type:address:value:f32_badc' for")
	fmt.Println("compatibility with modbus_conv_float.")
}

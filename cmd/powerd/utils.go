// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/powerledger/chain"
	"github.com/vechain/powerledger/genesis"
	"github.com/vechain/powerledger/log"
	"github.com/vechain/powerledger/logdb"
	"github.com/vechain/powerledger/lvldb"
	"github.com/vechain/powerledger/metrics"
	"github.com/vechain/powerledger/state"
)

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func initLogger(ctx *cli.Context) *slog.LevelVar {
	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(ctx.Int(verbosityFlag.Name)))

	format := log.FormatTerminal
	if ctx.Bool(jsonLogsFlag.Name) {
		format = log.FormatJSON
	}
	fd := os.Stderr.Fd()
	useColor := (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) && os.Getenv("TERM") != "dumb"

	log.SetDefault(log.NewLogger(log.NewHandler(os.Stderr, format, &level, useColor)))
	return &level
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return genesis.NewDevnet(), nil
	}
	cfg, err := genesis.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return genesis.NewCustomNet(cfg)
}

type databases struct {
	dir  string
	main *lvldb.LevelDB
	logs *logdb.LogDB
}

func (d *databases) Close() {
	logger.Info("closing log database...")
	if err := d.logs.Close(); err != nil {
		logger.Warn("failed to close log database", "err", err)
	}
	logger.Info("closing main database...")
	if err := d.main.Close(); err != nil {
		logger.Warn("failed to close main database", "err", err)
	}
}

// openDatabases opens the databases of the instance, one directory per network.
// Without the persist flag both live in memory.
func openDatabases(ctx *cli.Context, gene *genesis.Genesis) (*databases, error) {
	if !ctx.Bool(persistFlag.Name) {
		mainDB, err := lvldb.NewMem()
		if err != nil {
			return nil, err
		}
		logDB, err := logdb.NewMem()
		if err != nil {
			mainDB.Close()
			return nil, err
		}
		return &databases{"Memory", mainDB, logDB}, nil
	}

	dir := filepath.Join(ctx.String(dataDirFlag.Name), "instance-"+gene.Name())
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "create instance dir [%v]", dir)
	}

	cacheMB := normalizeCacheSize(ctx.Int(cacheFlag.Name))
	logger.Debug("main database cache", "size(MB)", cacheMB)
	mainDB, err := lvldb.New(filepath.Join(dir, "main.db"), lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: 256,
		SyncBatches:            true,
	})
	if err != nil {
		return nil, errors.WithMessagef(err, "open main database [%v]", dir)
	}
	logDB, err := logdb.New(filepath.Join(dir, "logs.db"))
	if err != nil {
		mainDB.Close()
		return nil, errors.WithMessagef(err, "open log database [%v]", dir)
	}
	return &databases{dir, mainDB, logDB}, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

// initRepository builds the genesis state on first start, otherwise resumes from the persisted best block.
func initRepository(gene *genesis.Genesis, mainDB *lvldb.LevelDB, logDB *logdb.LogDB) (*chain.Repository, error) {
	initialized, err := chain.IsInitialized(mainDB)
	if err != nil {
		return nil, err
	}
	if initialized {
		return chain.NewRepository(mainDB, nil)
	}

	st := state.New(mainDB)
	summary, receipts, err := gene.Build(st)
	if err != nil {
		return nil, errors.WithMessage(err, "build genesis")
	}
	if err := st.Commit(); err != nil {
		return nil, errors.WithMessage(err, "commit genesis")
	}
	if err := logDB.Write(summary.Number, summary.Timestamp, receipts); err != nil {
		return nil, errors.WithMessage(err, "write genesis logs")
	}
	return chain.NewRepository(mainDB, summary)
}

// startServer listens on addr and serves handler inside group until ctx is done.
func startServer(ctx context.Context, group *errgroup.Group, name, addr string, handler http.Handler) (string, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", errors.Wrapf(err, "listen %s addr [%v]", name, addr)
	}

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	group.Go(func() error {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrapf(err, "%s server", name)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		logger.Info("stopping " + name + " server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return "http://" + listener.Addr().String(), nil
}

func metricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler())
	return mux
}

func checkClockOffset(blockInterval uint64) {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	if resp.ClockOffset > time.Duration(blockInterval)*time.Second/2 {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".powerd")
	}
	return filepath.Join(os.TempDir(), ".powerd")
}

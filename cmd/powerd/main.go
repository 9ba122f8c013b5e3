// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/powerledger/admin"
	"github.com/vechain/powerledger/api"
	"github.com/vechain/powerledger/chain"
	"github.com/vechain/powerledger/cmd/powerd/solo"
	"github.com/vechain/powerledger/genesis"
	"github.com/vechain/powerledger/health"
	"github.com/vechain/powerledger/log"
	"github.com/vechain/powerledger/metrics"
	"github.com/vechain/powerledger/thor"
	"github.com/vechain/powerledger/txpool"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "powerd")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	soloFlags := []cli.Flag{
		dataDirFlag,
		persistFlag,
		genesisFlag,
		cacheFlag,
		apiAddrFlag,
		apiCorsFlag,
		apiLogsLimitFlag,
		enableAPILogsFlag,
		blockIntervalFlag,
		onDemandFlag,
		skipLogsFlag,
		txPoolLimitFlag,
		txPoolLimitPerAccountFlag,
		txPoolLifetimeFlag,
		verbosityFlag,
		jsonLogsFlag,
		enableMetricsFlag,
		metricsAddrFlag,
		enableAdminFlag,
		adminAddrFlag,
	}

	app := cli.App{
		Version:   fullVersion(),
		Name:      "powerd",
		Usage:     "Miner identity and storage power ledger",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags:     soloFlags,
		Action:    soloAction,
		Commands: []cli.Command{
			{
				Name:   "solo",
				Usage:  "run a standalone ledger that packs blocks by itself",
				Flags:  soloFlags,
				Action: soloAction,
			},
			{
				Name:   "keygen",
				Usage:  "generate a new secp256k1 key to sign transactions with",
				Flags:  []cli.Flag{keyFileFlag},
				Action: keygenAction,
			},
			{
				Name:   "status",
				Usage:  "print the status of a running node",
				Flags:  []cli.Flag{nodeURLFlag},
				Action: statusAction,
			},
			{
				Name:   "watch",
				Usage:  "print best blocks of a running node as they are packed",
				Flags:  []cli.Flag{nodeURLFlag},
				Action: watchAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func soloAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)

	// meters are created lazily, so prometheus has to be in place before any component runs
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}

	blockInterval := gene.BlockInterval()
	if ctx.IsSet(blockIntervalFlag.Name) {
		blockInterval = ctx.Uint64(blockIntervalFlag.Name)
	}
	if blockInterval == 0 {
		return errors.New("block interval must be positive")
	}
	go checkClockOffset(blockInterval)

	dbs, err := openDatabases(ctx, gene)
	if err != nil {
		return err
	}
	defer dbs.Close()
	logger.Debug("log database opened", "path", dbs.logs.Path(), "sqlite", dbs.logs.DriverVersion())

	repo, err := initRepository(gene, dbs.main, dbs.logs)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing repository..."); repo.Close() }()

	txPool := txpool.New(repo, txpool.Options{
		Limit:           ctx.Int(txPoolLimitFlag.Name),
		LimitPerAccount: ctx.Int(txPoolLimitPerAccountFlag.Name),
		MaxLifetime:     ctx.Duration(txPoolLifetimeFlag.Name),
	})
	defer func() { logger.Info("closing tx pool..."); txPool.Close() }()

	group, groupCtx := errgroup.WithContext(exitSignal)

	nodeHealth := health.New(time.Duration(blockInterval) * time.Second)
	if ctx.Bool(onDemandFlag.Name) {
		nodeHealth = health.NewOnDemand()
	}
	group.Go(func() error {
		return nodeHealth.Watch(groupCtx, repo)
	})

	apiHandler, apiClose := api.New(repo, txPool, dbs.logs, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		LogsLimit:       ctx.Uint64(apiLogsLimitFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
		Health:          nodeHealth,
	})
	defer apiClose()

	apiURL, err := startServer(groupCtx, group, "API", ctx.String(apiAddrFlag.Name), apiHandler)
	if err != nil {
		return err
	}

	var metricsURL, adminURL string
	if ctx.Bool(enableMetricsFlag.Name) {
		if metricsURL, err = startServer(groupCtx, group, "metrics", ctx.String(metricsAddrFlag.Name), metricsHandler()); err != nil {
			return err
		}
	}
	if ctx.Bool(enableAdminFlag.Name) {
		if adminURL, err = startServer(groupCtx, group, "admin", ctx.String(adminAddrFlag.Name), admin.New(logLevel, txPool)); err != nil {
			return err
		}
	}

	printStartupMessage(gene, repo, dbs.dir, apiURL, metricsURL, adminURL)

	packer := solo.New(repo, dbs.logs, txPool, solo.Options{
		BlockInterval: blockInterval,
		SkipLogs:      ctx.Bool(skipLogsFlag.Name),
		OnDemand:      ctx.Bool(onDemandFlag.Name),
	})
	group.Go(func() error {
		return packer.Run(groupCtx)
	})

	return group.Wait()
}

func keygenAction(ctx *cli.Context) error {
	key, err := crypto.GenerateKey()
	if err != nil {
		return errors.Wrap(err, "generate key")
	}
	if out := ctx.String(keyFileFlag.Name); out != "" {
		if err := crypto.SaveECDSA(out, key); err != nil {
			return errors.Wrap(err, "save key")
		}
	}

	fmt.Println("address:    ", thor.Address(crypto.PubkeyToAddress(key.PublicKey)))
	fmt.Println("private key:", "0x"+hex.EncodeToString(crypto.FromECDSA(key)))
	return nil
}

func printStartupMessage(
	gene *genesis.Genesis,
	repo *chain.Repository,
	instanceDir string,
	apiURL string,
	metricsURL string,
	adminURL string,
) {
	best := repo.BestBlockSummary()

	lines := []string{
		fmt.Sprintf("Starting powerd %v", fullVersion()),
		fmt.Sprintf("    Network      [ %v ]", gene.Name()),
		fmt.Sprintf("    Best block   [ #%v @%v ]", best.Number, best.Timestamp),
		fmt.Sprintf("    Instance dir [ %v ]", instanceDir),
		fmt.Sprintf("    API portal   [ %v ]", apiURL),
	}
	if metricsURL != "" {
		lines = append(lines, fmt.Sprintf("    Metrics      [ %v ]", metricsURL))
	}
	if adminURL != "" {
		lines = append(lines, fmt.Sprintf("    Admin        [ %v ]", adminURL))
	}
	if gene.Name() == "devnet" {
		lines = append(lines, "    Dev accounts")
		for i, acc := range genesis.DevAccounts() {
			lines = append(lines, fmt.Sprintf("      %d: %v 0x%x", i, acc.Address, crypto.FromECDSA(acc.PrivateKey)))
		}
	}
	fmt.Println(strings.Join(lines, "\n"))
}

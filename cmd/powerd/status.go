// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/powerledger/powerclient/httpclient"
	"github.com/vechain/powerledger/powerclient/wsclient"
)

func statusAction(ctx *cli.Context) error {
	return printStatus(os.Stdout, httpclient.New(ctx.String(nodeURLFlag.Name)))
}

func printStatus(w io.Writer, c *httpclient.Client) error {
	st, err := c.Health()
	if err != nil {
		return err
	}
	best, err := c.GetBestBlock()
	if err != nil {
		return err
	}
	stats, err := c.GetStats()
	if err != nil {
		return err
	}
	index, err := c.GetMinerIndex()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "healthy:            %v\n", st.Healthy)
	fmt.Fprintf(w, "best block:         #%v @%v (%v txs, %v reverted)\n", best.Number, best.Timestamp, best.TxCount, best.Reverted)
	fmt.Fprintf(w, "miner index:        %v\n", index)
	fmt.Fprintf(w, "miners with power:  %v\n", stats.MinerCount)
	fmt.Fprintf(w, "raw byte power:     %v\n", stats.TotalRawBytePower)
	fmt.Fprintf(w, "quality adj power:  %v\n", stats.TotalQualityAdjPower)
	return nil
}

func watchAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()

	c, err := wsclient.NewClient(ctx.String(nodeURLFlag.Name))
	if err != nil {
		return err
	}
	sub, err := c.SubscribeBestBlocks()
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	for {
		select {
		case <-exitSignal.Done():
			return nil
		case ev, ok := <-sub.EventChan:
			if !ok {
				return nil
			}
			if ev.Error != nil {
				return errors.WithMessage(ev.Error, "subscription")
			}
			fmt.Printf("#%v @%v txs=%v reverted=%v\n", ev.Data.Number, ev.Data.Timestamp, ev.Data.TxCount, ev.Data.Reverted)
		}
	}
}

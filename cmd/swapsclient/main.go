// Command swapsclient calls the json rpc api of a swaps server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/anyswap/CrossChain-Swaps/cmd/utils"
	"github.com/anyswap/CrossChain-Swaps/log"
	"github.com/anyswap/CrossChain-Swaps/rpc/client"
	"github.com/anyswap/CrossChain-Swaps/rpc/rpcapi"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var (
	clientIdentifier = "swapsclient"
	// Git SHA1 commit hash of the release (set via linker flags)
	gitCommit = ""
	gitDate   = ""
	// The app that holds all commands and flags.
	app = utils.NewApp(clientIdentifier, gitCommit, gitDate, "the swapsclient command line interface")

	rpcTimeout = 60 * time.Second
)

func initApp() {
	app.HideVersion = true
	app.Copyright = "Copyright 2022 The CrossChain-Swaps Authors"
	app.Commands = []*cli.Command{
		utils.VersionCommand,
		serverInfoCommand,
		statsCommand,
		operationCommand,
		recoverableCommand,
		historyCommand,
		inflightCommand,
		outboxCommand,
		swapCommand,
		recoverCommand,
		forceRecoverCommand,
		transferOwnershipCommand,
		setSwapContractCommand,
		ackCommand,
		timeoutCommand,
	}
	app.Flags = []cli.Flag{
		utils.SwapsServerFlag,
		utils.RelayerKeyFlag,
		utils.VerbosityFlag,
		utils.JSONFormatFlag,
		utils.ColorFormatFlag,
	}
	app.Before = func(ctx *cli.Context) error {
		utils.SetLogger(ctx)
		return nil
	}
	sort.Sort(cli.CommandsByName(app.Commands))
}

func main() {
	initApp()
	if err := app.Run(os.Args); err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
}

func call(ctx *cli.Context, method string, args interface{}) error {
	server := ctx.String(utils.SwapsServerFlag.Name)
	headers := make(map[string]string)
	if key := ctx.String(utils.RelayerKeyFlag.Name); key != "" {
		headers[rpcapi.RelayerKeyHeader] = key
	}
	if args == nil {
		args = struct{}{}
	}
	log.Debug("call swaps server", "server", server, "method", method)

	var result json.RawMessage
	err := client.RPCPostWithHeaders(context.Background(), rpcTimeout, headers, &result, server, "swaps."+method, args)
	if err != nil {
		return err
	}
	printResult(method, result)
	return nil
}

func printResult(method string, result json.RawMessage) {
	var pretty interface{}
	if err := json.Unmarshal(result, &pretty); err != nil {
		fmt.Println(string(result))
		return
	}
	data, _ := json.MarshalIndent(pretty, "", "  ")
	color.Green("%v success", method)
	fmt.Println(string(data))
}

func checkArgs(ctx *cli.Context, count int) error {
	if ctx.NArg() != count {
		_ = cli.ShowCommandHelp(ctx, ctx.Command.Name)
		fmt.Println()
		return fmt.Errorf("invalid arguments: %q", ctx.Args())
	}
	return nil
}

package main

import (
	"github.com/anyswap/CrossChain-Swaps/common"
	"github.com/anyswap/CrossChain-Swaps/rpc/rpcapi"
	"github.com/urfave/cli/v2"
)

var (
	serverInfoCommand = &cli.Command{
		Name:   "serverinfo",
		Usage:  "get server info",
		Action: func(ctx *cli.Context) error { return call(ctx, "GetServerInfo", nil) },
	}

	statsCommand = &cli.Command{
		Name:   "stats",
		Usage:  "get pending counts",
		Action: func(ctx *cli.Context) error { return call(ctx, "GetStats", nil) },
	}

	operationCommand = &cli.Command{
		Name:      "operation",
		Usage:     "get operation by id",
		ArgsUsage: "<operationID>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "history", Usage: "get status change history from the history database"},
		},
		Action: getOperation,
	}

	recoverableCommand = &cli.Command{
		Name:      "recoverable",
		Usage:     "list recoverable balances of address",
		ArgsUsage: "<address>",
		Action: func(ctx *cli.Context) error {
			if err := checkArgs(ctx, 1); err != nil {
				return err
			}
			return call(ctx, "GetRecoverable", ctx.Args().Get(0))
		},
	}

	historyCommand = &cli.Command{
		Name:      "history",
		Usage:     "list operation events of sender",
		ArgsUsage: "<sender>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "offset", Usage: "skip count"},
			&cli.IntFlag{Name: "limit", Usage: "max count, negative means ascending order", Value: 20},
		},
		Action: func(ctx *cli.Context) error {
			if err := checkArgs(ctx, 1); err != nil {
				return err
			}
			return call(ctx, "GetSenderHistory", &rpcapi.RPCQueryHistoryArgs{
				Address: ctx.Args().Get(0),
				Offset:  ctx.Int("offset"),
				Limit:   ctx.Int("limit"),
			})
		},
	}

	inflightCommand = &cli.Command{
		Name:   "inflight",
		Usage:  "list in-flight transfers",
		Action: func(ctx *cli.Context) error { return call(ctx, "ListInflight", nil) },
	}

	outboxCommand = &cli.Command{
		Name:  "outbox",
		Usage: "list undispatched messages",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "failed", Usage: "list messages that can not be dispatched"},
		},
		Action: func(ctx *cli.Context) error { return call(ctx, "ListOutbox", ctx.Bool("failed")) },
	}
)

func getOperation(ctx *cli.Context) error {
	if err := checkArgs(ctx, 1); err != nil {
		return err
	}
	operationID, err := common.GetUint64FromStr(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	if ctx.Bool("history") {
		return call(ctx, "GetOperationHistory", operationID)
	}
	return call(ctx, "GetOperation", operationID)
}

package main

import (
	"encoding/json"
	"fmt"

	"github.com/anyswap/CrossChain-Swaps/common"
	"github.com/anyswap/CrossChain-Swaps/rpc/rpcapi"
	"github.com/anyswap/CrossChain-Swaps/swaps"
	"github.com/anyswap/CrossChain-Swaps/tokens"
	"github.com/urfave/cli/v2"
)

var (
	senderFlag = &cli.StringFlag{
		Name:     "sender",
		Usage:    "sender address",
		Required: true,
	}

	swapCommand = &cli.Command{
		Name:      "swap",
		Usage:     "swap funds and forward the output",
		ArgsUsage: "<amount> <inputDenom> <outputDenom> <receiver>",
		Flags: []cli.Flag{
			senderFlag,
			&cli.StringFlag{Name: "minoutput", Usage: "min output amount"},
			&cli.StringFlag{Name: "twap", Usage: "twap slippage percentage"},
			&cli.Uint64Flag{Name: "window", Usage: "twap window seconds"},
			&cli.StringFlag{Name: "memo", Usage: "next memo (json object)"},
			&cli.StringFlag{Name: "recoveryaddr", Usage: "local recovery address"},
			&cli.StringFlag{Name: "alternate", Usage: "alternate receiver"},
			&cli.BoolFlag{Name: "forward", Usage: "swap the funds as received without unwrapping them"},
		},
		Action: swapAndForward,
	}

	recoverCommand = &cli.Command{
		Name:  "recover",
		Usage: "claim recoverable balances of sender",
		Flags: []cli.Flag{senderFlag},
		Action: func(ctx *cli.Context) error {
			return call(ctx, "Recover", &rpcapi.RPCSenderArgs{Sender: ctx.String(senderFlag.Name)})
		},
	}

	forceRecoverCommand = &cli.Command{
		Name:      "forcerecover",
		Usage:     "mark an in-flight transfer recoverable (governor only)",
		ArgsUsage: "<channel> <sequence>",
		Flags:     []cli.Flag{senderFlag},
		Action: func(ctx *cli.Context) error {
			channel, sequence, err := getPacketArgs(ctx)
			if err != nil {
				return err
			}
			return call(ctx, "ForceRecover", &rpcapi.RPCForceRecoverArgs{
				Sender:   ctx.String(senderFlag.Name),
				Channel:  channel,
				Sequence: sequence,
			})
		},
	}

	transferOwnershipCommand = &cli.Command{
		Name:      "transferownership",
		Usage:     "change governor (governor only)",
		ArgsUsage: "<newGovernor>",
		Flags:     []cli.Flag{senderFlag},
		Action: func(ctx *cli.Context) error {
			if err := checkArgs(ctx, 1); err != nil {
				return err
			}
			return call(ctx, "TransferOwnership", &rpcapi.RPCTransferOwnershipArgs{
				Sender:      ctx.String(senderFlag.Name),
				NewGovernor: ctx.Args().Get(0),
			})
		},
	}

	setSwapContractCommand = &cli.Command{
		Name:      "setswapcontract",
		Usage:     "change swap service address (governor only)",
		ArgsUsage: "<newContract>",
		Flags:     []cli.Flag{senderFlag},
		Action: func(ctx *cli.Context) error {
			if err := checkArgs(ctx, 1); err != nil {
				return err
			}
			return call(ctx, "SetSwapContract", &rpcapi.RPCSetSwapContractArgs{
				Sender:      ctx.String(senderFlag.Name),
				NewContract: ctx.Args().Get(0),
			})
		},
	}

	ackCommand = &cli.Command{
		Name:      "ack",
		Usage:     "deliver transfer acknowledgement",
		ArgsUsage: "<channel> <sequence>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "ack", Usage: "acknowledgement data"},
			&cli.BoolFlag{Name: "failed", Usage: "the acknowledgement is an error"},
		},
		Action: func(ctx *cli.Context) error {
			channel, sequence, err := getPacketArgs(ctx)
			if err != nil {
				return err
			}
			return call(ctx, "DeliveryAck", &swaps.IBCAck{
				Channel:  channel,
				Sequence: sequence,
				Ack:      ctx.String("ack"),
				Success:  !ctx.Bool("failed"),
			})
		},
	}

	timeoutCommand = &cli.Command{
		Name:      "timeout",
		Usage:     "deliver transfer timeout",
		ArgsUsage: "<channel> <sequence>",
		Action: func(ctx *cli.Context) error {
			channel, sequence, err := getPacketArgs(ctx)
			if err != nil {
				return err
			}
			return call(ctx, "DeliveryTimeout", &swaps.IBCTimeout{Channel: channel, Sequence: sequence})
		},
	}
)

func getPacketArgs(ctx *cli.Context) (channel string, sequence uint64, err error) {
	if err = checkArgs(ctx, 2); err != nil {
		return "", 0, err
	}
	sequence, err = common.GetUint64FromStr(ctx.Args().Get(1))
	return ctx.Args().Get(0), sequence, err
}

func swapAndForward(ctx *cli.Context) error {
	if err := checkArgs(ctx, 4); err != nil {
		return err
	}
	amount, err := common.GetBigIntFromStr(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	args := &rpcapi.RPCSwapAndForwardArgs{
		Sender: ctx.String(senderFlag.Name),
		Funds:  tokens.Coins{{Denom: ctx.Args().Get(1), Amount: amount}},
	}
	args.OutputDenom = ctx.Args().Get(2)
	args.Receiver = ctx.Args().Get(3)

	switch {
	case ctx.IsSet("minoutput"):
		args.Slippage.MinOutputAmount = ctx.String("minoutput")
	case ctx.IsSet("twap"):
		args.Slippage.Twap = &tokens.Twap{
			SlippagePercentage: ctx.String("twap"),
			WindowSeconds:      ctx.Uint64("window"),
		}
	default:
		return fmt.Errorf("must specify one of 'minoutput' and 'twap'")
	}
	if memo := ctx.String("memo"); memo != "" {
		if !json.Valid([]byte(memo)) {
			return fmt.Errorf("memo is not valid json")
		}
		args.NextMemo = json.RawMessage(memo)
	}
	args.OnFailedDelivery = swaps.FailedDeliveryPolicy{
		LocalRecoveryAddr: ctx.String("recoveryaddr"),
		AlternateReceiver: ctx.String("alternate"),
	}
	args.Forward = ctx.Bool("forward")
	return call(ctx, "SwapAndForward", args)
}

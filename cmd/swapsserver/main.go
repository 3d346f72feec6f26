// Command swapsserver runs the swap-and-forward orchestrator.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/anyswap/CrossChain-Swaps/cmd/utils"
	"github.com/anyswap/CrossChain-Swaps/common"
	"github.com/anyswap/CrossChain-Swaps/internal/swapapi"
	"github.com/anyswap/CrossChain-Swaps/leveldb"
	"github.com/anyswap/CrossChain-Swaps/log"
	"github.com/anyswap/CrossChain-Swaps/mongodb"
	"github.com/anyswap/CrossChain-Swaps/params"
	"github.com/anyswap/CrossChain-Swaps/registry"
	"github.com/anyswap/CrossChain-Swaps/rpc/client"
	rpcserver "github.com/anyswap/CrossChain-Swaps/rpc/server"
	"github.com/anyswap/CrossChain-Swaps/swaps"
	"github.com/anyswap/CrossChain-Swaps/tokens"
	"github.com/anyswap/CrossChain-Swaps/tools"
	"github.com/anyswap/CrossChain-Swaps/worker"
	"github.com/urfave/cli/v2"
)

var (
	clientIdentifier = "swapsserver"
	// Git SHA1 commit hash of the release (set via linker flags)
	gitCommit = ""
	gitDate   = ""
	// The app that holds all commands and flags.
	app = utils.NewApp(clientIdentifier, gitCommit, gitDate, "the swapsserver command line interface")
)

func initApp() {
	// Initialize the CLI app and start action
	app.Action = swapsserver
	app.HideVersion = true // we have a command to print the version
	app.Copyright = "Copyright 2022 The CrossChain-Swaps Authors"
	app.Commands = []*cli.Command{
		utils.VersionCommand,
	}
	app.Flags = []cli.Flag{
		utils.ConfigFileFlag,
		utils.DataDirFlag,
		utils.LogFileFlag,
		utils.LogRotationFlag,
		utils.LogMaxAgeFlag,
		utils.VerbosityFlag,
		utils.JSONFormatFlag,
		utils.ColorFormatFlag,
	}
	sort.Sort(cli.CommandsByName(app.Commands))
}

func main() {
	initApp()
	if err := app.Run(os.Args); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func swapsserver(ctx *cli.Context) error {
	utils.SetLogger(ctx)
	if ctx.NArg() > 0 {
		return fmt.Errorf("invalid command: %q", ctx.Args().Get(0))
	}
	params.SetDataDir(ctx.String(utils.DataDirFlag.Name))
	configFile := utils.GetConfigFilePath(ctx)
	config := params.LoadConfig(configFile)

	runCtx := utils.SignalContext()

	db, err := openStateDB(config.Server.LevelDB)
	if err != nil {
		return err
	}
	defer func() {
		if errf := db.Close(); errf != nil {
			log.Warn("close state db failed", "err", errf)
		}
	}()

	routeResolver, err := initRegistry(runCtx, config)
	if err != nil {
		return err
	}

	contractCfg := config.Contract
	contract := swaps.NewContract(swaps.Settings{
		ContractAddress: contractCfg.Address,
		Bech32Prefix:    contractCfg.Bech32Prefix,
		TransferTimeout: contractCfg.GetTransferTimeout(),
	}, routeResolver)

	host := worker.NewHost(db, contract, initCollaborators(config.Services))
	if err = instantiateIfNeeded(host, contractCfg); err != nil {
		return err
	}

	initEventSinks(host, config)

	worker.StartWork(runCtx, host, config.Services)
	time.Sleep(100 * time.Millisecond)

	swapapi.Init(host, config.Server.Relayers)
	rpcserver.StartAPIServer(runCtx)

	<-runCtx.Done()
	host.Wait()
	if mongodb.HasClient() {
		mongodb.MongoServerClose()
	}
	log.Info("swapsserver exit")
	return nil
}

func openStateDB(cfg *params.LevelDBConfig) (*leveldb.Database, error) {
	path := cfg.Path
	if dataDir := params.GetDataDir(); dataDir != "" {
		path = common.AbsolutePath(dataDir, path)
	}
	db, err := leveldb.New(path, cfg.GetCache(), cfg.GetHandles(), false)
	if err != nil {
		return nil, fmt.Errorf("open state db '%v' failed: %w", path, err)
	}
	log.Info("open state db success", "path", path)
	return db, nil
}

func initRegistry(ctx context.Context, config *params.SwapsConfig) (tokens.Registry, error) {
	registryCfg := config.Registry
	if registryCfg.ServiceURL != "" {
		log.Info("use remote registry", "url", registryCfg.ServiceURL)
		return client.NewRegistryClient(registryCfg.ServiceURL, config.Services.GetRPCTimeout()), nil
	}
	routeFile := registryCfg.RouteFile
	if dataDir := params.GetDataDir(); dataDir != "" {
		routeFile = common.AbsolutePath(dataDir, routeFile)
	}
	fileRegistry, err := registry.NewFileRegistry(routeFile)
	if err != nil {
		return nil, err
	}
	if err = fileRegistry.Watch(ctx); err != nil {
		log.Warn("watch route file failed, routes will not be reloaded", "file", routeFile, "err", err)
	}
	log.Info("use route file registry", "file", routeFile, "denoms", fileRegistry.Denoms())
	return fileRegistry, nil
}

func initCollaborators(cfg *params.ServicesConfig) worker.Collaborators {
	timeout := cfg.GetRPCTimeout()
	var collaborators worker.Collaborators
	if cfg.SwapService != "" {
		collaborators.SwapService = client.NewSwapServiceClient(cfg.SwapService, timeout)
	}
	if cfg.Transport != "" {
		collaborators.Transport = client.NewTransportClient(cfg.Transport, timeout)
	}
	if cfg.Bank != "" {
		collaborators.Bank = client.NewBankClient(cfg.Bank, timeout)
	}
	return collaborators
}

func instantiateIfNeeded(host *worker.Host, cfg *params.ContractConfig) error {
	initialized, err := host.IsInitialized()
	if err != nil {
		return err
	}
	if initialized {
		stored, _ := host.QueryConfig()
		log.Info("contract is already initialized", "config", stored)
		return nil
	}
	_, err = host.Instantiate(cfg.Governor, &swaps.InstantiateMsg{
		SwapContract:     cfg.SwapContract,
		Governor:         cfg.Governor,
		RegistryContract: cfg.RegistryContract,
	})
	if err != nil && !errors.Is(err, swaps.ErrAlreadyInitialized) {
		return fmt.Errorf("instantiate contract failed: %w", err)
	}
	log.Info("instantiate contract success", "governor", cfg.Governor, "swapContract", cfg.SwapContract)
	return nil
}

func initEventSinks(host *worker.Host, config *params.SwapsConfig) {
	if dbConfig := config.Server.MongoDB; dbConfig != nil {
		addrs := mongodb.GetAddrs(dbConfig.DBURL, dbConfig.DBURLs)
		if err := mongodb.MongoServerInit(addrs, dbConfig.DBName, dbConfig.UserName, dbConfig.Password); err != nil {
			log.Fatal("init mongodb failed", "err", err)
		}
		host.AddEventSink(mongodb.HistorySink{})
	}
	if tools.InitEmail(config.Email) {
		host.AddEventSink(worker.NewEmailAlertSink(config.Identifier, config.Email))
		log.Info("email alert is enabled", "to", config.Email.To)
	}
}

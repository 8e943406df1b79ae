package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gagliardetto/solana-go"

	"github.com/gojira-holdings/validator-web/pkg/logger"
	"github.com/gojira-holdings/validator-web/pkg/solanarpc"
	"github.com/gojira-holdings/validator-web/staking"
	"github.com/gojira-holdings/validator-web/wallet"
)

const usage = `usage: staker <command> [args]

commands:
  list                 list stake accounts delegated to the validator
  stake <amount-sol>   create and delegate a new stake account
  unstake <address>    deactivate and withdraw a stake account
  withdraw <address>   withdraw a stake account's balance
`

// config holds the staker CLI settings loaded from environment variables
type config struct {
	SolanaRPCURL     string        `env:"STAKER_SOLANA_RPC_URL" envDefault:"https://api.mainnet-beta.solana.com"`
	KeypairPath      string        `env:"STAKER_KEYPAIR_PATH" envDefault:"~/.config/solana/id.json"`
	ConfirmTimeout   time.Duration `env:"STAKER_CONFIRM_TIMEOUT" envDefault:"60s"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	LogHumanFriendly bool          `env:"LOG_HUMAN_FRIENDLY" envDefault:"true"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	log := logger.NewFromConfig(logger.Config{
		LogLevel:         cfg.LogLevel,
		LogHumanFriendly: cfg.LogHumanFriendly,
	})
	slog.SetDefault(log)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	key, err := solana.PrivateKeyFromSolanaKeygenFile(expandHome(cfg.KeypairPath))
	if err != nil {
		log.Error("Failed to load keypair", slog.String("path", cfg.KeypairPath), slog.Any("error", err))
		os.Exit(1)
	}

	chain := solanarpc.New(cfg.SolanaRPCURL)

	session := wallet.NewSession(chain, wallet.WithLogger(log))
	session.Connect(key)

	if err := session.RefreshBalance(ctx); err != nil {
		log.Error("Failed to fetch wallet balance", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("Wallet connected",
		slog.String("address", wallet.FormatAddress(session.PublicKey().String())),
		slog.Float64("balanceSol", session.Balance()),
	)

	orchestrator := staking.New(chain, session,
		staking.WithNotifier(staking.NewLogNotifier(log)),
		staking.WithLogger(log),
		staking.WithConfirmTimeout(cfg.ConfirmTimeout),
	)

	if err := run(ctx, orchestrator, os.Args[1], os.Args[2:]); err != nil {
		log.Error("Command failed", slog.String("command", os.Args[1]), slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, orchestrator *staking.Orchestrator, command string, args []string) error {
	switch command {
	case "list":
		return list(ctx, orchestrator)
	case "stake":
		amount, err := amountArg(args)
		if err != nil {
			return err
		}
		_, err = orchestrator.Stake(ctx, amount)
		return err
	case "unstake":
		addr, err := addressArg(args)
		if err != nil {
			return err
		}
		_, err = orchestrator.Unstake(ctx, addr)
		return err
	case "withdraw":
		addr, err := addressArg(args)
		if err != nil {
			return err
		}
		_, err = orchestrator.Withdraw(ctx, addr)
		return err
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command: %s", command)
	}
}

func list(ctx context.Context, orchestrator *staking.Orchestrator) error {
	infos, err := orchestrator.StakeAccounts(ctx)
	if err != nil {
		return err
	}

	if len(infos) == 0 {
		fmt.Println("no stake accounts delegated to the validator")
		return nil
	}

	var total float64
	for _, info := range infos {
		status := "active"
		if !info.IsActive {
			status = fmt.Sprintf("deactivating (epoch %d)", info.DeactivationEpoch)
		}
		fmt.Printf("%s  %.9f SOL  %s\n", info.Address, info.SOL(), status)
		total += info.SOL()
	}
	fmt.Printf("total staked: %.9f SOL\n", total)

	return nil
}

// expandHome resolves a leading ~/ against the current user's home directory
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[2:])
}

func amountArg(args []string) (float64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected exactly one amount argument")
	}

	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", args[0], err)
	}

	return amount, nil
}

func addressArg(args []string) (solana.PublicKey, error) {
	if len(args) != 1 {
		return solana.PublicKey{}, fmt.Errorf("expected exactly one address argument")
	}

	addr, err := solana.PublicKeyFromBase58(args[0])
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid address %q: %w", args[0], err)
	}

	return addr, nil
}

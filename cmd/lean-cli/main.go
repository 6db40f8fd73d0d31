package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"lean/internal/broker"
	"lean/internal/brokerage"
	"lean/internal/config"
	"lean/internal/engine"
	"lean/internal/scenario"
	"lean/internal/util"
)

const version = "0.1.0"

func main() {
	cfgPath := "config/lean.yaml"
	if p := os.Getenv("LEAN_CONFIG"); p != "" {
		cfgPath = p
	}
	flag.StringVar(&cfgPath, "config", cfgPath, "path to the YAML config file (env LEAN_CONFIG)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: lean-cli [-config path] <command> [args]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  version              Print the CLI version\n")
		fmt.Fprintf(os.Stderr, "  models               List registered brokerage models\n")
		fmt.Fprintf(os.Stderr, "  check <scenario>     Evaluate each order against the configured model\n")
		fmt.Fprintf(os.Stderr, "  simulate <scenario>  Replay orders and bars through the engine\n")
		fmt.Fprintf(os.Stderr, "\n")
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	switch cmd := flag.Arg(0); cmd {
	case "version":
		fmt.Printf("lean-cli %s\n", version)

	case "models":
		for _, name := range brokerage.DefaultRegistry().List() {
			fmt.Println(name)
		}

	case "check", "simulate":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing scenario file\n\n", cmd)
			flag.Usage()
			os.Exit(1)
		}
		cfg, err := config.Load(cfgPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		util.SetDefault(util.NewLogger(cfg.Logging.Level, cfg.Logging.Format))

		s, err := scenario.Load(flag.Arg(1))
		if err != nil {
			log.Fatalf("failed to load scenario: %v", err)
		}

		if cmd == "check" {
			err = runCheck(cfg, s)
		} else {
			err = runSimulate(context.Background(), cfg, s)
		}
		if err != nil {
			log.Fatalf("%s: %v", cmd, err)
		}

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		flag.Usage()
		os.Exit(1)
	}
}

// runCheck asks the model about every order in isolation. No submissions
// are recorded, so rate limits never trigger here.
func runCheck(cfg *config.Config, s *scenario.Scenario) error {
	model, err := brokerage.NewFromConfig(cfg.Brokerage, util.NewRollingWindow(cfg.Brokerage.RateLimit.Window))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "TIME\tORDER\tSYMBOL\tTYPE\tSUBMIT\tEXECUTE\tTRANSACTION MODEL\n")
	for _, sub := range s.Submissions {
		o := sub.Order
		ok, msg, err := model.CanSubmitOrder(sub.Time, o)
		if err != nil {
			return err
		}
		submit := "ok"
		if !ok {
			submit = msg.String()
		}

		exec, err := model.CanExecuteOrder(sub.Time, o)
		if err != nil {
			return err
		}

		var tmName string
		tm, err := model.GetTransactionModel(o.Symbol, o.SecurityType)
		var rerr *brokerage.ResolutionError
		switch {
		case errors.As(err, &rerr):
			tmName = rerr.Error()
		case err != nil:
			return err
		default:
			tmName = tm.Name()
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s/%s\t%s\t%t\t%s\n",
			sub.Time.Format("2006-01-02 15:04:05"), o.ID, o.Symbol,
			o.SecurityType, o.Type, submit, exec, tmName)
	}
	return w.Flush()
}

func runSimulate(ctx context.Context, cfg *config.Config, s *scenario.Scenario) error {
	history := util.NewRollingWindow(cfg.Brokerage.RateLimit.Window)
	model, err := brokerage.NewFromConfig(cfg.Brokerage, history)
	if err != nil {
		return err
	}
	sim := broker.NewSimulatorBroker(decimal.NewFromFloat(cfg.Trading.InitialCash))
	e := engine.NewEngine(sim, model, history, slog.Default())

	res, err := scenario.Run(ctx, e, s)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "model: %s\taccepted: %d\trejected: %d\tfills: %d\n\n",
		model.Name(), len(res.Accepted), len(res.Rejections), len(res.Fills))

	if len(res.Rejections) > 0 {
		fmt.Fprintf(w, "ORDER\tREJECTION\n")
		for _, r := range res.Rejections {
			fmt.Fprintf(w, "%s\t%s\n", r.OrderID, r.Message.String())
		}
		fmt.Fprintln(w)
	}

	if len(res.Fills) > 0 {
		fmt.Fprintf(w, "TIME\tORDER\tSYMBOL\tSIDE\tQTY\tPRICE\tFEE\tMODEL\n")
		for _, f := range res.Fills {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				f.Time.Format("2006-01-02 15:04:05"), f.OrderID, f.Symbol, f.Side,
				f.Qty, f.Price, f.Fee, f.Model)
		}
		fmt.Fprintln(w)
	}

	positions, err := e.GetPositions(ctx)
	if err != nil {
		return err
	}
	if len(positions) > 0 {
		fmt.Fprintf(w, "SYMBOL\tSIDE\tQTY\tAVG PRICE\n")
		for _, p := range positions {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Symbol, p.Side, p.Qty, p.AvgPrice.StringFixed(4))
		}
		fmt.Fprintln(w)
	}

	acct, err := e.GetAccount(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "cash: %s\tequity: %s\tfees: %s\n",
		acct.Cash.StringFixed(2), acct.Equity.StringFixed(2), acct.FeesPaid.StringFixed(2))
	return w.Flush()
}

package main

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/damon-houk/currency-converter/internal/application/service"
	"github.com/damon-houk/currency-converter/internal/config"
	"github.com/damon-houk/currency-converter/internal/domain/entity"
	"github.com/damon-houk/currency-converter/internal/infrastructure/format"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/spf13/cobra"
)

// options shared by every subcommand
type rootOptions struct {
	configPath string
	locale     string
	logLevel   string

	cfg       config.Config
	log       logger.Logger
	formatter *format.Formatter
}

// conversion flags of the to and from subcommands
type convertOptions struct {
	amount   float64
	base     string
	rates    []string
	remote   bool
	endpoint string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "fxconvert",
		Short:         "Convert and format currency amounts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "config.env", "path to an optional dotenv file")
	cmd.PersistentFlags().StringVar(&opts.locale, "locale", "", "BCP 47 locale used for output (default from config)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")

	cmd.AddCommand(
		newConvertCmd(opts, "to"),
		newConvertCmd(opts, "from"),
		newFormatCmd(opts),
	)
	return cmd
}

func (o *rootOptions) load() error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.locale != "" {
		cfg.Locale = o.locale
	}
	o.cfg = cfg

	level, err := logger.ParseLevel(o.logLevel)
	if err != nil {
		return err
	}
	o.log = logger.NewZapLogger(os.Stderr, level)
	o.formatter = format.NewFormatter(format.Defaults{
		Locale:                cfg.Locale,
		MinimumFractionDigits: cfg.MinimumFractionDigits,
		MaximumFractionDigits: cfg.MaximumFractionDigits,
	})
	return nil
}

func newConvertCmd(root *rootOptions, direction string) *cobra.Command {
	opts := &convertOptions{}

	short := "Convert an amount of the base currency to other currencies"
	if direction == "from" {
		short = "Convert amounts of other currencies to the base currency"
	}

	cmd := &cobra.Command{
		Use:     direction + " CURRENCY...",
		Short:   short,
		Args:    cobra.MinimumNArgs(1),
		Example: "  fxconvert " + direction + " --amount 15 --base PLN --rate USD=0.275 --rate EUR=0.2347 USD EUR",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, root, opts, direction, args)
		},
	}

	cmd.Flags().Float64Var(&opts.amount, "amount", 1, "amount to convert")
	cmd.Flags().StringVar(&opts.base, "base", "", "base currency code")
	cmd.Flags().StringArrayVar(&opts.rates, "rate", nil, "rate relative to the base, as CODE=RATE (repeatable)")
	cmd.Flags().BoolVar(&opts.remote, "remote", false, "refresh rates from the configured rate API")
	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "rate API endpoint, overrides RATE_API_URL")
	_ = cmd.MarkFlagRequired("base")

	return cmd
}

func runConvert(cmd *cobra.Command, root *rootOptions, opts *convertOptions, direction string, currencies []string) error {
	rates, err := entity.ParseRates(strings.Join(opts.rates, ","), "=")
	if err != nil {
		return err
	}

	exchangeOpts := []service.Option{service.WithRates(rates), service.WithLogger(root.log)}
	if opts.remote || opts.endpoint != "" {
		endpoint := opts.endpoint
		if endpoint == "" {
			endpoint = root.cfg.RateAPIURL
		}
		exchangeOpts = append(exchangeOpts,
			service.WithEndpoint(endpoint),
			service.WithHTTPClient(&http.Client{Timeout: root.cfg.HTTPTimeout}),
		)
	}
	exchange := service.NewExchange(opts.amount, opts.base, exchangeOpts...)

	var results map[string]float64
	if direction == "to" {
		results, err = exchange.ToMany(cmd.Context(), currencies)
	} else {
		results, err = exchange.FromMany(cmd.Context(), currencies)
	}
	if err != nil {
		return err
	}

	for _, currency := range currencies {
		code := currency
		if direction == "from" {
			code = opts.base
		}
		printResult(cmd.OutOrStdout(), root.formatter, currency, code, results[currency])
	}
	return nil
}

// printResult writes one tab separated line: currency, raw value, formatted value
func printResult(w io.Writer, formatter *format.Formatter, currency, code string, value float64) {
	if math.IsNaN(value) {
		fmt.Fprintf(w, "%s\tNaN\t-\n", currency)
		return
	}
	fmt.Fprintf(w, "%s\t%s\t%s\n", currency,
		strconv.FormatFloat(value, 'f', -1, 64),
		formatter.FormatAsCurrency(value, code, format.Options{}))
}

func newFormatCmd(root *rootOptions) *cobra.Command {
	var (
		value    float64
		currency string
		minimum  int
		maximum  int
		parse    string
	)

	cmd := &cobra.Command{
		Use:   "format",
		Short: "Format a value for a locale, or parse a formatted value back",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if cmd.Flags().Changed("parse") {
				fmt.Fprintln(out, strconv.FormatFloat(root.formatter.FormatToNumber(parse, root.cfg.Locale), 'f', -1, 64))
				return nil
			}

			opts := format.Options{}
			if cmd.Flags().Changed("min") {
				opts.MinimumFractionDigits = format.Digits(minimum)
			}
			if cmd.Flags().Changed("max") {
				opts.MaximumFractionDigits = format.Digits(maximum)
			}

			currencyValue := root.formatter.NewCurrencyValue(value, currency, opts)
			if currency == "" {
				fmt.Fprintln(out, currencyValue.Formatted())
				return nil
			}
			fmt.Fprintln(out, currencyValue.WithCurrency())
			return nil
		},
	}

	cmd.Flags().Float64Var(&value, "value", 0, "value to format")
	cmd.Flags().StringVar(&currency, "currency", "", "currency code; plain number when empty")
	cmd.Flags().IntVar(&minimum, "min", format.DefaultMinimumFractionDigits, "minimum fraction digits")
	cmd.Flags().IntVar(&maximum, "max", format.DefaultMaximumFractionDigits, "maximum fraction digits")
	cmd.Flags().StringVar(&parse, "parse", "", "parse a locale formatted number instead of formatting")

	return cmd
}

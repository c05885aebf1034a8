package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"MerchantWarriorGateway/config"
	"MerchantWarriorGateway/internal/domain/gateway"
	"MerchantWarriorGateway/internal/external/merchantwarrior"
	"MerchantWarriorGateway/pkg/logger"

	"github.com/spf13/cobra"
)

type paymentFunc func(ctx context.Context, c *merchantwarrior.Client, money gateway.Money, method gateway.PaymentMethod, opts gateway.Options) (gateway.Response, error)

type referenceFunc func(ctx context.Context, c *merchantwarrior.Client, money gateway.Money, authorization string, opts gateway.Options) (gateway.Response, error)

func authorize(ctx context.Context, c *merchantwarrior.Client, money gateway.Money, method gateway.PaymentMethod, opts gateway.Options) (gateway.Response, error) {
	return c.Authorize(ctx, money, method, opts)
}

func purchase(ctx context.Context, c *merchantwarrior.Client, money gateway.Money, method gateway.PaymentMethod, opts gateway.Options) (gateway.Response, error) {
	return c.Purchase(ctx, money, method, opts)
}

func capture(ctx context.Context, c *merchantwarrior.Client, money gateway.Money, authorization string, opts gateway.Options) (gateway.Response, error) {
	return c.Capture(ctx, money, authorization, opts)
}

func refund(ctx context.Context, c *merchantwarrior.Client, money gateway.Money, authorization string, opts gateway.Options) (gateway.Response, error) {
	return c.Refund(ctx, money, authorization, opts)
}

type cardFlags struct {
	number string
	name   string
	month  int
	year   int
	cvv    string
}

func (f *cardFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.number, "card-number", "", "card number")
	cmd.Flags().StringVar(&f.name, "card-name", "", "cardholder name")
	cmd.Flags().IntVar(&f.month, "card-month", 0, "expiry month (1-12)")
	cmd.Flags().IntVar(&f.year, "card-year", 0, "expiry year")
	cmd.Flags().StringVar(&f.cvv, "card-cvv", "", "card verification value")
}

func (f *cardFlags) card() gateway.CardDetails {
	return gateway.CardDetails{
		Number:            f.number,
		Name:              f.name,
		Month:             f.month,
		Year:              f.year,
		VerificationValue: f.cvv,
	}
}

type optionFlags struct {
	orderID         string
	email           string
	ip              string
	storeID         string
	recurring       bool
	descriptorName  string
	descriptorCity  string
	descriptorState string
}

func (f *optionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.orderID, "order-id", "", "merchant order id (sent as the transaction product)")
	cmd.Flags().StringVar(&f.email, "email", "", "customer email")
	cmd.Flags().StringVar(&f.ip, "ip", "", "customer IP")
	cmd.Flags().StringVar(&f.storeID, "store-id", "", "store id")
	cmd.Flags().BoolVar(&f.recurring, "recurring", false, "send recurringFlag (omitted unless set)")
	cmd.Flags().StringVar(&f.descriptorName, "descriptor-name", "", "soft descriptor name")
	cmd.Flags().StringVar(&f.descriptorCity, "descriptor-city", "", "soft descriptor city")
	cmd.Flags().StringVar(&f.descriptorState, "descriptor-state", "", "soft descriptor state")
}

func (f *optionFlags) options(cmd *cobra.Command, currency string) gateway.Options {
	opts := gateway.Options{
		OrderID:         f.orderID,
		Currency:        currency,
		Email:           f.email,
		IP:              f.ip,
		StoreID:         f.storeID,
		DescriptorName:  f.descriptorName,
		DescriptorCity:  f.descriptorCity,
		DescriptorState: f.descriptorState,
	}
	if cmd.Flags().Changed("recurring") {
		opts = opts.WithRecurring(f.recurring)
	}
	return opts
}

func paymentCmd(use, short string, run paymentFunc) *cobra.Command {
	var (
		amount   string
		currency string
		cardID   string
		card     cardFlags
		opts     optionFlags
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			money, err := gateway.NewMoney(amount, currency)
			if err != nil {
				return err
			}

			var method gateway.PaymentMethod = card.card()
			if cardID != "" {
				method = gateway.StoredCardToken{ID: cardID}
			}

			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			resp, err := run(cmd.Context(), c, money, method, opts.options(cmd, currency))
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "amount in major units, e.g. 10.00")
	cmd.Flags().StringVar(&currency, "currency", "", "ISO currency code (default AUD)")
	cmd.Flags().StringVar(&cardID, "card-id", "", "stored card id; replaces the card flags")
	card.register(cmd)
	opts.register(cmd)
	_ = cmd.MarkFlagRequired("amount")
	cmd.MarkFlagsMutuallyExclusive("card-id", "card-number")
	cmd.MarkFlagsOneRequired("card-id", "card-number")

	return cmd
}

func referenceCmd(use, short string, run referenceFunc) *cobra.Command {
	var (
		amount   string
		currency string
		opts     optionFlags
	)

	cmd := &cobra.Command{
		Use:   use + " [transaction-id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			money, err := gateway.NewMoney(amount, currency)
			if err != nil {
				return err
			}
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			resp, err := run(cmd.Context(), c, money, args[0], opts.options(cmd, currency))
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "amount in major units, e.g. 10.00")
	cmd.Flags().StringVar(&currency, "currency", "", "ISO currency code (default AUD)")
	opts.register(cmd)
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func voidCmd() *cobra.Command {
	var amount string

	cmd := &cobra.Command{
		Use:   "void [transaction-id]",
		Short: "Void a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			resp, err := c.Void(cmd.Context(), args[0], gateway.Options{Amount: amount})
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "amount of the original transaction")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func storeCmd() *cobra.Command {
	var card cardFlags

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Store a card and print its card id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			resp, err := c.Store(cmd.Context(), card.card(), gateway.Options{})
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}

	card.register(cmd)
	_ = cmd.MarkFlagRequired("card-number")

	return cmd
}

func scrubCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrub",
		Short: "Filter card data and API keys from a transcript on stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read transcript: %w", err)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), merchantwarrior.Scrub(string(raw)))
			return err
		},
	}
}

func hashCmd() *cobra.Command {
	var (
		amount        string
		currency      string
		transactionID string
	)

	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Print the verification hash the gateway expects",
		Long: `Print the verification hash for a request, using the configured passphrase
and merchant UUID.

Examples:
  mwctl hash --amount 10.00 --currency AUD
  mwctl hash --transaction-id 1336-20be3569-b600-11e6-b9c3-005056b209e0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			creds := cfg.Credentials()

			var digest string
			if transactionID != "" {
				digest = merchantwarrior.VoidVerificationHash(creds, transactionID)
			} else {
				money, err := gateway.NewMoney(amount, currency)
				if err != nil {
					return err
				}
				digest = merchantwarrior.VerificationHash(creds, money.Format(), money.CurrencyOr(""))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), digest)
			return err
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "transaction amount")
	cmd.Flags().StringVar(&currency, "currency", "", "ISO currency code (default AUD)")
	cmd.Flags().StringVar(&transactionID, "transaction-id", "", "print the void hash for this transaction")
	cmd.MarkFlagsMutuallyExclusive("amount", "transaction-id")
	cmd.MarkFlagsOneRequired("amount", "transaction-id")

	return cmd
}

// newClient builds a client from the environment. Logs go to stderr so the
// JSON on stdout stays pipeable.
func newClient(cmd *cobra.Command) (*merchantwarrior.Client, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	l := logger.New(logger.Options{Level: cfg.LogLevel, Console: true, Output: cmd.ErrOrStderr()})
	opts := []merchantwarrior.Option{
		merchantwarrior.WithEndpoints(cfg.Endpoints()),
		merchantwarrior.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		merchantwarrior.WithLogger(l),
	}
	if cfg.LogTranscripts {
		opts = append(opts, merchantwarrior.WithTranscriptLogging())
	}
	return merchantwarrior.New(cfg.Credentials(), opts...)
}

func printResponse(w io.Writer, resp gateway.Response) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	return nil
}

package cli

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"black76/internal/config"
	"black76/internal/logging"
	"black76/internal/numeric"
	"black76/internal/scenario"
	"black76/pkg/black"
)

// Quantities a pricing command can report.
const (
	kindPrice = "price"
	kindDelta = "delta"
	kindGamma = "gamma"
)

var kindLabels = map[string]string{
	kindPrice: "Price",
	kindDelta: "Delta",
	kindGamma: "Gamma",
}

// pricingFlags are the market inputs shared by the pricing commands.
type pricingFlags struct {
	spot        string
	strike      string
	expiry      string
	vol         string
	rate        string
	div         string
	calls       string
	precision   string
	convention  string
	elementwise bool
}

func (f *pricingFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.spot, "spot", "", "spot price, or comma separated list")
	fl.StringVar(&f.strike, "strike", "", "strike price(s)")
	fl.StringVar(&f.expiry, "expiry", "", "time to expiry in years")
	fl.StringVar(&f.vol, "vol", "", "annualized volatility")
	fl.StringVar(&f.rate, "rate", "", "continuously compounded discount rate (default from config)")
	fl.StringVar(&f.div, "div", "", "continuously compounded dividend yield (default from config)")
	fl.StringVar(&f.calls, "calls", "", "option types, e.g. call,put,call (omit to price calls)")
	fl.StringVar(&f.precision, "precision", "", "float32 or float64 (default from config)")
	fl.StringVar(&f.convention, "convention", "", "spot or carry discounting (default from config)")
	fl.BoolVar(&f.elementwise, "elementwise", false, "evaluate each scenario separately through the vectorizer")

	for _, name := range []string{"spot", "strike", "expiry", "vol"} {
		cmd.MarkFlagRequired(name)
	}
}

// resolve turns the flags into pricing inputs. Omitted rates and settings
// fall back to the configuration.
func (f *pricingFlags) resolve(cmd *cobra.Command, cfg *config.Config) (black.Inputs, black.Convention, error) {
	in := black.Inputs{Precision: cfg.Precision()}
	conv := cfg.Convention()
	changed := cmd.Flags().Changed

	required := []struct {
		name string
		raw  string
		dst  *numeric.Value
	}{
		{"spot", f.spot, &in.Spot},
		{"strike", f.strike, &in.Strike},
		{"expiry", f.expiry, &in.Expiry},
		{"vol", f.vol, &in.Vol},
	}
	for _, field := range required {
		v, err := scenario.ParseValue(field.name, field.raw)
		if err != nil {
			return in, conv, err
		}
		*field.dst = v
	}

	if changed("rate") {
		v, err := scenario.ParseValue("rate", f.rate)
		if err != nil {
			return in, conv, err
		}
		in.DiscountRate = v
	} else {
		in.DiscountRate = numeric.Scalar(cfg.Pricing.DiscountRate)
	}

	if changed("div") {
		v, err := scenario.ParseValue("div", f.div)
		if err != nil {
			return in, conv, err
		}
		in.DividendRate = v
	} else if cfg.Pricing.DividendRate != 0 {
		in.DividendRate = numeric.Scalar(cfg.Pricing.DividendRate)
	}

	if changed("calls") {
		m, err := scenario.ParseMask("calls", f.calls)
		if err != nil {
			return in, conv, err
		}
		in.IsCall = m
	}

	if changed("precision") {
		p, err := numeric.ParsePrecision(f.precision)
		if err != nil {
			return in, conv, err
		}
		in.Precision = p
	}

	if changed("convention") {
		c, err := black.ParseConvention(f.convention)
		if err != nil {
			return in, conv, err
		}
		conv = c
	}

	return in, conv, nil
}

// pricingFunc returns the batched function computing kind.
func pricingFunc(kind string, conv black.Convention) black.Func {
	switch kind {
	case kindDelta:
		return func(in black.Inputs) ([]float64, error) { return black.DeltaWith(in, conv) }
	case kindGamma:
		return func(in black.Inputs) ([]float64, error) { return black.GammaWith(in, conv) }
	}
	return func(in black.Inputs) ([]float64, error) { return black.PriceWith(in, conv) }
}

// evaluate computes every requested quantity over the batch. Price, delta and
// gamma together come from a single pass unless elementwise is set.
func evaluate(in black.Inputs, conv black.Convention, kinds []string, elementwise bool) ([][]float64, error) {
	if !elementwise && len(kinds) == 3 {
		res, err := black.GreeksWith(in, conv)
		if err != nil {
			return nil, err
		}
		return [][]float64{res.Price, res.Delta, res.Gamma}, nil
	}

	out := make([][]float64, len(kinds))
	for i, kind := range kinds {
		fn := pricingFunc(kind, conv)
		if elementwise {
			batched, err := black.Vectorize(fn, in)
			if err != nil {
				return nil, err
			}
			fn = black.Func(batched)
		}
		vals, err := fn(in)
		if err != nil {
			return nil, err
		}
		out[i] = vals
	}
	return out, nil
}

// quoteRow is one priced scenario in JSON output.
type quoteRow struct {
	Index  int                 `json:"index"`
	Spot   float64             `json:"spot"`
	Strike float64             `json:"strike"`
	Expiry float64             `json:"expiry"`
	Vol    float64             `json:"vol"`
	Type   string              `json:"type"`
	Values map[string]*float64 `json:"values"`
}

// quoteReport is the JSON output of a pricing command.
type quoteReport struct {
	Convention string     `json:"convention"`
	Precision  string     `json:"precision"`
	Count      int        `json:"count"`
	Rows       []quoteRow `json:"rows"`
}

func optionTypeAt(m numeric.Mask, i int) string {
	if m.IsSet() && !m.At(i) {
		return "put"
	}
	return "call"
}

func renderQuotes(output *Output, in black.Inputs, conv black.Convention, kinds []string, values [][]float64) error {
	n := len(values[0])

	if output.IsJSON() {
		report := quoteReport{
			Convention: conv.String(),
			Precision:  in.Precision.Resolve().String(),
			Count:      n,
			Rows:       make([]quoteRow, n),
		}
		for i := 0; i < n; i++ {
			row := quoteRow{
				Index:  i,
				Spot:   in.Spot.At(i),
				Strike: in.Strike.At(i),
				Expiry: in.Expiry.At(i),
				Vol:    in.Vol.At(i),
				Type:   optionTypeAt(in.IsCall, i),
				Values: make(map[string]*float64, len(kinds)),
			}
			for k, kind := range kinds {
				row.Values[kind] = jsonFloat(values[k][i])
			}
			report.Rows[i] = row
		}
		return output.JSON(report)
	}

	format := func(kind string, x float64) string {
		if kind == kindDelta {
			return output.Signed(x)
		}
		return output.Value(x)
	}

	if n == 1 {
		for k, kind := range kinds {
			output.Printf("%-6s %s\n", kindLabels[kind]+":", format(kind, values[k][0]))
		}
		return nil
	}

	headers := []string{"#", "Spot", "Strike", "Expiry", "Vol", "Type"}
	for _, kind := range kinds {
		headers = append(headers, kindLabels[kind])
	}
	table := NewTable(output, headers...)
	for i := 0; i < n; i++ {
		cells := []string{
			strconv.Itoa(i + 1),
			FormatValue(in.Spot.At(i)),
			FormatValue(in.Strike.At(i)),
			FormatValue(in.Expiry.At(i)),
			FormatValue(in.Vol.At(i)),
			optionTypeAt(in.IsCall, i),
		}
		for k, kind := range kinds {
			cells = append(cells, format(kind, values[k][i]))
		}
		table.AddRow(cells...)
	}
	table.Render()
	output.Dim("%d scenarios, %s, %s discounting", n, in.Precision.Resolve(), conv)
	return nil
}

func newPricingCmd(app *App, use, short string, kinds []string) *cobra.Command {
	flags := &pricingFlags{}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, conv, err := flags.resolve(cmd, app.Config)
			if err != nil {
				return err
			}

			start := time.Now()
			values, err := evaluate(in, conv, kinds, flags.elementwise)
			if err != nil {
				return err
			}
			logging.LogRun(app.Logger, use, len(values[0]), in.Precision.Resolve().String(), conv.String(), time.Since(start))

			return renderQuotes(NewOutput(cmd), in, conv, kinds, values)
		},
	}
	flags.register(cmd)
	return cmd
}

// addPricingCommands adds price, delta, gamma and greeks.
func addPricingCommands(rootCmd *cobra.Command, app *App) {
	price := newPricingCmd(app, "price", "Price options with Black '76", []string{kindPrice})
	price.Example = `  blackctl price --spot 100 --strike 110 --expiry 1 --vol 0.3
  blackctl price --spot 100,90,80 --strike 120,75,75 --expiry 1 --vol 0.3,0.25,0.4 --calls call,put,put`

	rootCmd.AddCommand(
		price,
		newPricingCmd(app, "delta", "Sensitivity of the price to spot", []string{kindDelta}),
		newPricingCmd(app, "gamma", "Sensitivity of delta to spot", []string{kindGamma}),
		newPricingCmd(app, "greeks", "Price, delta and gamma in one pass", []string{kindPrice, kindDelta, kindGamma}),
	)
}

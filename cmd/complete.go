package cmd

import (
	"flag"
	"strings"

	"github.com/etnz/stocks"
	"github.com/etnz/stocks/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of the commands registered in c,
// and of the flags of top.
func Completion(c *subcommands.Commander, top *flag.FlagSet) *complete.Command {
	completion := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagPredictors(top),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(f)
		completion.Sub[cmd.Name()] = &complete.Command{
			Flags: flagPredictors(f),
			Args:  argsPredictor(cmd.Name()),
		}
	})
	return completion
}

// flagPredictors predicts files for flags naming a file, anything for the others.
func flagPredictors(f *flag.FlagSet) map[string]complete.Predictor {
	predictors := make(map[string]complete.Predictor)
	f.VisitAll(func(fl *flag.Flag) {
		switch {
		case fl.Name == "o":
			predictors[fl.Name] = predict.Files("*.xlsx")
		case fl.Name == "config":
			predictors[fl.Name] = predict.Files("*.yaml")
		case fl.Name == "holdings", fl.Name == "prices":
			predictors[fl.Name] = predict.Files("*")
		case isBool(fl):
			predictors[fl.Name] = predict.Nothing
		default:
			predictors[fl.Name] = predict.Something
		}
	})
	return predictors
}

func isBool(fl *flag.Flag) bool {
	b, ok := fl.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

// argsPredictor predicts the arguments of a command.
func argsPredictor(name string) complete.Predictor {
	switch name {
	case "export":
		return predict.Set(stocks.Reports)
	case "topic":
		topics, _ := docs.GetAllTopics()
		return predict.Set(topics)
	case "delete", "sell", "edit":
		return heldSymbols{}
	default:
		return predict.Nothing
	}
}

// heldSymbols predicts the symbols in the holdings file.
type heldSymbols struct{}

func (heldSymbols) Predict(prefix string) []string {
	h, err := stocks.LoadHoldings(*holdingsFile, *currency)
	if err != nil {
		return nil
	}
	var symbols []string
	for _, s := range h.Symbols() {
		if strings.HasPrefix(s, strings.ToUpper(prefix)) {
			symbols = append(symbols, s)
		}
	}
	return symbols
}

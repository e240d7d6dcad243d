package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/stocks"
	"github.com/etnz/stocks/docs"
	"github.com/etnz/stocks/renderer"
	"github.com/shopspring/decimal"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:        "Facilitator",
		Description: ``,
		ModelName:   model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here primarily to understand how his stock portfolio performs,
			and how it compares to the market.

			Devise a plan of questions to ask to each experts and come up with the best reponse to the user's request.

			The user will assume that you know about his stock symbols, ask the Analyst for the holdings first.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader returns an expert grounded with Google Search.
func NewTrader() *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader,
		Very well aware of the companies listed on the stock exchanges and their latest news.
		Ask the Trader whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are a expert in Trading, you can search and find about anything related to
			companies, stock markets and indices. You Leverage Google Search to
			ground your assertions in a solid truth.
			You can get the latests news too, and you know how to relate them to the user's request.
				`}}},
		},
	}
}

// NewAnalyst returns the expert in charge of the holdings h, computing reports with r.
func NewAnalyst(r *stocks.Reporter, h *stocks.Holdings) *Expert {
	lib := AnalystFunctions(r, h)
	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. He is in charge of the user's portfolio holdings.
		He can compute many reports on the holdings: current value, gains, beta against the benchmark,
		historical variations, statistics, correlation, forecasts, Sharpe ratio, market capitalization and fundamentals.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are a financial analyst in charge of the user's stock portfolio.
				You know how to use the Tools to extract relevant information about the user's holdings and their performance.
				You are part of a team of experts, yours is everything about the user's portfolio. They might ask
				you questions about the user's portfolio, pardon their approximative language and figure out what they meant.

				Reports are markdown tables, percentages are already multiplied by 100, "n/a" is an undefined value.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// AnalystFunctions returns the functions available to the Analyst.
func AnalystFunctions(r *stocks.Reporter, h *stocks.Holdings) []Function {
	return []Function{reportFunc(r, h), futureValueFunc(h), topicFunc()}
}

func reportFunc(r *stocks.Reporter, h *stocks.Holdings) *Func {
	const name = "Report"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: name,
			Description: `Report computes a report on the user's holdings, with the latest market data.

			` + must(docs.GetTopic("reports")),
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name": {
						Type:        genai.TypeString,
						Description: "The name of the report.",
						Enum:        stocks.Reports,
					},
				},
				Required: []string{"name"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The markdown-formatted report.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			report, ok := args["name"].(string)
			if !ok {
				return failure(id, name, fmt.Errorf("argument 'name' is not a string as expected but %T", args["name"]))
			}
			t, err := r.Report(ctx, report, h)
			if err != nil {
				return failure(id, name, err)
			}
			return success(id, name, renderer.Markdown(t))
		},
	}
}

func futureValueFunc(h *stocks.Holdings) *Func {
	const name = "FutureValue"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: `FutureValue compounds an amount at a fixed rate per period, and lists the value after each period.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"amount":  {Type: genai.TypeNumber, Description: "The present value, the total invested if missing."},
					"rate":    {Type: genai.TypeNumber, Description: "The rate per period, 0.01 is 1%."},
					"periods": {Type: genai.TypeInteger, Description: "The number of periods."},
				},
				Required: []string{"rate", "periods"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted table of the value per period.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			rate, ok1 := args["rate"].(float64)
			periods, ok2 := args["periods"].(float64)
			if !ok1 || !ok2 || periods < 0 {
				return failure(id, name, fmt.Errorf("arguments 'rate' and 'periods' must be positive numbers got %v and %v", args["rate"], args["periods"]))
			}
			pv := h.TotalInvested()
			if amount, ok := args["amount"].(float64); ok {
				pv = stocks.M(amount, h.Currency())
			}
			t := stocks.NewFutureValueReport(pv, decimal.NewFromFloat(rate), int(periods)).Table()
			return success(id, name, renderer.Markdown(t))
		},
	}
}

func topicFunc() *Func {
	const name = "Topic"
	topics, _ := docs.GetAllTopics()
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: `Topic returns the documentation of the stk application on a topic: ` + strings.Join(topics, ", "),
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"topic": {Type: genai.TypeString, Enum: topics},
				},
				Required: []string{"topic"},
			},
			Response: &genai.Schema{Type: genai.TypeString, Description: "The markdown documentation."},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			topic, _ := args["topic"].(string)
			doc, err := docs.GetTopic(topic)
			if err != nil {
				return failure(id, name, err)
			}
			return success(id, name, doc)
		},
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

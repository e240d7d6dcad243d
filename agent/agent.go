package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

// Agent is a chat session between the user and a facilitator in charge of experts.
type Agent struct {
	w           io.Writer
	r           *bufio.Reader
	Facilitator *Expert
	Experts     []*Expert
	Print       func(markdown string) // prints answers, to w if nil
}

// New creates an Agent writing to w and reading the user's questions from r.
func New(w io.Writer, r io.Reader, experts ...*Expert) *Agent {
	return &Agent{
		w:           w,
		r:           bufio.NewReader(r),
		Experts:     experts,
		Facilitator: newFacilitator(experts...),
	}
}

// Start creates the chats of the experts, then the facilitator's.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	for _, e := range append(a.Experts, a.Facilitator) {
		if err := e.Start(ctx, client); err != nil {
			return fmt.Errorf("cannot start %s: %w", e.Name, err)
		}
	}
	return nil
}

const prompt = "assist> "

// Run answers the user's questions until "bye" or the end of input.
//
// prompts are answered first, as if typed by the user.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if a.Facilitator.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.w, "Welcome to stk portfolio assist. Type 'bye' to exit.")
	for {
		fmt.Fprint(a.w, prompt)
		input, err := a.next(&prompts)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(a.w)
			return nil
		}
		if err != nil {
			return err
		}
		switch input {
		case "":
			continue
		case "bye":
			return nil
		}

		content, err := a.Facilitator.Ask(ctx, &genai.Part{Text: input})
		if err != nil {
			return err
		}
		a.answer(content)
	}
}

// next returns the next question, from the pending prompts first.
func (a *Agent) next(prompts *[]string) (string, error) {
	if len(*prompts) > 0 {
		input := strings.TrimSpace((*prompts)[0])
		*prompts = (*prompts)[1:]
		fmt.Fprintln(a.w, input)
		return input, nil
	}
	input, err := a.r.ReadString('\n')
	if err != nil && (input == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

func (a *Agent) answer(content *genai.Content) {
	var b strings.Builder
	for _, p := range content.Parts {
		b.WriteString(p.Text)
	}
	if a.Print != nil {
		a.Print(b.String())
		return
	}
	fmt.Fprintln(a.w, b.String())
}

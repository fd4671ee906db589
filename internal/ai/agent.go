package ai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

const maxToolRounds = 5

// Agent answers shop questions with Gemini, calling Dispatch for tool use.
type Agent struct {
	client *genai.Client
	model  string
	store  Store
	log    *slog.Logger
}

func NewAgent(ctx context.Context, apiKey, model string, store Store, log *slog.Logger) (*Agent, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, errors.Wrap(err, "create gemini client")
	}
	return &Agent{client: client, model: model, store: store, log: log}, nil
}

func (a *Agent) Close() error {
	return a.client.Close()
}

func systemPrompt(today string) string {
	return fmt.Sprintf(`SYSTEM: Today is %s. You are the assistant of a small shop's stock and credit system.

	RULES:
	1. READ: If a user asks for PRICE, COST, STOCK, SKU or DETAILS of a product:
	   - You MUST call 'check_inventory' to get the full list.
	   - Then read the JSON to find the specific item and answer the user.
	2. RESTOCK: If the user asks what to reorder or what is running out, use 'low_stock'.
	3. CREDIT: If the user asks who owes money or how much credit is outstanding, use 'credit_summary'.
	4. SALES: If the user asks for sales/revenue, use 'get_sales_report'.
	5. You cannot change data. Say so if asked.`, today)
}

// Ask runs the function-calling loop until the model answers in text.
func (a *Agent) Ask(ctx context.Context, message string) (string, error) {
	model := a.client.GenerativeModel(a.model)
	model.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt(time.Now().Format("2006-01-02"))))
	model.Tools = []*genai.Tool{{FunctionDeclarations: toolDecls}}

	session := model.StartChat()
	resp, err := session.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", errors.Wrap(err, "send message")
	}

	for round := 0; round < maxToolRounds; round++ {
		calls := functionCalls(resp)
		if len(calls) == 0 {
			return textOf(resp), nil
		}

		replies := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			a.log.DebugContext(ctx, "assistant tool call", slog.String("tool", call.Name))
			out, err := Dispatch(ctx, a.store, call.Name, call.Args)
			if err != nil {
				return "", errors.Wrapf(err, "tool %s", call.Name)
			}
			replies = append(replies, genai.FunctionResponse{Name: call.Name, Response: out})
		}
		if resp, err = session.SendMessage(ctx, replies...); err != nil {
			return "", errors.Wrap(err, "send tool results")
		}
	}
	return textOf(resp), nil
}

func functionCalls(resp *genai.GenerateContentResponse) []genai.FunctionCall {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	var calls []genai.FunctionCall
	for _, part := range resp.Candidates[0].Content.Parts {
		if call, ok := part.(genai.FunctionCall); ok {
			calls = append(calls, call)
		}
	}
	return calls
}

func textOf(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "I could not come up with an answer."
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I could not come up with an answer."
}

package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/mailpilot-ai/mailpilot/internal/instrumentation"
	"github.com/mailpilot-ai/mailpilot/internal/llm"
	"github.com/mailpilot-ai/mailpilot/internal/logging"
	"github.com/mailpilot-ai/mailpilot/internal/session"
	"github.com/mailpilot-ai/mailpilot/internal/tools"
)

// maxToolRounds bounds how many completion/tool cycles one user input may
// trigger before the turn is abandoned.
const maxToolRounds = 8

const helpText = `Ask in plain language, for example:
  show me unread emails from github
  read the first one
  archive those
  label it as Work

Commands:
  help   show this message
  clear  clear the screen
  exit   leave the assistant (also: quit)`

// Assistant runs the interactive read-eval loop.
type Assistant struct {
	provider   llm.Provider
	dispatcher *tools.Dispatcher
	logger     *slog.Logger
	metrics    *instrumentation.Metrics

	in       *LineReader
	out      io.Writer
	renderer *renderer
}

// New wires an assistant. in is shared with the confirmation prompt via
// NewLineReader.
func New(provider llm.Provider, dispatcher *tools.Dispatcher, logger *slog.Logger, in *LineReader, out io.Writer) *Assistant {
	return &Assistant{
		provider:   provider,
		dispatcher: dispatcher,
		logger:     logger,
		in:         in,
		out:        out,
		renderer:   &renderer{out: out},
	}
}

// SetMetrics attaches metric recording. A nil metrics disables it.
func (a *Assistant) SetMetrics(m *instrumentation.Metrics) {
	a.metrics = m
}

// Run blocks until the user exits or input reaches EOF. Tool and model
// errors are rendered and never terminate the loop.
func (a *Assistant) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, promptStyle.Render("mailpilot")+mutedStyle.Render(" · talking to "+a.provider.Name()+", type 'help' for usage"))

	for {
		fmt.Fprint(a.out, promptStyle.Render("> "))
		line, ok := a.in.ReadLine()
		if !ok {
			fmt.Fprintln(a.out)
			return nil
		}
		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "exit", "quit":
			a.renderer.info("bye")
			return nil
		case "help":
			a.renderer.info(helpText)
		case "clear":
			fmt.Fprint(a.out, "\033[2J\033[H")
		default:
			a.turn(ctx, input)
		}
	}
}

// turn runs one conversational exchange: completion, any requested tool
// calls, and the model's final summary.
func (a *Assistant) turn(ctx context.Context, input string) {
	sess := a.dispatcher.Session()
	sess.RecordTurn(llm.RoleUser, input)

	req := &llm.Request{
		System:   a.systemPrompt(sess),
		Messages: historyMessages(sess.History()),
		Tools:    tools.Specs(),
	}

	for round := 0; round < maxToolRounds; round++ {
		comp, err := a.complete(ctx, req)
		if err != nil {
			a.renderer.error(err)
			return
		}

		if len(comp.ToolCalls) == 0 {
			a.renderer.text(comp.Text)
			sess.RecordTurn(llm.RoleAssistant, comp.Text)
			return
		}

		req.Messages = append(req.Messages, llm.AssistantToolCallMessage(comp.Text, comp.ToolCalls))
		for _, call := range comp.ToolCalls {
			req.Messages = append(req.Messages, llm.ToolResultMessage(call, a.runTool(ctx, call)))
		}
	}

	a.renderer.error(fmt.Errorf("giving up after %d tool rounds without a final answer", maxToolRounds))
}

func (a *Assistant) complete(ctx context.Context, req *llm.Request) (*llm.Completion, error) {
	start := time.Now()
	comp, err := a.provider.Complete(ctx, req)

	status := logging.StatusSuccess
	if err != nil {
		status = logging.StatusError
	}
	a.logger.Debug("completion finished",
		logging.Provider(a.provider.Name()),
		logging.Status(status),
		slog.Duration(logging.KeyDuration, time.Since(start)),
		logging.Err(err),
	)
	if a.metrics != nil {
		a.metrics.RecordLLMCompletion(ctx, a.provider.Name(), status, time.Since(start))
	}
	return comp, err
}

// runTool dispatches one tool call, renders the outcome, and returns the
// JSON the model sees as the tool's answer.
func (a *Assistant) runTool(ctx context.Context, call llm.ToolCall) string {
	var args map[string]any
	if len(call.Arguments) > 0 {
		// Malformed arguments fall through to dispatch validation.
		_ = json.Unmarshal(call.Arguments, &args)
	}

	res, err := a.dispatcher.Dispatch(ctx, call.Name, args)
	if err != nil {
		a.renderer.toolError(call.Name, err)
		payload, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(payload)
	}

	a.renderer.toolResult(res)
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Sprintf(`{"tool":%q}`, res.Tool)
	}
	return string(payload)
}

func (a *Assistant) systemPrompt(sess *session.Context) string {
	var b strings.Builder
	b.WriteString("You are mailpilot, a Gmail assistant operating through tools.\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Use tools for every mailbox action; never invent message content or ids.\n")
	b.WriteString("- Pass contextual references (\"it\", \"first\", \"those\", a 1-based position) straight through as messageId values; they are resolved for you.\n")
	b.WriteString("- Destructive operations are confirmed with the user separately; do not ask for permission yourself.\n")
	b.WriteString("- After tool results arrive, answer with a short plain-language summary.\n")

	if names := sess.LabelNames(); len(names) > 0 {
		b.WriteString("\nAvailable labels: " + strings.Join(names, ", ") + "\n")
		b.WriteString("Gmail search syntax works in queries, e.g. \"label:" + names[0] + " is:unread\".\n")
	}

	b.WriteString("\nSession state:\n")
	b.WriteString(sess.Summary())
	return b.String()
}

func historyMessages(turns []session.Turn) []llm.Message {
	msgs := make([]llm.Message, 0, len(turns))
	for _, t := range turns {
		msgs = append(msgs, llm.Message{Role: t.Role, Content: t.Content})
	}
	return msgs
}

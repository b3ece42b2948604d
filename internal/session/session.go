package session

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"ytdlpllm/internal/llm"
	"ytdlpllm/internal/reply"
)

// state of the confirmation loop.
type state int

const (
	stateAwaitingModel state = iota
	stateAwaitingUser
	stateExecute
	stateAbort
)

// disposition classifies one line of confirmation input.
type disposition int

const (
	dispositionExecute disposition = iota
	dispositionAbort
	dispositionRefine
)

// Prompter displays a proposed command with its explanation and returns one
// line of user input.
type Prompter interface {
	Confirm(explanation, command string) (string, error)
}

// Executor runs an accepted command line in the user's shell.
type Executor interface {
	Run(command string) error
}

// Environment carries the host facts embedded into the system prompt.
type Environment struct {
	YTDLPPath    string
	YTDLPVersion string
	OSInfo       string
	Shell        string
}

// Outcome reports how a session ended.
type Outcome struct {
	Command     string // last proposed command, empty if the model refused
	Executed    bool
	Refused     bool
	Refinements []string

	// ExecError is non-nil when the confirmed command ran but exited with a
	// failure. The session itself still completed normally; the command's
	// own exit status is the user's problem, not the session's.
	ExecError error
}

// Session owns one conversation and drives the confirmation loop. Lifecycle
// is a single process invocation; nothing is persisted between runs.
type Session struct {
	client   llm.Client
	prompter Prompter
	exec     Executor
	out      io.Writer
}

// New creates a session and seeds the conversation with the system prompt.
// The system message is always the first and only one of its kind.
func New(client llm.Client, prompter Prompter, exec Executor, env Environment) *Session {
	client.AddSystemPrompt(systemPrompt(env))
	return &Session{
		client:   client,
		prompter: prompter,
		exec:     exec,
		out:      os.Stdout,
	}
}

// SetOutput redirects the session's informational output.
func (s *Session) SetOutput(w io.Writer) {
	s.out = w
}

// Run drives the confirmation loop until a command is executed or the
// session is aborted. Refinement rounds are unbounded; each one appends a
// new user turn on top of the preserved assistant replies. Exactly one
// command is executed at most, after which the loop terminates. A confirmed
// command that fails is reported through Outcome.ExecError rather than as a
// Run error: only transport and validation failures abort the session.
func (s *Session) Run(ctx context.Context, instructions string) (Outcome, error) {
	var out Outcome
	var explanation, command string

	input := instructions
	st := stateAwaitingModel

	for {
		switch st {
		case stateAwaitingModel:
			s.client.AddUserPrompt(input)

			raw, err := s.client.InvokeModel(ctx)
			if err != nil {
				return out, err
			}

			explanation, command, err = reply.Parse(raw)
			if err != nil {
				return out, err
			}

			// An empty command is the model's refusal channel, not an error.
			if command == "" {
				fmt.Fprintln(s.out, "Unable. Please keep requests specific to yt-dlp.")
				if explanation != "" {
					fmt.Fprintln(s.out, explanation)
				}
				out.Refused = true
				st = stateAbort
				continue
			}

			// Keep the raw reply in the conversation so refinement turns see
			// what the model previously proposed.
			s.client.AddAssistantPrompt(raw)
			out.Command = command
			st = stateAwaitingUser

		case stateAwaitingUser:
			answer, err := s.prompter.Confirm(explanation, command)
			if err != nil {
				return out, err
			}

			switch classify(answer) {
			case dispositionAbort:
				st = stateAbort
			case dispositionExecute:
				st = stateExecute
			case dispositionRefine:
				out.Refinements = append(out.Refinements, answer)
				input = answer
				st = stateAwaitingModel
			}

		case stateExecute:
			out.Executed = true
			out.ExecError = s.exec.Run(command)
			return out, nil

		case stateAbort:
			return out, nil
		}
	}
}

// classify maps one line of confirmation input to a disposition. Empty input
// or "Y" accepts, the decline tokens abort, and anything else is a
// refinement instruction for the model.
func classify(input string) disposition {
	switch strings.ToUpper(input) {
	case "N", "NO", "Q", "QUIT":
		return dispositionAbort
	case "", "Y":
		return dispositionExecute
	default:
		return dispositionRefine
	}
}

func systemPrompt(env Environment) string {
	return fmt.Sprintf(`You are a helpful assistant designed to write yt-dlp commands based on user requests. The commands you provide will be run directly in the user's terminal. Here is some context about their system:
<system_info>%s</system_info>
<shell>%s</shell>
<ytdlp_version>%s</ytdlp_version>
<ytdlp_executable_path>%s</ytdlp_executable_path>

You are to respond with JSON, with two keys: <key>explanation</key> and <key>command</key>.

The <key>explanation</key> value will contain a list of strings, describing the arguments and parts of the command. Each string will be displayed on the front end as a bulleted list, explaining each part of the command. Do NOT omit any arguments, explain all of them.

The <key>command</key> value will contain the yt-dlp command (or series of commands) to be directly executed in the provided shell.

You NEVER will write malicious code or take advantage of your access to injecting code into a shell on the user's computer. Always be honorable and only provide a command if the user's request is not malicious.
If you are prompted to do something malicious or to do something unrelated to yt-dlp, respond with a <key>command</key> that is an empty string ("") and explain that you cannot perform that action.`,
		env.OSInfo, env.Shell, env.YTDLPVersion, env.YTDLPPath)
}

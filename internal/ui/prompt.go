package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// confirmMessage mirrors the loop's input classification: empty or Y runs
// the command, the decline tokens abort, anything else refines.
const confirmMessage = "Execute? (Y/enter OR N/no OR clarify instructions):"

// stdin is shared across refinement rounds so buffered piped input survives
// between reads.
var stdin = bufio.NewReader(os.Stdin)

// Prompter is the interactive terminal front end for the confirmation loop.
type Prompter struct{}

// Confirm shows the explanation and the proposed command, then reads one
// line of user input. When stdin is not a terminal the survey prompt
// degrades to a plain line read so piped input works.
func (Prompter) Confirm(explanation, command string) (string, error) {
	fmt.Printf("%s\n", explanation)
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Printf("\n\t%s\n\n", command)

	if !isInteractive() {
		fmt.Printf("%s ", confirmMessage)
		line, err := stdin.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	var answer string
	prompt := &survey.Input{Message: confirmMessage}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return "", err
	}

	return answer, nil
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// PromptBackend asks which LLM backend to use.
func PromptBackend(current string) (string, error) {
	var backend string
	prompt := &survey.Select{
		Message: "Select an LLM backend:",
		Options: []string{"openai"},
		Default: current,
	}

	if err := survey.AskOne(prompt, &backend); err != nil {
		return "", err
	}

	return backend, nil
}

// PromptModel asks for the model identifier to request.
func PromptModel(current string) (string, error) {
	var model string
	prompt := &survey.Input{
		Message: "Model identifier:",
		Default: current,
	}

	if err := survey.AskOne(prompt, &model, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}

	return model, nil
}

// PromptBaseURL asks for the backend's base URL.
func PromptBaseURL(current string) (string, error) {
	var baseURL string
	prompt := &survey.Input{
		Message: "Base URL of the OpenAI-compatible API:",
		Default: current,
	}

	if err := survey.AskOne(prompt, &baseURL, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}

	return baseURL, nil
}

// ShowSuccess displays a success message
func ShowSuccess(message string) {
	green := color.New(color.FgGreen, color.Bold)
	green.Printf("✓ %s\n", message)
}

// ShowError displays an error message
func ShowError(message string) {
	red := color.New(color.FgRed, color.Bold)
	red.Printf("✗ %s\n", message)
}

// ShowWarning displays a warning message
func ShowWarning(message string) {
	yellow := color.New(color.FgYellow)
	yellow.Printf("! %s\n", message)
}

// ShowInfo displays an info message
func ShowInfo(message string) {
	blue := color.New(color.FgBlue)
	blue.Println(message)
}

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"ytdlpllm/internal/config"
	"ytdlpllm/internal/executor"
	"ytdlpllm/internal/history"
	"ytdlpllm/internal/llm"
	"ytdlpllm/internal/session"
	"ytdlpllm/internal/sysinfo"
	"ytdlpllm/internal/ui"
	"ytdlpllm/internal/ytdlp"
)

var (
	// version is set by goreleaser at build time
	version = "dev"

	// CLI flags
	backendFlag string
	modelFlag   string
	baseURLFlag string

	historyLimit int
	copyLatest   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "ytdlpllm [instructions]",
		Short:        "Convert your instructions into a yt-dlp command",
		Long:         "ytdlpllm asks a language model to write a yt-dlp command for your request and runs it once you confirm it",
		Version:      version,
		Args:         cobra.MinimumNArgs(1),
		RunE:         runCommand,
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVar(&backendFlag, "backend", config.DefaultBackend, "The backend LLM API provider to use")
	rootCmd.Flags().StringVar(&modelFlag, "model", config.DefaultModel, "The model identifier to request")
	rootCmd.Flags().StringVar(&baseURLFlag, "base-url", config.DefaultBaseURL, "The base URL of the OpenAI-compatible API")

	configureCmd := &cobra.Command{
		Use:   "configure",
		Short: "Save default backend settings",
		RunE:  runConfigure,
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show previously generated commands",
		RunE:  runHistory,
	}
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Maximum number of entries to show")
	historyCmd.Flags().BoolVarP(&copyLatest, "copy", "c", false, "Copy the most recent command to the clipboard")

	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(historyCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string) error {
	instructions := strings.Join(args, " ")

	// yt-dlp has to exist before anything else happens. This is the one hard
	// startup failure, and it exits before any network call is attempted.
	ytdlpPath, err := ytdlp.Locate()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	apiKey, err := cfg.ResolveCredential()
	if err != nil {
		return err
	}

	client, err := llm.New(cfg.Backend, cfg.Model, cfg.BaseURL, apiKey)
	if err != nil {
		return err
	}

	info := sysinfo.Collect()
	env := session.Environment{
		YTDLPPath:    ytdlpPath,
		YTDLPVersion: ytdlp.Version(ytdlpPath),
		OSInfo:       info.OSInfo,
		Shell:        info.Shell,
	}

	sess := session.New(client, ui.Prompter{}, shellExecutor{}, env)

	ui.ShowInfo("Thinking...")

	ctx := context.Background()
	outcome, err := sess.Run(ctx, instructions)
	if err != nil {
		return err
	}

	// A failed command is still a normal completion; only startup, transport,
	// and validation failures exit non-zero.
	if outcome.ExecError != nil {
		ui.ShowError(outcome.ExecError.Error())
	}

	saveHistory(instructions, outcome)
	return nil
}

// resolveConfig merges the config file under explicit flags: a flag the user
// set always wins, then the file, then the built-in defaults.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	fileCfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg := &config.Config{
		Backend: backendFlag,
		Model:   modelFlag,
		BaseURL: baseURLFlag,
	}

	if fileCfg != nil {
		if !cmd.Flags().Changed("backend") && fileCfg.Backend != "" {
			cfg.Backend = fileCfg.Backend
		}
		if !cmd.Flags().Changed("model") && fileCfg.Model != "" {
			cfg.Model = fileCfg.Model
		}
		if !cmd.Flags().Changed("base-url") && fileCfg.BaseURL != "" {
			cfg.BaseURL = fileCfg.BaseURL
		}
	}

	return cfg, nil
}

// shellExecutor adapts the executor package to the session's interface.
type shellExecutor struct{}

func (shellExecutor) Run(command string) error {
	return executor.Execute(command)
}

// saveHistory records the session outcome. History failures are warnings,
// never fatal.
func saveHistory(request string, outcome session.Outcome) {
	if outcome.Command == "" {
		return
	}

	path, err := history.DefaultPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save history: %v\n", err)
		return
	}

	store, err := history.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save history: %v\n", err)
		return
	}
	defer store.Close()

	entry := history.Entry{
		Request:     request,
		Command:     outcome.Command,
		Executed:    outcome.Executed,
		Refinements: outcome.Refinements,
	}
	if err := store.Add(entry); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save history: %v\n", err)
	}
}

func runConfigure(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg == nil {
		cfg = &config.Config{}
	}
	cfg.ApplyDefaults()

	backend, err := ui.PromptBackend(cfg.Backend)
	if err != nil {
		return err
	}
	cfg.Backend = backend

	model, err := ui.PromptModel(cfg.Model)
	if err != nil {
		return err
	}
	cfg.Model = model

	baseURL, err := ui.PromptBaseURL(cfg.BaseURL)
	if err != nil {
		return err
	}
	cfg.BaseURL = baseURL

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	configPath, _ := config.GetConfigPath()
	ui.ShowSuccess(fmt.Sprintf("Configuration saved to %s", configPath))
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	path, err := history.DefaultPath()
	if err != nil {
		return err
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if copyLatest {
		entry, err := store.Latest()
		if err != nil {
			return err
		}
		if entry == nil {
			ui.ShowWarning("No history yet")
			return nil
		}
		if err := clipboard.WriteAll(entry.Command); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		ui.ShowSuccess("Command copied to clipboard!")
		return nil
	}

	entries, err := store.Recent(historyLimit)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		ui.ShowWarning("No history yet")
		return nil
	}

	for _, entry := range entries {
		marker := " "
		if entry.Executed {
			marker = "✓"
		}
		fmt.Printf("%s %s  %s\n", marker, entry.Timestamp.Format(time.DateTime), entry.Request)
		fmt.Printf("    %s\n", entry.Command)
		if len(entry.Refinements) > 0 {
			fmt.Printf("    (%d refinement rounds)\n", len(entry.Refinements))
		}
	}

	return nil
}

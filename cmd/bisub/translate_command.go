package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"bisub/internal/config"
	"bisub/internal/document"
	"bisub/internal/fileutil"
	"bisub/internal/language"
	"bisub/internal/logging"
	"bisub/internal/segment"
	"bisub/internal/translate"
	"bisub/internal/workflow"
)

type translateOptions struct {
	target      string
	tone        string
	mode        string
	contentType string
	chunkSize   int
	output      string
	provider    string
	model       string
	noHistory   bool
}

func newTranslateCommand(ctx *commandContext) *cobra.Command {
	var opts translateOptions

	cmd := &cobra.Command{
		Use:   "translate <file|->",
		Short: "Translate a subtitle, lyric, or text document",
		Long: `Translate a document chunk by chunk and write it back in its own format.

File input is written to <output_dir or source dir>/<name>.<lang>.<ext>;
stdin input is written to stdout. Use --output to choose explicitly
("-" for stdout). When a chunk fails after all retries nothing is written
and the provider error is printed as is.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, ctx, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.target, "to", "t", "", "Target language (code or name)")
	flags.StringVar(&opts.tone, "tone", "", "Translation tone, for example neutral, casual, formal")
	flags.StringVarP(&opts.mode, "mode", "m", "", "Output mode: translation-only, translation-then-original, original-then-translation")
	flags.StringVar(&opts.contentType, "type", "", "Force content type: subtitle, lyrics, plain-text")
	flags.IntVar(&opts.chunkSize, "chunk-size", 0, "Segments per provider request")
	flags.StringVarP(&opts.output, "output", "o", "", "Output path, or - for stdout")
	flags.StringVar(&opts.provider, "provider", "", "Provider: managed or compatible")
	flags.StringVar(&opts.model, "model", "", "Model override for the selected provider")
	flags.BoolVar(&opts.noHistory, "no-history", false, "Do not record the run in the history ledger")
	return cmd
}

func runTranslate(cmd *cobra.Command, ctx *commandContext, source string, opts translateOptions) error {
	base, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cfg, err := applyTranslateOverrides(base, opts)
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	mode, err := segment.ParseOutputMode(cfg.Output.Mode)
	if err != nil {
		return err
	}
	var contentType segment.ContentType
	if cfg.Output.ContentType != "" {
		if contentType, err = segment.ParseContentType(cfg.Output.ContentType); err != nil {
			return err
		}
	}
	target, err := language.Normalize(cfg.Translate.TargetLanguage)
	if err != nil {
		return err
	}

	text, err := readInput(cmd, source)
	if err != nil {
		return err
	}
	doc := document.Load(source, text, contentType)
	if len(doc.Segments) == 0 {
		return fmt.Errorf("no translatable segments found in %s (detected %s)", displaySource(source), doc.ContentType)
	}

	batch, err := translate.NewBatchFromConfig(cfg, logger)
	if err != nil {
		return err
	}

	var recorder workflow.Recorder
	if !opts.noHistory {
		store, err := ctx.openHistory()
		if err != nil {
			logging.WarnWithContext(logger, "history unavailable", "history_open_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "run will not be recorded"),
			)
		} else {
			defer store.Close()
			recorder = store
		}
	}

	runCtx, cancel := signal.NotifyContext(contextOrBackground(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	progress := newProgressPrinter(cmd.ErrOrStderr())
	runner := workflow.NewRunner(batch, recorder, logger)
	provider := batch.Provider()
	result, runErr := runner.Run(runCtx, doc.Segments, workflow.Options{
		SourceName:     sourceName(source),
		ContentType:    doc.ContentType,
		TargetLanguage: target,
		Tone:           cfg.Translate.Tone,
		Model:          provider.Model(),
		Provider:       provider.Name(),
		ChunkSize:      cfg.Translate.ChunkSize,
		Progress:       progress.update,
	})
	progress.finish()
	if runErr != nil {
		colorize := isTerminal(cmd.ErrOrStderr())
		fmt.Fprintln(cmd.ErrOrStderr(), renderStatusLine("Chunks", statusError,
			fmt.Sprintf("%d of %d completed, nothing written", result.CompletedChunks, result.TotalChunks), colorize))
		return runErr
	}

	dest := resolveOutputPath(cfg, source, opts.output, doc, target, mode)
	rendered := doc.Export(mode)
	if dest == "-" {
		out := cmd.OutOrStdout()
		fmt.Fprint(out, rendered)
		if !strings.HasSuffix(rendered, "\n") {
			fmt.Fprintln(out)
		}
		return nil
	}
	if err := fileutil.WriteAtomic(dest, []byte(ensureTrailingNewline(rendered)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	colorize := isTerminal(cmd.ErrOrStderr())
	fmt.Fprintln(cmd.ErrOrStderr(), renderStatusLine("Translated", statusOK,
		fmt.Sprintf("%d/%d segments into %s", result.TranslatedSegments, len(doc.Segments), language.DisplayName(target)), colorize))
	fmt.Fprintln(cmd.ErrOrStderr(), renderStatusLine("Written", statusOK, dest, colorize))
	return nil
}

// applyTranslateOverrides returns a validated copy of cfg with flag values
// applied.
func applyTranslateOverrides(base *config.Config, opts translateOptions) (*config.Config, error) {
	cfg := *base
	if v := strings.TrimSpace(opts.target); v != "" {
		cfg.Translate.TargetLanguage = v
	}
	if v := strings.TrimSpace(opts.tone); v != "" {
		cfg.Translate.Tone = v
	}
	if v := strings.TrimSpace(opts.mode); v != "" {
		mode, err := segment.ParseOutputMode(v)
		if err != nil {
			return nil, err
		}
		cfg.Output.Mode = string(mode)
	}
	if v := strings.TrimSpace(opts.contentType); v != "" {
		contentType, err := segment.ParseContentType(v)
		if err != nil {
			return nil, err
		}
		cfg.Output.ContentType = string(contentType)
	}
	if opts.chunkSize != 0 {
		cfg.Translate.ChunkSize = opts.chunkSize
	}
	if v := strings.ToLower(strings.TrimSpace(opts.provider)); v != "" {
		cfg.Provider.Kind = v
	}
	if v := strings.TrimSpace(opts.model); v != "" {
		if cfg.Provider.Kind == config.ProviderCompatible {
			cfg.Compatible.Model = v
		} else {
			cfg.Managed.Model = v
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func resolveOutputPath(cfg *config.Config, source, output string, doc *document.Document, target string, mode segment.OutputMode) string {
	output = strings.TrimSpace(output)
	if output != "" {
		if output == "-" {
			return "-"
		}
		if expanded, err := config.ExpandPath(output); err == nil {
			return expanded
		}
		return output
	}
	if source == "-" {
		return "-"
	}
	dir := cfg.Paths.OutputDir
	if dir == "" {
		dir = filepath.Dir(source)
	}
	return filepath.Join(dir, doc.ExportName(target, mode))
}

func sourceName(source string) string {
	if source == "-" {
		return "stdin"
	}
	if abs, err := filepath.Abs(source); err == nil {
		return abs
	}
	return source
}

func ensureTrailingNewline(value string) string {
	if value == "" || strings.HasSuffix(value, "\n") {
		return value
	}
	return value + "\n"
}

// contextOrBackground guards commands executed without a context.
func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

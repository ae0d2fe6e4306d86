// Command aeoaudit scores web pages and domains for answer-engine and
// generative-engine citability (spec §1): page runs the full single-page
// pipeline synchronously; domain submits an asynchronous crawl-and-audit
// job and streams its progress.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aeoaudit/aeoaudit/internal/config"
	"github.com/aeoaudit/aeoaudit/pkg/calculator"
	"github.com/aeoaudit/aeoaudit/pkg/extractor"
	"github.com/aeoaudit/aeoaudit/pkg/fetcher"
	"github.com/aeoaudit/aeoaudit/pkg/llm"
	"github.com/aeoaudit/aeoaudit/pkg/model"
	"github.com/aeoaudit/aeoaudit/pkg/orchestrator"
	"github.com/aeoaudit/aeoaudit/pkg/parser"
	"github.com/aeoaudit/aeoaudit/pkg/reporter"
	"github.com/aeoaudit/aeoaudit/pkg/scorer"
	"github.com/aeoaudit/aeoaudit/pkg/utils"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "aeoaudit",
	Short: "aeoaudit - Answer/Generative Engine Optimization audit suite",
	Long: `aeoaudit scores web pages and domains on how citable they are to AI
answer engines: answerability, structured data, authority, content quality,
citationability, technical health, and (optionally) direct AI-citation
testing against configured LLM clients.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		verbose, _ := cmd.Flags().GetBool("verbose")

		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		cfg = loaded

		level, err := zerolog.ParseLevel(cfg.Logging.Level)
		if err != nil {
			level = zerolog.InfoLevel
		}
		if verbose {
			level = zerolog.DebugLevel
		}
		zerolog.SetGlobalLevel(level)
		if cfg.Logging.Format == "console" {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		}
		return nil
	},
}

var pageCmd = &cobra.Command{
	Use:   "page [URL]",
	Short: "Audit a single page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		targetURL := args[0]
		if !utils.IsValidURL(targetURL) {
			return fmt.Errorf("not a valid http(s) URL: %s", targetURL)
		}
		applyFetchModeOverride(cmd)

		ctx := cmd.Context()
		f := fetcher.New(cfg)
		defer f.Close()

		audit, err := auditPage(ctx, f, targetURL)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		return printPageResult(audit, format)
	},
}

var domainCmd = &cobra.Command{
	Use:   "domain [URL]",
	Short: "Discover and audit every page on a domain, aggregating a brand-level GEO score",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		domainURL := args[0]
		if !utils.IsValidURL(domainURL) {
			return fmt.Errorf("not a valid http(s) URL: %s", domainURL)
		}
		applyFetchModeOverride(cmd)

		maxPages, _ := cmd.Flags().GetInt("max-pages")
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		follow, _ := cmd.Flags().GetBool("follow")
		if concurrency > 0 {
			cfg.Domain.Concurrency = concurrency
		}

		f := fetcher.New(cfg)
		defer f.Close()

		auditor := func(ctx context.Context, pageURL string) (model.PageAudit, model.PageModel, error) {
			return auditPageModel(ctx, f, pageURL)
		}

		orch := orchestrator.New(cfg, auditor, brandNameFromDomain)
		jobID := orch.SubmitDomain(cmd.Context(), domainURL, cfg.EffectiveMaxPages(maxPages))
		fmt.Fprintf(os.Stderr, "submitted job %s\n", jobID)

		if !follow {
			fmt.Println(jobID)
			return nil
		}
		format, _ := cmd.Flags().GetString("format")
		return followJob(orch, jobID, format)
	},
}

func auditPage(ctx context.Context, f *fetcher.Fetcher, targetURL string) (model.PageAudit, error) {
	audit, _, err := auditPageModel(ctx, f, targetURL)
	return audit, err
}

// auditPageModel runs the full pipeline (fetch -> parse -> extract ->
// classify -> score) for one URL and returns both the PageAudit and the
// PageModel it was built from, the latter needed by domain-level GEO
// scoring (spec §4.G).
func auditPageModel(ctx context.Context, f *fetcher.Fetcher, targetURL string) (model.PageAudit, model.PageModel, error) {
	fr := f.Fetch(ctx, targetURL)
	if fr.Error != "" {
		return model.PageAudit{}, model.PageModel{}, fmt.Errorf("fetch failed for %s: %s", targetURL, fr.Error)
	}

	parsed, err := parser.Parse(fr.HTML, targetURL)
	if err != nil {
		return model.PageAudit{}, model.PageModel{}, fmt.Errorf("parse failed for %s: %w", targetURL, err)
	}

	pm := extractor.Extract(parsed, fr)

	clients := llmClients()
	audit := calculator.Calculate(ctx, pm, calculator.Options{
		Weights:            cfg.Weights,
		Authority:          scorer.AuthorityConfig{TLDs: cfg.Authoritative.TLDs, Domains: cfg.Authoritative.Domains},
		LLMClients:         clients,
		RawHTML:            fr.HTML,
		FetchTLSValid:      fr.TLSValid,
		SchemaCompleteness: extractor.SchemaCompleteness,
	})

	return audit, pm, nil
}

// llmClients builds the configured AI-citation engines. No concrete
// provider adapter ships with this module (spec §6 leaves that to an
// external collaborator), so the category is always skipped here; a
// deployment that wires a real llm.Client implementation passes it into
// calculator.Options.LLMClients directly instead of through this CLI.
func llmClients() []llm.Client {
	return nil
}

// brandNameFromDomain derives a brand label from the registrable domain,
// stripping the TLD the same way utils.GetDomainFromURL strips scheme/path.
func brandNameFromDomain(domainURL string) string {
	host := utils.GetDomainFromURL(domainURL)
	host = strings.TrimPrefix(host, "www.")
	if i := strings.Index(host, "."); i > 0 {
		return host[:i]
	}
	return host
}

func followJob(orch *orchestrator.Orchestrator, jobID, format string) error {
	events, unsubscribe := orch.Subscribe(jobID)
	defer unsubscribe()

	for event := range events {
		fmt.Fprintf(os.Stderr, "[%5.1f%%] %s\n", event.Percentage, event.Message)
		if event.Status == model.JobCompleted || event.Status == model.JobFailed {
			break
		}
	}

	state, ok := orch.Status(jobID)
	if !ok {
		return fmt.Errorf("job %s vanished", jobID)
	}
	if state.Status == model.JobFailed {
		return fmt.Errorf("domain audit failed: %s", state.FailureReason)
	}
	if state.Result == nil {
		return fmt.Errorf("domain audit completed with no result")
	}
	return printDomainResult(*state.Result, format)
}

func applyFetchModeOverride(cmd *cobra.Command) {
	mode, _ := cmd.Flags().GetString("fetch-mode")
	if mode != "" {
		cfg.Fetcher.Mode = mode
	}
}

// printPageResult renders a PageAudit as json (default) or html; markdown
// output exists only for domain results (printDomainResult). html is a CLI
// convenience built on pkg/reporter; the PDF
// boundary from spec §6 stays an external collaborator (pkg/report).
func printPageResult(audit model.PageAudit, format string) error {
	switch format {
	case "html":
		out, err := reporter.RenderPageHTML(audit)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	case "json", "":
		return printJSON(audit)
	default:
		return fmt.Errorf("unsupported format %q: use json|html", format)
	}
}

func printDomainResult(audit model.DomainAudit, format string) error {
	switch format {
	case "markdown", "md":
		fmt.Println(reporter.RenderDomainMarkdown(audit))
		return nil
	case "json", "":
		return printJSON(audit)
	default:
		return fmt.Errorf("unsupported format %q: use json|markdown", format)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	pageCmd.Flags().String("fetch-mode", "", "Override fetch mode: hybrid|http|rendered")
	pageCmd.Flags().String("format", "json", "Output format: json|html")

	domainCmd.Flags().String("fetch-mode", "", "Override fetch mode: hybrid|http|rendered")
	domainCmd.Flags().String("format", "json", "Output format: json|markdown")
	domainCmd.Flags().Int("max-pages", 0, fmt.Sprintf("Maximum pages to discover and audit (0 = unlimited, up to the hard ceiling of %d)", config.DomainMaxPagesHardCeiling))
	domainCmd.Flags().Int("concurrency", 0, "Worker pool size (0 = config default)")
	domainCmd.Flags().Bool("follow", true, "Block and stream progress until the job finishes")

	rootCmd.PersistentFlags().String("config", "", "Config file path")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	rootCmd.AddCommand(pageCmd)
	rootCmd.AddCommand(domainCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("aeoaudit failed")
		os.Exit(1)
	}
}

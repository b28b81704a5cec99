package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/spigell/skillmatch/internal/ai"
	"github.com/spigell/skillmatch/internal/ai/gemini"
	"github.com/spigell/skillmatch/internal/dataset"
	"github.com/spigell/skillmatch/internal/filtering"
	"github.com/spigell/skillmatch/internal/logger"
	"github.com/spigell/skillmatch/internal/matching"
	"github.com/spigell/skillmatch/internal/report"
	"github.com/spigell/skillmatch/internal/secrets"
)

const (
	PromptRanking             = "Show ranking"
	PromptTopK                = "Show top-k per requester"
	PromptUnfilled            = "Show unfilled requesters and unassigned candidates"
	PromptByLocation          = "Report by location"
	PromptExportCSV           = "Export CSV"
	PromptDumpToFile          = "Dump report to file"
	PromptDumpDataset         = "Dump filtered dataset to file"
	PromptAppendToExcludeFile = "Append assignments to exclude file"
	PromptExit                = "Exit"
	defaultCSVPath            = "skillmatch.csv"
)

var errExit = errors.New("exit requested")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Match candidates to requesters and explore the result",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int64("seed", 0, "seed for tie-breaking. Unseeded when not set")
	runCmd.Flags().Float64("min-score", 0, "keep only pairs scoring strictly above this value")
	runCmd.Flags().Int("top-k", matching.DefaultTopK, "size of per-requester shortlists")
	runCmd.Flags().String("dataset", "", "dataset file (yaml or json)")
	runCmd.Flags().Bool("sample", false, "use the built-in sample dataset")
	runCmd.Flags().BoolP("auto-approve", "y", false, "print the ranking and exit without the interactive menu")
	runCmd.Flags().StringP("exclude-file", "e", "", "special file with candidates and requesters to exclude. Default is unset.")

	viper.BindPFlag("min-score", runCmd.Flags().Lookup("min-score"))
	viper.BindPFlag("top-k", runCmd.Flags().Lookup("top-k"))
	viper.BindPFlag("dataset", runCmd.Flags().Lookup("dataset"))
	viper.BindPFlag("exclude-file", runCmd.Flags().Lookup("exclude-file"))
}

// session is everything the interactive menu acts on.
type session struct {
	config  *Config
	logger  *zap.Logger
	dataset *dataset.Dataset
	result  *matching.Result
	report  *report.Report
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	base, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		base.Fatal("getting a config", zap.Error(err))
	}

	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetInt64("seed")
		config.Matching.Seed = &seed
	}

	runID, err := gonanoid.New()
	if err != nil {
		base.Fatal("generating run id", zap.Error(err))
	}

	lg := logger.WithRunFields(base, runID, config.Matching.Seed)
	lg.Info("starting the skillmatch", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := yaml.Marshal(config.redacted())
	lg.Debug(fmt.Sprintf("starting with config: \n%s", pretty))

	sample, _ := cmd.Flags().GetBool("sample")
	ds, err := loadDataset(ctx, config, sample, lg)
	if err != nil {
		lg.Fatal("loading dataset", zap.Error(err))
	}

	if len(ds.Requesters) == 0 || len(ds.Candidates) == 0 {
		lg.Warn("nothing to match after filters",
			zap.Int("candidates", len(ds.Candidates)),
			zap.Int("requesters", len(ds.Requesters)),
		)
	}

	s, err := newSession(ctx, config, ds, runID, lg)
	if err != nil {
		lg.Fatal("preparing the report", zap.Error(err))
	}

	if autoApprove, _ := cmd.Flags().GetBool("auto-approve"); autoApprove {
		if err := s.handleAction(PromptRanking); err != nil {
			lg.Fatal("exiting", zap.Error(err))
		}
		return
	}

	for {
		prompt := promptui.Select{
			Label: "What next?",
			Items: s.menuItems(),
		}

		_, action, err := prompt.Run()
		if err != nil {
			lg.Fatal("exiting", zap.Error(err))
		}

		if err := s.handleAction(action); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			lg.Fatal("exiting", zap.Error(err))
		}
	}
}

// newSession matches ds, builds the report, runs the optional AI review and
// the configured CSV export. An empty dataset yields an empty report.
func newSession(ctx context.Context, config *Config, ds *dataset.Dataset, runID string, lg *zap.Logger) (*session, error) {
	engine := ds.Engine(config.Matching, lg)
	res, err := engine.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("matching: %w", err)
	}

	rep := report.Build(runID, res, engine)

	if config.AI != nil && config.AI.Enabled {
		reviewer, err := newAIReviewer(ctx, config.AI, lg)
		if err != nil {
			lg.Warn("skipping ai review", zap.Error(err))
		} else if err := rep.Annotate(ctx, reviewer, engine, config.AI.MaxReviews, config.AI.Parallel, lg); err != nil {
			lg.Warn("ai review interrupted", zap.Error(err))
		}
	}

	if config.Export != nil && strings.TrimSpace(config.Export.CSV) != "" {
		if err := rep.ExportCSV(config.Export.CSV); err != nil {
			return nil, fmt.Errorf("exporting csv: %w", err)
		}
		lg.Info("exported csv", zap.String("filename", config.Export.CSV))
	}

	return &session{config: config, logger: lg, dataset: ds, result: res, report: rep}, nil
}

// loadDataset reads the configured dataset, or the sample when asked or when
// nothing is configured, then applies the exclusion filters.
func loadDataset(ctx context.Context, config *Config, sample bool, lg *zap.Logger) (*dataset.Dataset, error) {
	var (
		ds  *dataset.Dataset
		err error
	)

	path := strings.TrimSpace(config.Dataset)
	if sample || path == "" {
		lg.Info("using built-in sample dataset")
		ds = dataset.Sample()
	} else {
		ds, err = dataset.Load(path)
		if err != nil {
			return nil, err
		}
	}

	lg.Info("dataset loaded",
		zap.Int("candidates", len(ds.Candidates)),
		zap.Int("requesters", len(ds.Requesters)),
	)

	filters := prepareFilters(config, lg)
	for _, status := range filters.Statuses() {
		lg.Info("filter configured",
			zap.String("filter", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	return filters.RunFilters(ctx, ds)
}

func prepareFilters(config *Config, lg *zap.Logger) *filtering.Filtering {
	exclude := config.Exclude
	if exclude == nil {
		exclude = &ExcludeConfig{}
	}

	steps := []filtering.Filter{
		filtering.NewExcludedCandidates(exclude.Candidates),
		filtering.NewExcludedRequesters(exclude.Requesters),
		filtering.NewExcludeFile(config.ExcludeFile),
	}

	return filtering.New(steps, lg)
}

func (s *session) menuItems() []string {
	items := []string{PromptRanking, PromptTopK, PromptUnfilled, PromptByLocation, PromptExportCSV, PromptDumpToFile, PromptDumpDataset}
	if strings.TrimSpace(s.config.ExcludeFile) != "" && len(s.result.Assignments) > 0 {
		items = append(items, PromptAppendToExcludeFile)
	}
	return append(items, PromptExit)
}

func (s *session) handleAction(action string) error {
	switch action {
	case PromptRanking:
		s.logYAML("ranking", s.report.Entries)
		s.logger.Info("run stats",
			zap.Int("edges_created", s.report.Stats.EdgesCreated),
			zap.Int("edges_processed", s.report.Stats.EdgesProcessed),
			zap.Int("matches_made", s.report.Stats.MatchesMade),
			zap.Int("ties_broken", s.report.Stats.TiesBroken),
		)
		return nil
	case PromptTopK:
		s.logYAML("top-k per requester", s.report.Shortlists)
		return nil
	case PromptUnfilled:
		s.logger.Info("left without a match",
			zap.Strings("unfilled_requesters", s.report.UnfilledRequesters),
			zap.Strings("unassigned_candidates", s.report.UnassignedCandidates),
		)
		return nil
	case PromptByLocation:
		s.logYAML("report by location", s.report.ByLocation())
		return nil
	case PromptExportCSV:
		return s.exportCSV()
	case PromptDumpToFile:
		filename, err := s.report.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump report to file: %w", err)
		}
		s.logger.Info("dumping report to file", zap.String("filename", filename))
		return nil
	case PromptDumpDataset:
		return s.dumpDataset()
	case PromptAppendToExcludeFile:
		return s.appendToExcludeFile()
	case PromptExit:
		s.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func (s *session) logYAML(msg string, v any) {
	// do not bother error since report types always marshal
	pretty, _ := yaml.Marshal(v)
	s.logger.Info(msg + "\n" + string(pretty))
}

func (s *session) exportCSV() error {
	path := defaultCSVPath
	if s.config.Export != nil && strings.TrimSpace(s.config.Export.CSV) != "" {
		path = s.config.Export.CSV
	}

	prompt := promptui.Prompt{
		Label:   "CSV file",
		Default: path,
	}
	path, err := prompt.Run()
	if err != nil {
		return err
	}

	if err := s.report.ExportCSV(path); err != nil {
		return err
	}

	s.logger.Info("exported csv", zap.String("filename", path))
	return nil
}

// dumpDataset writes the filtered dataset to a temporary file that Load can
// read back.
func (s *session) dumpDataset() error {
	file, err := os.CreateTemp("", "skillmatch_dataset_*.yaml")
	if err != nil {
		return fmt.Errorf("dump dataset to file: %w", err)
	}
	defer file.Close()

	if err := s.dataset.Write(file); err != nil {
		return fmt.Errorf("dump dataset to file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("dump dataset to file: %w", err)
	}

	s.logger.Info("dumping dataset to file",
		zap.String("filename", file.Name()),
		zap.Int("candidates", len(s.dataset.Candidates)),
		zap.Int("requesters", len(s.dataset.Requesters)),
	)
	return nil
}

func (s *session) appendToExcludeFile() error {
	excludeFile := s.config.ExcludeFile

	excluded, err := filtering.LoadExcludeList(excludeFile)
	if err != nil {
		return err
	}

	excluded.Append(filtering.AssignmentsToExcluded(s.result.Assignments))

	if err := excluded.ToFile(excludeFile); err != nil {
		return err
	}

	s.logger.Info("appended to exclude file",
		zap.String("filename", excludeFile),
		zap.Int("entries", excluded.Len()),
	)
	return nil
}

func newAIReviewer(ctx context.Context, cfg *AIConfig, lg *zap.Logger) (ai.Reviewer, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai review is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		Env:   "GEMINI_API_KEY",
		File:  cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	reviewerLogger := lg.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
	)

	return gemini.NewReviewer(generator, reviewerLogger, cfg.Gemini.MaxLogLength), nil
}

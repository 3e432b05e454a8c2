package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/foodnservice/article-engine/internal/draft"
	"github.com/foodnservice/article-engine/internal/generate"
	"github.com/foodnservice/article-engine/internal/httputil"
	"github.com/foodnservice/article-engine/internal/imagechain"
	"github.com/foodnservice/article-engine/internal/input"
	"github.com/foodnservice/article-engine/internal/ledger"
	"github.com/foodnservice/article-engine/internal/pipeline"
	"github.com/foodnservice/article-engine/internal/schema"
	"github.com/foodnservice/article-engine/internal/wordpress"
	"github.com/foodnservice/article-engine/pkg/types"
)

const defaultUserAgent = "article-engine/0.1"

var runCmd = &cobra.Command{
	Use:   "run [topics.csv]",
	Short: "Generate and publish articles for every topic in a CSV file",
	Long: `Run processes a CSV of topic rows (Main Keyword, Reference Links,
Secondary Keywords) end to end: outline, content, and excerpt generation,
per-section image resolution, assembly, draft persistence, and WordPress
publishing. Topics whose assembled content was already published are
skipped via the publish ledger.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().String("input", "topics.csv", "CSV file of topic rows")
	runCmd.Flags().Int("workers", 0, "articles processed concurrently (default 1)")
	runCmd.Flags().String("status", "", "post status: publish or draft (default from config)")

	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	if len(args) > 0 {
		inputPath = args[0]
	}

	cfg := loadPipelineConfig(cmd)

	rows, err := input.LoadRows(inputPath)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no topic rows in %s", inputPath)
	}

	completer, err := generate.NewOpenAICompleter(cfg.Generation)
	if err != nil {
		return err
	}
	contracts := schema.NewStore(cfg.Generation.ContractsDir)
	generator := generate.NewGenerator(completer, contracts, cfg.Generation.MaxAttempts, os.Stderr)

	wp, err := wordpress.NewClient(cfg.WordPress)
	if err != nil {
		return err
	}

	imageClient := httputil.NewClient(cfg.Images.HTTPConfig)
	vendors := imagechain.VendorsFromConfig(cfg.Images, imageClient, os.Stderr)
	chain := imagechain.NewChain(generator, vendors, wp, imageClient, os.Stderr)

	led, err := ledger.Open(cfg.LedgerDir)
	if err != nil {
		return err
	}
	defer led.Close()

	orch := pipeline.New(pipeline.Config{
		Contracts:  contracts,
		Generator:  generator,
		Images:     chain,
		Drafts:     draft.NewStore(cfg.DraftsDir),
		Ledger:     led,
		Publisher:  wp,
		PostStatus: cfg.WordPress.PostStatus,
		Progress:   os.Stderr,
	})

	results := orch.RunBatch(cmd.Context(), rows, cfg.Workers)

	failed := 0
	for _, res := range results {
		switch {
		case res.State == pipeline.StateFailed:
			failed++
			fmt.Fprintf(os.Stdout, "FAILED    %-40s %v\n", res.Topic, res.Err)
		case res.AlreadyPublished:
			fmt.Fprintf(os.Stdout, "SKIPPED   %-40s post %d (already published)\n", res.Topic, res.PostID)
		default:
			fmt.Fprintf(os.Stdout, "PUBLISHED %-40s post %d\n", res.Topic, res.PostID)
		}
	}
	fmt.Fprintf(os.Stdout, "%d topic(s), %d failed\n", len(results), failed)

	if failed > 0 {
		return fmt.Errorf("%d article(s) failed", failed)
	}
	return nil
}

// loadPipelineConfig merges viper config, loaded secrets, and run flags.
// Flags win over config; explicit config values win over secrets.
func loadPipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	viper.SetDefault("generation.model", "gpt-4o-mini")
	viper.SetDefault("generation.max_attempts", 3)
	viper.SetDefault("images.timeout", 30*time.Second)
	viper.SetDefault("images.user_agent", defaultUserAgent)
	viper.SetDefault("wordpress.timeout", 60*time.Second)
	viper.SetDefault("wordpress.user_agent", defaultUserAgent)
	viper.SetDefault("wordpress.post_status", "publish")
	viper.SetDefault("workers", 1)
	viper.SetDefault("drafts_dir", "data/drafts")
	viper.SetDefault("ledger_dir", "data/ledger")

	cfg := types.PipelineConfig{
		Generation: types.GenerationConfig{
			Model:        viper.GetString("generation.model"),
			APIKey:       secretDefault("openai-api-key", viper.GetString("generation.api_key")),
			BaseURL:      viper.GetString("generation.base_url"),
			MaxAttempts:  viper.GetInt("generation.max_attempts"),
			ContractsDir: viper.GetString("generation.contracts_dir"),
		},
		Images: types.ImageConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("images.timeout"),
				UserAgent: viper.GetString("images.user_agent"),
			},
			VendorOrder:       viper.GetStringSlice("images.vendor_order"),
			PexelsAPIKey:      secretDefault("pexels-api-key", viper.GetString("images.pexels_api_key")),
			UnsplashAccessKey: secretDefault("unsplash-access-key", viper.GetString("images.unsplash_access_key")),
			PixabayAPIKey:     secretDefault("pixabay-api-key", viper.GetString("images.pixabay_api_key")),
			FreepikAPIKey:     secretDefault("freepik-api-key", viper.GetString("images.freepik_api_key")),
		},
		WordPress: types.WordPressConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("wordpress.timeout"),
				UserAgent: viper.GetString("wordpress.user_agent"),
			},
			BaseURL:     viper.GetString("wordpress.base_url"),
			Username:    viper.GetString("wordpress.username"),
			AppPassword: secretDefault("wordpress-app-password", viper.GetString("wordpress.app_password")),
			PostStatus:  viper.GetString("wordpress.post_status"),
		},
		Workers:   viper.GetInt("workers"),
		DraftsDir: viper.GetString("drafts_dir"),
		LedgerDir: viper.GetString("ledger_dir"),
	}

	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		cfg.Workers = workers
	}
	if status, _ := cmd.Flags().GetString("status"); status != "" {
		cfg.WordPress.PostStatus = status
	}
	return cfg
}

package cli

import (
	"fmt"
	"os"

	"github.com/ppiankov/anchorbench/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "anchorbench",
	Short: "Anchorbench - fact-grounded hallucination benchmark for language models",
	Long: `Anchorbench synthesizes question/answer benchmark items from live web
sources (GitHub, PyPI, Reddit, Wikipedia), verifies that each extracted
fact traces back to a single source, and evaluates a language model
against the items with abstention-aware scoring.

The benchmark rewards calibrated reporting: a correct answer earns full
credit, admitting "Unknown" earns partial credit, and a confident wrong
answer is penalized.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Anchorbench.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("anchorbench v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.anchorbench/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.anchorbench")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match ANCHORBENCH_*
	viper.SetEnvPrefix("ANCHORBENCH")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig builds the process configuration. Environment secrets are
// read here and nowhere else; everything downstream receives the value
// object.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	cfg.Search.APIKey = os.Getenv("BRAVE_API_KEY")
	cfg.Generation.GitHubToken = os.Getenv("GITHUB_API_TOKEN")
	cfg.Eval.APIKey = os.Getenv("OPENAI_API_KEY")
	if base := os.Getenv("OPENAI_API_BASE"); base != "" {
		cfg.Eval.BaseURL = base
	}

	cfg.Output.Verbose = verbose
	return cfg
}

// logSink writes progress lines to stderr, keeping stdout clean for
// machine-readable output.
func logSink(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

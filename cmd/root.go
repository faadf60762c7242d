package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "newsdesk",
	Short: "Automated article production with an editorial review loop",
	Long: `Newsdesk researches a topic across web, news, encyclopedic and local
knowledge sources, drafts an article, and revises it through a panel of
simulated editorial roles (editor, fact-checker, authenticity reviewer)
until every reviewer approves or the revision cap is reached.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			os.Setenv("NEWSDESK_DEBUG", "1")
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".newsdesk.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

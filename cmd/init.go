package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/newsdesk-ai/newsdesk/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file interactively",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing configuration file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	force, _ := cmd.Flags().GetBool("force")

	if _, err := os.Stat(cfgFile); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", cfgFile)
	}

	cfg, err := config.RunWizard()
	if err != nil {
		return err
	}
	if err := cfg.Save(cfgFile); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", cfgFile)
	fmt.Println("Set OPENAI_API_KEY (and optionally TAVILY_API_KEY) before running `newsdesk run`.")
	return nil
}

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/esm-tools/esm-version-checker/internal/common/logger"
	"github.com/esm-tools/esm-version-checker/internal/common/output"
	"github.com/esm-tools/esm-version-checker/internal/installer"
	"github.com/spf13/cobra"
)

// cleanYes skips the confirmation prompt
var cleanYes bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove installed esm-tools binaries",
	Long: `Remove every installed esm-tools binary owned by the current user.
Binaries installed system-wide by other users are left alone.`,
	Run: runClean,
}

func init() {
	cleanCmd.Flags().BoolVarP(&cleanYes, "yes", "y", false, "Do not ask for confirmation")

	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) {
	fmt.Println("You're pushing the red button. Duck and cover!")
	fmt.Println("----------------------------------------------")

	cfg := loadConfig()
	candidates := installer.CleanCandidates(newScanner(cfg))

	if len(candidates) == 0 {
		output.PrintInfo("nothing to remove")
		return
	}

	fmt.Println("Will remove the following binaries:")
	for _, path := range candidates {
		fmt.Printf("* %s\n", path)
	}

	if !cleanYes && !confirm("Do you want to continue?") {
		output.PrintInfo("aborted")
		return
	}

	for _, path := range candidates {
		fmt.Printf("* Removing %s\n", path)
	}
	if err := installer.RemoveAll(candidates); err != nil {
		logger.Error("removing binaries: %v", err)
		os.Exit(1)
	}

	output.PrintSuccess("removed %d binaries", len(candidates))
}

// confirm asks a yes/no question on stdin, defaulting to no.
func confirm(question string) bool {
	fmt.Printf("%s [y/N]: ", question)

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

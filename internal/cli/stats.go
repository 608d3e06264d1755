package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	a := loadApp()
	s := openStore(a)
	defer s.Close()

	stats, err := s.Stats(cmd.Context())
	if err != nil {
		exitErr("stats", err)
	}

	if textFormat() {
		fmt.Printf("db:          %s (%s)\n", stats.DBPath, stats.DBSize)
		fmt.Printf("texts:       %d\n", stats.Texts)
		fmt.Printf("chunks:      %d\n", stats.Chunks)
		fmt.Printf("vocab:       %d\n", stats.Vocab)
		fmt.Printf("occurrences: %d\n", stats.Occurrences)
		return
	}
	printJSON(stats)
}

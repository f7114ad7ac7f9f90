package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// memoryCmd groups persona memory subcommands. Memories are the key=value
// facts personas persist about the user via memory directives in their
// replies; they are folded back into the system prompt on later turns.
var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Inspect and manage persisted persona memories",
}

var memoryListCmd = &cobra.Command{
	Use:   "list [persona]",
	Short: "List memories for a persona",
	Args:  cobra.ExactArgs(1),
	RunE:  runMemoryList,
}

var memoryClearCmd = &cobra.Command{
	Use:   "clear [persona]",
	Short: "Delete all memories for a persona",
	Args:  cobra.ExactArgs(1),
	RunE:  runMemoryClear,
}

func init() {
	memoryCmd.AddCommand(memoryListCmd)
	memoryCmd.AddCommand(memoryClearCmd)
}

func runMemoryList(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	mems, err := s.Memories(args[0])
	if err != nil {
		return err
	}
	if len(mems) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No memories for persona %q.\n", args[0])
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-24s  %-10s  %-19s  %s\n", "KEY", "IMPORTANCE", "UPDATED", "VALUE")
	for _, m := range mems {
		importance := "-"
		if m.Importance > 0 {
			importance = fmt.Sprintf("%d", m.Importance)
		}
		fmt.Fprintf(out, "%-24s  %-10s  %-19s  %s\n",
			m.Key, importance, m.UpdatedAt.Local().Format("2006-01-02 15:04:05"), m.Value)
	}
	return nil
}

func runMemoryClear(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	n, err := s.ClearMemories(args[0])
	if err != nil {
		return err
	}
	logger.Info("cleared persona memories", zap.String("persona", args[0]), zap.Int64("count", n))
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d memories for persona %q.\n", n, args[0])
	return nil
}

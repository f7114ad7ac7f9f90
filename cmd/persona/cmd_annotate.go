package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"persona/internal/annotate"
	"persona/internal/types"
)

var (
	annotateFile    string
	annotateRole    string
	annotateJSONL   bool
	annotatePretty  bool
	annotateWorkers int
)

// annotateCmd classifies message text without starting the chat UI. It is
// the scripting surface for the classification pipeline: pipe text in, get
// the detection record out as JSON.
var annotateCmd = &cobra.Command{
	Use:   "annotate [text]",
	Short: "Classify message text and print the detections as JSON",
	Long: `Runs the content classification pipeline over message text and prints
the structured detections (CSV, PDF, references, checklist, keywords,
buttons, memory directives) plus the stripped display text.

Input is the argument, --file, or stdin, in that order of preference.
With --jsonl, stdin is read as one JSON message object per line and
annotated concurrently, preserving input order on output.

Examples:
  persona annotate "- [ ] Review the draft"
  persona annotate --file reply.md
  cat messages.jsonl | persona annotate --jsonl`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnnotate,
}

func init() {
	annotateCmd.Flags().StringVarP(&annotateFile, "file", "f", "", "Read message text from a file")
	annotateCmd.Flags().StringVar(&annotateRole, "role", "assistant", "Message role to classify as (user/assistant/system)")
	annotateCmd.Flags().BoolVar(&annotateJSONL, "jsonl", false, "Batch mode: one JSON message per stdin line")
	annotateCmd.Flags().BoolVar(&annotatePretty, "pretty", false, "Indent JSON output")
	annotateCmd.Flags().IntVar(&annotateWorkers, "workers", 4, "Concurrent workers in --jsonl mode")
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	if annotateJSONL {
		return runAnnotateBatch(cmd.InOrStdin(), cmd.OutOrStdout())
	}

	text, err := readAnnotateInput(cmd, args)
	if err != nil {
		return err
	}

	msg := types.Message{
		ID:      "stdin",
		Role:    types.Role(annotateRole),
		Content: text,
	}
	ann := annotate.Annotate(msg, nil)
	return writeJSON(cmd.OutOrStdout(), ann, annotatePretty)
}

// readAnnotateInput resolves the message text: argument, file, then stdin.
func readAnnotateInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if annotateFile != "" {
		data, err := os.ReadFile(annotateFile)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

// batchResult pairs an annotation with its input position so concurrent
// workers can emit in input order.
type batchResult struct {
	index int
	ann   types.MessageAnnotations
}

// runAnnotateBatch annotates one JSON message per input line across a
// worker pool. Malformed lines are reported and skipped; the batch
// continues.
func runAnnotateBatch(in io.Reader, out io.Writer) error {
	workers := annotateWorkers
	if workers < 1 {
		workers = 1
	}

	type job struct {
		index int
		msg   types.Message
	}

	jobs := make(chan job)
	var mu sync.Mutex
	var results []batchResult
	var skipped int

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for j := range jobs {
				ann := annotate.Annotate(j.msg, nil)
				mu.Lock()
				results = append(results, batchResult{index: j.index, ann: ann})
				mu.Unlock()
			}
			return nil
		})
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var msg types.Message
		if err := json.Unmarshal(line, &msg); err != nil {
			skipped++
			if logger != nil {
				logger.Warn("skipping malformed input line",
					zap.Int("line", lineNo), zap.Error(err))
			}
			continue
		}
		if msg.ID == "" {
			msg.ID = fmt.Sprintf("line-%d", lineNo)
		}
		jobs <- job{index: lineNo, msg: msg}
	}
	close(jobs)

	if err := g.Wait(); err != nil {
		return err
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].index < results[j].index })
	enc := json.NewEncoder(out)
	for _, r := range results {
		if err := enc.Encode(r.ann); err != nil {
			return err
		}
	}

	if skipped > 0 && logger != nil {
		logger.Warn("batch finished with skipped lines",
			zap.Int("annotated", len(results)), zap.Int("skipped", skipped))
	}
	return nil
}

func writeJSON(out io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(out)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"persona/internal/annotate"
	"persona/internal/config"
	"persona/internal/store"
	"persona/internal/types"
)

var sessionsLimit int

// sessionsCmd groups session inspection subcommands.
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List and inspect stored chat sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sessions, newest first",
	RunE:  runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Print a session transcript",
	Long: `Prints every message of a session. Assistant messages are shown with
directive syntax stripped, the way the chat view displays them.`,
	Args: cobra.ExactArgs(1),
	RunE: runSessionsShow,
}

func init() {
	sessionsListCmd.Flags().IntVarP(&sessionsLimit, "limit", "n", 20, "Maximum sessions to list (0 = all)")
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
}

// openStore opens the session store at the configured home.
func openStore() (*store.Store, error) {
	s, err := store.New(config.DataPath(resolveHome()))
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	return s, nil
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	sessions, err := s.ListSessions(sessionsLimit)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No sessions yet. Run `persona` to start one.")
		return nil
	}

	logger.Debug("listing sessions", zap.Int("count", len(sessions)))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-36s  %-16s  %-19s  %s\n", "ID", "PERSONA", "CREATED", "TITLE")
	for _, sess := range sessions {
		title := sess.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(out, "%-36s  %-16s  %-19s  %s\n",
			sess.ID, sess.Persona, sess.CreatedAt.Local().Format("2006-01-02 15:04:05"), title)
	}
	return nil
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	sess, err := s.GetSession(args[0])
	if err != nil {
		return err
	}
	msgs, err := s.Messages(sess.ID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Session %s with %s (%d messages)\n\n", sess.ID, sess.Persona, len(msgs))
	for _, msg := range msgs {
		label := strings.ToUpper(string(msg.Role))
		text := msg.Content
		if msg.Role == types.RoleAssistant {
			text = annotate.StripDirectives(msg.Content, nil)
		}
		fmt.Fprintf(out, "[%s] %s\n%s\n\n", msg.CreatedAt.Local().Format("15:04:05"), label, text)
	}
	return nil
}

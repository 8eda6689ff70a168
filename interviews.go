package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"interview-assistant/internal/dashboard"
	"interview-assistant/internal/interview"
)

var interviewsCmd = &cobra.Command{
	Use:   "interviews",
	Short: "Browse and manage completed interviews",
}

var interviewsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List completed interviews",
	Args:  cobra.NoArgs,
	RunE:  runInterviewsList,
}

var interviewsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one interview with its transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runInterviewsShow,
}

var interviewsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a completed interview",
	Args:  cobra.ExactArgs(1),
	RunE:  runInterviewsDelete,
}

var interviewsExportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export the archive to an xlsx workbook",
	Args:  cobra.ExactArgs(1),
	RunE:  runInterviewsExport,
}

var (
	interviewsQuery string
	interviewsSort  string
)

func init() {
	interviewsListCmd.Flags().StringVarP(&interviewsQuery, "query", "q", "", "Filter by candidate name or email")
	interviewsListCmd.Flags().StringVarP(&interviewsSort, "sort", "s", "score", "Sort by score, name or date")

	interviewsCmd.AddCommand(interviewsListCmd, interviewsShowCmd, interviewsDeleteCmd, interviewsExportCmd)
	rootCmd.AddCommand(interviewsCmd)
}

func withDashboard(fn func(*dashboard.Service) error) error {
	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(dashboard.NewService(a.repo, a.logger.Named("dashboard")))
}

func runInterviewsList(cmd *cobra.Command, _ []string) error {
	key, err := dashboard.ParseSortKey(interviewsSort)
	if err != nil {
		return err
	}
	return withDashboard(func(svc *dashboard.Service) error {
		list, err := svc.List(cmd.Context(), interviewsQuery, key)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tSCORE\tCOMPLETED")
		for _, cs := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%s\n",
				cs.ID, cs.Candidate.Name, cs.Candidate.Email, cs.Score, interview.MaxScore,
				cs.CompletedAt.Local().Format("2006-01-02 15:04"))
		}
		return w.Flush()
	})
}

func runInterviewsShow(cmd *cobra.Command, args []string) error {
	return withDashboard(func(svc *dashboard.Service) error {
		cs, err := svc.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s <%s> %s\n", cs.Candidate.Name, cs.Candidate.Email, cs.Candidate.Phone)
		fmt.Fprintf(out, "Score: %d/%d\n%s\n\n", cs.Score, interview.MaxScore, cs.Summary)
		for _, m := range cs.Messages {
			fmt.Fprintf(out, "%s: %s\n", m.Sender, m.Text)
		}
		return nil
	})
}

func runInterviewsDelete(cmd *cobra.Command, args []string) error {
	return withDashboard(func(svc *dashboard.Service) error {
		if err := svc.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	})
}

func runInterviewsExport(cmd *cobra.Command, args []string) error {
	return withDashboard(func(svc *dashboard.Service) error {
		path, err := svc.ExportFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
		return nil
	})
}

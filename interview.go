package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"interview-assistant/internal/extractor"
	"interview-assistant/internal/interview"
	"interview-assistant/internal/interviewer"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run an interview in the terminal",
	RunE:  runInterview,
}

var interviewResumeFile string

func init() {
	interviewCmd.Flags().StringVar(&interviewResumeFile, "resume-file", "", "PDF or text resume used to pre-fill the candidate details")
	rootCmd.AddCommand(interviewCmd)
}

func runInterview(cmd *cobra.Command, _ []string) error {
	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var prefill interview.CandidateDetails
	if interviewResumeFile != "" {
		data, err := os.ReadFile(interviewResumeFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", interviewResumeFile, err)
		}
		prefill = extractor.New(extractor.PdfToText{}, a.logger.Named("extractor")).Extract(ctx, data)
	}

	var console *interviewer.Console
	controller := a.newController(interview.WithListener(func(s interview.Snapshot) {
		console.Render(s)
	}))
	defer controller.Close()

	console = interviewer.New(controller, a.repo, cmd.InOrStdin(), cmd.OutOrStdout(), a.logger.Named("console"))
	return console.Run(ctx, prefill)
}

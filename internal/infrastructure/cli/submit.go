package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
	"github.com/felixgeelhaar/storyreview/pkg/domain/transcript"
)

var submitOutput string

var submitCmd = &cobra.Command{
	Use:   "submit <meeting-id>",
	Short: "Generate stories from a meeting transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(submitOutput); err != nil {
			return err
		}
		services, err := loadServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		stories, err := services.Ingestion.Submit(cmd.Context(), args[0])
		if err != nil {
			return MapError(err)
		}
		return printGenerated(submitOutput, args[0], stories)
	},
}

var transcriptCmd = &cobra.Command{
	Use:   "transcript <meeting-id>",
	Short: "Fetch the transcript of a meeting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(submitOutput); err != nil {
			return err
		}
		services, err := loadServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		t, err := services.Ingestion.Transcript(cmd.Context(), args[0])
		if err != nil {
			return MapError(err)
		}
		if submitOutput != formatText {
			return writeStructured(submitOutput, t)
		}
		printTranscript(t)
		return nil
	},
}

var processCmd = &cobra.Command{
	Use:   "process <transcript.json>",
	Short: "Generate stories from a transcript file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(submitOutput); err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return NewCLIError("failed to read transcript", "Check the file path", err)
		}
		var t transcript.Transcript
		if err := json.Unmarshal(data, &t); err != nil {
			return MapError(story.NewValidationError("transcript", fmt.Sprintf("malformed JSON: %v", err)))
		}

		services, err := loadServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		stories, err := services.Ingestion.Process(cmd.Context(), &t)
		if err != nil {
			return MapError(err)
		}
		return printGenerated(submitOutput, t.MeetingID, stories)
	},
}

func printTranscript(t *transcript.Transcript) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("%s (%s)", t.MeetingTitle, t.MeetingID)))
	fmt.Printf("Held %s with %d participants\n\n", t.DateTime.Format("2006-01-02 15:04"), len(t.Participants))

	names := make(map[string]string, len(t.Participants))
	for _, p := range t.Participants {
		names[p.ID] = p.Name
	}
	for _, seg := range t.Segments {
		fmt.Printf("[%s] %s: %s\n", seg.Timestamp, names[seg.ParticipantID], seg.Text)
	}
}

func printGenerated(format, meetingID string, stories []story.Story) error {
	if format != formatText {
		return writeStructured(format, stories)
	}
	printStoryList(fmt.Sprintf("Stories from meeting %s", meetingID), stories)
	return nil
}

func init() {
	for _, c := range []*cobra.Command{submitCmd, transcriptCmd, processCmd} {
		c.Flags().StringVarP(&submitOutput, "output", "o", formatText, "Output format (text, json, yaml)")
		RootCmd.AddCommand(c)
	}
}

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/amonks/guidex/insight"
	"github.com/amonks/guidex/internal/config"
	"github.com/amonks/guidex/mentor"
	"github.com/spf13/cobra"
)

var mentorCmd = &cobra.Command{
	Use:   "mentor",
	Short: "Talk to the AI mentor",
}

var mentorAskCmd = &cobra.Command{
	Use:   "ask <prompt>...",
	Short: "Ask the mentor a question",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMentorAsk,
}

var (
	mentorAskStream bool
	mentorAskRaw    bool
)

var mentorChatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the mentor, one message per line",
	Args:  cobra.NoArgs,
	RunE:  runMentorChat,
}

var mentorSpeakCmd = &cobra.Command{
	Use:   "speak <text>...",
	Short: "Synthesize speech in the mentor's voice",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMentorSpeak,
}

var mentorSpeakOut string

func init() {
	rootCmd.AddCommand(mentorCmd)
	mentorCmd.AddCommand(mentorAskCmd, mentorChatCmd, mentorSpeakCmd)

	mentorAskCmd.Flags().BoolVarP(&mentorAskStream, "stream", "s", false, "Print the reply as it arrives")
	mentorAskCmd.Flags().BoolVar(&mentorAskRaw, "raw", false, "Print markdown without rendering")

	mentorSpeakCmd.Flags().StringVarP(&mentorSpeakOut, "out", "o", "", "Write audio to this file")
	_ = mentorSpeakCmd.MarkFlagRequired("out")
}

func runMentorAsk(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" {
		return mentor.ErrEmptyPrompt
	}
	service := a.insightService(cmd.Context())
	out := cmd.OutOrStdout()

	if mentorAskStream {
		conversation := mentor.NewConversation(service, mentor.ConversationOptions{Logger: a.logger})
		_, err := conversation.Send(cmd.Context(), prompt, streamPrinter(out))
		fmt.Fprintln(out)
		return err
	}

	reply := service.Complete(cmd.Context(), prompt)
	printReply(out, reply)
	return nil
}

// streamPrinter prints the part of each streamed message not yet shown.
func streamPrinter(out io.Writer) func(mentor.Message) {
	printed := 0
	return func(msg mentor.Message) {
		if len(msg.Text) > printed {
			fmt.Fprint(out, msg.Text[printed:])
			printed = len(msg.Text)
		}
	}
}

func printReply(out io.Writer, reply string) {
	if mentorAskRaw {
		fmt.Fprintln(out, reply)
		return
	}
	fmt.Fprintln(out, renderMarkdownOrDash(reply, terminalWidth()))
}

func runMentorChat(cmd *cobra.Command, args []string) error {
	a, board, err := boardFor(cmd)
	if err != nil {
		return err
	}
	conversation := mentor.NewConversation(a.insightService(cmd.Context()), mentor.ConversationOptions{
		Name:   board.Profile().Name,
		Logger: a.logger,
	})
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, conversation.Messages()[0].Text)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			return nil
		}
		_, err := conversation.Send(cmd.Context(), line, streamPrinter(out))
		fmt.Fprintln(out)
		if err != nil && !errors.Is(err, mentor.ErrSuperseded) {
			return err
		}
	}
}

func runMentorSpeak(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	text := strings.TrimSpace(strings.Join(args, " "))
	audio, ok := a.insightService(cmd.Context()).SynthesizeSpeech(cmd.Context(), text)
	if !ok {
		return fmt.Errorf("speech is unavailable (is %s set?)", config.EnvAPIKey)
	}
	if err := os.WriteFile(mentorSpeakOut, audio.Data, 0o644); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bytes of %s to %s\n", len(audio.Data), mimeOrUnknown(audio), mentorSpeakOut)
	return nil
}

func mimeOrUnknown(audio insight.Audio) string {
	if audio.MIMEType == "" {
		return "audio"
	}
	return audio.MIMEType
}

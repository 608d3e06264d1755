package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/michaperki/mila/internal/app"
	"github.com/michaperki/mila/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "segment [text]",
		Short: "Split text into tokenized sentence chunks",
		Long:  "Split Hebrew text into sentence chunks with clitic-aware tokens. Text can be a positional arg or piped via stdin.",
		Run:   runSegment,
	}
	cmd.Flags().Bool("phrases", false, "Also emit phrase chunks")
	cmd.Flags().BoolP("translate", "t", false, "Fill sentence translations and token glosses")
	RootCmd.AddCommand(cmd)

	tok := &cobra.Command{
		Use:   "tokenize [sentence]",
		Short: "Tokenize one sentence",
		Run:   runTokenize,
	}
	RootCmd.AddCommand(tok)
}

func runSegment(cmd *cobra.Command, args []string) {
	phrases, _ := cmd.Flags().GetBool("phrases")
	translate, _ := cmd.Flags().GetBool("translate")

	a := loadApp()
	chunks, err := a.Process(cmd.Context(), readInput(args), app.ProcessOptions{
		Phrases:   phrases,
		Translate: translate,
	})
	if err != nil {
		// The chunks are still usable without translations.
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	if chunks == nil {
		chunks = []model.Chunk{}
	}

	if textFormat() {
		for _, c := range chunks {
			fmt.Printf("[%s] %s\n", c.Kind, c.Text)
			if c.Translation != "" {
				fmt.Printf("  = %s\n", c.Translation)
			}
			for _, t := range c.Tokens {
				fmt.Println("  " + tokenLine(t))
			}
		}
		return
	}
	printJSON(chunks)
}

func runTokenize(cmd *cobra.Command, args []string) {
	sentence := strings.TrimSpace(readInput(args))
	if sentence == "" {
		exitErr("tokenize", fmt.Errorf("sentence is required (positional arg or stdin)"))
	}

	a := loadApp()
	tokens := a.Tokenizer.Tokenize(sentence)
	if tokens == nil {
		tokens = []model.Token{}
	}

	if textFormat() {
		for _, t := range tokens {
			fmt.Println(tokenLine(t))
		}
		return
	}
	printJSON(tokens)
}

func tokenLine(t model.Token) string {
	parts := []string{fmt.Sprintf("%d", t.Idx), t.Surface, t.Lemma}
	if t.Root != "" {
		parts = append(parts, "root="+t.Root)
	}
	if t.POS != "" {
		parts = append(parts, t.POS)
	}
	if t.Gloss != "" {
		parts = append(parts, t.Gloss)
	}
	return strings.Join(parts, "\t")
}

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/michaperki/mila/internal/hebrew"
	"github.com/michaperki/mila/internal/lexicon"
	"github.com/michaperki/mila/internal/morph"
)

func init() {
	root := &cobra.Command{
		Use:   "root [word...]",
		Short: "Find the root of each word",
		Args:  cobra.MinimumNArgs(1),
		Run:   runRoot,
	}
	root.Flags().BoolP("explain", "e", false, "Show which strategy found the root")

	gloss := &cobra.Command{
		Use:   "gloss [root]",
		Short: "Look up the English gloss of a root",
		Args:  cobra.ExactArgs(1),
		Run:   runGloss,
	}

	searchGloss := &cobra.Command{
		Use:   "search-gloss [english...]",
		Short: "Find roots whose gloss matches English words",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearchGloss,
	}
	searchGloss.Flags().IntP("limit", "l", 10, "Max results")

	translit := &cobra.Command{
		Use:   "translit [text]",
		Short: "Transliterate Hebrew text to Latin letters",
		Run:   runTranslit,
	}

	strip := &cobra.Command{
		Use:   "strip [text]",
		Short: "Remove nikud from Hebrew text",
		Run:   runStrip,
	}

	conjugate := &cobra.Command{
		Use:   "conjugate [root]",
		Short: "Show example forms of a root",
		Args:  cobra.ExactArgs(1),
		Run:   runConjugate,
	}

	RootCmd.AddCommand(root, gloss, searchGloss, translit, strip, conjugate)
}

type rootResult struct {
	Word string `json:"word"`
	Root string `json:"root"`
}

type explainedRoot struct {
	morph.Analysis
	Category morph.Category `json:"category"`
	Gloss    string         `json:"gloss,omitempty"`
}

func runRoot(cmd *cobra.Command, args []string) {
	explain, _ := cmd.Flags().GetBool("explain")
	a := loadApp()

	if explain {
		out := make([]explainedRoot, 0, len(args))
		for _, w := range args {
			an := a.Extractor.Analyze(w)
			gloss, _ := a.Lexicon.GlossForRoot(an.Root)
			out = append(out, explainedRoot{
				Analysis: an,
				Category: morph.Categorize(hebrew.StripNikud(w)),
				Gloss:    gloss,
			})
		}
		if textFormat() {
			for _, r := range out {
				fmt.Printf("%s\t%s\t%s\t%s\n", r.Word, r.Root, r.Method, r.Category)
			}
			return
		}
		printJSON(out)
		return
	}

	out := make([]rootResult, 0, len(args))
	for _, w := range args {
		root, _ := a.Extractor.ExtractRoot(w)
		out = append(out, rootResult{Word: w, Root: root})
	}
	if textFormat() {
		for _, r := range out {
			fmt.Printf("%s\t%s\n", r.Word, r.Root)
		}
		return
	}
	printJSON(out)
}

func runGloss(cmd *cobra.Command, args []string) {
	root := hebrew.StripNikud(strings.TrimSpace(args[0]))
	a := loadApp()

	gloss, ok := a.Lexicon.GlossForRoot(root)
	if !ok {
		exitErr("gloss", fmt.Errorf("no gloss for root %q", root))
	}
	if textFormat() {
		fmt.Println(gloss)
		return
	}
	printJSON(map[string]string{"root": root, "gloss": gloss})
}

func runSearchGloss(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	a := loadApp()

	matches := a.Lexicon.SearchGloss(strings.Join(args, " "), limit)
	if matches == nil {
		matches = []lexicon.Match{}
	}
	if textFormat() {
		for _, m := range matches {
			fmt.Printf("%s\t%s\t%s\n", m.Root, m.ID, m.Gloss)
		}
		return
	}
	printJSON(matches)
}

func runTranslit(cmd *cobra.Command, args []string) {
	fmt.Println(hebrew.Transliterate(strings.TrimRight(readInput(args), "\n")))
}

func runStrip(cmd *cobra.Command, args []string) {
	fmt.Println(hebrew.StripNikud(strings.TrimRight(readInput(args), "\n")))
}

func runConjugate(cmd *cobra.Command, args []string) {
	root := hebrew.StripNikud(strings.TrimSpace(args[0]))
	forms := morph.Conjugations(root)
	if len(forms) == 0 {
		exitErr("conjugate", fmt.Errorf("root %q must be two or three letters", root))
	}
	if textFormat() {
		fmt.Println(strings.Join(forms, " "))
		return
	}
	printJSON(map[string]interface{}{"root": root, "forms": forms})
}

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/michaperki/mila/internal/hebrew"
	"github.com/michaperki/mila/internal/model"
	"github.com/michaperki/mila/internal/store"
)

func init() {
	star := &cobra.Command{
		Use:   "star [lemma]",
		Short: "Star a word into the vocabulary",
		Long:  "Star a lemma. Root and gloss are looked up when not given. Starring the same lemma again bumps its frequency.",
		Run:   runStar,
	}
	star.Flags().StringP("lemma", "l", "", "Lemma (or positional arg)")
	star.Flags().StringP("root", "r", "", "Root (default: extracted from the lemma)")
	star.Flags().StringP("gloss", "g", "", "Gloss (default: the root's lexicon gloss)")
	star.Flags().String("text", "", "Text id the word was seen in")
	star.Flags().String("chunk", "", "Chunk id the word was seen in")

	vocab := &cobra.Command{
		Use:   "vocab",
		Short: "Manage starred vocabulary",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List vocabulary, most frequent first",
		Run:   runVocabList,
	}
	list.Flags().StringP("root", "r", "", "Filter by root")
	list.Flags().IntP("limit", "l", 50, "Max results")

	get := &cobra.Command{
		Use:   "get [id-or-lemma]",
		Short: "Show a vocabulary item and where it was seen",
		Args:  cobra.ExactArgs(1),
		Run:   runVocabGet,
	}

	rm := &cobra.Command{
		Use:   "rm [id-or-lemma]",
		Short: "Remove a vocabulary item",
		Args:  cobra.ExactArgs(1),
		Run:   runVocabRm,
	}

	search := &cobra.Command{
		Use:   "search [query]",
		Short: "Search vocabulary by lemma, root or gloss",
		Args:  cobra.MinimumNArgs(1),
		Run:   runVocabSearch,
	}
	search.Flags().IntP("limit", "l", 20, "Max results")

	review := &cobra.Command{
		Use:   "review",
		Short: "Assemble a review set within a character budget",
		Run:   runVocabReview,
	}
	review.Flags().StringP("root", "r", "", "Filter by root")
	review.Flags().IntP("budget", "b", 2000, "Max characters in output")

	export := &cobra.Command{
		Use:   "export",
		Short: "Export vocabulary as JSON",
		Run:   runVocabExport,
	}

	imp := &cobra.Command{
		Use:   "import",
		Short: "Import vocabulary from JSON on stdin",
		Long:  "Import vocabulary from JSON (stdin). Expects the format produced by export.",
		Run:   runVocabImport,
	}

	vocab.AddCommand(list, get, rm, search, review, export, imp)
	RootCmd.AddCommand(star, vocab)
}

func runStar(cmd *cobra.Command, args []string) {
	lemma, _ := cmd.Flags().GetString("lemma")
	root, _ := cmd.Flags().GetString("root")
	gloss, _ := cmd.Flags().GetString("gloss")
	textID, _ := cmd.Flags().GetString("text")
	chunkID, _ := cmd.Flags().GetString("chunk")

	if lemma == "" && len(args) > 0 {
		lemma = args[0]
	}
	lemma = strings.TrimSpace(lemma)
	if lemma == "" {
		exitErr("star", fmt.Errorf("lemma is required (--lemma or positional arg)"))
	}

	a := loadApp()
	if root == "" {
		root, _ = a.Extractor.ExtractRoot(lemma)
	}
	if gloss == "" && root != "" {
		gloss, _ = a.Lexicon.GlossForRoot(root)
	}

	s := openStore(a)
	defer s.Close()

	item, err := s.Star(cmd.Context(), store.StarParams{
		Lemma:   lemma,
		Root:    hebrew.StripNikud(root),
		Gloss:   gloss,
		TextID:  textID,
		ChunkID: chunkID,
	})
	if err != nil {
		exitErr("star", err)
	}
	printJSON(item)
}

func runVocabList(cmd *cobra.Command, args []string) {
	root, _ := cmd.Flags().GetString("root")
	limit, _ := cmd.Flags().GetInt("limit")

	a := loadApp()
	s := openStore(a)
	defer s.Close()

	items, err := s.ListVocab(cmd.Context(), store.ListVocabParams{Root: root, Limit: limit})
	if err != nil {
		exitErr("list vocab", err)
	}
	printVocab(items)
}

func runVocabGet(cmd *cobra.Command, args []string) {
	a := loadApp()
	s := openStore(a)
	defer s.Close()

	item, err := s.GetVocab(cmd.Context(), args[0])
	if err != nil {
		exitErr("get vocab", err)
	}
	occ, err := s.Occurrences(cmd.Context(), item.ID)
	if err != nil {
		exitErr("occurrences", err)
	}
	if occ == nil {
		occ = []model.Occurrence{}
	}
	printJSON(map[string]interface{}{"item": item, "occurrences": occ})
}

func runVocabRm(cmd *cobra.Command, args []string) {
	a := loadApp()
	s := openStore(a)
	defer s.Close()

	if err := s.Unstar(cmd.Context(), args[0]); err != nil {
		exitErr("unstar", err)
	}
	fmt.Fprintf(os.Stdout, `{"ok":true,"deleted":%q}`+"\n", args[0])
}

func runVocabSearch(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	a := loadApp()
	s := openStore(a)
	defer s.Close()

	items, err := s.SearchVocab(cmd.Context(), store.SearchParams{
		Query: strings.Join(args, " "),
		Limit: limit,
	})
	if err != nil {
		exitErr("search vocab", err)
	}
	printVocab(items)
}

func runVocabReview(cmd *cobra.Command, args []string) {
	root, _ := cmd.Flags().GetString("root")
	budget, _ := cmd.Flags().GetInt("budget")

	a := loadApp()
	s := openStore(a)
	defer s.Close()

	result, err := s.Review(cmd.Context(), store.ReviewParams{Root: root, Budget: budget})
	if err != nil {
		exitErr("review", err)
	}

	if textFormat() {
		for _, it := range result.Items {
			fmt.Println(it.Line)
		}
		return
	}
	printJSON(result)
}

func runVocabExport(cmd *cobra.Command, args []string) {
	a := loadApp()
	s := openStore(a)
	defer s.Close()

	if _, err := s.ExportVocab(cmd.Context(), os.Stdout); err != nil {
		exitErr("export", err)
	}
}

func runVocabImport(cmd *cobra.Command, args []string) {
	a := loadApp()
	s := openStore(a)
	defer s.Close()

	imported, err := s.ImportVocab(cmd.Context(), os.Stdin)
	if err != nil {
		exitErr("import", err)
	}
	fmt.Printf(`{"ok":true,"imported":%d}`+"\n", imported)
}

func printVocab(items []model.StarredItem) {
	if items == nil {
		items = []model.StarredItem{}
	}
	if textFormat() {
		for _, v := range items {
			fmt.Printf("%s\t%s\t%s\t×%d\t%s\n", v.Lemma, v.Root, v.Gloss, v.Frequency, humanize.Time(v.CreatedAt))
		}
		return
	}
	printJSON(items)
}

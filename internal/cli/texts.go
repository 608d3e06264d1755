package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/michaperki/mila/internal/app"
	"github.com/michaperki/mila/internal/model"
	"github.com/michaperki/mila/internal/store"
)

func init() {
	ingest := &cobra.Command{
		Use:   "ingest [text]",
		Short: "Segment, translate and save a text",
		Long:  "Segment and translate Hebrew text and save it. Text can be a positional arg or piped via stdin.",
		Run:   runIngest,
	}
	ingest.Flags().String("title", "", "Title")
	ingest.Flags().StringP("source", "s", model.SourcePaste, "Source: paste or ocr")
	ingest.Flags().Bool("phrases", false, "Also save phrase chunks")
	ingest.Flags().Bool("no-translate", false, "Skip translation")

	texts := &cobra.Command{
		Use:   "texts",
		Short: "Manage saved texts",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved texts",
		Run:   runTextsList,
	}
	list.Flags().StringP("source", "s", "", "Filter by source")
	list.Flags().IntP("limit", "l", 20, "Max results")

	get := &cobra.Command{
		Use:   "get [id]",
		Short: "Show a saved text with its chunks",
		Args:  cobra.ExactArgs(1),
		Run:   runTextsGet,
	}
	get.Flags().Bool("vocab", false, "Also list vocabulary starred from this text")

	rm := &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a saved text",
		Args:  cobra.ExactArgs(1),
		Run:   runTextsRm,
	}

	search := &cobra.Command{
		Use:   "search [query]",
		Short: "Search saved chunks",
		Args:  cobra.MinimumNArgs(1),
		Run:   runTextsSearch,
	}
	search.Flags().IntP("limit", "l", 20, "Max results")

	texts.AddCommand(list, get, rm, search)
	RootCmd.AddCommand(ingest, texts)
}

func runIngest(cmd *cobra.Command, args []string) {
	title, _ := cmd.Flags().GetString("title")
	source, _ := cmd.Flags().GetString("source")
	phrases, _ := cmd.Flags().GetBool("phrases")
	noTranslate, _ := cmd.Flags().GetBool("no-translate")

	raw := readInput(args)
	if strings.TrimSpace(raw) == "" {
		exitErr("ingest", fmt.Errorf("text is required (positional arg or stdin)"))
	}

	a := loadApp()
	s := openStore(a)
	defer s.Close()

	doc, err := a.Ingest(cmd.Context(), s, raw, app.IngestParams{
		Title:     title,
		Source:    source,
		Phrases:   phrases,
		Translate: !noTranslate,
	})
	if err != nil {
		exitErr("ingest", err)
	}

	if textFormat() {
		fmt.Printf("%s\t%d chunks\n", doc.ID, len(doc.Chunks))
		return
	}
	printJSON(doc)
}

func runTextsList(cmd *cobra.Command, args []string) {
	source, _ := cmd.Flags().GetString("source")
	limit, _ := cmd.Flags().GetInt("limit")

	a := loadApp()
	s := openStore(a)
	defer s.Close()

	texts, err := s.ListTexts(cmd.Context(), store.ListTextsParams{Source: source, Limit: limit})
	if err != nil {
		exitErr("list texts", err)
	}
	if texts == nil {
		texts = []model.TextSummary{}
	}

	if textFormat() {
		for _, t := range texts {
			label := t.Title
			if label == "" {
				label = t.Preview
			}
			fmt.Printf("%s\t%s\t%s\t%s\n", t.ID, t.Source, humanize.Time(t.CreatedAt), label)
		}
		return
	}
	printJSON(texts)
}

func runTextsGet(cmd *cobra.Command, args []string) {
	withVocab, _ := cmd.Flags().GetBool("vocab")

	a := loadApp()
	s := openStore(a)
	defer s.Close()

	doc, err := s.GetText(cmd.Context(), args[0])
	if err != nil {
		exitErr("get text", err)
	}

	if textFormat() {
		if doc.Title != "" {
			fmt.Println(doc.Title)
		}
		for _, c := range doc.Chunks {
			fmt.Printf("[%s] %s\n", c.ID, c.Text)
			if c.Translation != "" {
				fmt.Printf("  = %s\n", c.Translation)
			}
		}
		return
	}

	if !withVocab {
		printJSON(doc)
		return
	}
	vocab, err := s.TextVocab(cmd.Context(), doc.ID)
	if err != nil {
		exitErr("text vocab", err)
	}
	if vocab == nil {
		vocab = []model.StarredItem{}
	}
	printJSON(map[string]interface{}{"text": doc, "vocab": vocab})
}

func runTextsRm(cmd *cobra.Command, args []string) {
	a := loadApp()
	s := openStore(a)
	defer s.Close()

	if err := s.DeleteText(cmd.Context(), args[0]); err != nil {
		exitErr("delete text", err)
	}
	fmt.Fprintf(os.Stdout, `{"ok":true,"deleted":%q}`+"\n", args[0])
}

func runTextsSearch(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	a := loadApp()
	s := openStore(a)
	defer s.Close()

	hits, err := s.SearchChunks(cmd.Context(), store.SearchParams{
		Query: strings.Join(args, " "),
		Limit: limit,
	})
	if err != nil {
		exitErr("search", err)
	}
	if hits == nil {
		hits = []store.ChunkHit{}
	}

	if textFormat() {
		for _, h := range hits {
			fmt.Printf("%s\t%s\t%s\n", h.TextID, h.Chunk.ID, h.Chunk.Text)
		}
		return
	}
	printJSON(hits)
}

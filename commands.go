package main

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flashcards",
	Short: "Vocabulary trainer with generated crosswords",
	Long: `Vocabulary trainer backend: stores vocabulary, suggests clues and
generates crossword puzzles from the word pool.

Configuration is read from flags, falling back to the environment:
  PORT             HTTP port (default 8080)
  FLASHCARDS_DB    SQLite database path (default ./flashcards.db)
  GCP_PROJECT_ID   enables clue suggestion through Gemini
  GCP_REGION       VertexAI region (default europe-west1)`,
	SilenceUsage: true,
}

var (
	dbPath    string
	port      string
	projectID string
	region    string
	genTags   []string
	genSeed   uint64
	genReveal bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", envOr("FLASHCARDS_DB", "./flashcards.db"), "SQLite database path")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVarP(&port, "port", "p", envOr("PORT", "8080"), "HTTP port")
	serveCmd.Flags().StringVar(&projectID, "project", os.Getenv("GCP_PROJECT_ID"), "GCP project for Gemini clue suggestion")
	serveCmd.Flags().StringVar(&region, "region", os.Getenv("GCP_REGION"), "VertexAI region")

	importCmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Import pipe-delimited vocabulary files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runImport,
	}

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a crossword generated from the stored vocabulary",
		Long: `Generate a crossword from the stored vocabulary and print it.

Examples:
  flashcards generate
  flashcards generate --tag food --tag home
  flashcards generate --seed 42 --reveal`,
		RunE: runGenerate,
	}
	generateCmd.Flags().StringSliceVarP(&genTags, "tag", "t", nil, "Only use words with one of these tags (default: active filter)")
	generateCmd.Flags().Uint64Var(&genSeed, "seed", 0, "Random seed, 0 for a random one")
	generateCmd.Flags().BoolVar(&genReveal, "reveal", false, "Print the answers in the grid")

	rootCmd.AddCommand(serveCmd, importCmd, generateCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	vocab, err := OpenVocabularyDB(dbPath)
	if err != nil {
		return err
	}
	defer vocab.Close()
	log.Printf("Vocabulaire ouvert : %s", dbPath)

	var clues ClueSuggester
	if projectID != "" {
		gemini, err := NewGeminiClient(ctx, projectID, region)
		if err != nil {
			return fmt.Errorf("init gemini: %w", err)
		}
		defer gemini.Close()
		clues = gemini
		log.Printf("Client Gemini initialisé (projet: %s)", projectID)
	} else {
		log.Println("GCP_PROJECT_ID non défini — suggestion de définitions désactivée")
	}

	handler := NewServer(NewStore(), vocab, clues)
	defer handler.Close()

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("Serveur démarré sur http://localhost:%s", port)
	return srv.ListenAndServe()
}

func runImport(cmd *cobra.Command, args []string) error {
	vocab, err := OpenVocabularyDB(dbPath)
	if err != nil {
		return err
	}
	defer vocab.Close()

	for _, name := range args {
		added, parsed, err := importFile(cmd.Context(), vocab, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d words read, %d added\n", name, parsed, added)
	}
	return nil
}

func importFile(ctx context.Context, vocab *VocabularyDB, name string) (added, parsed int, err error) {
	f, err := os.Open(name)
	if err != nil {
		return 0, 0, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	words, err := ParseVocabulary(f)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", name, err)
	}
	added, err = vocab.AddWords(ctx, words)
	return added, len(words), err
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	vocab, err := OpenVocabularyDB(dbPath)
	if err != nil {
		return err
	}
	defer vocab.Close()

	words, err := vocab.Words(ctx)
	if err != nil {
		return err
	}
	tags := genTags
	if !cmd.Flags().Changed("tag") {
		if tags, err = vocab.ActiveFilter(ctx); err != nil {
			return err
		}
	}

	seed := genSeed
	if seed == 0 {
		seed = rand.Uint64()
	}
	layout, err := NewCrossword(words, tags, DefaultGridSize, rand.New(rand.NewPCG(seed, seed)))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "seed %d, %d words\n\n", seed, len(layout.Words))
	return RenderText(cmd.OutOrStdout(), layout, genReveal)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

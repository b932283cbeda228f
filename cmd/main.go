package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"quiz-rag/internal/config"
	"quiz-rag/internal/embedding"
	"quiz-rag/internal/generator"
	"quiz-rag/internal/helper"
	"quiz-rag/internal/index"
	"quiz-rag/internal/llm"
	"quiz-rag/internal/models"
	"quiz-rag/internal/parser"
	"quiz-rag/internal/quiz"
	"quiz-rag/internal/retriever"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	_ = godotenv.Load()

	filePath := flag.String("file", "", "Path to the document file")
	topic := flag.String("topic", "", "Topic to generate questions about")
	difficulty := flag.String("difficulty", "easy", "Difficulty level: easy, medium or hard")
	count := flag.Int("count", 5, "Number of questions to generate")
	cfgFile := flag.String("config", configFilePath, "Path to the config file")
	interactive := flag.Bool("interactive", false, "Answer the quiz on stdin and get a score")
	flag.Parse()

	if *filePath == "" || *topic == "" {
		log.Fatal().Msg("Please provide a document using the -file flag and a topic using the -topic flag")
	}

	cfg, err := config.LoadConfig(*cfgFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	profile, err := models.ProfileFor(*difficulty)
	if err != nil {
		log.Fatal().Err(err).Msg("Error selecting difficulty")
	}

	ctx := context.Background()

	segments, err := parser.Parse(*filePath, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot build knowledge base")
	}
	log.Info().Int("segments", len(segments)).Msg("Parsed document")

	embedder, err := embedding.ForConfig(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	texts := make([]string, len(segments))
	for i, seg := range segments {
		texts[i] = seg.Text
	}
	vectors, err := embedding.EmbedTexts(ctx, embedder, texts)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot build knowledge base")
	}

	entries := make([]index.Entry, len(segments))
	for i := range segments {
		entries[i] = index.Entry{Segment: segments[i], Vector: vectors[i]}
	}

	idx, err := buildIndex(ctx, cfg, entries)
	if err != nil {
		log.Fatal().Err(err).Msg("Error building vector index")
	}

	model, err := llm.NewClient(&cfg.LLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing language model")
	}

	gen := generator.New(retriever.New(embedder, idx, &cfg.RAG), model, &cfg.RAG)
	mcqs := gen.Generate(ctx, *topic, profile, *count)
	if len(mcqs) == 0 {
		log.Error().Msg("No questions generated. Try a different topic.")
		os.Exit(1)
	}
	log.Info().Int("questions", len(mcqs)).Msg("Quiz generated")

	if *interactive {
		runQuiz(mcqs)
		return
	}
	helper.PrettyPrint(mcqs)
}

// buildIndex selects the configured index realization and loads it with
// this document's entries under a fresh namespace.
func buildIndex(ctx context.Context, cfg *config.Config, entries []index.Entry) (index.Index, error) {
	docID := helper.NewDocumentID()

	var idx index.Index
	switch cfg.Index.Type {
	case "chromem":
		c, err := index.NewChromem(cfg.Index.Path, docID)
		if err != nil {
			return nil, err
		}
		idx = c
	case "pgvector":
		db := index.ConnectDB(&cfg.Database)
		if err := index.InitDB(ctx, db, cfg.Index.VectorSize); err != nil {
			return nil, err
		}
		idx = index.NewPGVector(db, docID)
	default:
		idx = index.NewMemory()
	}

	if err := idx.Build(ctx, entries); err != nil {
		return nil, err
	}
	return idx, nil
}

func runQuiz(mcqs []models.MCQ) {
	attempt := quiz.NewAttempt(mcqs)
	reader := bufio.NewReader(os.Stdin)

	for i, q := range attempt.Questions() {
		fmt.Printf("\nQ%d. %s\n", i+1, q.Question)
		for _, opt := range q.Options {
			fmt.Println("   " + opt)
		}
		for {
			fmt.Print("Your answer (A-D): ")
			line, err := reader.ReadString('\n')
			if err != nil {
				log.Fatal().Err(err).Msg("Error reading answer")
			}
			choice := strings.ToUpper(strings.TrimSpace(line))
			if len(choice) == 1 && strings.Contains(models.AnswerLetters, choice) {
				if err := attempt.Answer(i, choice); err != nil {
					log.Fatal().Err(err).Msg("Error recording answer")
				}
				break
			}
			fmt.Println("Please answer with A, B, C or D.")
		}
	}

	result, err := attempt.Submit()
	if err != nil {
		log.Fatal().Err(err).Msg("Error scoring quiz")
	}

	fmt.Println()
	for i, d := range result.Details {
		verdict := "Wrong"
		if d.Right {
			verdict = "Correct"
		}
		fmt.Printf("Q%d: %s (your answer: %s, correct: %s)\n", i+1, verdict, d.Selected, d.Correct)
		fmt.Printf("    %s\n", d.Question.Explanation)
	}
	fmt.Printf("\nFinal score: %d / %d\n", result.Score, result.Total)
}

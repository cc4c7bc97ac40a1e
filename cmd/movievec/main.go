package main

import (
	"bufio"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/movievec/movievec/cache"
	"github.com/movievec/movievec/config"
	"github.com/movievec/movievec/dataset"
	"github.com/movievec/movievec/embed"
	"github.com/movievec/movievec/engine"
	"github.com/movievec/movievec/rag"
	"github.com/movievec/movievec/server"
	"github.com/movievec/movievec/vector"
)

type flags struct {
	store    string // "sqlite" or "chromem"
	provider string // "openai" or "local"
	dbPath   string
	topK     int
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var f flags
	rootCmd := &cobra.Command{
		Use:   "movievec",
		Short: "Semantic movie search and RAG chat over a local vector store",
	}
	rootCmd.PersistentFlags().StringVar(&f.store, "store", "sqlite", "Vector store backend (sqlite or chromem)")
	rootCmd.PersistentFlags().StringVar(&f.provider, "provider", cfg.Provider, "Embedding provider (openai or local)")
	rootCmd.PersistentFlags().StringVar(&f.dbPath, "db", cfg.DBPath, "SQLite database path (or chromem directory)")
	rootCmd.PersistentFlags().IntVarP(&f.topK, "top-k", "k", cfg.TopK, "Number of results to retrieve")

	rootCmd.AddCommand(
		newIngestCmd(cfg, &f),
		newSearchCmd(cfg, &f),
		newChatCmd(cfg, &f),
		newServeCmd(cfg, &f),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func newIngestCmd(cfg *config.Config, f *flags) *cobra.Command {
	var batchSize int
	cmd := &cobra.Command{
		Use:   "ingest <catalog.csv>",
		Short: "Embed a movie catalog and load it into the vector store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			movies, err := dataset.LoadFile(args[0])
			if err != nil {
				return err
			}
			color.Cyan("Loaded %d movies from %s", len(movies), args[0])

			embedder, err := newEmbedder(cfg, f)
			if err != nil {
				return err
			}
			store, closeStore, err := newStore(cfg, f)
			if err != nil {
				return err
			}
			defer closeStore()

			total := 0
			for _, batch := range lo.Chunk(movies, batchSize) {
				docs := lo.Map(batch, func(m dataset.Movie, _ int) vector.Document {
					return m.Document()
				})
				texts := lo.Map(docs, func(d vector.Document, _ int) string {
					return d.Content
				})
				vecs, err := embedder.EmbedBatch(ctx, texts)
				if err != nil {
					return err
				}
				for i := range docs {
					docs[i].Embedding = vecs[i]
				}
				if _, err := store.AddDocuments(ctx, docs); err != nil {
					return err
				}
				total += len(docs)
				fmt.Printf("  embedded %d/%d\n", total, len(movies))
			}
			color.Green("Ingested %d movies (%s, %d dims)", total, embedder.Model(), embedder.Dimensions())
			return nil
		},
	}
	cmd.Flags().IntVar(&batchSize, "batch-size", embed.DefaultBatchSize, "Documents per embedding request")
	return cmd
}

func newSearchCmd(cfg *config.Config, f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find movies semantically similar to a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			query := strings.Join(args, " ")

			retriever, closeStore, err := newRetriever(cfg, f)
			if err != nil {
				return err
			}
			defer closeStore()

			contexts, err := retriever.Retrieve(ctx, query)
			if err != nil {
				return err
			}
			if len(contexts) == 0 {
				color.Yellow("No matches. Run `movievec ingest` first?")
				return nil
			}
			for i, c := range contexts {
				movie, err := dataset.FromDocument(c.Document())
				if err != nil {
					return err
				}
				color.New(color.Bold).Printf("%d. %s", i+1, movie.Title)
				fmt.Printf("  (score %.3f)\n", c.Score)
				if movie.Overview != "" {
					fmt.Printf("   %s\n", movie.Overview)
				}
			}
			return nil
		},
	}
}

func newChatCmd(cfg *config.Config, f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive RAG chat over the ingested catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ragEngine, closeStore, err := newRAGEngine(cfg, f)
			if err != nil {
				return err
			}
			defer closeStore()

			color.Cyan("movievec chat - ask about the catalog (type 'exit' to quit)")
			scanner := bufio.NewScanner(os.Stdin)
			prompt := color.New(color.FgGreen, color.Bold)
			for {
				prompt.Print("you> ")
				if !scanner.Scan() {
					break
				}
				question := strings.TrimSpace(scanner.Text())
				if question == "" {
					continue
				}
				if question == "exit" || question == "quit" {
					break
				}
				answer, err := ragEngine.Ask(ctx, question)
				if err != nil {
					color.Red("error: %v", err)
					continue
				}
				if answer.Cached {
					color.Yellow("(cached)")
				}
				fmt.Println(answer.Text)
				fmt.Println()
			}
			return scanner.Err()
		},
	}
}

func newServeCmd(cfg *config.Config, f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve search and chat over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			retriever, closeStore, err := newRetriever(cfg, f)
			if err != nil {
				return err
			}
			defer closeStore()

			var asker server.Asker
			if cfg.OpenAIAPIKey != "" {
				ragEngine, err := newRAGEngineWith(cfg, retriever)
				if err != nil {
					return err
				}
				asker = ragEngine
			} else {
				log.Println("OPENAI_API_KEY not set; /chat disabled")
			}
			return server.New(retriever, asker).Run(cfg.Port)
		},
	}
}

func newEmbedder(cfg *config.Config, f *flags) (embed.Embedder, error) {
	switch f.provider {
	case "local":
		return embed.NewLocal(0), nil
	case "openai":
		return embed.NewOpenAI(embed.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.EmbeddingModel,
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", f.provider)
	}
}

func newStore(cfg *config.Config, f *flags) (vector.Store, func(), error) {
	switch f.store {
	case "chromem":
		store, err := vector.NewPersistentChromemStore(f.dbPath, cfg.Collection)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	case "sqlite":
		db, err := engine.Open(f.dbPath)
		if err != nil {
			return nil, nil, err
		}
		if err := engine.RegisterVectorFunctions(db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		store, err := vector.NewSQLiteStore(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return store, closeDB(db), nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", f.store)
	}
}

func closeDB(db *sql.DB) func() {
	return func() { _ = db.Close() }
}

func newRetriever(cfg *config.Config, f *flags) (*rag.Retriever, func(), error) {
	embedder, err := newEmbedder(cfg, f)
	if err != nil {
		return nil, nil, err
	}
	store, closeStore, err := newStore(cfg, f)
	if err != nil {
		return nil, nil, err
	}
	retriever, err := rag.NewRetriever(embedder, store, rag.WithTopK(f.topK))
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return retriever, closeStore, nil
}

func newRAGEngine(cfg *config.Config, f *flags) (*rag.Engine, func(), error) {
	retriever, closeStore, err := newRetriever(cfg, f)
	if err != nil {
		return nil, nil, err
	}
	ragEngine, err := newRAGEngineWith(cfg, retriever)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return ragEngine, closeStore, nil
}

func newRAGEngineWith(cfg *config.Config, retriever *rag.Retriever) (*rag.Engine, error) {
	llm, err := newChatModel(cfg)
	if err != nil {
		return nil, err
	}
	opts := []rag.EngineOption{}
	if cfg.RedisAddr != "" {
		opts = append(opts, rag.WithAnswerCache(cache.NewRedis(cfg.RedisAddr)))
	}
	return rag.NewEngine(llm, retriever, opts...)
}

func newChatModel(cfg *config.Config) (llms.Model, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required for chat")
	}
	opts := []openai.Option{
		openai.WithToken(cfg.OpenAIAPIKey),
		openai.WithModel(cfg.ChatModel),
	}
	if cfg.OpenAIBaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.OpenAIBaseURL))
	}
	return openai.New(opts...)
}

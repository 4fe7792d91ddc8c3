// Package main is the Shoplore CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/shoplore/shoplore/internal/cli"
	"github.com/shoplore/shoplore/internal/config"
	"github.com/shoplore/shoplore/internal/indexer"
	"github.com/shoplore/shoplore/internal/keyword"
	"github.com/shoplore/shoplore/internal/models"
	"github.com/shoplore/shoplore/internal/ranking"
	"github.com/shoplore/shoplore/internal/search"
	"github.com/shoplore/shoplore/internal/server"
	"github.com/shoplore/shoplore/internal/storage"
	"github.com/shoplore/shoplore/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/shoplore/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "index":
		runIndex()
	case "delete":
		runDelete()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("shoplore version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	srv := server.NewServer(
		components.Engine,
		components.Indexer,
		components.Storage,
		components.KeywordIndex,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves any flags (and their values) that appear after the
// query to the front of the slice so that flag.Parse() sees them. Go's flag
// package stops at the first non-flag argument.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: shoplore search [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  shoplore search pencil store
  shoplore search "pencil store"              # same as above
  shoplore search --category food coffee
  shoplore search --debug-rank --output json "pensil"
`)
}

func runSearch() {
	searchArgs := searchArgsReorder(os.Args[2:])

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPathFlag := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage when server is not running)")
	limit := fs.Int("limit", 10, "number of results")
	offset := fs.Int("offset", 0, "result offset for pagination")
	category := fs.String("category", "", "restrict results to a category")
	spellCheck := fs.Bool("spell-check", true, "enable typo correction")
	debugRank := fs.Bool("debug-rank", false, "include per-result ranking breakdown")
	outputFormat := fs.String("output", "text", "output format: text (human-readable) or json (parseable)")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgs)

	if fs.NArg() < 1 {
		printSearchUsage(fs)
		os.Exit(1)
	}
	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}

	format := cli.OutputText
	switch *outputFormat {
	case "json":
		format = cli.OutputJSON
	case "text":
		format = cli.OutputText
	default:
		fmt.Printf("Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}

	searchQuery := &models.SearchQuery{
		Query:        queryStr,
		Limit:        *limit,
		Offset:       *offset,
		Category:     *category,
		SpellCheck:   spellCheck,
		IncludeDebug: *debugRank,
	}

	if *serverURL != "" {
		// Use the HTTP API when a server is running (avoids Bleve/SQLite
		// lock conflicts).
		response, err := searchViaHTTP(*serverURL, searchQuery)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, _, err := loadConfig(*configPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	response, err := components.Engine.Search(context.Background(), searchQuery)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func searchViaHTTP(serverURL string, query *models.SearchQuery) (*models.SearchResponse, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func runIndex() {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: shoplore index [flags] <listings.json>")
		fmt.Println("The file holds one listing object or an array of listings.")
		os.Exit(1)
	}
	path := fs.Arg(0)

	inputs, err := readListingInputs(path)
	if err != nil {
		fmt.Printf("Failed to read listings: %v\n", err)
		os.Exit(1)
	}

	if *serverURL != "" {
		for _, input := range inputs {
			if err := indexViaHTTP(*serverURL, input); err != nil {
				fmt.Fprintf(os.Stderr, "Indexing %q failed: %v\n", input.Name, err)
				os.Exit(1)
			}
		}
		fmt.Printf("Indexed %d listing(s)\n", len(inputs))
		return
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	ctx := context.Background()
	for _, input := range inputs {
		listing, err := components.Indexer.IndexListing(ctx, input)
		if err != nil {
			fmt.Printf("Indexing %q failed: %v\n", input.Name, err)
			os.Exit(1)
		}
		fmt.Printf("Listing indexed: %s (%s)\n", listing.ID, listing.Name)
	}
}

// readListingInputs parses a JSON file holding one listing or an array.
func readListingInputs(path string) ([]*models.ListingInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var many []*models.ListingInput
	if err := json.Unmarshal(data, &many); err == nil {
		return many, nil
	}
	var one models.ListingInput
	if err := json.Unmarshal(data, &one); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return []*models.ListingInput{&one}, nil
}

func indexViaHTTP(serverURL string, input *models.ListingInput) error {
	body, err := json.Marshal(input)
	if err != nil {
		return err
	}
	resp, err := http.Post(serverURL+"/api/v1/listings", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	return nil
}

func runDelete() {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: shoplore delete [flags] <listing-id>")
		os.Exit(1)
	}
	id := fs.Arg(0)

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	if err := components.Indexer.DeleteListing(context.Background(), id); err != nil {
		fmt.Printf("Deletion failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Listing deleted: %s\n", id)
}

// statusResponse is the shape of GET /api/v1/status response.
type statusResponse struct {
	Listings       int64                  `json:"listings"`
	Indexed        int64                  `json:"indexed"`
	SpellCheck     bool                   `json:"spell_check"`
	RankingOffload bool                   `json:"ranking_offload"`
	Config         map[string]interface{} `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		logger, err := utils.NewLogger(cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		components, err := initializeComponents(cfg, logger, cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}
		defer components.Close()

		listingCount, err := components.Storage.CountListings(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count listings failed: %v\n", err)
			os.Exit(1)
		}
		docCount, err := components.KeywordIndex.DocCount()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Index doc count failed: %v\n", err)
			os.Exit(1)
		}
		status = statusResponse{
			Listings:       listingCount,
			Indexed:        int64(docCount),
			SpellCheck:     cfg.Search.SpellCheckEnabled(),
			RankingOffload: cfg.Search.Ranking.OffloadEnabled,
			Config: map[string]interface{}{
				"database_path":    cfg.Storage.DatabasePath,
				"bleve_index_path": cfg.Storage.BleveIndexPath,
				"top_k_candidates": cfg.Search.TopKCandidates,
				"name_boost":       cfg.Search.NameBoost,
			},
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("listings:         %d   # count of stored listings\n", status.Listings)
		fmt.Printf("indexed:          %d   # count of listings in the keyword index\n", status.Indexed)
		fmt.Printf("spell_check:      %t\n", status.SpellCheck)
		fmt.Printf("ranking_offload:  %t\n", status.RankingOffload)
		if len(status.Config) > 0 {
			fmt.Println()
			fmt.Println("# configuration")
			for _, key := range []string{"database_path", "bleve_index_path", "top_k_candidates", "name_boost"} {
				if v, ok := status.Config[key]; ok {
					fmt.Printf("%-18s%v\n", key+":", v)
				}
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

// Components holds initialized services.
type Components struct {
	Storage      storage.Storage
	KeywordIndex keyword.KeywordIndex
	Ranker       *ranking.Orchestrator
	Engine       *search.Engine
	Indexer      *indexer.Indexer
}

func (c *Components) Close() {
	if c.Ranker != nil {
		c.Ranker.Close()
	}
	if c.KeywordIndex != nil {
		_ = c.KeywordIndex.Close()
	}
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool) (*Components, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	keywordIndex, err := keyword.NewBleveIndex(cfg.Storage.BleveIndexPath)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
	}

	cache := keyword.NewSuggestionCache(
		time.Duration(cfg.Search.SpellCheckCacheTTL)*time.Second,
		cfg.Search.SpellCheckCacheSize,
	)
	speller := keyword.NewSpellChecker(keywordIndex,
		keyword.WithMaxDistance(cfg.Search.SpellCheckMaxDistance),
		keyword.WithSuggestionCache(cache),
	)

	ranker := ranking.NewOrchestrator(&cfg.Search.Ranking, logger)
	engine := search.NewEngine(store, keywordIndex, speller, ranker, &cfg.Search, logger)

	idxOpts := []indexer.IndexerOption{}
	if debug && logger != nil {
		idxOpts = append(idxOpts, indexer.WithLogger(logger))
	}
	idx := indexer.NewIndexer(store, keywordIndex, idxOpts...)

	return &Components{
		Storage:      store,
		KeywordIndex: keywordIndex,
		Ranker:       ranker,
		Engine:       engine,
		Indexer:      idx,
	}, nil
}

func printUsage() {
	fmt.Println(`shoplore - Business listing search backend

Usage:
  shoplore server [flags]           Start the HTTP server
  shoplore search [flags] <query>   Search listings
  shoplore index [flags] <file>     Index listings from a JSON file
  shoplore delete [flags] <id>      Delete a listing
  shoplore status [flags]           Show storage/index status
  shoplore version                  Show version
  shoplore help                     Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/shoplore/config.yaml)
  --debug            Enable debug logging

Search Flags:
  --config string     Config file path (for direct storage mode)
  --server string     Server URL (default: http://localhost:8080). Use empty (--server "") for direct storage.
  --limit int         Number of results (default: 10)
  --offset int        Result offset for pagination
  --category string   Restrict results to a category
  --spell-check       Enable typo correction (default: true)
  --debug-rank        Include per-result ranking breakdown
  --output string     Output format: text or json (default: text)

Index Flags:
  --config string    Config file path
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct storage.

Status Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct storage.
  --output string    Output format: text or json (default: text)

Examples:
  shoplore server
  shoplore search "pencil store"
  shoplore search --category food coffee
  shoplore search --debug-rank --output json pensil
  shoplore index listings.json
  shoplore delete 7f2c9a
  shoplore status --output json`)
}

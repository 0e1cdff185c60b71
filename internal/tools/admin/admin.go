// Package admin implements the authoring CLI: payload validation, catalog
// imports, daily scheduling, word list builds, and service diagnosis.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/puzzlebox-games/puzzlebox/internal/content"
	"github.com/puzzlebox-games/puzzlebox/internal/platform/discovery"
	platformgrpc "github.com/puzzlebox-games/puzzlebox/internal/platform/grpc"
	"github.com/puzzlebox-games/puzzlebox/internal/platform/timeouts"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
	"github.com/puzzlebox-games/puzzlebox/internal/services/catalog/domain"
	"github.com/puzzlebox-games/puzzlebox/internal/services/catalog/storage"
	catalogsqlite "github.com/puzzlebox-games/puzzlebox/internal/services/catalog/storage/sqlite"
	"github.com/puzzlebox-games/puzzlebox/internal/tools/dictionary"
	"github.com/puzzlebox-games/puzzlebox/internal/tools/grantkey"

	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// Config holds authoring CLI configuration.
type Config struct {
	Validate   bool
	Import     bool
	Schedule   bool
	Dictionary bool
	Diagnose   bool

	DBPath     string        `env:"PUZZLEBOX_CATALOG_DB_PATH"`
	Timeout    time.Duration `env:"PUZZLEBOX_ADMIN_TIMEOUT" envDefault:"2m"`
	GameType   string
	Difficulty string
	File       string
	Date       string
	PuzzleID   string
	Grant      string

	WordsPath string
	CluesPath string
	OutPath   string
	MinLength int
	MaxLetter int

	CatalogAddr   string
	PlayAddr      string
	SchedulerAddr string
	MCPBaseURL    string

	JSONOutput bool
}

type envConfig struct {
	DBPath  string        `env:"PUZZLEBOX_CATALOG_DB_PATH"`
	Grant   string        `env:"PUZZLEBOX_AUTHORING_GRANT"`
	Timeout time.Duration `env:"PUZZLEBOX_ADMIN_TIMEOUT" envDefault:"2m"`
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var envCfg envConfig
	if err := env.Parse(&envCfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg := Config{
		DBPath:  envCfg.DBPath,
		Grant:   envCfg.Grant,
		Timeout: envCfg.Timeout,
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join("data", "catalog.db")
	}

	fs.BoolVar(&cfg.Validate, "validate", false, "validate a content payload without writing")
	fs.BoolVar(&cfg.Import, "import", false, "import a content payload into the catalog")
	fs.BoolVar(&cfg.Schedule, "schedule", false, "assign a daily puzzle (rotates when -puzzle-id is empty)")
	fs.BoolVar(&cfg.Dictionary, "dictionary", false, "build a word list document from a raw word file")
	fs.BoolVar(&cfg.Diagnose, "diagnose", false, "check health endpoints of the running services")

	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "path to catalog sqlite database (default: PUZZLEBOX_CATALOG_DB_PATH or data/catalog.db)")
	fs.StringVar(&cfg.GameType, "game-type", "", "game type slug (sudoku, nonogram, ...)")
	fs.StringVar(&cfg.Difficulty, "difficulty", "", "difficulty slug (easy|medium|hard|expert)")
	fs.StringVar(&cfg.File, "file", "", "content payload file (- reads stdin)")
	fs.StringVar(&cfg.Date, "date", "", "civil date YYYY-MM-DD (default: today UTC)")
	fs.StringVar(&cfg.PuzzleID, "puzzle-id", "", "puzzle ID to pin as the daily")
	fs.StringVar(&cfg.Grant, "grant", cfg.Grant, "authoring grant token (default: PUZZLEBOX_AUTHORING_GRANT, or self-minted from the signing key)")

	fs.StringVar(&cfg.WordsPath, "words", "", "raw word list file, one word per line (- reads stdin)")
	fs.StringVar(&cfg.CluesPath, "clues", "", "optional JSON file mapping words to clues")
	fs.StringVar(&cfg.OutPath, "out", "", "output file for the word list document (default: stdout)")
	fs.IntVar(&cfg.MinLength, "min-length", dictionary.DefaultConfig().MinLength, "minimum word length")
	fs.IntVar(&cfg.MaxLetter, "max-letters", dictionary.DefaultConfig().MaxDistinctLetters, "maximum distinct letters per word")

	fs.StringVar(&cfg.CatalogAddr, "catalog-addr", "", "catalog gRPC address (default: service convention)")
	fs.StringVar(&cfg.PlayAddr, "play-addr", "", "play gRPC address (default: service convention)")
	fs.StringVar(&cfg.SchedulerAddr, "scheduler-addr", "", "scheduler gRPC address (default: service convention)")
	fs.StringVar(&cfg.MCPBaseURL, "mcp-url", "", "MCP HTTP base URL (default: service convention)")

	fs.BoolVar(&cfg.JSONOutput, "json", false, "output JSON reports")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "overall timeout")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the authoring command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}

	verbs := 0
	for _, selected := range []bool{cfg.Validate, cfg.Import, cfg.Schedule, cfg.Dictionary, cfg.Diagnose} {
		if selected {
			verbs++
		}
	}
	if verbs == 0 {
		return errors.New("one of -validate, -import, -schedule, -dictionary, or -diagnose is required")
	}
	if verbs > 1 {
		return errors.New("verbs cannot be combined")
	}

	switch {
	case cfg.Validate:
		return runValidate(cfg, out)
	case cfg.Import:
		return runImport(ctx, cfg, out)
	case cfg.Schedule:
		return runSchedule(ctx, cfg, out)
	case cfg.Dictionary:
		return runDictionary(cfg, out, errOut)
	default:
		return runDiagnose(ctx, cfg, out, errOut)
	}
}

type validateReport struct {
	Mode     string `json:"mode"`
	GameType string `json:"game_type"`
	File     string `json:"file"`
	Bytes    int    `json:"bytes"`
}

func runValidate(cfg Config, out io.Writer) error {
	gameType, err := puzzle.ParseGameType(strings.TrimSpace(cfg.GameType))
	if err != nil {
		return fmt.Errorf("-game-type: %w", err)
	}
	payload, err := readPayload(cfg.File)
	if err != nil {
		return err
	}
	if err := content.Validate(gameType, payload); err != nil {
		return err
	}

	if cfg.JSONOutput {
		return outputJSON(out, validateReport{
			Mode:     "validate",
			GameType: gameType.String(),
			File:     cfg.File,
			Bytes:    len(payload),
		})
	}
	fmt.Fprintf(out, "Validated %s payload (%d bytes)\n", gameType.String(), len(payload))
	return nil
}

type importReport struct {
	Mode       string `json:"mode"`
	PuzzleID   string `json:"puzzle_id"`
	GameType   string `json:"game_type"`
	Difficulty string `json:"difficulty"`
}

func runImport(ctx context.Context, cfg Config, out io.Writer) error {
	payload, err := readPayload(cfg.File)
	if err != nil {
		return err
	}
	grantCfg, ok, err := domain.LoadGrantConfigFromEnv(nil)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("authoring grants are not configured; set %s, %s, and %s", domain.EnvGrantIssuer, domain.EnvGrantAudience, domain.EnvGrantPublicKey)
	}
	grant, err := resolveGrant(cfg, grantCfg.Issuer, grantCfg.Audience)
	if err != nil {
		return err
	}

	store, err := openCatalogStore(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	service := domain.NewService(store, &grantCfg, nil)
	record, err := service.ImportPuzzle(ctx, grant, domain.ImportInput{
		GameType:   cfg.GameType,
		Difficulty: cfg.Difficulty,
		Payload:    payload,
	})
	if err != nil {
		return err
	}

	if cfg.JSONOutput {
		return outputJSON(out, importReport{
			Mode:       "import",
			PuzzleID:   record.ID,
			GameType:   record.GameType.String(),
			Difficulty: record.Difficulty.String(),
		})
	}
	fmt.Fprintf(out, "Imported %s puzzle %s (difficulty %s)\n", record.GameType.String(), record.ID, record.Difficulty.String())
	return nil
}

// resolveGrant returns the supplied grant token, or mints a short-lived one
// when the signing key is in the environment.
func resolveGrant(cfg Config, issuer, audience string) (string, error) {
	if grant := strings.TrimSpace(cfg.Grant); grant != "" {
		return grant, nil
	}
	signingKey := strings.TrimSpace(os.Getenv(grantkey.EnvGrantPrivateKey))
	if signingKey == "" {
		return "", fmt.Errorf("-grant or %s is required", grantkey.EnvGrantPrivateKey)
	}
	return grantkey.Mint(grantkey.MintOptions{
		PrivateKey: signingKey,
		Issuer:     issuer,
		Audience:   audience,
		Subject:    "admin-cli",
		TTL:        5 * time.Minute,
	})
}

type scheduleReport struct {
	Mode     string `json:"mode"`
	Date     string `json:"date"`
	GameType string `json:"game_type"`
	PuzzleID string `json:"puzzle_id"`
}

func runSchedule(ctx context.Context, cfg Config, out io.Writer) error {
	gameType, err := puzzle.ParseGameType(strings.TrimSpace(cfg.GameType))
	if err != nil {
		return fmt.Errorf("-game-type: %w", err)
	}
	date := strings.TrimSpace(cfg.Date)
	if date == "" {
		date = time.Now().UTC().Format(storage.DateLayout)
	}

	store, err := openCatalogStore(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	service := domain.NewService(store, nil, nil)
	var assignment storage.DailyAssignment
	if strings.TrimSpace(cfg.PuzzleID) != "" {
		assignment, err = service.AssignDaily(ctx, date, gameType, cfg.PuzzleID)
	} else {
		assignment, err = service.RotateDaily(ctx, date, gameType)
	}
	if err != nil {
		return err
	}

	if cfg.JSONOutput {
		return outputJSON(out, scheduleReport{
			Mode:     "schedule",
			Date:     assignment.Date,
			GameType: assignment.GameType.String(),
			PuzzleID: assignment.PuzzleID,
		})
	}
	fmt.Fprintf(out, "Assigned %s daily for %s: puzzle %s\n", assignment.GameType.String(), assignment.Date, assignment.PuzzleID)
	return nil
}

func runDictionary(cfg Config, out io.Writer, errOut io.Writer) error {
	if strings.TrimSpace(cfg.WordsPath) == "" {
		return errors.New("-words is required")
	}

	words, closeWords, err := openInput(cfg.WordsPath)
	if err != nil {
		return err
	}
	defer closeWords()

	clues := map[string]string{}
	if path := strings.TrimSpace(cfg.CluesPath); path != "" {
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open clues: %w", err)
		}
		defer file.Close()
		clues, err = dictionary.LoadClues(file)
		if err != nil {
			return fmt.Errorf("load clues: %w", err)
		}
	}

	dictCfg := dictionary.Config{MinLength: cfg.MinLength, MaxDistinctLetters: cfg.MaxLetter}
	doc, err := dictionary.Process(words, clues, dictCfg, time.Now().UTC())
	if err != nil {
		return err
	}

	target := out
	if path := strings.TrimSpace(cfg.OutPath); path != "" {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer file.Close()
		target = file
	}
	if err := dictionary.WriteJSON(target, doc); err != nil {
		return err
	}
	dictionary.Summarize(errOut, doc)
	return nil
}

type diagnoseReport struct {
	Service string `json:"service"`
	Addr    string `json:"addr"`
	Status  string `json:"status"`
	Detail  string `json:"detail,omitempty"`
	Error   string `json:"error,omitempty"`
}

func runDiagnose(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	targets := []struct {
		name string
		addr string
	}{
		{discovery.ServiceCatalog, discovery.OrDefaultGRPCAddr(cfg.CatalogAddr, discovery.ServiceCatalog)},
		{discovery.ServicePlay, discovery.OrDefaultGRPCAddr(cfg.PlayAddr, discovery.ServicePlay)},
		{discovery.ServiceScheduler, discovery.OrDefaultGRPCAddr(cfg.SchedulerAddr, discovery.ServiceScheduler)},
	}

	failed := false
	for _, target := range targets {
		report := checkGRPCHealth(ctx, target.name, target.addr)
		if report.Error != "" {
			failed = true
		}
		printDiagnoseReport(out, errOut, cfg.JSONOutput, report)
	}

	mcpReport := checkMCPHealth(ctx, discovery.OrDefaultHTTPBaseURL(cfg.MCPBaseURL, discovery.ServiceMCP))
	if mcpReport.Error != "" {
		failed = true
	}
	printDiagnoseReport(out, errOut, cfg.JSONOutput, mcpReport)

	if failed {
		return errors.New("diagnose failed")
	}
	return nil
}

func checkGRPCHealth(ctx context.Context, service, addr string) diagnoseReport {
	report := diagnoseReport{Service: service, Addr: addr}

	conn, err := platformgrpc.DialWithHealth(ctx, nil, addr, timeouts.GRPCDial, nil, platformgrpc.DefaultClientDialOptions()...)
	if err != nil {
		report.Status = "UNREACHABLE"
		report.Error = err.Error()
		return report
	}
	defer conn.Close()

	callCtx, cancel := context.WithTimeout(ctx, timeouts.GRPCRequest)
	defer cancel()
	response, err := grpc_health_v1.NewHealthClient(conn).Check(callCtx, &grpc_health_v1.HealthCheckRequest{Service: service})
	if err != nil {
		report.Status = "UNKNOWN"
		report.Error = err.Error()
		return report
	}
	report.Status = response.GetStatus().String()
	report.Detail = protojson.Format(response)
	if response.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		report.Error = fmt.Sprintf("service %s is not serving", service)
	}
	return report
}

func checkMCPHealth(ctx context.Context, baseURL string) diagnoseReport {
	report := diagnoseReport{Service: discovery.ServiceMCP, Addr: baseURL}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+"/mcp/health", nil)
	if err != nil {
		report.Status = "UNREACHABLE"
		report.Error = err.Error()
		return report
	}
	client := &http.Client{Timeout: timeouts.GRPCRequest}
	response, err := client.Do(request)
	if err != nil {
		report.Status = "UNREACHABLE"
		report.Error = err.Error()
		return report
	}
	defer response.Body.Close()
	body, err := io.ReadAll(io.LimitReader(response.Body, 4096))
	if err != nil {
		report.Status = "UNKNOWN"
		report.Error = err.Error()
		return report
	}
	report.Status = response.Status
	report.Detail = strings.TrimSpace(string(body))
	if response.StatusCode != http.StatusOK {
		report.Error = fmt.Sprintf("MCP health returned %s", response.Status)
	}
	return report
}

func printDiagnoseReport(out io.Writer, errOut io.Writer, jsonOutput bool, report diagnoseReport) {
	if jsonOutput {
		if err := outputJSON(out, report); err != nil {
			fmt.Fprintf(errOut, "Error: %v\n", err)
		}
		return
	}
	fmt.Fprintf(out, "%s (%s): %s\n", report.Service, report.Addr, report.Status)
	if report.Error != "" {
		fmt.Fprintf(errOut, "  Error: %s\n", report.Error)
	}
}

func openCatalogStore(ctx context.Context, path string) (*catalogsqlite.Store, error) {
	cleanPath := filepath.Clean(strings.TrimSpace(path))
	if cleanPath == "." || cleanPath == "" {
		return nil, errors.New("catalog db path is required")
	}
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	return catalogsqlite.Open(ctx, cleanPath)
}

func readPayload(path string) (json.RawMessage, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("-file is required")
	}
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return json.RawMessage(data), nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open words: %w", err)
	}
	return file, func() { _ = file.Close() }, nil
}

func outputJSON(out io.Writer, report any) error {
	encoded, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = fmt.Fprintln(out, string(encoded))
	return err
}

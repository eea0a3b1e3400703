package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/formkeeper/spam-blocker/internal/config"
	"github.com/formkeeper/spam-blocker/internal/core"
	"github.com/formkeeper/spam-blocker/internal/logging"
	"go.uber.org/zap"
)

var (
	// Blocklist flags
	keywords     = flag.String("keywords", "", "Comma-separated keyword blocklist (overrides config)")
	fieldsToScan = flag.String("fields", "", "Comma-separated field selectors to scan (overrides config)")
	mode         = flag.String("mode", "", "Enforcement mode: reject or silent (overrides config)")

	// Input flags
	inputFile = flag.String("file", "", "Input submission JSON file (use stdin if not specified)")
	verbose   = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog   = flag.Bool("json-log", false, "Output logs in JSON format")
)

// submissionInput is the JSON shape accepted on stdin or via -file
type submissionInput struct {
	FormID string `json:"form_id"`
	Fields []struct {
		Key   string `json:"key"`
		ID    string `json:"id"`
		Title string `json:"title"`
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"fields"`
}

func main() {
	flag.Parse()

	// Initialize logger
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.New()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	settings := settingsFromFlags(cfg)

	// Read submission from file or stdin
	var input io.Reader
	if *inputFile != "" {
		file, err := os.Open(*inputFile)
		if err != nil {
			logger.Fatal("Failed to open input file", zap.Error(err), zap.String("file", *inputFile))
		}
		defer file.Close()
		input = file
		logger.Info("Reading submission from file", zap.String("file", *inputFile))
	} else {
		input = os.Stdin
		logger.Info("Reading submission from stdin")
	}

	var submission submissionInput
	if err := json.NewDecoder(input).Decode(&submission); err != nil {
		logger.Fatal("Failed to parse submission", zap.Error(err))
	}

	record := &core.SubmissionRecord{}
	for _, f := range submission.Fields {
		record.Fields = append(record.Fields, core.FormField{
			Key:   f.Key,
			ID:    f.ID,
			Title: f.Title,
			Type:  f.Type,
			Value: f.Value,
		})
	}

	// Classify
	content := core.ExtractContent(record, settings.FieldsToScan)
	keyword, matched := core.FindMatch(content, settings.Keywords)

	// Print results
	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Form: %s\n", submission.FormID)
	fmt.Printf("Scanned content: %d bytes\n", len(content))
	fmt.Printf("Spam: %t\n", matched)
	if matched {
		fmt.Printf("Matched keyword: %s\n", keyword)
		fmt.Printf("Mode: %s\n", settings.Mode)
		if settings.Mode == core.ModeReject {
			fmt.Printf("Outcome: submission would be rejected: %s\n", settings.RejectMessage)
			os.Exit(2)
		}
		fmt.Printf("Outcome: submission would be accepted, notifications suppressed\n")
		os.Exit(2)
	}
	fmt.Printf("Outcome: submission would be accepted\n")
}

// settingsFromFlags builds the blocklist settings, preferring flags over
// the configuration file
func settingsFromFlags(cfg *config.Config) core.Settings {
	blocklist := cfg.GetBlocklist()

	settings := core.Settings{
		Keywords:      blocklist.Keywords,
		Mode:          core.ParseMode(blocklist.Mode),
		FieldsToScan:  blocklist.FieldsToScan,
		RejectMessage: blocklist.RejectMessage,
	}
	if settings.RejectMessage == "" {
		settings.RejectMessage = core.DefaultRejectMessage
	}

	if *keywords != "" {
		settings.Keywords = splitAndTrim(*keywords)
	}
	if *fieldsToScan != "" {
		settings.FieldsToScan = splitAndTrim(*fieldsToScan)
	}
	if *mode != "" {
		settings.Mode = core.ParseMode(*mode)
	}

	return settings
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

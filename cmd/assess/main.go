// Command assess runs the assessment pipeline for one account, or for every
// account listed in a one-column CSV, and prints the results as JSON.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/ai"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/baddomain"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/logger"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/salesforce"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/scoring"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/services"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/pkg/config"
)

func main() {
	accountID := flag.String("id", "", "account ID to assess (15 or 18 characters)")
	idsFile := flag.String("ids-file", "", "CSV file with one account ID per row")
	skipAI := flag.Bool("skip-ai", false, "skip the AI judgment stage")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall timeout")
	flag.Parse()

	if (*accountID == "") == (*idsFile == "") {
		fmt.Fprintln(os.Stderr, "usage: assess -id <account_id> | -ids-file <file.csv> [-skip-ai]")
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.New()
	log := logger.New(cfg.Environment)

	badDomains, err := baddomain.Load(cfg.BadDomainsPath)
	if err != nil {
		log.Warn("could not load bad domain list", "path", cfg.BadDomainsPath, "error", err)
		badDomains = baddomain.NewSet()
	}

	sfClient := salesforce.NewClient(cfg)

	var judge scoring.Judge
	if cfg.HasOpenAIKey() && !*skipAI {
		judge = ai.NewClient(cfg)
	}

	pipeline := scoring.NewPipeline(scoring.NewEngine(badDomains), sfClient, judge, log)
	assessments := services.NewAssessmentService(sfClient, pipeline, cfg, log)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var result interface{}
	if *accountID != "" {
		assessment, err := assessments.AssessAccount(ctx, *accountID)
		if err != nil {
			log.Fatal("assessment failed", err, "account_id", *accountID)
		}
		result = assessment
	} else {
		ids, err := readIDs(*idsFile)
		if err != nil {
			log.Fatal("could not read ID file", err, "path", *idsFile)
		}
		batch, err := assessments.AssessAccounts(ctx, ids)
		if err != nil {
			log.Fatal("batch assessment failed", err, "path", *idsFile)
		}
		result = batch
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal("could not encode result", err)
	}
	fmt.Println(string(out))
}

// readIDs reads account IDs from the first column of a CSV file, skipping
// blank cells and a header row if one is present.
func readIDs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, record := range records {
		if len(record) == 0 {
			continue
		}
		id := strings.TrimSpace(record[0])
		if id == "" || strings.EqualFold(id, "id") || strings.EqualFold(id, "account id") {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no account IDs found in %s", path)
	}
	return ids, nil
}

// Seeds the search index from a CSV of historical bad logs. One-off
// helper for bootstrapping a development environment:
//
//	go run main.go badlogs.csv
//
// Expected columns: upload_ts,hostname,label,log_line
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"rackops-backend/internal/model"
	"rackops-backend/internal/util"
)

func main() {
	csvPath := "badlogs.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}

	cfg := elasticsearch.Config{
		Addresses: []string{"http://localhost:9200"},
	}
	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		log.Fatalf("Error creating Elasticsearch client: %v", err)
	}

	file, err := os.Open(csvPath)
	if err != nil {
		log.Fatalf("Error opening CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 4

	ctx := context.Background()
	index := "badlogs-" + time.Now().UTC().Format("2006-01-02")
	var lastID int64

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Error reading CSV row: %v", err)
			continue
		}

		loggedAt, err := util.ParseTimeFlexible(record[0])
		if err != nil {
			log.Printf("Skipping row with bad timestamp %q: %v", record[0], err)
			continue
		}

		id := loggedAt.UnixNano()
		if id <= lastID {
			id = lastID + 1
		}
		lastID = id

		entry := model.LogEntry{
			ID:       id,
			LoggedAt: loggedAt.UTC(),
			UploadTS: record[0],
			Hostname: record[1],
			Label:    record[2],
			LogLine:  record[3],
			Severity: model.LabelSeverity(record[2]),
			Source:   csvPath,
		}

		docJSON, err := json.Marshal(entry)
		if err != nil {
			log.Printf("Error marshaling entry %d: %v", entry.ID, err)
			continue
		}

		req := esapi.IndexRequest{
			Index:      index,
			DocumentID: fmt.Sprintf("%d", entry.ID),
			Body:       strings.NewReader(string(docJSON)),
			Refresh:    "true",
		}

		res, err := req.Do(ctx, es)
		if err != nil {
			log.Printf("Error indexing entry %d: %v", entry.ID, err)
			continue
		}
		if res.IsError() {
			log.Printf("Error response from Elasticsearch for entry %d: %s", entry.ID, res.String())
		} else {
			fmt.Printf("Indexed entry %d (%s %s)\n", entry.ID, entry.Hostname, entry.Label)
		}
		res.Body.Close()
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"lesson-reconciler/core/config"
	"lesson-reconciler/core/database"
	"lesson-reconciler/core/reconcile"
	"lesson-reconciler/core/storage"
	"lesson-reconciler/feature/lessons"

	"go.uber.org/zap"
)

// Prints how a school's roster and stored lessons normalize, to explain
// why a student fails to pair. Usage: debug_roster <school id> [student name]
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: debug_roster <school id> [student name]")
	}
	school := os.Args[1]

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	roster := lessons.NewRosterSource(client, cfg.Storage.Bucket, cfg.Roster.Prefix, cfg.Roster.Extension, zap.NewNop())
	store := lessons.NewStore(db, zap.NewNop())

	fmt.Println("=== TEST 1: Roster Loading ===")
	fmt.Printf("Object: %s/%s\n", cfg.Storage.Bucket, roster.ObjectName(school))
	rows, err := roster.FetchRoster(ctx, school)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Total roster rows loaded: %d\n", len(rows))

	fmt.Println("\n=== TEST 2: Database Loading ===")
	stored, err := store.FetchLessons(ctx, school)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Total stored lessons loaded: %d\n", len(stored))

	filter := ""
	if len(os.Args) > 2 {
		filter = reconcile.NormalizeName(os.Args[2])
	}

	type entry struct {
		Source     string `json:"source"`
		Raw        string `json:"raw"`
		Normalized string `json:"normalized"`
		Duration   int    `json:"duration"`
		Subject    string `json:"subject"`
		StartDate  string `json:"start_date"`
		DateOK     bool   `json:"date_ok"`
		Ref        string `json:"ref"`
	}

	var entries []entry
	for _, r := range rows {
		name := reconcile.NormalizeName(r.StudentName)
		if filter != "" && name != filter {
			continue
		}
		date, ok := reconcile.NormalizeDate(r.StartDate)
		entries = append(entries, entry{
			Source: "roster", Raw: r.StudentName, Normalized: name, Duration: r.Duration,
			Subject: r.SubjectName, StartDate: date, DateOK: ok, Ref: fmt.Sprintf("row %d", r.SourceRow),
		})
	}
	for _, l := range stored {
		name := reconcile.NormalizeName(l.StudentName)
		if filter != "" && name != filter {
			continue
		}
		raw := ""
		if l.StartDate != nil {
			raw = *l.StartDate
		}
		date, ok := reconcile.NormalizeDate(raw)
		entries = append(entries, entry{
			Source: "store", Raw: l.StudentName, Normalized: name, Duration: l.Duration,
			Subject: l.SubjectName, StartDate: date, DateOK: ok, Ref: l.ID,
		})
	}

	fmt.Println("\n=== TEST 3: Normalized Records ===")
	data, _ := json.MarshalIndent(entries, "", "  ")
	fmt.Println(string(data))

	fmt.Println("\n=== TEST 4: Comparison ===")
	result := reconcile.NewEngine(zap.NewNop()).Compare(stored, rows)
	data, _ = json.MarshalIndent(result.Summary, "", "  ")
	fmt.Println(string(data))
}

package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/pageza/foodgram-v2/backend/config"
	"github.com/pageza/foodgram-v2/backend/internal/database"
	"github.com/pageza/foodgram-v2/backend/internal/models"
)

const batchSize = 500

type ingredientRow struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// Loads the ingredient catalogue from a CSV ("name,measurement_unit"
// per line, no header) or a JSON array of objects. Existing rows with
// the same name and unit are skipped.
func main() {
	path := flag.String("file", "data/ingredients.csv", "Path to the CSV or JSON ingredient file")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	rows, err := readIngredients(*path)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *path, err)
	}

	inserted := 0
	batch := make([]models.Ingredient, 0, batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := db.Create(&batch).Error; err != nil {
			log.Fatalf("Failed to insert ingredients: %v", err)
		}
		inserted += len(batch)
		batch = batch[:0]
	}

	for _, row := range rows {
		if row.Name == "" || row.MeasurementUnit == "" {
			continue
		}
		var count int64
		if err := db.Model(&models.Ingredient{}).
			Where("name = ? AND measurement_unit = ?", row.Name, row.MeasurementUnit).
			Count(&count).Error; err != nil {
			log.Fatalf("Failed to check for existing ingredient: %v", err)
		}
		if count > 0 {
			continue
		}
		batch = append(batch, models.Ingredient{
			Name:            row.Name,
			MeasurementUnit: row.MeasurementUnit,
		})
		if len(batch) == batchSize {
			flush()
		}
	}
	flush()

	fmt.Printf("Loaded %d ingredients from %s\n", inserted, *path)
}

func readIngredients(path string) ([]ingredientRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if filepath.Ext(path) == ".json" {
		var rows []ingredientRow
		if err := json.NewDecoder(file).Decode(&rows); err != nil {
			return nil, err
		}
		return rows, nil
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 2
	var rows []ingredientRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, ingredientRow{Name: record[0], MeasurementUnit: record[1]})
	}
	return rows, nil
}

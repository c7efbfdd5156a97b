package inspect

// Fixture functions introspected by the tests in this package. They are
// never executed.

import (
	"fmt"
	"strings"
	"time"
)

// create_dataset exports a table to CSV for downstream training.
//
// Args:
//   bq_table: Fully qualified name of the source table.
//   data_path: Destination path for the exported CSV,
//     relative to the pipeline storage root.
func create_dataset(bq_table string, data_path string) {
	fmt.Println("export", bq_table, "to", data_path)
}

type trainOutput struct {
	score float64
}

// train_model fits a model on the exported dataset.
//
// Args:
//   data_path: Path of the training CSV.
func train_model(data_path string) trainOutput {
	_ = strings.TrimSpace(data_path)
	return trainOutput{score: 0}
}

func untyped_param(name string, payload any) {
	_ = name
	_ = payload
}

func optional_param(region *string, retries *int) {
	_ = region
	_ = retries
}

func scalar_return(n int) int {
	return n
}

func optional_return(n int) *trainOutput {
	_ = n
	return nil
}

func tuple_return(n int) (int, error) {
	return n, nil
}

func exotic_param(ts time.Time) {
	_ = ts
}

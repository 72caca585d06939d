package parser

import (
	"fmt"
	"strings"

	"github.com/SebastianManriqueM/r2x-reeds/pkg/datastore"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/errors"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/frame"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/result"
)

// collectDataset resolves and materializes a dataset, converting every
// failure into a validation error so checks compose with early returns.
func collectDataset(store *datastore.DataStore, dataset string) result.Result[*frame.Frame] {
	lf, err := store.ReadData(dataset)
	if err != nil {
		return result.Err[*frame.Frame](errors.Wrap(err, errors.ErrorTypeValidation,
			"dataset check failed for "+dataset))
	}
	f, err := lf.Collect()
	if err != nil {
		return result.Err[*frame.Frame](errors.Wrap(err, errors.ErrorTypeValidation,
			"dataset check failed for "+dataset))
	}
	return result.Ok(f)
}

// CheckDatasetNonEmpty verifies the dataset is registered and has rows.
func CheckDatasetNonEmpty(store *datastore.DataStore, dataset string) result.Result[struct{}] {
	fr := collectDataset(store, dataset)
	if fr.IsErr() {
		return result.Err[struct{}](fr.UnwrapErr())
	}
	if fr.Unwrap().IsEmpty() {
		return result.Err[struct{}](errors.Newf(errors.ErrorTypeValidation,
			"Dataset %s is empty", dataset))
	}
	return result.Ok(struct{}{})
}

// CheckColumnExists verifies the dataset has the column, reporting the
// available columns on failure.
func CheckColumnExists(store *datastore.DataStore, dataset, column string) result.Result[struct{}] {
	fr := collectDataset(store, dataset)
	if fr.IsErr() {
		return result.Err[struct{}](fr.UnwrapErr())
	}
	f := fr.Unwrap()
	if !f.HasColumn(column) {
		return result.Err[struct{}](errors.Newf(errors.ErrorTypeValidation,
			"Column %s not found in dataset %s. Available columns: %s",
			column, dataset, strings.Join(f.Columns(), ", ")))
	}
	return result.Ok(struct{}{})
}

// CheckRequiredValuesInColumn verifies every required value appears in the
// column. An empty column name defaults to the dataset name; what labels the
// values in the error message.
func CheckRequiredValuesInColumn(
	store *datastore.DataStore,
	dataset, column string,
	required []any,
	what string,
) result.Result[struct{}] {
	if column == "" {
		column = dataset
	}
	if what == "" {
		what = "Value(s)"
	}
	if colCheck := CheckColumnExists(store, dataset, column); colCheck.IsErr() {
		return colCheck
	}
	fr := collectDataset(store, dataset)
	if fr.IsErr() {
		return result.Err[struct{}](fr.UnwrapErr())
	}

	present := make(map[string]bool)
	for _, v := range fr.Unwrap().Column(column) {
		present[fmt.Sprintf("%v", v)] = true
	}
	var missing []string
	for _, v := range required {
		key := fmt.Sprintf("%v", v)
		if !present[key] {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		available := make([]string, 0, len(present))
		for v := range present {
			available = append(available, v)
		}
		return result.Err[struct{}](errors.Newf(errors.ErrorTypeValidation,
			"%s %s not found in column %s of dataset %s. Available: %s",
			what, strings.Join(missing, ", "), column, dataset,
			strings.Join(available, ", ")))
	}
	return result.Ok(struct{}{})
}

// Package dataprocessing cleans a retail sales export into a modelling
// dataset. It consolidates loading, row filtering, column projection and
// value normalization into a single-pass transform over an in-memory table.
//
// # Architecture
//
// The pipeline runs these stages in order, each a function over
// *domain.Table:
//
//  1. Loader: reads the ';'-delimited file, trying each configured encoding
//  2. Filter: keeps the rows of one segment (GRIFFE == "SACADA")
//  3. Project: selects the mapped columns and renames them
//  4. NormalizeNumeric: parses comma-decimal text and fills missing values
//  5. NormalizeCategorical: upper-cases, extracts cluster labels, sets
//     constants and remaps color aliases
//
// The Cleaner wires the stages together, writes the result through a
// TableWriter and reports what it did in a domain.CleaningReport.
//
// # Usage
//
//	loader := dataprocessing.NewLoader(';', []string{"latin1", "utf-8"}, logger)
//	cleaner, err := dataprocessing.NewCleaner(domain.DefaultRules(), loader,
//	    exporter.NewCSVWriter(',', logger), logger)
//	if err != nil {
//	    return err
//	}
//	report, table, err := cleaner.Run(ctx, dataprocessing.Options{
//	    InputPath:  "prim_ver_24(n tratado).csv",
//	    OutputPath: "dataset_tratado_pv24.csv",
//	})
//
// # Error Handling
//
// Stage failures are *errors.AppError values carrying the stage name.
// Numeric coercion failures are not errors: the cell is marked missing
// and filled by the column's policy.
package dataprocessing

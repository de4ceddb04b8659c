// Package config provides configuration management for tabclean.
// It loads runtime settings from the environment and resolves the business
// rules that drive the cleaning pipeline.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A .env file in the working directory
//	3. Default values from struct tags (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern TABCLEAN_* for namespacing:
//
//	TABCLEAN_INPUT_PATH="prim_ver_24(n tratado).csv"
//	TABCLEAN_INPUT_ENCODINGS=latin1,utf-8
//	TABCLEAN_OUTPUT_PATH=dataset_tratado_pv24.csv
//	TABCLEAN_OUTPUT_XLSX_PATH=dataset_tratado_pv24.xlsx
//	TABCLEAN_RULES_FILE=rules.yaml
//	TABCLEAN_LOGGING_LEVEL=debug
//	TABCLEAN_TELEMETRY_METRICS_FILE=/var/lib/node_exporter/tabclean.prom
//
// # Rules File
//
// Business rules default to the SACADA segment of the sales export. A YAML
// file may override any section; absent sections keep their defaults and
// alias values extend the default table unless replace is set:
//
//	discriminator:
//	  column: GRIFFE
//	  value: SACADA
//	aliases:
//	  values:
//	    EST LISTRA FRESH YO: ESTAMPADO
//
// Rules are validated before a run: destinations must be unique, every
// normalized column must be a mapped destination, and alias targets may
// not themselves be remapped.
package config

package config

import "github.com/tsmerge/tsmerge/lib/catalogue"

func DefaultTsMergeConfig() *TsMergeConfig {
	return &TsMergeConfig{
		Merge: MergeConfig{
			EquivalentContexts: [][]string{},
		},
		Catalogue: CatalogueConfig{
			Pattern: catalogue.DefaultPattern,
		},
		Interactive: InteractiveConfig{
			PageSize: 10,
		},
		Report: ReportConfig{
			LupdateHint: "lupdate",
		},
	}
}

// TsMergeConfig is the optional configuration file of tsmerge.
type TsMergeConfig struct {
	Merge       MergeConfig
	Catalogue   CatalogueConfig
	Interactive InteractiveConfig
	Report      ReportConfig
}

type MergeConfig struct {
	// Pairs of context names that count as the same context when strings are
	// matched, e.g. contexts that were renamed in the application.
	// Example: EquivalentContexts = [["MainPage", "LegacyMainPage"]]
	EquivalentContexts [][]string `ignored:"true"`

	// Overwrite finished translations in the target without asking.
	Overwrite bool

	// Leave every alternative that was not applied as an
	// <!-- alternative translation: ... --> comment in the saved target.
	AnnotateAlternatives bool
}

type CatalogueConfig struct {
	// Glob selecting catalogue files inside a directory.
	Pattern string
}

type InteractiveConfig struct {
	// Number of options visible at once in the interactive picker.
	PageSize int
}

type ReportConfig struct {
	// Name of the lupdate binary suggested in the conclusion of the report.
	// It may be called lupdate-qt5 on some systems.
	LupdateHint string
}

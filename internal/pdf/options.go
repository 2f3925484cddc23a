package pdf

import (
	"fmt"
	"os"
)

// LoadOptions reads the configured font files from disk. Empty paths leave
// the corresponding option unset and the renderer falls back to Helvetica.
func LoadOptions(regularPath, boldPath, currency string) (Options, error) {
	opts := Options{Currency: currency}

	if regularPath != "" {
		data, err := os.ReadFile(regularPath)
		if err != nil {
			return Options{}, fmt.Errorf("read font file: %w", err)
		}
		opts.FontRegular = data
	}
	if boldPath != "" {
		data, err := os.ReadFile(boldPath)
		if err != nil {
			return Options{}, fmt.Errorf("read bold font file: %w", err)
		}
		opts.FontBold = data
	}
	return opts, nil
}

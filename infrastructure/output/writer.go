// ABOUTME: Result writer persists the final catalog as a "Category,#genre#" text file
// ABOUTME: Also writes a result log with measured scores when ranking was enabled

package output

import (
	"bufio"
	"context"
	"fmt"
	"strconv"

	"channel-catalog/core/domain"
	"channel-catalog/core/interfaces"
)

// WriterOptions configures the result writer
type WriterOptions struct {
	FinalFile string

	// LogFile is written only when WriteLog is set
	LogFile  string
	WriteLog bool

	// URLsLimit caps the endpoints written per channel; 0 means all
	URLsLimit int
}

// ResultWriter implements interfaces.CatalogWriter
type ResultWriter struct {
	opts   WriterOptions
	logger interfaces.Logger
}

// NewResultWriter creates the final file writer
func NewResultWriter(opts WriterOptions, deps interfaces.Dependencies) *ResultWriter {
	return &ResultWriter{opts: opts, logger: deps.Log()}
}

// Write renders catalog in template order. Channels the template does not
// declare are not written.
func (w *ResultWriter) Write(ctx context.Context, template domain.Template, catalog domain.Catalog) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := writeAtomic(w.opts.FinalFile, func(out *bufio.Writer) error {
		for i, category := range template.Categories {
			if i > 0 {
				out.WriteString("\n")
			}
			fmt.Fprintf(out, "%s,%s\n", category.Name, "#genre#")
			for _, channel := range category.Channels {
				candidates, _ := catalog.Get(domain.ChannelKey{Category: category.Name, Name: channel.Name})
				for _, candidate := range limited(candidates, w.opts.URLsLimit) {
					fmt.Fprintf(out, "%s,%s\n", channel.Name, candidate.URL)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	w.logger.Info("Result file written", map[string]interface{}{
		"path":     w.opts.FinalFile,
		"channels": len(template.Keys()),
	})

	if !w.opts.WriteLog || w.opts.LogFile == "" {
		return nil
	}
	return w.writeLog(template, catalog)
}

func (w *ResultWriter) writeLog(template domain.Template, catalog domain.Catalog) error {
	return writeAtomic(w.opts.LogFile, func(out *bufio.Writer) error {
		for _, key := range template.Keys() {
			candidates, _ := catalog.Get(key)
			fmt.Fprintf(out, "%s / %s (%d)\n", key.Category, key.Name, len(candidates))
			for _, candidate := range candidates {
				score := "unprobed"
				if candidate.QualityScore != nil {
					score = strconv.FormatFloat(*candidate.QualityScore, 'f', 2, 64)
				}
				fmt.Fprintf(out, "  %s\tscore=%s\tsource=%s\n", candidate.URL, score, candidate.SourceID)
			}
		}
		return nil
	})
}

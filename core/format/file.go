package format

import (
	"fmt"
	"os"

	"github.com/macwille/pquery/core"
)

// File saves the results of a run to a file, one formatted block per query.
type File struct {
	fileName  string
	log       core.Logger
	formatter Formatter
}

func NewFile(fileName string, formatter Formatter, logger core.Logger) *File {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &File{
		fileName:  fileName,
		log:       logger,
		formatter: formatter,
	}
}

// Write truncates the file before writing.
func (f *File) Write(results [][]core.Record) error {
	file, err := os.Create(f.fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	for _, records := range results {
		err = f.formatter.Format(records, file)
		if err != nil {
			return fmt.Errorf("failed to format results as %s: %w", f.formatter.Name(), err)
		}
	}

	f.log.Info("successfully saved " + f.formatter.Name() + " to " + f.fileName)
	return nil
}

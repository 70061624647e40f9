package logging_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/macwille/pquery/logging"
)

func TestLogger_Level(t *testing.T) {
	r := require.New(t)

	var buf bytes.Buffer
	logger := logging.New(&buf, logging.LevelWarn)

	logger.Debug("hidden")
	logger.Infof("hidden %d", 1)
	logger.Warnf("shown %d", 2)
	logger.Error("shown too")

	out := buf.String()
	r.NotContains(out, "hidden")
	r.Contains(out, "[warn]: shown 2")
	r.Contains(out, "[error]: shown too")
}

func TestLogger_File(t *testing.T) {
	r := require.New(t)

	path := filepath.Join(t.TempDir(), "nested", "pquery.log")

	logger, err := logging.NewFile(path, logging.LevelDebug)
	r.NoError(err)
	logger.Debugf("run %s: executing", "abc")
	logger.Close()

	content, err := os.ReadFile(path)
	r.NoError(err)
	r.Contains(string(content), "[debug]: run abc: executing")
}

func TestLevelFromString(t *testing.T) {
	r := require.New(t)

	for _, l := range []logging.Level{logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError} {
		r.Equal(l, logging.LevelFromString(l.String()))
	}
	r.Equal(logging.LevelInfo, logging.LevelFromString("verbose"))
}

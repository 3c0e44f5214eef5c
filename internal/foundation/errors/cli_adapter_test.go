package errors

import (
	"bytes"
	stderrors "errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"validation", ValidationError("bad flag").Build(), 2},
		{"config", ConfigError("missing areas").Build(), 7},
		{"ports", ResourceError("exhausted").Build(), 9},
		{"parse", ParseError("bad yaml").Build(), 11},
		{"filesystem", FileSystemError("write failed").Build(), 11},
		{"internal", InternalError("hierarchy underflow").Build(), 10},
		{"unclassified", stderrors.New("boom"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	cause := stderrors.New("no such file or directory")
	err := ConfigError("load SiteConfig.yml").WithCause(cause).Build()

	quiet := NewCLIErrorAdapter(false, nil)
	require.Equal(t, "Error (config): load SiteConfig.yml", quiet.FormatError(err))

	verbose := NewCLIErrorAdapter(true, nil)
	require.Equal(t, "Error: load SiteConfig.yml\n  caused by: no such file or directory", verbose.FormatError(err))

	require.Equal(t, "Error: boom", quiet.FormatError(stderrors.New("boom")))
}

func TestCLIErrorAdapter_FormatErrorHintsRebuild(t *testing.T) {
	err := ParseError("invalid front matter").Build()
	require.Equal(t, "Error (parse): invalid front matter (fix the sources and build again)",
		NewCLIErrorAdapter(false, nil).FormatError(err))
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var out, logs bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))
	adapter.out = &out
	code := -1
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(nil)
	require.Equal(t, -1, code)

	adapter.HandleError(ResourceError("exhausted 10 candidate ports starting at 5000").WithContext("port", 5000).Build())
	require.Equal(t, 9, code)
	require.Equal(t, "Error (resource): exhausted 10 candidate ports starting at 5000\n", out.String())
	require.Contains(t, logs.String(), "category=resource")
	require.Contains(t, logs.String(), "port=5000")
}

package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_ConfigPathSources(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args []string
		want string
	}{
		{name: "long flag", args: []string{"--config", "main.hcl"}, want: "main.hcl"},
		{name: "shorthand flag", args: []string{"-c", "main.hcl"}, want: "main.hcl"},
		{name: "positional argument", args: []string{"main.hcl"}, want: "main.hcl"},
		{name: "long flag wins over positional", args: []string{"--config", "a.hcl", "b.hcl"}, want: "a.hcl"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out := &bytes.Buffer{}
			cfg, shouldExit, err := Parse(tc.args, out)
			require.NoError(t, err)
			require.False(t, shouldExit)
			require.Equal(t, tc.want, cfg.ConfigPath)
		})
	}
}

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	cfg, _, err := Parse([]string{"main.hcl"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, "text", cfg.LogFormat)
	require.Equal(t, "info", cfg.LogLevel)
	require.False(t, cfg.MockReplay)
}

func TestParse_ReplayMocksFlag(t *testing.T) {
	t.Parallel()

	cfg, _, err := Parse([]string{"--replay-mocks", "main.hcl"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.True(t, cfg.MockReplay)
}

func TestParse_NoArgsPrintsUsage(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse(nil, out)
	require.NoError(t, err)
	require.True(t, shouldExit)
	require.Nil(t, cfg)
	require.Contains(t, out.String(), "Usage:")
}

func TestParse_InvalidValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		args    []string
		errPart string
	}{
		{name: "bad log format", args: []string{"--log-format", "xml", "main.hcl"}, errPart: "invalid log-format"},
		{name: "bad log level", args: []string{"--log-level", "verbose", "main.hcl"}, errPart: "invalid log-level"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := Parse(tc.args, &bytes.Buffer{})
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			require.Equal(t, 2, exitErr.Code)
			require.Contains(t, exitErr.Message, tc.errPart)
		})
	}
}

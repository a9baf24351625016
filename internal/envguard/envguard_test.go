package envguard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		lookup LookupFunc
		want   Environment
	}{
		{
			name:   "a real resource name means embedded",
			lookup: func() (string, bool) { return "my-overlay", true },
			want:   Embedded,
		},
		{
			name:   "the sentinel frame identifier means browser",
			lookup: func() (string, bool) { return SentinelResource, true },
			want:   Browser,
		},
		{
			name:   "no identifier at all means browser",
			lookup: func() (string, bool) { return "", false },
			want:   Browser,
		},
		{
			name:   "an empty identifier means browser even when reported present",
			lookup: func() (string, bool) { return "", true },
			want:   Browser,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, Detect(tc.lookup))
		})
	}
}

func TestDetect_NilLookupUsesProcessEnvironment(t *testing.T) {
	t.Setenv("NUI_RESOURCE_NAME", "hud")
	require.Equal(t, Embedded, Detect(nil))

	t.Setenv("NUI_RESOURCE_NAME", "")
	require.Equal(t, Browser, Detect(nil))
}

func TestEnvironment_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "embedded", Embedded.String())
	require.Equal(t, "browser", Browser.String())
	require.True(t, Embedded.IsEmbedded())
	require.False(t, Browser.IsEmbedded())
}

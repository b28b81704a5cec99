package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "key")
	require.NoError(t, os.WriteFile(keyFile, []byte("  from-file \n"), 0o600))
	emptyFile := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(emptyFile, []byte("   "), 0o600))

	t.Setenv("SKILLMATCH_TEST_SECRET", " from-env ")

	tests := []struct {
		name    string
		src     Source
		want    string
		wantErr string
	}{
		{
			name: "file takes precedence",
			src:  Source{Name: "api key", File: keyFile, Env: "SKILLMATCH_TEST_SECRET", Value: "inline"},
			want: "from-file",
		},
		{
			name: "env before inline value",
			src:  Source{Env: "SKILLMATCH_TEST_SECRET", Value: "inline"},
			want: "from-env",
		},
		{
			name: "unset env falls back to value",
			src:  Source{Env: "SKILLMATCH_TEST_UNSET", Value: " inline "},
			want: "inline",
		},
		{
			name:    "missing file",
			src:     Source{Name: "api key", File: filepath.Join(dir, "nope")},
			wantErr: `reading api key from file`,
		},
		{
			name:    "empty file",
			src:     Source{Name: "api key", File: emptyFile},
			wantErr: "is empty",
		},
		{
			name:    "nothing configured",
			src:     Source{},
			wantErr: "secret is not configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.src)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

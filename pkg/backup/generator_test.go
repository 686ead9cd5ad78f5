package backup_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardrobe-project/wardrobe/pkg/backup"
)

func TestPullCompleteHost_Generate(t *testing.T) {
	gen, err := backup.NewPullCompleteHost("/var/backup/data", "")
	require.NoError(t, err)

	src, dst := gen.Generate("a.example.de")

	s, err := src.Render()
	require.NoError(t, err)
	assert.Equal(t, "a.example.de::/", s)

	d, err := dst.Render()
	require.NoError(t, err)
	assert.Equal(t, "/var/backup/data/a.example.de", d)
}

func TestPullCompleteHost_GenerateWithUser(t *testing.T) {
	gen, err := backup.NewPullCompleteHost("/var/backup", "backup")
	require.NoError(t, err)

	src, _ := gen.Generate("db1")
	s, err := src.Render()
	require.NoError(t, err)
	assert.Equal(t, "backup@db1::/", s)
}

func TestPullCompleteHost_SubstitutesDisallowedCharacters(t *testing.T) {
	gen, err := backup.NewPullCompleteHost("/var/backup", "")
	require.NoError(t, err)

	tests := []struct {
		host string
		want string
	}{
		{"a.example.de", "/var/backup/a.example.de"},
		{"host with spaces", "/var/backup/host_with_spaces"},
		{"user@host", "/var/backup/user_host"},
		{"a:b/c", "/var/backup/a_b_c"},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			_, dst := gen.Generate(tt.host)
			d, err := dst.Render()
			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
		})
	}
}

func TestPullCompleteHost_CustomPatternAndSubstitute(t *testing.T) {
	gen, err := backup.NewPullCompleteHost("/var/backup", "")
	require.NoError(t, err)
	require.NoError(t, gen.SetPattern(`\.`))
	gen.SetSubstitute("-")

	_, dst := gen.Generate("a.example.de")
	d, err := dst.Render()
	require.NoError(t, err)
	assert.Equal(t, "/var/backup/a-example-de", d)

	assert.Error(t, gen.SetPattern("["), "invalid expressions are rejected")
}

func TestPullCompleteHost_RelativeBasedirQualified(t *testing.T) {
	gen, err := backup.NewPullCompleteHost("backups", "")
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "backups"), gen.Basedir())
}

func TestPullCompleteHost_NormalizesHostForDirectory(t *testing.T) {
	gen, err := backup.NewPullCompleteHost("/var/backup", "")
	require.NoError(t, err)

	// Decomposed and precomposed spellings of the same name must land in
	// the same directory.
	_, d1 := gen.Generate("münchen")
	_, d2 := gen.Generate("münchen")

	r1, err := d1.Render()
	require.NoError(t, err)
	r2, err := d2.Render()
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}

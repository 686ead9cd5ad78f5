package backup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardrobe-project/wardrobe/pkg/backup"
	"github.com/wardrobe-project/wardrobe/pkg/errclass"
)

func TestPlace_Render(t *testing.T) {
	tests := []struct {
		name    string
		place   *backup.Place
		want    string
		wantErr bool
	}{
		{"directory only", backup.NewPlace("/x", "", ""), "/x", false},
		{"host only uses default directory", backup.NewPlace("", "h", ""), "h::/", false},
		{"host and directory", backup.NewPlace("/x", "h", ""), "h::/x", false},
		{"user host directory", backup.NewPlace("/x", "h", "u"), "u@h::/x", false},
		{"user and host default directory", backup.NewPlace("", "h", "u"), "u@h::/", false},
		{"user without host", backup.NewPlace("", "", "u"), "", true},
		{"user and directory without host", backup.NewPlace("/x", "", "u"), "", true},
		{"nothing set", backup.NewPlace("", "", ""), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.place.Render()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errclass.ErrSettingCombination)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlace_FieldsAssignableIndependently(t *testing.T) {
	// Invalid combinations are legal to hold; only rendering rejects them.
	p := &backup.Place{}
	p.User = "u"
	_, err := p.Render()
	require.ErrorIs(t, err, errclass.ErrSettingCombination)

	p.Host = "h"
	got, err := p.Render()
	require.NoError(t, err)
	assert.Equal(t, "u@h::/", got)
}

func TestPlace_String(t *testing.T) {
	assert.Equal(t, "h::/x", backup.NewPlace("/x", "h", "").String())
	assert.Equal(t, "<unset>", (&backup.Place{}).String())
}

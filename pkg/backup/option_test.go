package backup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardrobe-project/wardrobe/pkg/backup"
	"github.com/wardrobe-project/wardrobe/pkg/errclass"
)

func TestOption_StringRendering(t *testing.T) {
	o := backup.NewOption(backup.Spec{Name: "tempdir", Kind: backup.KindString})

	assert.Empty(t, o.Tokens(), "absent string renders nothing")

	require.NoError(t, o.SetValue("/var/tmp"))
	assert.Equal(t, []string{"--tempdir", "/var/tmp"}, o.Tokens())

	require.NoError(t, o.SetValue(nil))
	assert.Empty(t, o.Tokens(), "nil clears the value")
}

func TestOption_IntRendering(t *testing.T) {
	o := backup.NewOption(backup.Spec{Name: "verbosity", Kind: backup.KindInt})

	assert.Empty(t, o.Tokens())

	require.NoError(t, o.SetValue(5))
	assert.Equal(t, []string{"--verbosity", "5"}, o.Tokens())

	require.NoError(t, o.SetValue(0))
	assert.Equal(t, []string{"--verbosity", "0"}, o.Tokens(), "zero is a real value, not absence")
}

func TestOption_BoolRendering(t *testing.T) {
	tests := []struct {
		name       string
		spec       backup.Spec
		value      bool
		wantTokens []string
	}{
		{
			name:       "default-false flag left at default",
			spec:       backup.Spec{Name: "force", Kind: backup.KindBool, BoolDefault: false},
			value:      false,
			wantTokens: nil,
		},
		{
			name:       "default-false flag enabled",
			spec:       backup.Spec{Name: "force", Kind: backup.KindBool, BoolDefault: false},
			value:      true,
			wantTokens: []string{"--force"},
		},
		{
			name:       "default-true flag left at default",
			spec:       backup.Spec{Name: "no-acls", Kind: backup.KindBool, BoolDefault: true},
			value:      true,
			wantTokens: nil,
		},
		{
			name:       "default-true flag disabled",
			spec:       backup.Spec{Name: "no-acls", Kind: backup.KindBool, BoolDefault: true},
			value:      false,
			wantTokens: []string{"--no-acls"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := backup.NewOption(tt.spec)
			require.NoError(t, o.SetValue(tt.value))
			assert.Equal(t, tt.wantTokens, o.Tokens())
		})
	}
}

func TestOption_TernaryRendering(t *testing.T) {
	o := backup.NewOption(backup.Spec{Name: "carbonfile", Kind: backup.KindTernary})

	// Exactly three cases: unknown, true, false.
	assert.Empty(t, o.Tokens())

	require.NoError(t, o.SetValue(true))
	assert.Equal(t, []string{"--carbonfile"}, o.Tokens())

	require.NoError(t, o.SetValue(false))
	assert.Equal(t, []string{"--no-carbonfile"}, o.Tokens())

	require.NoError(t, o.SetValue(nil))
	assert.Empty(t, o.Tokens())

	require.NoError(t, o.SetValue(backup.TernaryTrue))
	assert.Equal(t, []string{"--carbonfile"}, o.Tokens())
}

func TestOption_SetValueTypeMismatch(t *testing.T) {
	tests := []struct {
		name  string
		spec  backup.Spec
		value any
	}{
		{"int for string", backup.Spec{Name: "tempdir", Kind: backup.KindString}, 7},
		{"string for int", backup.Spec{Name: "verbosity", Kind: backup.KindInt}, "5"},
		{"nil for bool", backup.Spec{Name: "force", Kind: backup.KindBool}, nil},
		{"string for bool", backup.Spec{Name: "force", Kind: backup.KindBool}, "true"},
		{"string for ternary", backup.Spec{Name: "carbonfile", Kind: backup.KindTernary}, "yes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := backup.NewOption(tt.spec)
			err := o.SetValue(tt.value)
			require.Error(t, err)
			assert.ErrorIs(t, err, errclass.ErrTypeMismatch)
		})
	}
}

func TestOption_Default(t *testing.T) {
	o := backup.NewOption(backup.Spec{Name: "no-compression", Kind: backup.KindBool, BoolDefault: true})
	require.NoError(t, o.SetValue(false))
	require.Equal(t, []string{"--no-compression"}, o.Tokens())

	o.Default()
	assert.Empty(t, o.Tokens())
	assert.Equal(t, true, o.Value())

	s := backup.NewOption(backup.Spec{Name: "remote-schema", Kind: backup.KindString})
	require.NoError(t, s.SetValue("ssh -C %s rdiff-backup --server"))
	s.Default()
	assert.Nil(t, s.Value())
}

func TestSpec_PropertyName(t *testing.T) {
	tests := []struct {
		name string
		spec backup.Spec
		want string
	}{
		{"plain bool", backup.Spec{Name: "force", Kind: backup.KindBool}, "force"},
		{"dashed bool", backup.Spec{Name: "create-full-path", Kind: backup.KindBool}, "createfullpath"},
		{"negated bool drops no-", backup.Spec{Name: "no-acls", Kind: backup.KindBool, BoolDefault: true}, "acls"},
		{"inner no- dropped too", backup.Spec{Name: "ssh-no-compression", Kind: backup.KindBool, BoolDefault: true}, "sshcompression"},
		{"ternary", backup.Spec{Name: "carbonfile", Kind: backup.KindTernary}, "carbonfile"},
		{"string keeps no-", backup.Spec{Name: "no-compression-regexp", Kind: backup.KindString}, "nocompressionregexp"},
		{"int", backup.Spec{Name: "terminal-verbosity", Kind: backup.KindInt}, "terminalverbosity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.spec.PropertyName())
		})
	}
}

func TestCatalog_PropertiesAreUniqueAndResolvable(t *testing.T) {
	seen := map[string]string{}
	for _, spec := range backup.Catalog {
		prop := spec.PropertyName()
		prev, dup := seen[prop]
		require.False(t, dup, "property %q claimed by %q and %q", prop, prev, spec.Name)
		seen[prop] = spec.Name

		byProp, ok := backup.SpecByProperty(prop)
		require.True(t, ok)
		assert.Equal(t, spec.Name, byProp.Name)

		byName, ok := backup.SpecByName(spec.Name)
		require.True(t, ok)
		assert.Equal(t, spec.Kind, byName.Kind)
	}
	assert.Len(t, seen, 23)
}

func TestCatalog_UnknownLookups(t *testing.T) {
	_, ok := backup.SpecByProperty("nosuchoption")
	assert.False(t, ok)
	_, ok = backup.SpecByName("no-such-option")
	assert.False(t, ok)
}

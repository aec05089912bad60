package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTemp(t *testing.T, overrides Settings) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), FileName)
	_, err := Init(p, overrides)
	require.NoError(t, err)
	return p
}

func TestInit_DefaultsOnFirstRun(t *testing.T) {
	initTemp(t, Settings{})

	assert.Equal(t, Settings{Language: LanguageChinese, Theme: ThemeLight}, Current())
}

func TestInit_OverridesAreNotPersisted(t *testing.T) {
	p := initTemp(t, Settings{Language: "EN"})

	assert.Equal(t, LanguageEnglish, Current().Language)
	_, err := os.Stat(p)
	assert.True(t, os.IsNotExist(err))
}

func TestInit_RejectsInvalidOverride(t *testing.T) {
	_, err := Init(filepath.Join(t.TempDir(), FileName), Settings{Theme: "neon"})
	assert.Error(t, err)
}

func TestSetLanguage_Persists(t *testing.T) {
	p := initTemp(t, Settings{})

	settings, err := SetLanguage("en")
	require.NoError(t, err)
	assert.Equal(t, LanguageEnglish, settings.Language)

	loaded, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, LanguageEnglish, loaded.Language)
	assert.Equal(t, ThemeLight, loaded.Theme)
}

func TestSetLanguage_Invalid(t *testing.T) {
	initTemp(t, Settings{})

	_, err := SetLanguage("fr")
	assert.Error(t, err)
	assert.Equal(t, LanguageChinese, Current().Language)
}

func TestThemeChanges(t *testing.T) {
	p := initTemp(t, Settings{})

	settings, err := ToggleTheme()
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, settings.Theme)

	settings, err = ToggleTheme()
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, settings.Theme)

	_, err = SetTheme("dark")
	require.NoError(t, err)
	loaded, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, loaded.Theme)

	_, err = SetTheme("sepia")
	assert.Error(t, err)
	assert.Equal(t, ThemeDark, Current().Theme)
}

func TestLoad_IgnoresUnknownValues(t *testing.T) {
	p := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(p, []byte("language: klingon\ntheme: dark\nextra: 1\n"), 0o644))

	settings, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, LanguageChinese, settings.Language)
	assert.Equal(t, ThemeDark, settings.Theme)
}

func TestLoad_Malformed(t *testing.T) {
	p := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(p, []byte("language: [unterminated"), 0o644))

	_, err := Load(p)
	assert.Error(t, err)
}

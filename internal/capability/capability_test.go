package capability

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/scanner-cli-go/internal/errors"
	"github.com/wagiedev/scanner-cli-go/internal/version"
)

type staticVersions struct {
	info *version.Info
	err  error
}

func (s staticVersions) Get(context.Context) (*version.Info, error) {
	return s.info, s.err
}

func gateFor(v string, features map[string]bool, platform Platform) *Gate {
	return NewGate(staticVersions{info: &version.Info{Version: v, Features: features}}, platform)
}

func TestSupports_StrictlyGreaterThanMinimum(t *testing.T) {
	ctx := context.Background()

	supported, err := gateFor("2.11.6", nil, Platform{}).Supports(ctx, LanguageBaselineConfig)
	require.NoError(t, err)
	require.False(t, supported)

	supported, err = gateFor("2.11.7", nil, Platform{}).Supports(ctx, LanguageBaselineConfig)
	require.NoError(t, err)
	require.True(t, supported)
}

func TestSupports_FeatureFlagWins(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		version  string
		features map[string]bool
		want     bool
	}{
		{"flag true on old version", "2.10.0", map[string]bool{"buildModeOption": true}, true},
		{"flag false on new version", "2.20.0", map[string]bool{"buildModeOption": false}, false},
		{"no flag falls back to version", "2.20.0", map[string]bool{"other": true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			supported, err := gateFor(tt.version, tt.features, Platform{}).Supports(ctx, BuildModeOption)
			require.NoError(t, err)
			require.Equal(t, tt.want, supported)
		})
	}
}

func TestSupports_FeatureOnly(t *testing.T) {
	ctx := context.Background()

	supported, err := gateFor("9.9.9", nil, Platform{}).Supports(ctx, ForceOverwrite)
	require.NoError(t, err)
	require.False(t, supported)

	supported, err = gateFor("2.10.5", map[string]bool{"forceOverwrite": true}, Platform{}).Supports(ctx, ForceOverwrite)
	require.NoError(t, err)
	require.True(t, supported)
}

func TestSupports_UnknownTokenFailsFast(t *testing.T) {
	_, err := gateFor("2.15.0", nil, Platform{}).Supports(context.Background(), Token("noSuchThing"))
	require.ErrorIs(t, err, errors.ErrUnknownCapability)
}

func TestSupports_DeclaredUnregisteredFeature(t *testing.T) {
	supported, err := gateFor("2.15.0", map[string]bool{"experimental": true}, Platform{}).
		Supports(context.Background(), Token("experimental"))
	require.NoError(t, err)
	require.True(t, supported)
}

func TestSupports_VersionError(t *testing.T) {
	root := stderrors.New("exit status 1")
	gate := NewGate(staticVersions{err: root}, Platform{})

	_, err := gate.Supports(context.Background(), BuildModeOption)
	require.ErrorIs(t, err, root)
}

func TestSupportsOnPlatform(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		version  string
		platform Platform
		want     bool
	}{
		{"dotcom with new CLI", "2.16.0", Platform{Kind: PlatformDotcom}, true},
		{"old CLI on dotcom", "2.15.1", Platform{Kind: PlatformDotcom}, false},
		{"enterprise at platform minimum", "2.16.0", Platform{Kind: PlatformEnterprise, Version: "3.11"}, false},
		{"enterprise above platform minimum", "2.16.0", Platform{Kind: PlatformEnterprise, Version: "3.12.1"}, true},
		{"enterprise development build", "2.16.0", Platform{Kind: PlatformEnterprise}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			supported, err := gateFor(tt.version, nil, tt.platform).SupportsOnPlatform(ctx, SublanguageFileCoverage)
			require.NoError(t, err)
			require.Equal(t, tt.want, supported)
		})
	}
}

func TestSupportsOnPlatform_TokenWithoutPlatformMinimum(t *testing.T) {
	supported, err := gateFor("2.16.0", nil, Platform{Kind: PlatformEnterprise, Version: "3.0"}).
		SupportsOnPlatform(context.Background(), BuildModeOption)
	require.NoError(t, err)
	require.True(t, supported)
}

func TestEveryTokenIsRegistered(t *testing.T) {
	for _, tok := range Tokens() {
		_, ok := MinimumVersion(tok)
		require.True(t, ok, "token %q", tok)
	}

	require.Len(t, minimumVersions, len(Tokens()))
}

func TestApply(t *testing.T) {
	rules := []Rule{
		{Token: LanguageBaselineConfig, Flag: "--calculate-language-specific-baselines"},
		{Token: BuildModeOption, Flag: "--build-mode=${mode}"},
		{Token: SublanguageFileCoverage, Flag: "--sublanguage-file-coverage", Otherwise: "--no-sublanguage-file-coverage", OnPlatform: true},
		{Token: ForceOverwrite, Flag: "--force-overwrite", Otherwise: "--overwrite"},
	}

	t.Run("new CLI", func(t *testing.T) {
		gate := gateFor("2.16.0", map[string]bool{"forceOverwrite": true}, Platform{Kind: PlatformDotcom})

		flags, err := gate.Apply(context.Background(), rules, map[string]string{"mode": "none"})
		require.NoError(t, err)
		require.Equal(t, []string{
			"--calculate-language-specific-baselines",
			"--build-mode=none",
			"--sublanguage-file-coverage",
			"--force-overwrite",
		}, flags)
	})

	t.Run("missing variable suppresses flag", func(t *testing.T) {
		gate := gateFor("2.16.0", nil, Platform{Kind: PlatformEnterprise, Version: "3.10"})

		flags, err := gate.Apply(context.Background(), rules, nil)
		require.NoError(t, err)
		require.Equal(t, []string{
			"--calculate-language-specific-baselines",
			"--no-sublanguage-file-coverage",
			"--overwrite",
		}, flags)
	})

	t.Run("old CLI", func(t *testing.T) {
		gate := gateFor("2.11.6", nil, Platform{})

		flags, err := gate.Apply(context.Background(), rules, map[string]string{"mode": "none"})
		require.NoError(t, err)
		require.Equal(t, []string{"--no-sublanguage-file-coverage", "--overwrite"}, flags)
	})

	t.Run("unknown token", func(t *testing.T) {
		gate := gateFor("2.16.0", nil, Platform{})

		_, err := gate.Apply(context.Background(), []Rule{{Token: "bogus", Flag: "--bogus"}}, nil)
		require.ErrorIs(t, err, errors.ErrUnknownCapability)
	})
}

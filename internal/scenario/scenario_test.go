package scenario

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvandessel/leverage/internal/config"
	"github.com/nvandessel/leverage/internal/constants"
	"github.com/nvandessel/leverage/internal/network"
)

func defaults() config.SimulationConfig {
	return config.Default().Simulation
}

func TestLoad_Baseline(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "baseline.yaml"), defaults())
	require.NoError(t, err)

	assert.Equal(t, "baseline", sc.Name)
	assert.Equal(t, constants.ModeSimulate, sc.Mode)
	assert.Equal(t, defaults().Stakes, sc.Stakes)

	s, err := sc.Solver(network.WithRunIDFunc(func() string { return "r" }))
	require.NoError(t, err)
	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Equal(t, 4, res.Iterations)
}

func TestLoad_PartialOverridesKeepDefaults(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "zero_doubt.yaml"), defaults())
	require.NoError(t, err)

	assert.Equal(t, constants.ModeSimulate, sc.Mode)
	assert.Equal(t, 0.0, sc.Stakes.XD)
	assert.Equal(t, 0.0, sc.Stakes.ZD)
	assert.Equal(t, 10.0, sc.Stakes.QK)
	assert.Equal(t, 10, sc.MaxIterations)

	s, err := sc.Solver()
	require.NoError(t, err)
	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Equal(t, 10, res.Iterations)
}

func TestLoad_Explore(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "explore.yaml"), defaults())
	require.NoError(t, err)
	require.Equal(t, constants.ModeExplore, sc.Mode)

	res, err := sc.RunExplore()
	require.NoError(t, err)
	assert.InDelta(t, 2.625, res.QS, 1e-12)

	_, err = sc.Solver()
	assert.Error(t, err)
}

func TestLoad_UnknownKey(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "typo.yaml"), defaults())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "qk")
}

func TestLoad_InvalidBounds(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "invalid_bounds.yaml"), defaults())
	require.NoError(t, err)

	err = sc.Validate()
	var ce *network.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "x_d", ce.Field)

	_, err = sc.Solver()
	assert.ErrorIs(t, err, network.ErrConfiguration)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "absent.yaml"), defaults())
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
		check   func(t *testing.T, sc *Scenario)
	}{
		{
			name: "empty document uses defaults",
			yaml: "",
			check: func(t *testing.T, sc *Scenario) {
				assert.Equal(t, constants.ModeSimulate, sc.Mode)
				assert.Equal(t, defaults().Constants, sc.Constants)
				assert.Equal(t, constants.DefaultExploreZS, sc.Explore.ZS)
			},
		},
		{
			name: "constants and bounds",
			yaml: "constants:\n  a_const: 1\n  v_const: 2\nmax_iterations: 3\nconvergence_threshold: 0\n",
			check: func(t *testing.T, sc *Scenario) {
				assert.Equal(t, 1.0, sc.Constants.A)
				assert.Equal(t, 2.0, sc.Constants.V)
				assert.Equal(t, 1.0, sc.Constants.K)
				assert.Equal(t, network.Config{MaxIterations: 3}, sc.SolverConfig())
			},
		},
		{
			name:    "invalid mode",
			yaml:    "mode: sideways\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			yaml:    "stakes: [1, 2",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := Parse([]byte(tt.yaml), defaults())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, sc)
		})
	}
}

func TestFromConfig_ExploreMirrorsStakes(t *testing.T) {
	sim := defaults()
	sim.Stakes.QK = 20

	sc := FromConfig(sim)
	assert.Equal(t, 20.0, sc.Explore.QK)
	assert.Equal(t, sim.Stakes.XD, sc.Explore.XD)
	assert.NoError(t, sc.Validate())
}

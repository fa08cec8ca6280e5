/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils_test.go
Description: Tests for command helpers: input parsing and logging setup from configuration.
*/

package commands

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInputs(t *testing.T) {
	inputs, err := parseInputs([]string{"Temp=75", " Humidity = 0.5 ", "Offset=-2.5e1"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Temp": 75, "Humidity": 0.5, "Offset": -25}, inputs)
	assert.Equal(t, "Humidity=0.5 Offset=-25 Temp=75", formatInputs(inputs))

	empty, err := parseInputs(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, bad := range [][]string{
		{"Temp"},
		{"=5"},
		{"Temp=hot"},
		{"Temp=1", "Temp=2"},
	} {
		_, err := parseInputs(bad)
		assert.Error(t, err, "%v", bad)
	}
}

func TestSetupLogging(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("log_level", "DEBUG")
	viper.Set("log_format", "custom")
	viper.Set("json_logs", true)

	logger, err := SetupLogging()
	require.NoError(t, err)
	defer logger.Close()
	assert.Equal(t, "debug", logger.GetLogger().GetLevel().String())
	assert.Empty(t, logger.FilePath())

	viper.Set("log_level", "chatty")
	_, err = SetupLogging()
	assert.Error(t, err)
}

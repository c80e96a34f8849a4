package utils_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Rohan-1103/covidx/pkg/utils"
)

func TestEnv(t *testing.T) {
	require.Equal(t, "fallback", utils.Env("COVIDX_TEST_UNSET", "fallback"))

	t.Setenv("COVIDX_TEST_SET", "value")
	require.Equal(t, "value", utils.Env("COVIDX_TEST_SET", "fallback"))
}

func TestEnvInt(t *testing.T) {
	require.Equal(t, 7, utils.EnvInt("COVIDX_TEST_UNSET", 7))

	t.Setenv("COVIDX_TEST_INT", "12")
	require.Equal(t, 12, utils.EnvInt("COVIDX_TEST_INT", 7))

	t.Setenv("COVIDX_TEST_INT", "not-a-number")
	require.Equal(t, 7, utils.EnvInt("COVIDX_TEST_INT", 7))

	t.Setenv("COVIDX_TEST_INT", "-3")
	require.Equal(t, 7, utils.EnvInt("COVIDX_TEST_INT", 7))
}

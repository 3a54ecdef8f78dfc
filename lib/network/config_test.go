package network

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"boscoin.io/ballotbox/lib/common"
)

func TestHTTPServerConfigFromEndpoint(t *testing.T) {
	{
		endpoint, err := common.ParseEndpoint("http://localhost:8080?IdleTimeout=3s&WriteTimeout=1m&NodeName=n0&HTTPLogOutput=-")
		require.NoError(t, err)

		config, err := NewHTTPServerConfigFromEndpoint(endpoint)
		require.NoError(t, err)
		require.Equal(t, "localhost:8080", config.Addr)
		require.Equal(t, "n0", config.NodeName)
		require.Equal(t, 3*time.Second, config.IdleTimeout)
		require.Equal(t, time.Minute, config.WriteTimeout)
		require.Equal(t, time.Duration(0), config.ReadTimeout)
		require.Equal(t, os.Stdout, config.HTTPLogOutput)
		require.False(t, config.IsHTTPS())
	}

	{ // default idle timeout
		endpoint, err := common.ParseEndpoint("http://localhost:8080")
		require.NoError(t, err)

		config, err := NewHTTPServerConfigFromEndpoint(endpoint)
		require.NoError(t, err)
		require.Equal(t, 5*time.Second, config.IdleTimeout)
		require.Equal(t, "ballotbox", config.NodeName)
		require.Nil(t, config.HTTPLogOutput)
	}

	{ // https without tls files
		endpoint, err := common.ParseEndpoint("https://localhost:8080")
		require.NoError(t, err)

		_, err = NewHTTPServerConfigFromEndpoint(endpoint)
		require.Error(t, err)
	}

	{ // https
		endpoint, err := common.ParseEndpoint("https://localhost:8080?TLSCertFile=a.crt&TLSKeyFile=a.key")
		require.NoError(t, err)

		config, err := NewHTTPServerConfigFromEndpoint(endpoint)
		require.NoError(t, err)
		require.True(t, config.IsHTTPS())
		require.Equal(t, "a.crt", config.TLSCertFile)
	}

	{ // invalid timeout
		endpoint, err := common.ParseEndpoint("http://localhost:8080?ReadTimeout=-1s")
		require.NoError(t, err)

		_, err = NewHTTPServerConfigFromEndpoint(endpoint)
		require.Error(t, err)

		endpoint, err = common.ParseEndpoint("http://localhost:8080?ReadTimeout=showme")
		require.NoError(t, err)

		_, err = NewHTTPServerConfigFromEndpoint(endpoint)
		require.Error(t, err)
	}
}

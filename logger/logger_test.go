package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"
	c "ticketing-marketplace-backend/context"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorfCarriesCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	require.Nil(t, Configure("debug", true))
	defer func() {
		SetOutput(os.Stdout)
		require.Nil(t, Configure("info", false))
	}()

	ctx := c.NewContext("corr-1")
	Errorf(ctx, "line one\nline %d", 2)

	var line map[string]interface{}
	require.Nil(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "corr-1", line[CorrelationId])
	assert.Equal(t, "line one\\n line 2", line["msg"])
	assert.Equal(t, "error", line["level"])
}

func TestConfigureRejectsUnknownLevel(t *testing.T) {
	assert.NotNil(t, Configure("loud", false))
	assert.Nil(t, Configure("", false))
}

func TestDebugfRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)
	require.Nil(t, Configure("info", false))

	Debugf(context.Background(), "hidden")
	assert.Empty(t, buf.String())
}

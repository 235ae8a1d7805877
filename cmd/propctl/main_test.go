package main

import (
	"testing"

	"github.com/go-slark/proptree/errors"
	"github.com/go-slark/proptree/logger"
	"github.com/stretchr/testify/assert"
)

func TestSetupLogger(t *testing.T) {
	defer logger.SetDefault(logger.Default())

	assert.NoError(t, setupLogger(""))
	assert.NoError(t, setupLogger("debug"))

	err := setupLogger("loud")
	assert.True(t, errors.IsConfiguration(err))
	assert.Equal(t, "loud", errors.Meta(err, errors.MetaValue))
}

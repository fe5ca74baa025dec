package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionCmd_HasShort(t *testing.T) {
	assert.Contains(t, versionCmd.Short, "version")
}

func TestVersionVariables(t *testing.T) {
	assert.NotEmpty(t, version)
	assert.NotEmpty(t, commit)
	assert.NotEmpty(t, date)
}

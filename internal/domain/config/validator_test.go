package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validManifest() *Manifest {
	return &Manifest{
		Bundle: Bundle{
			Version: "v1.6.0",
			URL:     "https://releases.example.com/stack-v1.6.0.tar.gz",
		},
		InstallDir: "/opt/stack",
		Services:   []Service{{Name: "gateway", Port: 8080}},
	}
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, Validate(validManifest()))
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Manifest)
		wantCode string
	}{
		{
			"missing version",
			func(m *Manifest) { m.Bundle.Version = "" },
			ErrCodeConfigInvalid,
		},
		{
			"version without v prefix",
			func(m *Manifest) { m.Bundle.Version = "1.6.0" },
			ErrCodeBundleInvalid,
		},
		{
			"missing url",
			func(m *Manifest) { m.Bundle.URL = "" },
			ErrCodeConfigInvalid,
		},
		{
			"non-http url",
			func(m *Manifest) { m.Bundle.URL = "ftp://releases.example.com/x.tar.gz" },
			ErrCodeBundleInvalid,
		},
		{
			"short checksum",
			func(m *Manifest) { m.Bundle.Checksum = "abc123" },
			ErrCodeBundleInvalid,
		},
		{
			"non-hex checksum",
			func(m *Manifest) {
				m.Bundle.Checksum = "zz86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"
			},
			ErrCodeBundleInvalid,
		},
		{
			"no services",
			func(m *Manifest) { m.Services = nil },
			ErrCodeConfigInvalid,
		},
		{
			"unnamed service",
			func(m *Manifest) { m.Services = []Service{{Port: 80}} },
			ErrCodeServiceInvalid,
		},
		{
			"duplicate service",
			func(m *Manifest) {
				m.Services = []Service{{Name: "gateway"}, {Name: "gateway"}}
			},
			ErrCodeServiceInvalid,
		},
		{
			"port out of range",
			func(m *Manifest) { m.Services = []Service{{Name: "gateway", Port: 70000}} },
			ErrCodeServiceInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validManifest()
			tt.mutate(m)

			err := Validate(m)
			require.Error(t, err)

			var userErr *UserError
			require.True(t, errors.As(err, &userErr))
			assert.Equal(t, tt.wantCode, userErr.Code)
			assert.NotEmpty(t, userErr.Suggestion)
		})
	}
}

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommands(t *testing.T) {
	root := rootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"serve", "migrate", "export", "alerts", "history", "users"} {
		assert.Contains(t, names, want)
	}
}

func TestArgumentErrorsBeforeConfig(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown export kind", []string{"export", "suppliers"}, `invalid argument "suppliers"`},
		{"export without kind", []string{"export"}, "accepts 1 arg(s)"},
		{"unknown history entity", []string{"history", "pallet", "1"}, `unknown entity "pallet"`},
		{"bad history id", []string{"history", "order", "x"}, `invalid id "x"`},
		{"bad role", []string{"users", "add", "a@b.co", "--role", "owner"}, `invalid role "owner"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := rootCmd()
			root.SetArgs(append(tt.args, "--config", "does-not-exist.yaml"))
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})

			err := root.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRenderCmd(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr string
	}{
		{
			name: "default template",
			args: []string{"--red", "10", "--green", "20", "--blue", "30"},
			want: "rgb(10, 20, 30)\n",
		},
		{
			name: "custom template",
			args: []string{"--template", "rgba({red},{green},{blue},0.5)", "--red", "0", "--green", "0", "--blue", "255"},
			want: "rgba(0,0,255,0.5)\n",
		},
		{
			name: "repeated placeholders",
			args: []string{"--template", "{red}{red} {green} {blue}", "--red", "1", "--green", "2", "--blue", "3"},
			want: "11 2 3\n",
		},
		{
			name:    "value above range",
			args:    []string{"--red", "256", "--green", "0", "--blue", "0"},
			wantErr: "red must be between 0 and 255",
		},
		{
			name:    "negative value",
			args:    []string{"--red", "0", "--green=-1", "--blue", "0"},
			wantErr: "green must be between 0 and 255",
		},
		{
			name:    "template without placeholders",
			args:    []string{"--template", "rgb({red}, {green})", "--red", "1", "--green", "2", "--blue", "3"},
			wantErr: "must contain",
		},
		{
			name:    "missing component flag",
			args:    []string{"--red", "1", "--green", "2"},
			wantErr: "blue",
		},
		{
			name:    "unknown format",
			args:    []string{"--red", "1", "--green", "2", "--blue", "3", "--format", "xml"},
			wantErr: "unknown output format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runRoot(t, append([]string{"--log-level", "error", "render"}, tt.args...)...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRenderCmd_StructuredOutput(t *testing.T) {
	out, err := runRoot(t, "--log-level", "error", "render",
		"--red", "1", "--green", "2", "--blue", "3", "--format", "yaml")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "rgb(1, 2, 3)", got["css"])
	assert.Equal(t, "rgb({red}, {green}, {blue})", got["template"])
	assert.Equal(t, 1, got["red"])
	assert.Equal(t, 3, got["blue"])

	out, err = runRoot(t, "--log-level", "error", "render",
		"--red", "1", "--green", "2", "--blue", "3", "--format", "json")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, `"css": "rgb(1, 2, 3)"`), out)
}

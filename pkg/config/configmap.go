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

package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/NVIDIA/rgb-relay/pkg/errors"
	"github.com/NVIDIA/rgb-relay/pkg/k8s/client"
)

// ConfigMapURIScheme prefixes ConfigMap sources.
const ConfigMapURIScheme = "cm://"

// ConfigMapKey is the data key holding the configuration document.
const ConfigMapKey = "config.yaml"

// kubeClient is replaced in tests.
var kubeClient = func() (client.Interface, error) {
	c, _, err := client.GetKubeClient()
	return c, err
}

// IsConfigMapURI reports whether source uses the cm:// scheme.
func IsConfigMapURI(source string) bool {
	return strings.HasPrefix(source, ConfigMapURIScheme)
}

// ParseConfigMapURI splits cm://namespace/name.
func ParseConfigMapURI(uri string) (namespace, name string, err error) {
	if !IsConfigMapURI(uri) {
		return "", "", fmt.Errorf("invalid ConfigMap URI %q: must start with %s", uri, ConfigMapURIScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, ConfigMapURIScheme), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid ConfigMap URI %q: expected %snamespace/name", uri, ConfigMapURIScheme)
	}

	return parts[0], parts[1], nil
}

func readConfigMap(ctx context.Context, uri string) ([]byte, error) {
	namespace, name, err := ParseConfigMapURI(uri)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid config source", err)
	}

	c, err := kubeClient()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "failed to get kubernetes client", err)
	}

	data, err := client.ReadConfigMapKey(ctx, c, namespace, name, ConfigMapKey)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeNotFound, "failed to read config from ConfigMap", err,
			map[string]any{"namespace": namespace, "name": name})
	}
	return data, nil
}
